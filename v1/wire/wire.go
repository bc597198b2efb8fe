package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MagicByte is the single leading byte identifying wire format version 0.
const MagicByte byte = 0x0

const (
	schemaIDSize = 4
	// headerSize is the fixed part of the header: magic byte + schema id.
	headerSize = 1 + schemaIDSize
)

// Common wire format errors
var (
	// ErrInvalidPayloadSize is returned when a payload is too short to
	// contain the wire format header, or its variable-length part is
	// truncated or malformed.
	ErrInvalidPayloadSize = errors.New("wire: invalid payload size")

	// ErrUnknownMagicByte is returned when a payload does not start with
	// the expected magic byte.
	ErrUnknownMagicByte = errors.New("wire: unknown magic byte")
)

// CheckHeader validates the fixed part of the header and returns the bytes
// following the magic byte. It fails if the payload is shorter than the
// minimum header or does not start with MagicByte.
func CheckHeader(payload []byte) ([]byte, error) {
	if len(payload) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidPayloadSize, len(payload), headerSize)
	}
	if payload[0] != MagicByte {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownMagicByte, payload[0])
	}
	return payload[1:], nil
}

// ReadSchemaID reads a 4-byte big-endian signed schema id from the start of
// buf and returns the id together with the remaining bytes.
func ReadSchemaID(buf []byte) (int32, []byte, error) {
	if len(buf) < schemaIDSize {
		return 0, nil, fmt.Errorf("%w: truncated schema id", ErrInvalidPayloadSize)
	}
	return int32(binary.BigEndian.Uint32(buf[:schemaIDSize])), buf[schemaIDSize:], nil
}

// ParseHeader splits a raw payload into its schema id, message-index path,
// and message body.
//
// The payload layout is:
//
//	[0]     magic byte (0x0)
//	[1..5)  schema id, 4-byte big-endian signed integer
//	[5..)   message-index block: varint count n, then n varint indexes
//	[..]    length-delimited protobuf message body
//
// The returned body is a sub-slice of payload; it is valid only as long as
// the caller keeps payload alive and unmodified. ParseHeader has no side
// effects and is safe for concurrent use.
func ParseHeader(payload []byte) (schemaID int32, indexes MessageIndexes, body []byte, err error) {
	rest, err := CheckHeader(payload)
	if err != nil {
		return 0, nil, nil, err
	}

	schemaID, rest, err = ReadSchemaID(rest)
	if err != nil {
		return 0, nil, nil, err
	}

	indexes, n, err := ReadMessageIndexes(rest)
	if err != nil {
		return 0, nil, nil, err
	}

	return schemaID, indexes, rest[n:], nil
}

// AppendHeader appends a wire format header for the given schema id and
// message-index path to dst and returns the extended slice. It is the
// encoding counterpart of ParseHeader; appending the protobuf message body
// to the result yields a complete payload.
func AppendHeader(dst []byte, schemaID int32, indexes MessageIndexes) []byte {
	dst = append(dst, MagicByte)
	dst = binary.BigEndian.AppendUint32(dst, uint32(schemaID))
	return indexes.AppendTo(dst)
}
