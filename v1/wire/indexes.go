package wire

import (
	"encoding/binary"
	"fmt"
)

// MessageIndexes is the path of nested message declarations that selects a
// concrete message type within a schema. Each index points into the message
// declarations at one nesting level, starting at the file's top-level
// messages. An empty path denotes the first top-level message type.
//
// On the wire the path is encoded as a zigzag-varint count followed by that
// many zigzag-varint indexes.
type MessageIndexes []int

// ReadMessageIndexes decodes a message-index block from the start of buf.
// It returns the decoded path and the number of bytes consumed.
func ReadMessageIndexes(buf []byte) (MessageIndexes, int, error) {
	count, n := binary.Varint(buf)
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: truncated message index count", ErrInvalidPayloadSize)
	}
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative message index count %d", ErrInvalidPayloadSize, count)
	}
	// Each index occupies at least one byte, so a count exceeding the
	// remaining bytes cannot be satisfied. Checking before allocating keeps
	// a hostile count from forcing a huge allocation.
	if count > int64(len(buf)-n) {
		return nil, 0, fmt.Errorf("%w: message index count %d exceeds %d remaining bytes", ErrInvalidPayloadSize, count, len(buf)-n)
	}

	indexes := make(MessageIndexes, 0, count)
	offset := n
	for i := int64(0); i < count; i++ {
		index, n := binary.Varint(buf[offset:])
		if n <= 0 {
			return nil, 0, fmt.Errorf("%w: truncated message index %d of %d", ErrInvalidPayloadSize, i+1, count)
		}
		if index < 0 {
			return nil, 0, fmt.Errorf("%w: negative message index %d", ErrInvalidPayloadSize, index)
		}
		indexes = append(indexes, int(index))
		offset += n
	}

	return indexes, offset, nil
}

// AppendTo appends the wire encoding of the path to dst and returns the
// extended slice.
func (m MessageIndexes) AppendTo(dst []byte) []byte {
	dst = binary.AppendVarint(dst, int64(len(m)))
	for _, index := range m {
		dst = binary.AppendVarint(dst, int64(index))
	}
	return dst
}

// String renders the path for error messages and logs.
func (m MessageIndexes) String() string {
	return fmt.Sprintf("%v", []int(m))
}
