// Package wire implements the Confluent wire format header used to tag
// Kafka payloads with their registry schema.
//
// A tagged payload starts with a magic byte (format version 0), a 4-byte
// big-endian schema id, and — for protobuf schemas — a varint-encoded path
// of message indexes selecting a nested message type within the schema.
// The remaining bytes are the serialized message body.
//
// ParseHeader and AppendHeader are pure functions over byte slices; they
// perform no allocation beyond the index path and never copy the message
// body.
//
// Basic Usage:
//
//	schemaID, indexes, body, err := wire.ParseHeader(record.Value)
//	if errors.Is(err, wire.ErrUnknownMagicByte) {
//	    // payload was not produced with registry framing
//	}
package wire
