package protodeser

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// DecodeMessage performs a structural decode of body against the given
// descriptor, producing a dynamic message whose fields are introspectable by
// name or number through protobuf reflection.
//
// Unknown fields present in body but absent from the descriptor are retained
// on the message, so payloads written against a newer schema revision
// round-trip losslessly. The decode is all-or-nothing: on error no partial
// message is returned.
func DecodeMessage(desc protoreflect.MessageDescriptor, body []byte) (*dynamicpb.Message, error) {
	if desc == nil {
		return nil, ErrNoDescriptor
	}

	msg := dynamicpb.NewMessage(desc)
	if err := proto.Unmarshal(body, msg); err != nil {
		return nil, fmt.Errorf("decoding %s message body: %w", desc.FullName(), err)
	}
	return msg, nil
}
