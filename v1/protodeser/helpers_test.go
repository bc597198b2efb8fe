package protodeser

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/streamhouse/protoserde/v1/wire"
)

// paymentFile builds a file descriptor declaring:
//
//	message Payment {
//	    string id = 1;
//	    double amount = 2;
//	    message Detail { string note = 1; }
//	}
//	message Refund { string id = 1; }
func paymentFile(t *testing.T) protoreflect.FileDescriptor {
	t.Helper()

	stringField := func(name string, number int32) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			Number:   proto.Int32(number),
			Type:     descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			JsonName: proto.String(name),
		}
	}

	fdp := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("payment.proto"),
		Package: proto.String("billing"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Payment"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("id", 1),
					{
						Name:     proto.String("amount"),
						Number:   proto.Int32(2),
						Type:     descriptorpb.FieldDescriptorProto_TYPE_DOUBLE.Enum(),
						Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
						JsonName: proto.String("amount"),
					},
				},
				NestedType: []*descriptorpb.DescriptorProto{
					{
						Name:  proto.String("Detail"),
						Field: []*descriptorpb.FieldDescriptorProto{stringField("note", 1)},
					},
				},
			},
			{
				Name:  proto.String("Refund"),
				Field: []*descriptorpb.FieldDescriptorProto{stringField("id", 1)},
			},
		},
	}

	file, err := protodesc.NewFile(fdp, nil)
	require.NoError(t, err)
	return file
}

// encodeMessage marshals a dynamic message of the given descriptor with the
// provided string/double field values.
func encodeMessage(t *testing.T, desc protoreflect.MessageDescriptor, fields map[string]interface{}) []byte {
	t.Helper()

	msg := dynamicpb.NewMessage(desc)
	for name, value := range fields {
		fd := desc.Fields().ByName(protoreflect.Name(name))
		require.NotNil(t, fd, "field %s", name)
		switch v := value.(type) {
		case string:
			msg.Set(fd, protoreflect.ValueOfString(v))
		case float64:
			msg.Set(fd, protoreflect.ValueOfFloat64(v))
		default:
			t.Fatalf("unsupported test field type %T", value)
		}
	}

	body, err := proto.Marshal(msg)
	require.NoError(t, err)
	return body
}

// buildPayload frames a message body in the wire format.
func buildPayload(schemaID int32, indexes wire.MessageIndexes, body []byte) []byte {
	return append(wire.AppendHeader(nil, schemaID, indexes), body...)
}

// fakeResolver is a counting SchemaResolver backed by a fixed file
// descriptor. An optional gate channel blocks resolutions until released,
// and err makes every resolution fail.
type fakeResolver struct {
	mu    sync.Mutex
	calls int

	file  protoreflect.FileDescriptor
	err   error
	gate  chan struct{}
	delay time.Duration
}

func (f *fakeResolver) Resolve(ctx context.Context, subject string, schemaID int32, indexes wire.MessageIndexes) (*SchemaHandle, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return NewSchemaHandle(f.file, indexes)
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
