package protodeser

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamhouse/protoserde/v1/wire"
)

// SchemaHandle wraps a compiled schema together with the message-index path
// that selects the concrete message type a payload was encoded against.
// Handles are immutable once constructed and safe to share across decode
// calls.
type SchemaHandle struct {
	file    protoreflect.FileDescriptor
	indexes wire.MessageIndexes
	desc    protoreflect.MessageDescriptor
}

// NewSchemaHandle builds a handle from a compiled file descriptor and a
// message-index path. The target message descriptor is resolved eagerly, so
// a handle is always fully usable once it exists.
//
// An empty path selects the first top-level message type. Otherwise the
// first index selects a top-level message and each subsequent index selects
// a message declared inside the previous one.
func NewSchemaHandle(file protoreflect.FileDescriptor, indexes wire.MessageIndexes) (*SchemaHandle, error) {
	if file == nil {
		return nil, ErrNoDescriptor
	}

	messages := file.Messages()
	if messages.Len() == 0 {
		return nil, fmt.Errorf("schema %s declares no message types", file.Path())
	}

	var desc protoreflect.MessageDescriptor
	if len(indexes) == 0 {
		desc = messages.Get(0)
	} else {
		if indexes[0] >= messages.Len() {
			return nil, fmt.Errorf("message index %d out of range: schema %s declares %d top-level message types", indexes[0], file.Path(), messages.Len())
		}
		desc = messages.Get(indexes[0])
		for _, index := range indexes[1:] {
			nested := desc.Messages()
			if index >= nested.Len() {
				return nil, fmt.Errorf("message index path %s out of range: %s declares %d nested message types", indexes, desc.FullName(), nested.Len())
			}
			desc = nested.Get(index)
		}
	}

	return &SchemaHandle{
		file:    file,
		indexes: append(wire.MessageIndexes(nil), indexes...),
		desc:    desc,
	}, nil
}

// Descriptor returns the message descriptor the payload body decodes
// against.
func (h *SchemaHandle) Descriptor() protoreflect.MessageDescriptor {
	return h.desc
}

// File returns the compiled file descriptor the handle was built from.
func (h *SchemaHandle) File() protoreflect.FileDescriptor {
	return h.file
}

// Indexes returns a copy of the message-index path.
func (h *SchemaHandle) Indexes() wire.MessageIndexes {
	return append(wire.MessageIndexes(nil), h.indexes...)
}
