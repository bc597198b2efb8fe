package protodeser

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc/protoparse"

	"github.com/streamhouse/protoserde/v1/schema_registry"
	"github.com/streamhouse/protoserde/v1/wire"
)

// SchemaResolver fetches a schema definition by subject and id and produces
// a handle carrying the compiled descriptor for the message type the index
// path selects.
//
// Resolve must be idempotent for a given (subject, id) pair. Implementations
// should surface "not found", "IO failure" and "timeout" outcomes as
// distinguishable errors; the deserializer maps them into its own taxonomy.
type SchemaResolver interface {
	Resolve(ctx context.Context, subject string, schemaID int32, indexes wire.MessageIndexes) (*SchemaHandle, error)
}

// RegistryResolver is the default SchemaResolver. It fetches protobuf schema
// source from a Confluent Schema Registry, follows schema references, and
// compiles everything into descriptors at runtime.
type RegistryResolver struct {
	registry schema_registry.Registry
}

// NewRegistryResolver creates a resolver backed by the given registry client.
func NewRegistryResolver(registry schema_registry.Registry) *RegistryResolver {
	return &RegistryResolver{registry: registry}
}

// Resolve implements SchemaResolver.
func (r *RegistryResolver) Resolve(ctx context.Context, subject string, schemaID int32, indexes wire.MessageIndexes) (*SchemaHandle, error) {
	schema, err := r.registry.GetSchemaBySubjectAndID(ctx, subject, int(schemaID))
	if err != nil {
		return nil, fmt.Errorf("retrieving schema %d for subject %q: %w", schemaID, subject, err)
	}
	if schema.SchemaType != "" && schema.SchemaType != "PROTOBUF" {
		return nil, fmt.Errorf("subject %q schema %d has type %s, expected PROTOBUF", subject, schemaID, schema.SchemaType)
	}

	// The registry stores schema source without a file name; references
	// import the root by the name recorded on the reference, so only the
	// root needs a synthetic one.
	rootName := subject + ".proto"
	sources := map[string]string{rootName: schema.Schema}
	if err := r.collectReferences(ctx, schema.References, sources); err != nil {
		return nil, err
	}

	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(sources),
	}
	files, err := parser.ParseFiles(rootName)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %d for subject %q: %w", schemaID, subject, err)
	}

	return NewSchemaHandle(files[0].UnwrapFile(), indexes)
}

// collectReferences fetches the pinned versions of all transitively
// referenced schemas into sources, keyed by the import name the root schema
// uses for them.
func (r *RegistryResolver) collectReferences(ctx context.Context, refs []schema_registry.Reference, sources map[string]string) error {
	for _, ref := range refs {
		if _, ok := sources[ref.Name]; ok {
			continue
		}
		refSchema, err := r.registry.GetSchemaVersion(ctx, ref.Subject, ref.Version)
		if err != nil {
			return fmt.Errorf("retrieving schema reference %q (subject %q version %d): %w", ref.Name, ref.Subject, ref.Version, err)
		}
		sources[ref.Name] = refSchema.Schema
		if err := r.collectReferences(ctx, refSchema.References, sources); err != nil {
			return err
		}
	}
	return nil
}
