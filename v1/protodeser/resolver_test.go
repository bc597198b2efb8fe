package protodeser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhouse/protoserde/v1/schema_registry"
	"github.com/streamhouse/protoserde/v1/wire"
)

// fakeRegistry serves canned schemas keyed by id and pinned subject versions.
type fakeRegistry struct {
	schemas  map[int]*schema_registry.Schema
	versions map[string]*schema_registry.Schema // "subject@version"
}

func (f *fakeRegistry) GetSchemaByID(ctx context.Context, id int) (*schema_registry.Schema, error) {
	return f.GetSchemaBySubjectAndID(ctx, "", id)
}

func (f *fakeRegistry) GetSchemaBySubjectAndID(ctx context.Context, subject string, id int) (*schema_registry.Schema, error) {
	schema, ok := f.schemas[id]
	if !ok {
		return nil, schema_registry.ErrSchemaNotFound
	}
	return schema, nil
}

func (f *fakeRegistry) GetLatestSchema(ctx context.Context, subject string) (*schema_registry.Schema, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRegistry) GetSchemaVersion(ctx context.Context, subject string, version int) (*schema_registry.Schema, error) {
	schema, ok := f.versions[fmt.Sprintf("%s@%d", subject, version)]
	if !ok {
		return nil, schema_registry.ErrSchemaNotFound
	}
	return schema, nil
}

const orderSchema = `
syntax = "proto3";
package shop;

message Order {
    string id = 1;
    message Line { string sku = 1; }
}

message Cancellation {
    string order_id = 1;
}
`

func TestRegistryResolverCompilesSchema(t *testing.T) {
	registry := &fakeRegistry{schemas: map[int]*schema_registry.Schema{
		10: {ID: 10, Schema: orderSchema, SchemaType: "PROTOBUF"},
	}}
	resolver := NewRegistryResolver(registry)

	handle, err := resolver.Resolve(context.Background(), "orders-value", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, "shop.Order", string(handle.Descriptor().FullName()))
}

func TestRegistryResolverIndexSelection(t *testing.T) {
	registry := &fakeRegistry{schemas: map[int]*schema_registry.Schema{
		10: {ID: 10, Schema: orderSchema, SchemaType: "PROTOBUF"},
	}}
	resolver := NewRegistryResolver(registry)

	handle, err := resolver.Resolve(context.Background(), "orders-value", 10, wire.MessageIndexes{1})
	require.NoError(t, err)
	assert.Equal(t, "shop.Cancellation", string(handle.Descriptor().FullName()))

	handle, err = resolver.Resolve(context.Background(), "orders-value", 10, wire.MessageIndexes{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "shop.Order.Line", string(handle.Descriptor().FullName()))
}

func TestRegistryResolverFollowsReferences(t *testing.T) {
	rootSchema := `
syntax = "proto3";
package shop;

import "money.proto";

message Invoice {
    string id = 1;
    shop.Money total = 2;
}
`
	moneySchema := `
syntax = "proto3";
package shop;

message Money {
    string currency = 1;
    int64 units = 2;
}
`
	registry := &fakeRegistry{
		schemas: map[int]*schema_registry.Schema{
			20: {
				ID:         20,
				Schema:     rootSchema,
				SchemaType: "PROTOBUF",
				References: []schema_registry.Reference{
					{Name: "money.proto", Subject: "money", Version: 3},
				},
			},
		},
		versions: map[string]*schema_registry.Schema{
			"money@3": {Schema: moneySchema, SchemaType: "PROTOBUF"},
		},
	}
	resolver := NewRegistryResolver(registry)

	handle, err := resolver.Resolve(context.Background(), "invoices-value", 20, nil)
	require.NoError(t, err)
	assert.Equal(t, "shop.Invoice", string(handle.Descriptor().FullName()))

	total := handle.Descriptor().Fields().ByName("total")
	require.NotNil(t, total)
	assert.Equal(t, "shop.Money", string(total.Message().FullName()))
}

func TestRegistryResolverMissingReference(t *testing.T) {
	registry := &fakeRegistry{schemas: map[int]*schema_registry.Schema{
		20: {
			ID:         20,
			Schema:     orderSchema,
			SchemaType: "PROTOBUF",
			References: []schema_registry.Reference{
				{Name: "gone.proto", Subject: "gone", Version: 1},
			},
		},
	}}
	resolver := NewRegistryResolver(registry)

	_, err := resolver.Resolve(context.Background(), "orders-value", 20, nil)
	assert.ErrorIs(t, err, schema_registry.ErrSchemaNotFound)
}

func TestRegistryResolverRejectsNonProtobuf(t *testing.T) {
	registry := &fakeRegistry{schemas: map[int]*schema_registry.Schema{
		10: {ID: 10, Schema: `{"type": "record"}`, SchemaType: "AVRO"},
	}}
	resolver := NewRegistryResolver(registry)

	_, err := resolver.Resolve(context.Background(), "orders-value", 10, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AVRO")
}

func TestRegistryResolverSchemaNotFound(t *testing.T) {
	resolver := NewRegistryResolver(&fakeRegistry{})

	_, err := resolver.Resolve(context.Background(), "orders-value", 404, nil)
	assert.True(t, schema_registry.IsNotFound(err))
}

func TestRegistryResolverBadSource(t *testing.T) {
	registry := &fakeRegistry{schemas: map[int]*schema_registry.Schema{
		10: {ID: 10, Schema: "message {", SchemaType: "PROTOBUF"},
	}}
	resolver := NewRegistryResolver(registry)

	_, err := resolver.Resolve(context.Background(), "orders-value", 10, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling schema")
}
