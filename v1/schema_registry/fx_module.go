package schema_registry

import (
	"go.uber.org/fx"
)

// FXModule is an fx.Module that provides the Schema Registry client.
// This module registers the Schema Registry client with the Fx dependency
// injection framework, making it available to other components in the
// application.
//
// Usage:
//
//	app := fx.New(
//	    schema_registry.FXModule,
//	    fx.Provide(
//	        func() schema_registry.Config {
//	            return schema_registry.Config{
//	                URL:      "http://localhost:8081",
//	                Username: "user",
//	                Password: "pass",
//	            }
//	        },
//	    ),
//	)
var FXModule = fx.Module("schema_registry",
	fx.Provide(
		NewClientWithDI,
	),
)

// SchemaRegistryParams groups the dependencies needed to create a Schema
// Registry client.
type SchemaRegistryParams struct {
	fx.In

	Config Config
}

// NewClientWithDI creates a new Schema Registry client using dependency
// injection. The returned value is typed as the Registry interface so that
// consumers depend on the contract rather than the concrete client.
func NewClientWithDI(params SchemaRegistryParams) (Registry, error) {
	return NewClient(params.Config)
}
