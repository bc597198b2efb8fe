package protodeser

import (
	"go.uber.org/fx"

	"github.com/streamhouse/protoserde/v1/logger"
	"github.com/streamhouse/protoserde/v1/observability"
	"github.com/streamhouse/protoserde/v1/schema_registry"
)

// FXModule defines the Fx module for the protodeser package.
// It provides a *Deserializer wired to the schema registry client, logger
// and observer available in the dependency injection container.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    schema_registry.FXModule,
//	    protodeser.FXModule,
//	    fx.Provide(
//	        func() schema_registry.Config {
//	            return schema_registry.Config{URL: "http://localhost:8081"}
//	        },
//	        func() protodeser.Config {
//	            return protodeser.Config{CacheCapacity: 2000}
//	        },
//	    ),
//	)
//
// Dependencies required by this module:
// - A schema_registry.Registry must be available in the container
// - A protodeser.Config instance must be available in the container
// - logger.Logger and observability.Observer are optional
var FXModule = fx.Module("protodeser",
	fx.Provide(
		NewDeserializerWithDI,
	),
)

// DeserializerParams groups the dependencies needed to create a Deserializer.
type DeserializerParams struct {
	fx.In

	Config   Config
	Registry schema_registry.Registry
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewDeserializerWithDI creates a Deserializer using dependency injection.
// Values injected from the container take precedence only where the config
// leaves them unset, so explicit configuration always wins.
func NewDeserializerWithDI(params DeserializerParams) *Deserializer {
	cfg := params.Config
	if cfg.Registry == nil {
		cfg.Registry = params.Registry
	}
	if cfg.Logger == nil {
		cfg.Logger = params.Logger
	}
	if cfg.Observer == nil {
		cfg.Observer = params.Observer
	}
	return NewDeserializer(cfg)
}
