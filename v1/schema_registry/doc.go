// Package schema_registry provides a read-only client for Confluent Schema
// Registry.
//
// The client covers the lookups a consumer needs to decode registry-tagged
// payloads: schema by id, schema by id scoped to a subject, latest subject
// version, and pinned subject versions for following schema references.
// Registry write paths (registration, compatibility checks) are deliberately
// not part of this package.
//
// Core Features:
//   - HTTP client for Confluent Schema Registry with basic auth
//   - In-memory caching of immutable lookups (by id and pinned version)
//   - Context-aware requests with timeout classification
//   - Distinguishable "not found" and "timed out" errors (IsNotFound,
//     IsTimeout)
//
// Basic Usage:
//
//	registry, err := schema_registry.NewClient(schema_registry.Config{
//	    URL:      "http://localhost:8081",
//	    Username: "user",     // Optional
//	    Password: "password", // Optional
//	    Timeout:  10 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	schema, err := registry.GetSchemaBySubjectAndID(ctx, "payments-value", 42)
//	if schema_registry.IsNotFound(err) {
//	    // schema id unknown to the registry
//	}
//
// Using with FX:
//
//	app := fx.New(
//	    schema_registry.FXModule,
//	    fx.Provide(
//	        func() schema_registry.Config {
//	            return schema_registry.Config{
//	                URL: os.Getenv("SCHEMA_REGISTRY_URL"),
//	            }
//	        },
//	    ),
//	    // Your application code that uses schema_registry.Registry
//	)
//
// Thread Safety:
//
// All methods on the Client type are safe for concurrent use by multiple
// goroutines.
package schema_registry
