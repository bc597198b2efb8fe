// Package protodeser decodes registry-tagged protobuf payloads into dynamic,
// introspectable messages.
//
// A consumer hands the raw record bytes to Deserialize, which parses the
// Confluent wire format header, resolves the schema id to a compiled
// protobuf descriptor through the schema registry, and decodes the body
// into a dynamicpb message. No generated message types are involved: field
// values are accessed through protobuf reflection against the resolved
// descriptor.
//
// Core Features:
//   - Confluent wire format parsing (magic byte, schema id, message indexes)
//   - Bounded LRU schema cache with single-flight resolution per key
//   - Runtime compilation of registry schema source, including references
//   - Dynamic message decoding with unknown fields preserved
//   - Per-phase extension points for specialized payload shapes
//   - Tombstone (nil payload) passthrough
//
// Basic Usage:
//
//	registry, err := schema_registry.NewClient(schema_registry.Config{
//	    URL: "http://localhost:8081",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	deserializer := protodeser.NewDeserializer(protodeser.Config{
//	    Registry: registry,
//	})
//
//	msg, err := deserializer.Deserialize(ctx, record.Topic, nil, record.Value)
//	if err != nil {
//	    var desErr *protodeser.DeserializationError
//	    if errors.As(err, &desErr) {
//	        log.Printf("schema id %d failed in %s", desErr.SchemaID, desErr.Phase)
//	    }
//	    return err
//	}
//	if msg == nil {
//	    // tombstone
//	    return nil
//	}
//
//	// Introspect fields by name via protobuf reflection.
//	amount := msg.ProtoReflect().Get(
//	    msg.ProtoReflect().Descriptor().Fields().ByName("amount"),
//	)
//
// Extension Points:
//
// Each phase of a deserialize call (header validation, schema id extraction,
// index extraction, body extraction, schema resolution, message decode) is a
// function field on Config.Phases. Supplying one phase replaces only that
// step:
//
//	deserializer := protodeser.NewDeserializer(protodeser.Config{
//	    Registry: registry,
//	    Phases: protodeser.Phases{
//	        // Envelope variant: payload body is wrapped in a 4-byte frame.
//	        ExtractMessageBytes: func(buf []byte) ([]byte, error) {
//	            return unwrapFrame(buf)
//	        },
//	    },
//	})
//
// Error Handling:
//
// Every failure crossing the Deserialize boundary is a
// *DeserializationError carrying the failing phase and the schema id (0 if
// parsing never reached it). Timeouts during resolution match
// errors.Is(err, protodeser.ErrResolutionTimeout) so callers can apply
// separate backoff; a deserializer without a registry fails with
// ErrNotConfigured.
//
// Concurrency:
//
// A Deserializer is safe for concurrent use. The schema cache is the only
// shared state: it guarantees at most one in-flight resolution per
// (subject, schema id) key, never caches failures, and evicts
// least-recently-used entries beyond its capacity (default 1000).
package protodeser
