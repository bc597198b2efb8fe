// Package kafka provides a Kafka consumer that decodes registry-tagged
// protobuf records.
//
// The package wraps segmentio/kafka-go's reader with TLS/SASL setup,
// structured error logging, and a pluggable Deserializer that turns raw
// record values into protobuf messages. It is the host-pipeline integration
// point for the protodeser package.
//
// Basic Usage:
//
//	registry, _ := schema_registry.NewClient(schema_registry.Config{
//	    URL: "http://localhost:8081",
//	})
//	deserializer := protodeser.NewDeserializer(protodeser.Config{
//	    Registry: registry,
//	})
//
//	consumer, err := kafka.NewConsumer(kafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "payments",
//	    GroupID: "payments-indexer",
//	}, deserializer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer consumer.Close()
//
//	for {
//	    record, err := consumer.Fetch(ctx)
//	    if err != nil {
//	        if record != nil {
//	            // value failed to decode; record is still committable
//	        }
//	        continue
//	    }
//	    if record.Message == nil {
//	        // tombstone
//	    }
//	    if err := consumer.Commit(ctx, record); err != nil {
//	        log.Printf("commit failed: %v", err)
//	    }
//	}
//
// Authentication:
//
// TLS and SASL (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512) are configured through
// Config.TLS and Config.SASL.
//
// Thread Safety:
//
// Fetch and Commit may be called from multiple goroutines; Close should only
// be called once.
package kafka
