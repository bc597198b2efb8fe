package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
	"google.golang.org/protobuf/proto"

	"github.com/streamhouse/protoserde/v1/observability"
	"github.com/streamhouse/protoserde/v1/protodeser"
)

// Deserializer decodes consumed record bytes into a protobuf message.
// *protodeser.Deserializer implements this interface.
type Deserializer interface {
	Deserialize(ctx context.Context, topic string, headers []protodeser.Header, payload []byte) (proto.Message, error)
}

// Record is one consumed and decoded Kafka record.
type Record struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Headers   []protodeser.Header

	// Message is the decoded record value; nil for tombstones.
	Message proto.Message

	raw kafka.Message
}

// Consumer reads records from a Kafka topic and decodes their values with a
// Deserializer.
//
// Consumer implements at-least-once delivery: records are committed
// explicitly via Commit (or periodically when auto-commit is enabled), so a
// crash between fetch and commit redelivers the record.
type Consumer struct {
	// cfg stores the configuration for this consumer
	cfg Config

	// reader is the Kafka reader used for fetching messages
	reader *kafka.Reader

	// deserializer decodes record values after consuming
	deserializer Deserializer

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer
}

// NewConsumer creates and initializes a new Consumer with the provided
// configuration and deserializer.
//
// Example:
//
//	consumer, err := kafka.NewConsumer(kafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "payments",
//	    GroupID: "payments-indexer",
//	}, deserializer)
//	if err != nil {
//	    return err
//	}
//	defer consumer.Close()
func NewConsumer(cfg Config, deserializer Deserializer) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if deserializer == nil {
		return nil, fmt.Errorf("deserializer is required")
	}

	// Apply defaults
	if cfg.MinBytes == 0 {
		cfg.MinBytes = DefaultMinBytes
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.CommitInterval == 0 {
		cfg.CommitInterval = DefaultCommitInterval
	}
	if cfg.StartOffset == 0 {
		cfg.StartOffset = DefaultStartOffset
	}

	// Set up TLS config if enabled
	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	// Set up SASL mechanism if enabled
	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	return &Consumer{
		cfg:          cfg,
		reader:       createReader(cfg, tlsConfig, mechanism),
		deserializer: deserializer,
		observer:     observability.NoopObserver{},
	}, nil
}

// WithObserver attaches an observer to the consumer for tracking operations.
// This method uses the builder pattern and returns the consumer for method
// chaining.
func (c *Consumer) WithObserver(observer observability.Observer) *Consumer {
	c.observer = observer
	return c
}

// Fetch reads the next record from the topic and decodes its value. It
// blocks until a record is available, the context is canceled, or the reader
// is closed.
//
// A decode failure is returned together with the fetched record so the
// caller can still commit or dead-letter it; the record's Message is nil in
// that case.
func (c *Consumer) Fetch(ctx context.Context) (*Record, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Headers:   convertHeaders(msg.Headers),
		raw:       msg,
	}

	start := time.Now()
	record.Message, err = c.deserializer.Deserialize(ctx, msg.Topic, record.Headers, msg.Value)
	c.observeOperation("consume", msg.Topic, time.Since(start), err, int64(len(msg.Value)))
	if err != nil {
		return record, fmt.Errorf("failed to deserialize record at offset %d: %w", msg.Offset, err)
	}

	return record, nil
}

// Commit marks the record as processed. With auto-commit disabled this is
// the only way offsets advance.
func (c *Consumer) Commit(ctx context.Context, record *Record) error {
	return c.reader.CommitMessages(ctx, record.raw)
}

// Close shuts down the consumer and releases its connections. Close should
// only be called once.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// observeOperation reports an operation to the configured observer.
func (c *Consumer) observeOperation(operation, topic string, duration time.Duration, err error, size int64) {
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "kafka",
		Operation: operation,
		Resource:  topic,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}

// convertHeaders maps kafka-go record headers onto the transport-neutral
// header type the deserializer consumes.
func convertHeaders(headers []kafka.Header) []protodeser.Header {
	if len(headers) == 0 {
		return nil
	}
	out := make([]protodeser.Header, len(headers))
	for i, h := range headers {
		out[i] = protodeser.Header{Key: h.Key, Value: h.Value}
	}
	return out
}

// createErrorLogger creates a Kafka error logger from the config
func createErrorLogger(cfg Config) kafka.LoggerFunc {
	// Priority 1: Use the structured logger if provided
	if cfg.Logger != nil {
		return kafka.LoggerFunc(func(msg string, args ...interface{}) {
			formattedMsg := msg
			if len(args) > 0 {
				formattedMsg = fmt.Sprintf(msg, args...)
			}
			cfg.Logger.Error("Kafka internal error", nil, map[string]interface{}{
				"error": formattedMsg,
			})
		})
	}

	// Priority 2: Use standard log package
	return kafka.LoggerFunc(func(msg string, args ...interface{}) {
		log.Printf("KAFKA ERROR: "+msg, args...)
	})
}

// createReader creates a Kafka reader with the given configuration
func createReader(cfg Config, tlsConfig *tls.Config, mechanism sasl.Mechanism) *kafka.Reader {
	readerConfig := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: cfg.StartOffset,
		ErrorLogger: createErrorLogger(cfg),
	}

	// Configure auto-commit behavior; CommitInterval 0 means synchronous
	// commits only.
	if cfg.EnableAutoCommit {
		readerConfig.CommitInterval = cfg.CommitInterval
	} else {
		readerConfig.CommitInterval = 0
	}

	// Create dialer with TLS and SASL
	readerConfig.Dialer = &kafka.Dialer{
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}

	return kafka.NewReader(readerConfig)
}

// createTLSConfig creates a TLS configuration from the provided config
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	// Load CA certificate
	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	// Load client certificate
	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
