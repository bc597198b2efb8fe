package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/streamhouse/protoserde/v1/logger"
)

// Default consumer settings applied by NewConsumer when the corresponding
// Config field is zero.
const (
	DefaultMinBytes       = 1
	DefaultMaxBytes       = 10 << 20 // 10 MiB
	DefaultMaxWait        = 10 * time.Second
	DefaultCommitInterval = time.Second
)

// DefaultStartOffset makes new consumer groups begin at the oldest
// retained message.
const DefaultStartOffset = kafka.FirstOffset

// TLSConfig holds TLS settings for broker connections.
type TLSConfig struct {
	// Enabled turns on TLS for broker connections.
	Enabled bool

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool

	// CACertPath is the path to a PEM CA certificate used to verify the
	// brokers (optional).
	CACertPath string

	// ClientCertPath / ClientKeyPath configure mutual TLS (optional).
	ClientCertPath string
	ClientKeyPath  string
}

// SASLConfig holds SASL authentication settings.
type SASLConfig struct {
	// Enabled turns on SASL authentication.
	Enabled bool

	// Mechanism is one of "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512".
	Mechanism string

	Username string
	Password string
}

// Config holds configuration for the Kafka consumer.
type Config struct {
	// Brokers lists the bootstrap broker addresses.
	Brokers []string

	// Topic is the topic to consume from.
	Topic string

	// GroupID is the consumer group id.
	GroupID string

	// MinBytes and MaxBytes bound fetch request sizes.
	MinBytes int
	MaxBytes int

	// MaxWait is how long the broker may hold a fetch before responding.
	MaxWait time.Duration

	// EnableAutoCommit enables periodic offset commits at CommitInterval.
	// When false, offsets are committed only through Consumer.Commit.
	EnableAutoCommit bool
	CommitInterval   time.Duration

	// StartOffset is where new consumer groups start. Defaults to the
	// oldest retained message.
	StartOffset int64

	// TLS and SASL configure transport security.
	TLS  TLSConfig
	SASL SASLConfig

	// Logger receives kafka-go internal errors (optional).
	Logger *logger.Logger
}
