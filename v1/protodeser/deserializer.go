package protodeser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamhouse/protoserde/v1/logger"
	"github.com/streamhouse/protoserde/v1/observability"
	"github.com/streamhouse/protoserde/v1/schema_registry"
	"github.com/streamhouse/protoserde/v1/wire"
)

// Header is a single record header passed through to Deserialize. The
// default pipeline ignores headers; specialized payload shapes can read
// them from a wrapping phase.
type Header struct {
	Key   string
	Value []byte
}

// SubjectNameFunc derives the registry subject from a topic name and the
// key/value role of the payload.
type SubjectNameFunc func(topic string, isKey bool) string

// TopicNameStrategy is the default Confluent subject naming strategy:
// "<topic>-key" for record keys and "<topic>-value" for record values.
func TopicNameStrategy(topic string, isKey bool) string {
	if isKey {
		return topic + "-key"
	}
	return topic + "-value"
}

// Phases groups the individually replaceable steps of a deserialize call.
// Each field defaults to the standard wire-format implementation; a
// specialized pipeline (e.g. an envelope variant) replaces single phases
// without duplicating the others.
type Phases struct {
	// ProcessHeader validates the fixed header and returns the bytes
	// following the magic byte.
	ProcessHeader func(payload []byte) ([]byte, error)

	// ExtractSchemaID reads the schema id and returns the remaining bytes.
	ExtractSchemaID func(buf []byte) (int32, []byte, error)

	// ExtractIndexes reads the message-index block and returns the
	// remaining bytes.
	ExtractIndexes func(buf []byte) (wire.MessageIndexes, []byte, error)

	// ExtractMessageBytes selects the message body from the bytes left
	// after the header.
	ExtractMessageBytes func(buf []byte) ([]byte, error)

	// ResolveSchema turns (topic, schema id, indexes) into a schema
	// handle. The default derives the subject, consults the cache, and
	// falls back to the configured resolver.
	ResolveSchema func(ctx context.Context, topic string, schemaID int32, indexes wire.MessageIndexes) (*SchemaHandle, error)

	// DecodeMessage decodes the body against the resolved descriptor.
	DecodeMessage func(desc protoreflect.MessageDescriptor, body []byte) (proto.Message, error)
}

// Config holds configuration for the Deserializer.
type Config struct {
	// Registry is the schema registry client used by the default
	// resolver. Required unless Resolver is set; a deserializer without
	// either fails every call with ErrNotConfigured.
	Registry schema_registry.Registry

	// Resolver overrides the default registry-backed resolver.
	Resolver SchemaResolver

	// IsKey selects key-subject naming when deriving subjects from topics.
	IsKey bool

	// CacheCapacity bounds the schema cache. Defaults to
	// DefaultCacheCapacity.
	CacheCapacity int

	// ResolutionTimeout bounds a single schema resolution. Zero relies on
	// the registry client's own timeout.
	ResolutionTimeout time.Duration

	// SubjectNameFunc derives registry subjects from topics. Defaults to
	// TopicNameStrategy.
	SubjectNameFunc SubjectNameFunc

	// Logger is used for debug logging of resolutions (optional).
	Logger *logger.Logger

	// Observer receives per-call and per-resolution operations (optional).
	Observer observability.Observer

	// Phases overrides individual pipeline steps. Zero-value fields use
	// the defaults.
	Phases Phases
}

// Deserializer decodes registry-tagged protobuf payloads into dynamic
// messages. It is stateless apart from the shared schema cache, which lives
// for the lifetime of the deserializer, and is safe for concurrent use from
// multiple goroutines.
type Deserializer struct {
	resolver    SchemaResolver
	cache       *SchemaCache
	isKey       bool
	subjectName SubjectNameFunc
	timeout     time.Duration
	logger      *logger.Logger
	observer    observability.Observer

	phases Phases
}

// NewDeserializer creates a Deserializer from the given configuration,
// filling unset options with defaults. A missing registry/resolver is not an
// error here; it surfaces as ErrNotConfigured on the first Deserialize call,
// so construction order does not matter during wiring.
func NewDeserializer(cfg Config) *Deserializer {
	d := &Deserializer{
		resolver:    cfg.Resolver,
		cache:       NewSchemaCache(cfg.CacheCapacity),
		isKey:       cfg.IsKey,
		subjectName: cfg.SubjectNameFunc,
		timeout:     cfg.ResolutionTimeout,
		logger:      cfg.Logger,
		observer:    cfg.Observer,
		phases:      cfg.Phases,
	}

	if d.resolver == nil && cfg.Registry != nil {
		d.resolver = NewRegistryResolver(cfg.Registry)
	}
	if d.subjectName == nil {
		d.subjectName = TopicNameStrategy
	}
	if d.observer == nil {
		d.observer = observability.NoopObserver{}
	}

	if d.phases.ProcessHeader == nil {
		d.phases.ProcessHeader = wire.CheckHeader
	}
	if d.phases.ExtractSchemaID == nil {
		d.phases.ExtractSchemaID = wire.ReadSchemaID
	}
	if d.phases.ExtractIndexes == nil {
		d.phases.ExtractIndexes = defaultExtractIndexes
	}
	if d.phases.ExtractMessageBytes == nil {
		d.phases.ExtractMessageBytes = defaultExtractMessageBytes
	}
	if d.phases.ResolveSchema == nil {
		d.phases.ResolveSchema = d.resolveSchema
	}
	if d.phases.DecodeMessage == nil {
		d.phases.DecodeMessage = defaultDecodeMessage
	}

	return d
}

// Cache exposes the schema cache, e.g. for gauge reporting.
func (d *Deserializer) Cache() *SchemaCache {
	return d.cache
}

// Deserialize decodes a single payload consumed from topic.
//
// A nil payload is a tombstone and returns (nil, nil) without touching the
// cache or the resolver. All other failures are returned as a
// *DeserializationError carrying the phase and the schema id (0 if the
// failure preceded id extraction), except ErrNotConfigured, which is
// returned as-is.
func (d *Deserializer) Deserialize(ctx context.Context, topic string, headers []Header, payload []byte) (proto.Message, error) {
	if payload == nil {
		return nil, nil
	}
	if d.resolver == nil {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	var schemaID int32

	fail := func(phase string, err error) (proto.Message, error) {
		wrapped := &DeserializationError{SchemaID: schemaID, Phase: phase, Err: err}
		d.observe("deserialize", topic, schemaID, time.Since(start), wrapped, int64(len(payload)))
		return nil, wrapped
	}

	rest, err := d.phases.ProcessHeader(payload)
	if err != nil {
		return fail(PhaseHeader, err)
	}

	schemaID, rest, err = d.phases.ExtractSchemaID(rest)
	if err != nil {
		return fail(PhaseSchemaID, err)
	}

	indexes, rest, err := d.phases.ExtractIndexes(rest)
	if err != nil {
		return fail(PhaseIndexes, err)
	}

	body, err := d.phases.ExtractMessageBytes(rest)
	if err != nil {
		return fail(PhaseBody, err)
	}

	handle, err := d.phases.ResolveSchema(ctx, topic, schemaID, indexes)
	if err != nil {
		return fail(PhaseResolution, err)
	}

	msg, err := d.phases.DecodeMessage(handle.Descriptor(), body)
	if err != nil {
		return fail(PhaseDecode, err)
	}

	d.observe("deserialize", topic, schemaID, time.Since(start), nil, int64(len(payload)))
	return msg, nil
}

// resolveSchema is the default ResolveSchema phase: derive the subject,
// consult the cache, and resolve through the configured resolver on a miss.
func (d *Deserializer) resolveSchema(ctx context.Context, topic string, schemaID int32, indexes wire.MessageIndexes) (*SchemaHandle, error) {
	subject := d.subjectName(topic, d.isKey)
	key := SchemaKey{Subject: subject, SchemaID: schemaID}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	resolveStart := time.Now()
	resolved := false
	handle, err := d.cache.GetOrResolve(ctx, key, func() (*SchemaHandle, error) {
		resolved = true
		return d.resolver.Resolve(ctx, subject, schemaID, indexes)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || schema_registry.IsTimeout(err) {
			err = fmt.Errorf("%w: %v", ErrResolutionTimeout, err)
		}
		d.observe("resolve", subject, schemaID, time.Since(resolveStart), err, 0)
		return nil, err
	}

	if resolved {
		d.observe("resolve", subject, schemaID, time.Since(resolveStart), nil, 0)
		if d.logger != nil {
			d.logger.Debug("Schema resolved", nil, map[string]interface{}{
				"subject":      subject,
				"schema_id":    schemaID,
				"message_type": string(handle.Descriptor().FullName()),
				"cache_size":   d.cache.Len(),
			})
		}
	} else {
		d.observe("cache_hit", subject, schemaID, 0, nil, 0)
	}

	return handle, nil
}

// observe reports an operation to the configured observer.
func (d *Deserializer) observe(operation, resource string, schemaID int32, duration time.Duration, err error, size int64) {
	d.observer.ObserveOperation(observability.OperationContext{
		Component:   "protodeser",
		Operation:   operation,
		Resource:    resource,
		SubResource: strconv.FormatInt(int64(schemaID), 10),
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}

func defaultExtractIndexes(buf []byte) (wire.MessageIndexes, []byte, error) {
	indexes, n, err := wire.ReadMessageIndexes(buf)
	if err != nil {
		return nil, nil, err
	}
	return indexes, buf[n:], nil
}

func defaultExtractMessageBytes(buf []byte) ([]byte, error) {
	return buf, nil
}

func defaultDecodeMessage(desc protoreflect.MessageDescriptor, body []byte) (proto.Message, error) {
	return DecodeMessage(desc, body)
}
