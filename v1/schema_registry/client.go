package schema_registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Registry provides an interface for reading schemas from a Confluent
// Schema Registry. All reads are idempotent: a given schema id or subject
// version always resolves to the same schema definition.
type Registry interface {
	// GetSchemaByID retrieves a schema by its registry-assigned ID.
	GetSchemaByID(ctx context.Context, id int) (*Schema, error)

	// GetSchemaBySubjectAndID retrieves a schema by ID within the scope of
	// a subject. The subject is passed to the registry so that
	// subject-level authorization applies.
	GetSchemaBySubjectAndID(ctx context.Context, subject string, id int) (*Schema, error)

	// GetLatestSchema retrieves the latest version of a schema for a subject.
	GetLatestSchema(ctx context.Context, subject string) (*Schema, error)

	// GetSchemaVersion retrieves a specific version of a subject's schema.
	// It is used to follow schema references, which pin exact versions.
	GetSchemaVersion(ctx context.Context, subject string, version int) (*Schema, error)
}

// Reference names a schema that another schema imports. Protobuf schemas
// reference the imported file name together with the registry subject and
// version that hold its definition.
type Reference struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Version int    `json:"version"`
}

// Schema holds a schema definition returned by the registry.
type Schema struct {
	ID         int         `json:"id"`
	Version    int         `json:"version"`
	Schema     string      `json:"schema"`
	Subject    string      `json:"subject"`
	SchemaType string      `json:"schemaType,omitempty"`
	References []Reference `json:"references,omitempty"`
}

// Client is the default implementation of Registry that communicates with a
// Confluent Schema Registry over HTTP.
type Client struct {
	url        string
	httpClient *http.Client

	// Cache for immutable schema lookups (by id and by pinned version).
	// Latest-version lookups are never cached because "latest" can move.
	schemaCache      map[string]*Schema
	schemaCacheMutex sync.RWMutex

	// Authentication
	username string
	password string
}

// Config holds configuration for the schema registry client.
type Config struct {
	// URL is the schema registry endpoint (e.g., "http://localhost:8081").
	// Required.
	URL string

	// Username for basic auth (optional)
	Username string

	// Password for basic auth (optional)
	Password string

	// Timeout for HTTP requests
	Timeout time.Duration
}

// NewClient creates a new schema registry client.
// Returns the concrete *Client type.
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("schema registry URL is required")
	}

	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		url: config.URL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		schemaCache: make(map[string]*Schema),
		username:    config.Username,
		password:    config.Password,
	}, nil
}

// GetSchemaByID retrieves a schema from the registry by its ID.
func (c *Client) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	path := fmt.Sprintf("/schemas/ids/%d", id)
	return c.getCachedSchema(ctx, path, func(s *Schema) {
		s.ID = id
	})
}

// GetSchemaBySubjectAndID retrieves a schema by ID scoped to a subject.
func (c *Client) GetSchemaBySubjectAndID(ctx context.Context, subject string, id int) (*Schema, error) {
	path := fmt.Sprintf("/schemas/ids/%d?subject=%s", id, url.QueryEscape(subject))
	return c.getCachedSchema(ctx, path, func(s *Schema) {
		s.ID = id
		s.Subject = subject
	})
}

// GetLatestSchema retrieves the latest version of a schema for a subject.
// The result is not cached: the latest version changes whenever a new schema
// is registered under the subject.
func (c *Client) GetLatestSchema(ctx context.Context, subject string) (*Schema, error) {
	path := fmt.Sprintf("/subjects/%s/versions/latest", url.PathEscape(subject))
	schema, err := c.fetchSchema(ctx, path)
	if err != nil {
		return nil, err
	}
	schema.Subject = subject
	return schema, nil
}

// GetSchemaVersion retrieves a specific, pinned version of a subject's schema.
func (c *Client) GetSchemaVersion(ctx context.Context, subject string, version int) (*Schema, error) {
	path := fmt.Sprintf("/subjects/%s/versions/%d", url.PathEscape(subject), version)
	return c.getCachedSchema(ctx, path, func(s *Schema) {
		s.Subject = subject
		s.Version = version
	})
}

// getCachedSchema serves an immutable lookup from the in-memory cache,
// fetching and caching it on a miss. fixup fills in fields the registry
// response omits (the request already identifies them).
func (c *Client) getCachedSchema(ctx context.Context, path string, fixup func(*Schema)) (*Schema, error) {
	c.schemaCacheMutex.RLock()
	if schema, ok := c.schemaCache[path]; ok {
		c.schemaCacheMutex.RUnlock()
		return schema, nil
	}
	c.schemaCacheMutex.RUnlock()

	schema, err := c.fetchSchema(ctx, path)
	if err != nil {
		return nil, err
	}
	if fixup != nil {
		fixup(schema)
	}

	c.schemaCacheMutex.Lock()
	c.schemaCache[path] = schema
	c.schemaCacheMutex.Unlock()

	return schema, nil
}

// fetchSchema performs a GET against the registry and decodes the schema
// response body.
func (c *Client) fetchSchema(ctx context.Context, path string) (*Schema, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/vnd.schemaregistry.v1+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schema: %w", classifyTransportError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: %s: %s", ErrSchemaNotFound, path, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("schema registry returned status %d: %s", resp.StatusCode, string(body))
	}

	var schema Schema
	if err := json.NewDecoder(resp.Body).Decode(&schema); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &schema, nil
}
