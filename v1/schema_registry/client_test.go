package schema_registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestGetSchemaByID(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/schemas/ids/7", r.URL.Path)
		assert.Equal(t, "application/vnd.schemaregistry.v1+json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"schema":     "syntax = \"proto3\";",
			"schemaType": "PROTOBUF",
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	schema, err := client.GetSchemaByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, schema.ID)
	assert.Equal(t, "syntax = \"proto3\";", schema.Schema)
	assert.Equal(t, "PROTOBUF", schema.SchemaType)

	// Second lookup is served from the cache.
	_, err = client.GetSchemaByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetSchemaBySubjectAndID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schemas/ids/7", r.URL.Path)
		assert.Equal(t, "orders-value", r.URL.Query().Get("subject"))
		json.NewEncoder(w).Encode(map[string]interface{}{"schema": "s"})
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	schema, err := client.GetSchemaBySubjectAndID(context.Background(), "orders-value", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, schema.ID)
	assert.Equal(t, "orders-value", schema.Subject)
}

func TestGetSchemaBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sr-user", user)
		assert.Equal(t, "sr-pass", pass)
		json.NewEncoder(w).Encode(map[string]interface{}{"schema": "s"})
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL, Username: "sr-user", Password: "sr-pass"})
	require.NoError(t, err)

	_, err = client.GetSchemaByID(context.Background(), 1)
	require.NoError(t, err)
}

func TestGetSchemaNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_code": 40403, "message": "Schema not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.GetSchemaByID(context.Background(), 404)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsTimeout(err))
}

func TestGetSchemaServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.GetSchemaByID(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "500")
}

func TestGetSchemaTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL, Timeout: 10 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.GetSchemaByID(context.Background(), 1)
	assert.True(t, IsTimeout(err))
}

func TestGetLatestSchemaNotCached(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/subjects/orders-value/versions/latest", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      int(n),
			"version": int(n),
			"schema":  "s",
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	first, err := client.GetLatestSchema(context.Background(), "orders-value")
	require.NoError(t, err)
	second, err := client.GetLatestSchema(context.Background(), "orders-value")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "latest lookups must hit the registry every time")
	assert.NotEqual(t, first.Version, second.Version)
	assert.Equal(t, "orders-value", first.Subject)
}

func TestGetSchemaVersion(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/subjects/money/versions/3", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"schema": "s",
			"references": []map[string]interface{}{
				{"name": "base.proto", "subject": "base", "version": 1},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	schema, err := client.GetSchemaVersion(context.Background(), "money", 3)
	require.NoError(t, err)
	assert.Equal(t, "money", schema.Subject)
	assert.Equal(t, 3, schema.Version)
	require.Len(t, schema.References, 1)
	assert.Equal(t, "base.proto", schema.References[0].Name)

	// Pinned versions are immutable and therefore cached.
	_, err = client.GetSchemaVersion(context.Background(), "money", 3)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
