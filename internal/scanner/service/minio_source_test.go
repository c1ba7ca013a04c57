package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBucketResult = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>exports</Name><Prefix></Prefix><KeyCount>2</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>
<Contents><Key>customers.csv</Key><LastModified>2026-01-01T00:00:00.000Z</LastModified><ETag>"a1"</ETag><Size>26</Size><StorageClass>STANDARD</StorageClass></Contents>
<Contents><Key>2026/orders.json</Key><LastModified>2026-01-01T00:00:00.000Z</LastModified><ETag>"a2"</ETag><Size>2</Size><StorageClass>STANDARD</StorageClass></Contents>
</ListBucketResult>`

// fakeS3 serves the subset of the S3 API the source uses.
func fakeS3(t *testing.T, objects map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list-type") == "2" {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = fmt.Fprint(w, listBucketResult)
			return
		}

		key := strings.TrimPrefix(r.URL.Path, "/exports/")
		body, ok := objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `<Error><Code>NoSuchKey</Code><Message>not found</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("ETag", `"etag"`)
		w.Header().Set("Last-Modified", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestMinioSource(t *testing.T, server *httptest.Server) *MinioSource {
	t.Helper()
	client, err := NewMinioClient(MinioConfig{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return NewMinioSource(client, "exports")
}

func TestMinioSource(t *testing.T) {
	ctx := context.Background()
	server := fakeS3(t, map[string]string{"customers.csv": "email\njane.doe@example.com"})
	source := newTestMinioSource(t, server)

	t.Run("Name", func(t *testing.T) {
		assert.Equal(t, "exports", source.Name())
	})

	t.Run("List", func(t *testing.T) {
		refs, err := source.List(ctx)
		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "customers.csv", refs[0].Key)
		assert.Equal(t, int64(26), refs[0].Size)
		assert.Equal(t, "2026/orders.json", refs[1].Key)
	})

	t.Run("Read", func(t *testing.T) {
		data, err := source.Read(ctx, "customers.csv", 1024)
		require.NoError(t, err)
		assert.Equal(t, "email\njane.doe@example.com", string(data))
	})

	t.Run("ReadMissing", func(t *testing.T) {
		_, err := source.Read(ctx, "missing.csv", 1024)
		assert.Error(t, err)
	})
}

func TestMinioSource_ListError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = fmt.Fprint(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	}))
	defer server.Close()

	_, err := newTestMinioSource(t, server).List(context.Background())
	assert.Error(t, err)
}

func TestNewMinioClient_InvalidEndpoint(t *testing.T) {
	_, err := NewMinioClient(MinioConfig{Endpoint: "http://bad endpoint"})
	assert.Error(t, err)
}
