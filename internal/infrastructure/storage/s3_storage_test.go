package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("no public url and no endpoint", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "public base URL")
	})
}

func TestS3ObjectStorage_PublicURL(t *testing.T) {
	t.Run("explicit public base url", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket:        "products",
			AccessKey:     "k",
			SecretKey:     "s",
			PublicBaseURL: "https://cdn.example.com/products/",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/products/1700000000000.jpg", s.PublicURL("1700000000000.jpg"))
	})

	t.Run("derived from endpoint", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket:       "products",
			AccessKey:    "k",
			SecretKey:    "s",
			Endpoint:     "minio.local:9000",
			UsePathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://minio.local:9000/products/a.png", s.PublicURL("a.png"))
		assert.Equal(t, "products", s.GetBucket())
	})
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:        "products",
		AccessKey:     "k",
		SecretKey:     "s",
		PublicBaseURL: "https://cdn.example.com",
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Put(ctx, "", "image/png", bytes.NewReader(nil), 0)
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, ""))
	_, err = s.ObjectExists(ctx, "")
	assert.Error(t, err)
}

type recordedRequest struct {
	method string
	path   string
	body   string
	ctype  string
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			body:   string(body),
			ctype:  r.Header.Get("Content-Type"),
		})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestS3ObjectStorage_PutAndDelete(t *testing.T) {
	srv, requests := newFakeS3(t)

	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:       "products",
		AccessKey:    "k",
		SecretKey:    "s",
		Endpoint:     srv.URL,
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("fake-jpeg-bytes")
	url, err := s.Put(ctx, "1700000000000.jpg", "image/jpeg", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/products/1700000000000.jpg", url)

	require.NoError(t, s.Delete(ctx, "1700000000000.jpg"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/products/1700000000000.jpg", reqs[0].path)
	assert.Contains(t, reqs[0].body, "fake-jpeg-bytes")
	assert.Equal(t, "image/jpeg", reqs[0].ctype)
	assert.Equal(t, http.MethodDelete, reqs[1].method)
	assert.Equal(t, "/products/1700000000000.jpg", reqs[1].path)
}
