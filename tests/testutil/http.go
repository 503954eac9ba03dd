package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response envelope with raw data for decoding
// into the caller's type.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// Client sends JSON requests to an http.Handler and keeps headers, such as
// the session id, between calls.
type Client struct {
	t       *testing.T
	handler http.Handler
	Headers map[string]string
}

// NewClient creates a Client over handler
func NewClient(t *testing.T, handler http.Handler) *Client {
	return &Client{t: t, handler: handler, Headers: map[string]string{}}
}

// Do sends body as JSON (when non-nil) and returns the recorded response
func (c *Client) Do(method, path string, body any, headers ...map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// Upload posts content as a multipart file under field
func (c *Client) Upload(path, field, filename string, content []byte) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(c.t, err)
	_, err = part.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// DecodeEnvelope parses the response envelope
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// DecodeData requires the expected status and decodes the envelope data into v
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, status int, v any) Envelope {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := DecodeEnvelope(t, w)
	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v))
	}
	return env
}
