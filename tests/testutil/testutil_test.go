package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/domain/order"
)

func TestClient_KeepsHeadersAndDecodes(t *testing.T) {
	r := gin.New()
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		_ = c.ShouldBindJSON(&body)
		body["session"] = c.GetHeader("X-Session-ID")
		body["extra"] = c.GetHeader("X-Extra")
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})

	client := NewClient(t, r)
	client.Headers["X-Session-ID"] = "s-1"

	var got map[string]string
	env := DecodeData(t, client.Do(http.MethodPost, "/echo", map[string]string{"a": "b"}, map[string]string{"X-Extra": "x"}), http.StatusOK, &got)

	assert.True(t, env.Success)
	assert.Equal(t, "b", got["a"])
	assert.Equal(t, "s-1", got["session"])
	assert.Equal(t, "x", got["extra"])
}

func TestClient_Upload(t *testing.T) {
	r := gin.New()
	r.POST("/upload", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"name": fh.Filename, "size": fh.Size, "auth": c.GetHeader("Authorization"),
		}})
	})

	client := NewClient(t, r)
	client.Headers["Authorization"] = "Bearer t"

	var got struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
		Auth string `json:"auth"`
	}
	DecodeData(t, client.Upload("/upload", "file", "products.csv", []byte("name\n")), http.StatusOK, &got)
	assert.Equal(t, "products.csv", got.Name)
	assert.EqualValues(t, 5, got.Size)
	assert.Equal(t, "Bearer t", got.Auth)
}

func TestDecodeEnvelope_Error(t *testing.T) {
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": gin.H{"code": "DUPLICATE_SUBMISSION", "message": "dup"}})
	})

	w := NewClient(t, r).Do(http.MethodGet, "/fail", nil)

	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_SUBMISSION", env.Error.Code)
}

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler(order.EventTypeOrderPlaced)
	assert.Equal(t, []string{order.EventTypeOrderPlaced}, h.EventTypes())

	o := &order.Order{}
	o.ID = 3
	require.NoError(t, h.Handle(context.Background(), order.NewOrderPlacedEvent(o)))
	h.SetError(errors.New("boom"))
	assert.Error(t, h.Handle(context.Background(), order.NewOrderPlacedEvent(o)))

	assert.Len(t, h.Handled(), 2)
	assert.Equal(t, 2, h.Count(order.EventTypeOrderPlaced))
	assert.Equal(t, 0, h.Count(order.EventTypeOrderStatusChanged))
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Millisecond)
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}
