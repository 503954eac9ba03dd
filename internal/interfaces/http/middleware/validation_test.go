package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/interfaces/http/dto"
)

func TestHandleValidationError(t *testing.T) {
	type statusRequest struct {
		Status string         `json:"status" binding:"required,oneof=new completed"`
		Sizes  map[string]int `json:"sizes" binding:"required,min=1"`
	}

	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("lists rejected fields by json name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"status":"shipped","sizes":{}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 2)
		assert.Equal(t, "status", resp.Error.Details[0].Field)
		assert.Equal(t, "Must be one of: new, completed", resp.Error.Details[0].Message)
		assert.Equal(t, "sizes", resp.Error.Details[1].Field)
		assert.Equal(t, "Must contain at least 1 entries", resp.Error.Details[1].Message)
	})

	t.Run("valid body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"status":"new","sizes":{"S":1}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed json has no details", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, resp.Error.Details)
	})
}
