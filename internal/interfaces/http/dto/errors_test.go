package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_CUSTOMER_NAME", http.StatusUnprocessableEntity},
		{"ZERO_QUANTITY", http.StatusUnprocessableEntity},
		{"PRODUCT_UNAVAILABLE", http.StatusUnprocessableEntity},
		{"DUPLICATE_SUBMISSION", http.StatusConflict},
		{"ORDER_SUBMIT_FAILED", http.StatusServiceUnavailable},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeNotFound, http.StatusNotFound},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1}, 21, 2, 10)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	resp = NewSuccessResponseWithMeta(nil, 5, 1, 0)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "status", Message: "Must be one of: new, completed"},
	})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
