package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorType
	}{
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusInternalServerError, ErrorTypeServerError},
		{http.StatusBadGateway, ErrorTypeServerError},
		{http.StatusForbidden, ErrorTypeClientError},
		{http.StatusMovedPermanently, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := FromStatus(tt.code, "https://example.com")
			require.NotNil(t, err)
			assert.Equal(t, tt.expected, err.Type)
			assert.Equal(t, tt.code, err.Code)
		})
	}

	assert.Nil(t, FromStatus(http.StatusOK, "https://example.com"))
	assert.Nil(t, FromStatus(http.StatusNoContent, "https://example.com"))
}

func TestTypeOfWrapped(t *testing.T) {
	base := New(ErrorTypeNetwork, "connection refused")
	wrapped := fmt.Errorf("fetch page: %w", base)

	assert.Equal(t, ErrorTypeNetwork, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrorTypeNetwork))
	assert.False(t, Is(wrapped, ErrorTypeParsing))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain")))
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := Wrap(ErrorTypeNetwork, cause, "request failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "network")
}
