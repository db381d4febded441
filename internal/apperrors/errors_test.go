package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"invalid credentials", InvalidCredentials(), http.StatusUnauthorized},
		{"invalid token", InvalidToken("expired"), http.StatusUnauthorized},
		{"internal", Internal(errors.New("db down")), http.StatusInternalServerError},
		{"upstream keeps status", Upstream(http.StatusBadGateway, "bad"), http.StatusBadGateway},
		{"unavailable", UpstreamUnavailable(errors.New("refused"), false), http.StatusServiceUnavailable},
		{"timeout", UpstreamUnavailable(errors.New("deadline"), true), http.StatusGatewayTimeout},
		{"plain error", errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR", Code(Validation("x")))
	assert.Equal(t, "NOT_FOUND", Code(NotFound("x")))
	assert.Equal(t, "INVALID_CREDENTIALS", Code(InvalidCredentials()))
	assert.Equal(t, "INVALID_TOKEN", Code(InvalidToken("x")))
	assert.Equal(t, "UPSTREAM_ERROR", Code(Upstream(502, "x")))
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", Code(UpstreamUnavailable(errors.New("x"), false)))
	assert.Equal(t, "INTERNAL_ERROR", Code(Internal(errors.New("x"))))
	assert.Equal(t, "INTERNAL_ERROR", Code(errors.New("plain")))
}

func TestClientMessageHidesInternalCause(t *testing.T) {
	assert.Equal(t, "Internal server error", ClientMessage(Internal(errors.New("secret detail"))))
	assert.Equal(t, "Internal server error", ClientMessage(errors.New("secret detail")))
	assert.Equal(t, "bad input", ClientMessage(Validation("bad input")))
}

func TestIsKindSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("gone"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindValidation))
	assert.True(t, errors.Is(err, NotFound("anything")))
}
