package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", Unauthenticated("nope"), http.StatusUnauthorized},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"validation", Validation("bad", nil), http.StatusBadRequest},
		{"unavailable", Unavailable("off"), http.StatusServiceUnavailable},
		{"internal", Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("gone")), http.StatusNotFound},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal("failed to load", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load: db down", err.Error())
	assert.True(t, IsKind(err, KindInternal))
	assert.False(t, IsKind(err, KindNotFound))
}
