package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	err := New(NotFound, "Not found group %s", "g1")
	require.Equal(t, "Not found group g1", err.Error())

	wrapped := fmt.Errorf("wrap: %w", err)
	require.True(t, errors.Is(wrapped, New(NotFound, "")))
	require.False(t, errors.Is(wrapped, New(AlreadyExists, "")))
	require.True(t, IsCode(wrapped, NotFound))
	require.False(t, IsCode(errors.New("plain"), NotFound))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad request", err: New(BadRequest, "x"), want: http.StatusBadRequest},
		{name: "forbidden", err: New(PermissionDenied, "x"), want: http.StatusForbidden},
		{name: "not found", err: New(NotFound, "x"), want: http.StatusNotFound},
		{name: "conflict", err: New(AlreadyExists, "x"), want: http.StatusConflict},
		{name: "owner must transfer", err: New(OwnerMustTransfer, "x"), want: http.StatusConflict},
		{name: "unknown", err: Unknown, want: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("x"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
