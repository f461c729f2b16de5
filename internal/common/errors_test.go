package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := NewError(ErrNotFound, "plant %s not found", "abc")
	if KindOf(err) != ErrNotFound {
		t.Errorf("KindOf = %s, want not_found", KindOf(err))
	}

	// The kind survives wrapping.
	wrapped := fmt.Errorf("watering failed: %w", err)
	if KindOf(wrapped) != ErrNotFound {
		t.Errorf("KindOf(wrapped) = %s, want not_found", KindOf(wrapped))
	}

	if KindOf(errors.New("plain")) != "" {
		t.Error("expected empty kind for a plain error")
	}
	if KindOf(nil) != "" {
		t.Error("expected empty kind for nil")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapError(ErrConflict, cause, "draw failed")

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "draw failed: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrAlreadyDone, http.StatusConflict},
		{ErrInvalidState, http.StatusBadRequest},
		{ErrNotReady, http.StatusBadRequest},
		{ErrInvalidArgument, http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		err := NewError(tt.kind, "boom")
		if got := HTTPStatus(err); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}

	if got := HTTPStatus(errors.New("unclassified")); got != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(plain) = %d, want 500", got)
	}
}
