package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		want int
	}{
		{"authentication required", KindAuthenticationRequired, http.StatusUnauthorized},
		{"authorization denied", KindAuthorizationDenied, http.StatusForbidden},
		{"validation failed", KindValidationFailed, http.StatusBadRequest},
		{"conflict", KindConflictState, http.StatusConflict},
		{"precondition failed", KindPreconditionFailed, http.StatusBadRequest},
		{"not found", KindNotFound, http.StatusNotFound},
		{"payment failure", KindExternalPaymentFailure, http.StatusBadGateway},
		{"internal", KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(New(tc.kind, "msg")))
		})
	}

	t.Run("unclassified error is internal", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("pq: connection refused")))
	})
}

func TestMessage(t *testing.T) {
	t.Run("classified message passes through", func(t *testing.T) {
		assert.Equal(t, "shop URL is already taken", Message(New(KindConflictState, "shop URL is already taken")))
	})

	t.Run("unclassified errors are masked", func(t *testing.T) {
		assert.Equal(t, "something went wrong", Message(errors.New(`pq: relation "users" does not exist`)))
	})

	t.Run("wrapped classified error found through chain", func(t *testing.T) {
		inner := New(KindNotFound, "product not found")
		wrapped := fmt.Errorf("loading cart: %w", inner)
		assert.Equal(t, "product not found", Message(wrapped))
		assert.Equal(t, KindNotFound, KindOf(wrapped))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := Wrap(KindInternal, "fetching seller", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fetching seller")
	assert.Contains(t, err.Error(), "driver: bad connection")
}
