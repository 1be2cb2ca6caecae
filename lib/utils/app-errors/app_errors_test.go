package apperrors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Run("domain error check", func(t *testing.T) {
		err := NewPaymentRequired("contact unlock requires a succeeded payment")
		require.Equal(t, KindPaymentRequired, KindOf(err))
		require.Equal(t, http.StatusPaymentRequired, KindOf(err).HTTPStatus())
		require.Equal(t, "contact unlock requires a succeeded payment", Message(err))
	})
	t.Run("wrapped domain error check", func(t *testing.T) {
		err := errors.Wrap(NewNotFound("job posting not found"), "vote")
		require.True(t, Is(err, KindNotFound))
		require.Equal(t, http.StatusNotFound, KindOf(err).HTTPStatus())
		require.Equal(t, "job posting not found", Message(err))
	})
	t.Run("internal error check", func(t *testing.T) {
		err := errors.New("connection refused")
		require.Equal(t, KindInternal, KindOf(err))
		require.Equal(t, http.StatusInternalServerError, KindOf(err).HTTPStatus())
		require.Empty(t, Message(err))
		require.False(t, Is(nil, KindInternal))
	})
	t.Run("validation wrap check", func(t *testing.T) {
		require.Nil(t, Validation(nil))
		err := Validation(errors.New("title is required"))
		require.Equal(t, http.StatusBadRequest, KindOf(err).HTTPStatus())
		require.Equal(t, "title is required", Message(err))
	})
	t.Run("status table check", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, KindUnauthenticated.HTTPStatus())
		require.Equal(t, http.StatusForbidden, KindForbidden.HTTPStatus())
		require.Equal(t, http.StatusConflict, KindConflict.HTTPStatus())
		require.Equal(t, http.StatusTooManyRequests, KindRateLimited.HTTPStatus())
	})
}
