package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	err := New("TEST", "something failed", http.StatusBadRequest)
	require.Equal(t, "something failed", err.Error())

	wrapped := err.WithInternal(errors.New("driver exploded"))
	require.Equal(t, "something failed: driver exploded", wrapped.Error())
	// the original must remain untouched
	require.Nil(t, err.Internal)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := FromError(ErrEmailNotVerified)
	require.Equal(t, "EMAIL_NOT_VERIFIED", appErr.Code)
	require.Equal(t, http.StatusForbidden, appErr.StatusCode)

	generic := FromError(errors.New("boom"))
	require.Equal(t, ErrInternalServer.Code, generic.Code)
	require.EqualError(t, generic.Internal, "boom")
}

func TestWrapKeepsInternal(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, "could not save record")

	require.Equal(t, http.StatusInternalServerError, err.StatusCode)
	require.ErrorIs(t, err, cause)
}
