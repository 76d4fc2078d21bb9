package auth_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-logins"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "issuance", err: auth.ErrIssuance, want: http.StatusInternalServerError},
		{name: "malformed", err: auth.ErrTokenMalformed, want: http.StatusUnauthorized},
		{name: "expired", err: auth.ErrTokenExpired, want: http.StatusUnauthorized},
		{name: "unauthenticated", err: auth.ErrUnauthenticated, want: http.StatusUnauthorized},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "forbidden", err: auth.ErrForbidden, want: http.StatusForbidden},
		{name: "conflict", err: auth.ErrUserConflict, want: http.StatusBadRequest},
		{name: "not found", err: auth.ErrIdentityNotFound, want: http.StatusNotFound},
		{name: "plain error", err: stderrors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.StatusCode(tt.err))
		})
	}
}

func TestErrorCategories(t *testing.T) {
	var richErr *errors.Error
	if assert.True(t, errors.As(auth.ErrForbidden, &richErr)) {
		assert.Equal(t, errors.CategoryAuthz, richErr.Category)
	}
	assert.Equal(t, errors.CategoryAuth, auth.ErrUnauthenticated.Category)
	assert.Equal(t, auth.TextCodeTokenExpired, auth.ErrTokenExpired.TextCode)
}

func TestTokenErrorHelpers(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsTokenExpiredError(stderrors.New("jwt: token is expired")))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrIdentityNotFound))
	assert.False(t, auth.IsTokenExpiredError(nil))

	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.True(t, auth.IsMalformedError(stderrors.New("missing or malformed JWT")))
	assert.False(t, auth.IsMalformedError(stderrors.New("invalid token")))
	assert.False(t, auth.IsMalformedError(nil))
}
