package auth

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeIssuanceFailed     = "ISSUANCE_FAILED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenType          = "TOKEN_TYPE_MISMATCH"
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeValidation         = "VALIDATION_FAILED"
	TextCodeUserConflict       = "USER_CONFLICT"
)

// ErrIssuance is returned when a credential pair cannot be minted,
// typically because the identity is missing or has no id.
var ErrIssuance = errors.New("unable to issue credentials", errors.CategoryInternal).
	WithTextCode(TextCodeIssuanceFailed).
	WithCode(errors.CodeInternal)

// ErrTokenMalformed covers bad signatures, bad scheme, and undecodable tokens
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their exp claim
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenType is returned when a refresh token is presented where an
// access token is expected, or the other way around.
var ErrTokenType = errors.New("unexpected token type", errors.CategoryAuth).
	WithTextCode(TextCodeTokenType).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated means no valid credential was presented
var ErrUnauthenticated = errors.New("authentication credentials were not provided", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is the single login failure, it does not reveal
// whether the email exists.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden means the caller is authenticated but not allowed
var ErrForbidden = errors.New("you do not have permission to perform this action", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrUserConflict is returned when a unique user field is already taken
var ErrUserConflict = errors.New("user_name or email already in use", errors.CategoryConflict).
	WithTextCode(TextCodeUserConflict).
	WithCode(errors.CodeBadRequest)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a password does not match its hash
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// StatusCode maps an error to the HTTP status the routing layer should emit
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code != 0 {
		return richErr.Code
	}

	return errors.CodeInternal
}
