package auth

import (
	"reflect"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CredentialPair is a freshly minted access/refresh token couple.
// Both tokens are bearer credentials bound to the same identity.
type CredentialPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

type tokenDefaults struct {
	issuer   string
	audience jwt.ClaimStrings
}

func (d tokenDefaults) newClaims(identity Identity, kind TokenType, issuedAt time.Time, ttl time.Duration) *JWTClaims {
	var aud jwt.ClaimStrings
	if len(d.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(d.audience))
		copy(aud, d.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    d.issuer,
			Subject:   strconv.FormatInt(identity.ID(), 10),
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UID:  identity.ID(),
		Type: kind,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func (d tokenDefaults) acceptsAudience(aud jwt.ClaimStrings) bool {
	if len(d.audience) == 0 {
		return true
	}
	for _, want := range d.audience {
		for _, got := range aud {
			if got == want {
				return true
			}
		}
	}
	return false
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims == nil || claims.ID != "" {
		return
	}
	claims.ID = uuid.NewString()
}

func validIdentity(identity Identity) bool {
	if identity == nil {
		return false
	}
	if v := reflect.ValueOf(identity); v.Kind() == reflect.Pointer && v.IsNil() {
		return false
	}
	return identity.ID() > 0
}
