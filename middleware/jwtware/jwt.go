package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultAuthScheme is the prefix expected in front of the token
	DefaultAuthScheme = "JWT"
	// DefaultTokenLookup reads the token from the Authorization header
	DefaultTokenLookup = "header:" + fiber.HeaderAuthorization
)

var ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")

// JWTExtractor pulls a raw token out of a request
type JWTExtractor func(c *fiber.Ctx) (string, error)

// ExtractRawTokenFromContext runs extractors in order and returns the first token found
func ExtractRawTokenFromContext(ctx *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	var raw string
	err := ErrJWTMissingOrMalformed

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

// GetExtractors builds extractors from a lookup definition such as
// "header:Authorization,cookie:Authorization,query:auth_token,param:token"
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := DefaultAuthScheme
	if len(authSchemes) > 0 && strings.TrimSpace(authSchemes[0]) != "" {
		authScheme = strings.TrimSpace(authSchemes[0])
	}

	if strings.TrimSpace(tokenLookup) == "" {
		tokenLookup = DefaultTokenLookup
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1], authScheme))
		}
	}

	return extractors
}

// TokenFromScheme strips "<scheme> " from value. The scheme must match
// exactly and be followed by a space and a non empty token.
func TokenFromScheme(value, authScheme string) (string, error) {
	l := len(authScheme)
	if l == 0 {
		return "", ErrJWTMissingOrMalformed
	}

	if len(value) > l+1 && value[:l] == authScheme && value[l] == ' ' {
		if token := strings.TrimSpace(value[l+1:]); token != "" {
			return token, nil
		}
	}

	return "", ErrJWTMissingOrMalformed
}

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		return TokenFromScheme(c.Get(header), authScheme)
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie reads a named cookie holding "<scheme> <token>", the
// format the session attacher writes. Only used when the lookup names it.
func jwtFromCookie(name string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		return TokenFromScheme(strings.TrimSpace(c.Cookies(name)), authScheme)
	}
}
