// Package token decodes bearer tokens into user identities.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/elevate/pkg/models"
)

var (
	// ErrMalformedToken means the token does not have the header.payload.signature shape
	ErrMalformedToken = errors.New("malformed token")
	// ErrDecodeError means the claims segment is not decodable JSON
	ErrDecodeError = errors.New("token claims not decodable")
)

// Defaults substituted when the corresponding claim is missing
const (
	DefaultEmail = "user@example.com"
	DefaultName  = "User"
)

// Decode extracts the user identity from a bearer token. Only the token's
// shape and claims payload are checked here; the signature is verified by
// the backend on every request, never by this client.
func Decode(raw string) (*models.User, error) {
	if raw == "" {
		return nil, ErrMalformedToken
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment", ErrMalformedToken)
		}
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeError, err)
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeError, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: claims payload is not an object", ErrDecodeError)
	}

	user := &models.User{Email: DefaultEmail, Name: DefaultName}
	if email, ok := claims["email"].(string); ok && email != "" {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		user.Name = name
	}

	return user, nil
}
