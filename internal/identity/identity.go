// Package identity resolves the verified caller from JWT claims placed in
// the Fiber context by the JWT middleware.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoIdentity = errors.New("no verified identity in context")

// Identity is the caller as asserted by the identity provider.
type Identity struct {
	Subject string
	Email   string
	Role    string
}

func (i Identity) IsZero() bool {
	return i.Subject == ""
}

// FromClaims extracts the identity from verified token claims.
func FromClaims(claims jwt.MapClaims) (Identity, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, errors.New("missing sub claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Identity{Subject: sub, Email: email, Role: role}, nil
}

// FromContext reads the identity from the token stored under "user".
// Nothing from the request body or query string is consulted.
func FromContext(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	return FromClaims(claims)
}
