package auth

import "github.com/golang-jwt/jwt/v5"

const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)

// ClientClaims identify an API consumer. Subject carries the client id.
type ClientClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

func (c *ClientClaims) ClientID() string { return c.Subject }

// CanWrite reports whether the client may mutate favorites, history or monitoring.
func (c *ClientClaims) CanWrite() bool { return c.Scope == ScopeWrite }
