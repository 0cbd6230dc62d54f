package auth

import (
	"context"
)

type contextKey string

var clientClaimsKey contextKey = "client_claims"

func SetClientClaims(ctx context.Context, claims *ClientClaims) context.Context {
	return context.WithValue(ctx, clientClaimsKey, claims)
}

func GetClientClaims(ctx context.Context) *ClientClaims {
	if claims, ok := ctx.Value(clientClaimsKey).(*ClientClaims); ok {
		return claims
	}
	return nil
}
