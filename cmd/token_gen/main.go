package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"skypulse/flightcore/internal/auth"
	"skypulse/flightcore/internal/config"
)

// Issues a bearer token for an API client, signed with API_JWT_SECRET.
func main() {
	clientID := flag.String("client", "", "client id to embed as subject")
	scope := flag.String("scope", auth.ScopeRead, "read or write")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	if *clientID == "" {
		log.Fatal("-client is required")
	}
	if *scope != auth.ScopeRead && *scope != auth.ScopeWrite {
		log.Fatalf("unknown scope %q", *scope)
	}

	cfg, err := config.Load(os.Getenv("SKYPULSE_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("API_JWT_SECRET is not set")
	}

	token, err := auth.NewTokenSigner([]byte(cfg.Auth.JWTSecret)).Issue(*clientID, *scope, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println("New API token:", token)
}
