// Package main provides a CLI tool for minting caller tokens for the ledger HTTP API.
// Tokens are signed with the key given by -key or JWT_SIGNING_KEY; use dev keys only.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "healthledger/internal/jwt_token"
	"healthledger/internal/platform/config"
	"healthledger/pkg/secrets"
)

const defaultTokenTTL = 15 * time.Minute

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	subject := flag.String("sub", "", "Caller subject (patient or provider id)")
	role := flag.String("role", jwttoken.RolePatient, "Caller role: patient or provider")
	key := flag.String("key", os.Getenv("JWT_SIGNING_KEY"), "HS256 signing key (defaults to JWT_SIGNING_KEY)")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	newKey := flag.Bool("new-key", false, "Print a fresh signing key and exit")
	flag.Parse()

	if *newKey {
		generated, err := secrets.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(generated)
		return
	}

	if *key == "" {
		fmt.Fprintln(os.Stderr, "a signing key is required: pass -key or set JWT_SIGNING_KEY")
		os.Exit(1)
	}

	svc := jwttoken.NewJWTService(*key, config.TokenIssuer, config.TokenAudience, *ttl)
	token, err := svc.IssueToken(context.Background(), *subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "caller_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"sub":  *subject,
				"role": *role,
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Caller Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Subject:    %s\n", *subject)
	fmt.Printf("Role:       %s\n", *role)
	fmt.Printf("Expires In: %s\n", *ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/status")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
