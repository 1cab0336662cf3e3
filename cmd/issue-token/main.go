// Command issue-token prints a bearer token for an existing actor id.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Parshant679/event-booking/internal/auth"
	"github.com/Parshant679/event-booking/internal/config"
)

func main() {
	_ = godotenv.Load() // Loads .env file if present

	actorID := flag.String("actor", "", "actor id to place in the sub claim")
	flag.Parse()

	if *actorID == "" {
		fmt.Fprintln(os.Stderr, "usage: issue-token -actor <id>")
		os.Exit(2)
	}

	cfg := config.Load()
	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v (set AUTH_JWT_SECRET)\n", err)
		os.Exit(1)
	}

	token, err := issuer.IssueToken(*actorID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
