// Command issue-token prints a bearer token for a member, signed with the
// server's JWT_SECRET. Member sign-up and login live outside this service.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/config"
)

func main() {
	member := flag.String("member", "", "member ID (required)")
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "email address")
	flag.Parse()

	if *member == "" {
		fmt.Fprintln(os.Stderr, "issue-token: -member is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "issue-token: JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(*member, *name, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
