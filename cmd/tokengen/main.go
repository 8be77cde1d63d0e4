// tokengen mints an access token for an employee. There is no interactive
// login flow; operators issue tokens out of band with this tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/config"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/jwt"
)

func main() {
	employeeID := flag.String("employee", "", "employee ID to issue the token for")
	role := flag.String("role", "employee", "role claim: employee, manager or admin")
	flag.Parse()

	if *employeeID == "" {
		fmt.Fprintln(os.Stderr, "usage: tokengen -employee <id> [-role employee|manager|admin]")
		os.Exit(2)
	}
	switch *role {
	case "employee", "manager", "admin":
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := jwtService.GenerateAccessToken(*employeeID, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
