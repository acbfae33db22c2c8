// Package command provides CLI command definitions for stallgate-cli.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/openstall/stallgate/internal/cli/connection"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "stallgate-cli",
		Usage:   "Stallgate marketplace command-line tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AccountCommand(),
			ItemCommand(),
			ShopCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Frontend address (e.g., localhost:8081 for seller, localhost:8082 for buyer)",
			EnvVars: []string{"STALLGATE_SERVER"},
			Value:   "localhost:8082",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Session token (defaults to the stored login token)",
			EnvVars: []string{"STALLGATE_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "token-file",
			Usage:   "File used to persist the session token",
			EnvVars: []string{"STALLGATE_TOKEN_FILE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server    string
	Token     string
	TokenFile string
	Output    string // table, json, yaml
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:    c.String("server"),
		Token:     c.String("token"),
		TokenFile: c.String("token-file"),
		Output:    c.String("output"),
	}
}

// tokenStore opens the token store configured by the global flags.
func tokenStore(flags *GlobalFlags) (*connection.TokenStore, error) {
	return connection.NewTokenStore(flags.TokenFile)
}

// EnsureClient builds an HTTP client for the configured frontend.
// The token comes from --token, the environment, or the token store,
// in that order.
func EnsureClient(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)

	token := flags.Token
	if token == "" {
		store, err := tokenStore(flags)
		if err != nil {
			return nil, err
		}
		token, err = store.Load()
		if err != nil {
			return nil, err
		}
	}

	return connection.NewHTTPClient(flags.Server, token), nil
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
