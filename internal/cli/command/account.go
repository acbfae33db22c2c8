// Package command provides CLI command definitions for stallgate-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/openstall/stallgate/internal/cli/connection"
	"github.com/openstall/stallgate/internal/cli/output"
)

type userResult struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type loginResult struct {
	Token string     `json:"token"`
	User  userResult `json:"user"`
}

// AccountCommand returns the account subcommand group.
func AccountCommand() *cli.Command {
	return &cli.Command{
		Name:    "account",
		Aliases: []string{"acc"},
		Usage:   "Manage your account and session",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an account on the targeted frontend",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "display-name",
						Aliases: []string{"n"},
						Usage:   "Display name shown to other users",
					},
				},
				Action: accountCreate,
			},
			{
				Name:  "login",
				Usage: "Log in and store the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: accountLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the session and discard the stored token",
				Action: accountLogout,
			},
		},
	}
}

func accountCreate(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{
		"username":     c.String("username"),
		"password":     c.String("password"),
		"display_name": c.String("display-name"),
	}

	resp, err := client.Post(ctx, "/api/accounts", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result userResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Account '%s' created (id %d, role %s).\n", result.Username, result.ID, result.Role)
	return nil
}

func accountLogin(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{
		"username": c.String("username"),
		"password": c.String("password"),
	}

	resp, err := client.Post(ctx, "/api/login", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result loginResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	store, err := tokenStore(flags)
	if err != nil {
		return err
	}
	if err := store.Save(result.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	fmt.Printf("Logged in as '%s' (%s). Token stored in %s.\n",
		result.User.Username, result.User.Role, store.Path())
	return nil
}

func accountLogout(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/api/logout", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	store, err := tokenStore(flags)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}

// formatOutput renders result with the configured formatter.
func formatOutput(flags *GlobalFlags, result any) error {
	formatter := output.NewFormatter(output.Format(flags.Output))
	return formatter.Format(os.Stdout, result)
}
