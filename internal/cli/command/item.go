// Package command provides CLI command definitions for stallgate-cli.
package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/openstall/stallgate/internal/cli/connection"
)

type itemResult struct {
	Category   int64    `json:"category"`
	ID         int64    `json:"id"`
	SellerID   int64    `json:"seller_id"`
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	Condition  string   `json:"condition"`
	Price      float64  `json:"price"`
	Quantity   int64    `json:"quantity"`
	ThumbsUp   int64    `json:"thumbs_up"`
	ThumbsDown int64    `json:"thumbs_down"`
}

type itemListResult struct {
	Items []itemResult `json:"items"`
	Total int          `json:"total"`
}

type ratingResult struct {
	SellerID   int64 `json:"seller_id"`
	ThumbsUp   int64 `json:"thumbs_up"`
	ThumbsDown int64 `json:"thumbs_down"`
}

// ItemCommand returns the seller-side item subcommand group.
// These commands target the seller frontend.
func ItemCommand() *cli.Command {
	return &cli.Command{
		Name:  "item",
		Usage: "Manage your items for sale (seller frontend)",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Put a new item up for sale",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "category",
						Aliases:  []string{"c"},
						Usage:    "Item category number",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Item name",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "keyword",
						Aliases: []string{"k"},
						Usage:   "Search keyword (repeatable, max 5)",
					},
					&cli.StringFlag{
						Name:  "condition",
						Usage: "Item condition: new or used",
						Value: "new",
					},
					&cli.Float64Flag{
						Name:     "price",
						Aliases:  []string{"p"},
						Usage:    "Unit price",
						Required: true,
					},
					&cli.Int64Flag{
						Name:     "quantity",
						Aliases:  []string{"q"},
						Usage:    "Units in stock",
						Required: true,
					},
				},
				Action: itemRegister,
			},
			{
				Name:  "list",
				Usage: "List your items",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "active",
						Aliases: []string{"a"},
						Usage:   "Only items with stock remaining",
					},
				},
				Action: itemList,
			},
			{
				Name:      "price",
				Usage:     "Change the price of one of your items",
				ArgsUsage: "CATEGORY/ID",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:     "price",
						Aliases:  []string{"p"},
						Usage:    "New unit price",
						Required: true,
					},
				},
				Action: itemPrice,
			},
			{
				Name:      "units",
				Usage:     "Change the stock quantity of one of your items",
				ArgsUsage: "CATEGORY/ID",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "quantity",
						Aliases:  []string{"q"},
						Usage:    "New stock quantity",
						Required: true,
					},
				},
				Action: itemUnits,
			},
			{
				Name:      "rating",
				Usage:     "Show a seller's feedback tally (defaults to your own)",
				ArgsUsage: "[SELLER_ID]",
				Action:    itemRating,
			},
		},
	}
}

func itemRegister(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{
		"category":  c.Int64("category"),
		"name":      c.String("name"),
		"keywords":  c.StringSlice("keyword"),
		"condition": c.String("condition"),
		"price":     c.Float64("price"),
		"quantity":  c.Int64("quantity"),
	}

	resp, err := client.Post(ctx, "/api/items", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result itemResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Item '%s' registered as %d/%d.\n", result.Name, result.Category, result.ID)
	return nil
}

func itemList(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path := "/api/items"
	if c.Bool("active") {
		path += "?active=true"
	}

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result itemListResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return formatOutput(ParseGlobalFlags(c), result.Items)
}

func itemPrice(c *cli.Context) error {
	key, err := itemKeyArg(c)
	if err != nil {
		return err
	}

	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{"price": c.Float64("price")}
	resp, err := client.Post(ctx, "/api/items/"+key+"/price", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result itemResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Item %s priced at %.2f.\n", key, result.Price)
	return nil
}

func itemUnits(c *cli.Context) error {
	key, err := itemKeyArg(c)
	if err != nil {
		return err
	}

	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{"quantity": c.Int64("quantity")}
	resp, err := client.Post(ctx, "/api/items/"+key+"/units", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result itemResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Item %s now has %d units.\n", key, result.Quantity)
	return nil
}

func itemRating(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path := "/api/rating"
	if sellerID := c.Args().First(); sellerID != "" {
		if _, err := strconv.ParseInt(sellerID, 10, 64); err != nil {
			return fmt.Errorf("seller ID must be a number: %q", sellerID)
		}
		path = "/api/sellers/" + sellerID + "/rating"
	}

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result ratingResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return formatOutput(ParseGlobalFlags(c), result)
}

// itemKeyArg reads and validates a CATEGORY/ID argument.
func itemKeyArg(c *cli.Context) (string, error) {
	arg := c.Args().First()
	if arg == "" {
		return "", fmt.Errorf("item key required (CATEGORY/ID)")
	}
	parts := strings.Split(arg, "/")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid item key %q, want CATEGORY/ID", arg)
	}
	for _, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err != nil {
			return "", fmt.Errorf("invalid item key %q, want CATEGORY/ID", arg)
		}
	}
	return arg, nil
}
