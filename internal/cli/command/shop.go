// Package command provides CLI command definitions for stallgate-cli.
package command

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/openstall/stallgate/internal/cli/connection"
)

type cartEntryResult struct {
	Category int64 `json:"category"`
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

type cartResult struct {
	Entries []cartEntryResult `json:"entries"`
}

type purchaseResult struct {
	ID        int64 `json:"id"`
	BuyerID   int64 `json:"buyer_id"`
	Category  int64 `json:"category"`
	ItemID    int64 `json:"item_id"`
	Quantity  int64 `json:"quantity"`
	CreatedAt int64 `json:"created_at"`
}

type purchaseListResult struct {
	Purchases []purchaseResult `json:"purchases"`
	Total     int              `json:"total"`
}

// ShopCommand returns the buyer-side subcommand group.
// These commands target the buyer frontend.
func ShopCommand() *cli.Command {
	return &cli.Command{
		Name:  "shop",
		Usage: "Browse and buy items (buyer frontend)",
		Subcommands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search items by category and keywords",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Restrict to one category",
						Value:   -1,
					},
					&cli.StringSliceFlag{
						Name:    "keyword",
						Aliases: []string{"k"},
						Usage:   "Match any of these keywords (repeatable)",
					},
				},
				Action: shopSearch,
			},
			{
				Name:      "get",
				Usage:     "Show one item",
				ArgsUsage: "CATEGORY/ID",
				Action:    shopGet,
			},
			{
				Name:      "check",
				Usage:     "Check whether enough units are in stock",
				ArgsUsage: "CATEGORY/ID",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "quantity",
						Aliases:  []string{"q"},
						Usage:    "Units wanted",
						Required: true,
					},
				},
				Action: shopCheck,
			},
			{
				Name:      "cart-save",
				Usage:     "Replace the cart with the given entries",
				ArgsUsage: "CATEGORY/ID=QTY [CATEGORY/ID=QTY ...]",
				Action:    shopCartSave,
			},
			{
				Name:   "cart-show",
				Usage:  "Show the saved cart",
				Action: shopCartShow,
			},
			{
				Name:   "cart-clear",
				Usage:  "Empty the cart",
				Action: shopCartClear,
			},
			{
				Name:      "buy",
				Usage:     "Purchase units of an item",
				ArgsUsage: "CATEGORY/ID",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "quantity",
						Aliases:  []string{"q"},
						Usage:    "Units to buy",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "card-holder",
						Usage:    "Cardholder name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "card-number",
						Usage:    "Card number",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "card-expiration",
						Usage:    "Card expiration (MM/YY)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "card-code",
						Usage:    "Card security code",
						Required: true,
					},
				},
				Action: shopBuy,
			},
			{
				Name:   "history",
				Usage:  "Show your purchase history, oldest first",
				Action: shopHistory,
			},
			{
				Name:      "feedback",
				Usage:     "Leave feedback on an item",
				ArgsUsage: "CATEGORY/ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kind",
						Usage:    "Feedback kind: up or down",
						Required: true,
					},
				},
				Action: shopFeedback,
			},
		},
	}
}

func shopSearch(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	query := url.Values{}
	if category := c.Int64("category"); category >= 0 {
		query.Set("category", strconv.FormatInt(category, 10))
	}
	if keywords := c.StringSlice("keyword"); len(keywords) > 0 {
		query.Set("keywords", strings.Join(keywords, ","))
	}

	path := "/api/items/search"
	if len(query) > 0 {
		path += "?" + query.Encode()
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

func shopGet(c *cli.Context) error {
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

	resp, err := client.Get(ctx, "/api/items/"+key)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result itemResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return formatOutput(ParseGlobalFlags(c), result)
}

func shopCheck(c *cli.Context) error {
	key, err := itemKeyArg(c)
	if err != nil {
		return err
	}
	entry, err := parseCartEntry(key + "=" + strconv.FormatInt(c.Int64("quantity"), 10))
	if err != nil {
		return err
	}

	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/api/cart/items", entry)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result itemResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Item %s has %d units in stock.\n", key, result.Quantity)
	return nil
}

func shopCartSave(c *cli.Context) error {
	entries := make([]cartEntryResult, 0, c.Args().Len())
	for _, arg := range c.Args().Slice() {
		entry, err := parseCartEntry(arg)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{"entries": entries}
	resp, err := client.Put(ctx, "/api/cart", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result cartResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Cart saved with %d entries.\n", len(result.Entries))
	return nil
}

func shopCartShow(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/api/cart")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result cartResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return formatOutput(ParseGlobalFlags(c), result.Entries)
}

func shopCartClear(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Delete(ctx, "/api/cart")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Println("Cart cleared.")
	return nil
}

func shopBuy(c *cli.Context) error {
	key, err := itemKeyArg(c)
	if err != nil {
		return err
	}
	entry, err := parseCartEntry(key + "=" + strconv.FormatInt(c.Int64("quantity"), 10))
	if err != nil {
		return err
	}

	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{
		"category": entry.Category,
		"id":       entry.ID,
		"quantity": entry.Quantity,
		"card": map[string]string{
			"holder_name":   c.String("card-holder"),
			"number":        c.String("card-number"),
			"expiration":    c.String("card-expiration"),
			"security_code": c.String("card-code"),
		},
	}

	resp, err := client.Post(ctx, "/api/purchases", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result purchaseResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Purchase %d recorded: %d units of %s.\n", result.ID, result.Quantity, key)
	return nil
}

func shopHistory(c *cli.Context) error {
	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/api/purchases")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result purchaseListResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return formatOutput(ParseGlobalFlags(c), result.Purchases)
}

func shopFeedback(c *cli.Context) error {
	key, err := itemKeyArg(c)
	if err != nil {
		return err
	}

	kind := c.String("kind")
	if kind != "up" && kind != "down" {
		return fmt.Errorf("kind must be up or down, got %q", kind)
	}

	client, err := EnsureClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]string{"kind": kind}
	resp, err := client.Post(ctx, "/api/items/"+key+"/feedback", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("Feedback recorded for %s.\n", key)
	return nil
}

// parseCartEntry parses a CATEGORY/ID=QTY argument.
func parseCartEntry(arg string) (cartEntryResult, error) {
	var entry cartEntryResult

	keyPart, qtyPart, found := strings.Cut(arg, "=")
	if !found {
		return entry, fmt.Errorf("invalid cart entry %q, want CATEGORY/ID=QTY", arg)
	}
	catPart, idPart, found := strings.Cut(keyPart, "/")
	if !found {
		return entry, fmt.Errorf("invalid cart entry %q, want CATEGORY/ID=QTY", arg)
	}

	var err error
	if entry.Category, err = strconv.ParseInt(catPart, 10, 64); err != nil {
		return entry, fmt.Errorf("invalid category in %q", arg)
	}
	if entry.ID, err = strconv.ParseInt(idPart, 10, 64); err != nil {
		return entry, fmt.Errorf("invalid item ID in %q", arg)
	}
	if entry.Quantity, err = strconv.ParseInt(qtyPart, 10, 64); err != nil || entry.Quantity <= 0 {
		return entry, fmt.Errorf("invalid quantity in %q", arg)
	}
	return entry, nil
}
