// Command cartsync inspects and edits a client cart kept in file or Redis
// storage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aaravmahajanofficial/storefront/internal/cartstate"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/joho/godotenv"
)

const usage = `usage: cartsync <command> [arguments]

commands:
  show                                   print the cart
  add -id ID [-name N] [-price P] [-qty Q] add a product
  remove ID                              remove a product
  set [FILE]                             replace the cart with a JSON item list (stdin when FILE is omitted)
  clear                                  empty the cart and remove its slot
`

var errUsage = errors.New("invalid usage")

func main() {

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Could not read .env file", slog.String("error", err.Error()))
	}

	cfg, err := config.LoadCartSyncConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	storage, closeStorage, err := openStorage(&cfg.CartStorage, &cfg.RedisConnect)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeStorage()

	if err := run(context.Background(), os.Args[1:], storage, cfg.CartStorage.Key, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStorage(cfg *config.CartStorage, redisCfg *config.RedisConnect) (cartstate.Storage, func(), error) {
	switch cfg.Backend {
	case "file":
		storage, err := cartstate.NewFileStorage(cfg.Path)
		if err != nil {
			return nil, nil, err
		}

		return storage, func() {}, nil
	case "redis":
		client, err := repository.NewRedisClient(redisCfg)
		if err != nil {
			return nil, nil, err
		}

		return cartstate.NewRedisStorage(client, "cart"), func() { client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown cart storage backend %q", cfg.Backend)
}

type summary struct {
	Items    []cartstate.Item `json:"items"`
	State    string           `json:"state"`
	Count    int              `json:"count"`
	Subtotal float64          `json:"subtotal"`
}

// run executes one command and prints the resulting cart.
func run(ctx context.Context, args []string, storage cartstate.Storage, key string, stdin io.Reader, stdout io.Writer) error {

	if len(args) == 0 {
		return errUsage
	}

	if key == "" {
		key = cartstate.DefaultKey
	}

	cart, err := cartstate.New(ctx, storage, cartstate.WithKey(key))
	if err != nil {
		return err
	}

	switch args[0] {
	case "show":
	case "add":
		item, err := parseAdd(args[1:])
		if err != nil {
			return err
		}

		cart.AddToCart(ctx, item)
	case "remove":
		if len(args) != 2 {
			return errUsage
		}

		cart.RemoveFromCart(ctx, args[1])
	case "set":
		items, err := readItems(args[1:], stdin)
		if err != nil {
			return err
		}

		cart.SetCart(ctx, items)
	case "clear":
		cart.ClearCart(ctx)
	default:
		return errUsage
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(summary{
		Items:    cart.Items(),
		State:    cart.State().String(),
		Count:    cart.Count(),
		Subtotal: cart.Subtotal(),
	})
}

func parseAdd(args []string) (cartstate.Item, error) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	id := fs.String("id", "", "product id")
	name := fs.String("name", "", "product name")
	price := fs.Float64("price", 0, "unit price")
	qty := fs.Int("qty", 1, "quantity")

	if err := fs.Parse(args); err != nil {
		return cartstate.Item{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	if *id == "" {
		return cartstate.Item{}, fmt.Errorf("%w: -id is required", errUsage)
	}

	if *qty < 1 {
		return cartstate.Item{}, fmt.Errorf("quantity must be at least 1, got %d", *qty)
	}

	return cartstate.Item{
		Product:  cartstate.ProductRef{ID: *id, Name: *name, Price: *price},
		Quantity: *qty,
	}, nil
}

func readItems(args []string, stdin io.Reader) ([]cartstate.Item, error) {
	var (
		data []byte
		err  error
	)

	switch len(args) {
	case 0:
		data, err = io.ReadAll(stdin)
	case 1:
		data, err = os.ReadFile(args[0])
	default:
		return nil, errUsage
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	var items []cartstate.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("items must be a JSON array: %w", err)
	}

	return items, nil
}
