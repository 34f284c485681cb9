// Package cartstate keeps a client-side cart in memory and mirrors every
// change into a durable key/value slot.
package cartstate

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
)

const DefaultKey = "cartItems"

// ProductRef is the product snapshot a cart item carries. Identity is ID.
type ProductRef struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price,omitempty"`
	Image string  `json:"image,omitempty"`
}

type Item struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

type State int

const (
	Empty State = iota
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}

	return "empty"
}

type Synchronizer struct {
	mu      sync.Mutex
	items   []Item
	storage Storage
	key     string
	logger  *slog.Logger
}

type Option func(*Synchronizer)

func WithKey(key string) Option {
	return func(s *Synchronizer) {
		s.key = key
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// New hydrates the cart from storage. An absent slot or undecodable text
// yields an empty cart; a storage failure is returned.
func New(ctx context.Context, storage Storage, opts ...Option) (*Synchronizer, error) {
	s := &Synchronizer{
		items:   []Item{},
		storage: storage,
		key:     DefaultKey,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	raw, found, err := storage.Get(ctx, s.key)
	if err != nil {
		return nil, appErrors.StorageUnavailableError("Cart storage is unavailable").WithError(err)
	}

	if !found {
		return s, nil
	}

	items, err := decodeItems(raw)
	if err != nil {
		s.logger.Warn("Discarding unreadable cart state", slog.String("key", s.key), slog.String("error", err.Error()))
		return s, nil
	}

	s.items = items

	return s, nil
}

func decodeItems(raw string) ([]Item, error) {
	var items []Item

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, appErrors.DeserializationError("Stored cart is not valid JSON").WithError(err)
	}

	if items == nil {
		items = []Item{}
	}

	return items, nil
}

func (s *Synchronizer) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return Empty
	}

	return Populated
}

// Count is the total number of units across all items.
func (s *Synchronizer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}

	return total
}

func (s *Synchronizer) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}

	return total
}

// SetCart replaces the whole cart.
func (s *Synchronizer) SetCart(ctx context.Context, items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.Clone(items)
	if s.items == nil {
		s.items = []Item{}
	}

	s.persist(ctx)
}

// AddToCart merges into an existing item for the same product in place, or
// appends a new one.
func (s *Synchronizer) AddToCart(ctx context.Context, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.items, func(existing Item) bool {
		return existing.Product.ID == item.Product.ID
	})

	if idx >= 0 {
		s.items[idx].Quantity += item.Quantity
	} else {
		s.items = append(s.items, item)
	}

	s.persist(ctx)
}

// RemoveFromCart drops every item for productID. The result is persisted even
// when it is empty.
func (s *Synchronizer) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.DeleteFunc(s.items, func(existing Item) bool {
		return existing.Product.ID == productID
	})

	s.persist(ctx)
}

// ClearCart empties the cart and removes the storage slot itself.
func (s *Synchronizer) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Item{}

	if err := s.storage.Remove(ctx, s.key); err != nil {
		metrics.RecordCartStorageWriteFailure("remove")
		s.logger.Warn("Failed to remove cart state", slog.String("key", s.key), slog.String("error", err.Error()))
	}
}

// persist is best effort: a failed write is logged and the in-memory state
// stands. Callers hold s.mu.
func (s *Synchronizer) persist(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		metrics.RecordCartStorageWriteFailure("encode")
		s.logger.Error("Failed to encode cart state", slog.String("error", err.Error()))
		return
	}

	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		metrics.RecordCartStorageWriteFailure("set")
		s.logger.Warn("Failed to persist cart state", slog.String("key", s.key), slog.String("error", err.Error()))
	}
}
