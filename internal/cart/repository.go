package cart

import (
	"errors"
	"sync"
)

var (
	ErrItemNotFound = errors.New("product not found in cart")
)

// Repository stores one productID -> quantity map per user. A user's
// cart is created lazily on first access.
type Repository interface {
	GetItems(userID int) (map[int]int, error)
	// AddItem merges qty into an existing line or appends a new one.
	AddItem(userID, productID, qty int) (map[int]int, error)
	// AdjustItem shifts an existing line by delta; a quantity that
	// drops to zero or below removes the line. Returns ErrItemNotFound
	// when the line is absent.
	AdjustItem(userID, productID, delta int) (map[int]int, error)
	RemoveItem(userID, productID int) (map[int]int, error)
	Clear(userID int) error
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]map[int]int)}
}

func (r *InMemoryRepository) cart(userID int) map[int]int {
	if r.carts[userID] == nil {
		r.carts[userID] = make(map[int]int)
	}
	return r.carts[userID]
}

func copyItems(items map[int]int) map[int]int {
	out := make(map[int]int, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out
}

func (r *InMemoryRepository) GetItems(userID int) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyItems(r.cart(userID)), nil
}

func (r *InMemoryRepository) AddItem(userID, productID, qty int) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.cart(userID)
	items[productID] += qty
	if items[productID] <= 0 {
		delete(items, productID)
	}
	return copyItems(items), nil
}

func (r *InMemoryRepository) AdjustItem(userID, productID, delta int) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.cart(userID)
	if _, ok := items[productID]; !ok {
		return nil, ErrItemNotFound
	}
	items[productID] += delta
	if items[productID] <= 0 {
		delete(items, productID)
	}
	return copyItems(items), nil
}

func (r *InMemoryRepository) RemoveItem(userID, productID int) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.cart(userID)
	if _, ok := items[productID]; !ok {
		return nil, ErrItemNotFound
	}
	delete(items, productID)
	return copyItems(items), nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = make(map[int]int)
	return nil
}
