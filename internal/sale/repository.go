package sale

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("sale not found")
	// ErrStaleStatus means the sale was no longer in the expected
	// status when the update ran; a concurrent update won.
	ErrStaleStatus = errors.New("sale status changed")
)

// Repository persists sales. Sales are append-then-update-status only;
// nothing ever deletes one.
type Repository interface {
	Create(s Sale) (Sale, error)
	GetByID(id int) (Sale, error)
	ListAll() ([]Sale, error)
	ListByUser(userID int) ([]Sale, error)
	// UpdateStatus sets to only while the sale is still in from, as a
	// single compare-and-set. Returns ErrStaleStatus when it lost a
	// race to another update.
	UpdateStatus(id int, from, to Status) (Sale, error)
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	sales  []Sale
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(s Sale) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == 0 {
		s.ID = r.nextID
		r.nextID++
	}
	r.sales = append(r.sales, s)
	return s, nil
}

func (r *InMemoryRepository) GetByID(id int) (Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, ErrNotFound
}

func (r *InMemoryRepository) ListAll() ([]Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sale, len(r.sales))
	copy(out, r.sales)
	return out, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sale, 0)
	for _, s := range r.sales {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id int, from, to Status) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.sales {
		if r.sales[i].ID == id {
			if r.sales[i].Status != from {
				return Sale{}, ErrStaleStatus
			}
			r.sales[i].Status = to
			r.sales[i].UpdatedAt = time.Now().UTC()
			return r.sales[i], nil
		}
	}
	return Sale{}, ErrNotFound
}
