package cart

import (
	"errors"
	"log"
	"sort"

	"github.com/odontools/shop-backend/internal/product"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// ProductGetter is the slice of the catalog the cart needs.
type ProductGetter interface {
	GetByID(id int) (product.Product, error)
}

type Service struct {
	repo     Repository
	products ProductGetter
}

func NewService(repo Repository, products ProductGetter) *Service {
	return &Service{repo: repo, products: products}
}

// GetCart returns the user's cart with resolved product details,
// creating an empty cart on first access. Lines whose product has been
// deleted since it was added are dropped from the view.
func (s *Service) GetCart(userID int) (Cart, error) {
	items, err := s.repo.GetItems(userID)
	if err != nil {
		return Cart{}, err
	}
	return s.resolve(userID, items), nil
}

// AddItem merges qty into the user's cart. The product must still exist
// in the catalog. Stock is not checked here; availability is enforced
// at checkout.
func (s *Service) AddItem(userID, productID, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if _, err := s.products.GetByID(productID); err != nil {
		return Cart{}, ErrProductNotFound
	}

	items, err := s.repo.AddItem(userID, productID, qty)
	if err != nil {
		return Cart{}, err
	}
	return s.resolve(userID, items), nil
}

func (s *Service) RemoveItem(userID, productID int) (Cart, error) {
	items, err := s.repo.RemoveItem(userID, productID)
	if err != nil {
		return Cart{}, err
	}
	return s.resolve(userID, items), nil
}

func (s *Service) IncreaseQuantity(userID, productID int) (Cart, error) {
	items, err := s.repo.AdjustItem(userID, productID, 1)
	if err != nil {
		return Cart{}, err
	}
	return s.resolve(userID, items), nil
}

// DecreaseQuantity lowers a line by one; reaching zero removes the line.
func (s *Service) DecreaseQuantity(userID, productID int) (Cart, error) {
	items, err := s.repo.AdjustItem(userID, productID, -1)
	if err != nil {
		return Cart{}, err
	}
	return s.resolve(userID, items), nil
}

func (s *Service) Clear(userID int) (Cart, error) {
	if err := s.repo.Clear(userID); err != nil {
		return Cart{}, err
	}
	return Cart{UserID: userID, Items: []CartItem{}}, nil
}

func (s *Service) resolve(userID int, items map[int]int) Cart {
	ids := make([]int, 0, len(items))
	for pid := range items {
		ids = append(ids, pid)
	}
	sort.Ints(ids)

	out := Cart{UserID: userID, Items: make([]CartItem, 0, len(ids))}
	for _, pid := range ids {
		p, err := s.products.GetByID(pid)
		if err != nil {
			log.Printf("cart: skipping product %d for user %d: %v", pid, userID, err)
			continue
		}
		out.Items = append(out.Items, CartItem{Product: p, Quantity: items[pid]})
	}
	return out
}
