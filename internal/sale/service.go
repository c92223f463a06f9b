package sale

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odontools/shop-backend/internal/cart"
	"github.com/odontools/shop-backend/internal/notify"
	"github.com/odontools/shop-backend/internal/product"
	"github.com/odontools/shop-backend/internal/user"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidStatus     = errors.New("invalid sale status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrInvalidShipping   = errors.New("invalid shipping type")
)

// InsufficientStockError names the product so handlers can echo which
// line blocked the operation.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// Catalog is the slice of the product store the workflow needs.
// AdjustStock must be atomic per product (see product.Repository).
type Catalog interface {
	GetByID(id int) (product.Product, error)
	AdjustStock(id, delta int) (product.Product, error)
}

// CartAccess reads and drains the buyer's cart.
type CartAccess interface {
	GetCart(userID int) (cart.Cart, error)
	Clear(userID int) (cart.Cart, error)
}

type UserGetter interface {
	GetByID(id int) (user.User, error)
}

// Publisher receives domain events after the workflow commits. It must
// never block and never fail (see notify.Dispatcher).
type Publisher interface {
	Publish(ev notify.Event)
}

type Service struct {
	repo    Repository
	catalog Catalog
	carts   CartAccess
	users   UserGetter
	events  Publisher
}

func NewService(repo Repository, catalog Catalog, carts CartAccess, users UserGetter, events Publisher) *Service {
	return &Service{repo: repo, catalog: catalog, carts: carts, users: users, events: events}
}

type CheckoutInput struct {
	PaymentMethod   string
	ShippingAddress string
	ShippingType    string
}

// Checkout turns the user's cart into a pending sale. Stock is only
// verified here; the debit happens when an admin confirms the sale.
// The sale row is inserted before the cart is drained so a crash in
// between leaves a retryable state, never a paid-for empty order.
func (s *Service) Checkout(userID int, in CheckoutInput) (Sale, error) {
	if !ValidPaymentMethod(in.PaymentMethod) {
		return Sale{}, ErrInvalidPayment
	}
	shipping, ok := FindShippingType(in.ShippingType)
	if !ok {
		return Sale{}, ErrInvalidShipping
	}
	if in.ShippingAddress == "" {
		return Sale{}, errors.New("shipping address is required")
	}

	userCart, err := s.carts.GetCart(userID)
	if err != nil {
		return Sale{}, err
	}
	if len(userCart.Items) == 0 {
		return Sale{}, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]SaleItem, 0, len(userCart.Items))
	lines := make([]notify.Line, 0, len(userCart.Items))
	for _, line := range userCart.Items {
		p := line.Product
		if line.Quantity > p.Stock {
			return Sale{}, &InsufficientStockError{ProductName: p.Name, Available: p.Stock, Requested: line.Quantity}
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		items = append(items, SaleItem{
			ProductID:   p.ID,
			Quantity:    line.Quantity,
			PriceAtSale: p.Price,
			Subtotal:    subtotal,
			StockAtSale: p.Stock,
		})
		lines = append(lines, notify.Line{
			Name:     p.Name,
			Quantity: line.Quantity,
			Price:    p.Price,
			Subtotal: subtotal,
		})
	}
	total = total.Add(shipping.Cost)

	created, err := s.repo.Create(Sale{
		UserID:          userID,
		Items:           items,
		TotalPrice:      total,
		ShippingType:    shipping.Type,
		ShippingCost:    shipping.Cost,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		Status:          StatusPending,
		SaleDate:        time.Now().UTC(),
	})
	if err != nil {
		return Sale{}, err
	}

	// drain after insert; a failure here is retryable and harmless
	if _, err := s.carts.Clear(userID); err != nil {
		log.Printf("sale: could not clear cart for user %d after sale %d: %v", userID, created.ID, err)
	}

	s.events.Publish(notify.NewEvent(notify.KindOrderCreated, s.snapshot(created, lines)))
	return created, nil
}

func (s *Service) GetByID(id int) (Sale, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListAll() ([]Sale, error) {
	return s.repo.ListAll()
}

func (s *Service) ListByUser(userID int) ([]Sale, error) {
	return s.repo.ListByUser(userID)
}

// UpdateStatus moves a sale through the state machine and applies the
// stock side effect keyed on the (from, to) pair. The status write is a
// compare-and-set against the status we validated, so two concurrent
// updates of the same sale can never both apply their side effect: the
// loser credits back any stock it debited and reports an invalid
// transition. The cancellation credit runs after the write committed
// for the same reason. Notification outcome never matters.
func (s *Service) UpdateStatus(id int, to Status) (Sale, error) {
	if !to.Valid() {
		return Sale{}, ErrInvalidStatus
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return Sale{}, err
	}
	if !CanTransition(current.Status, to) {
		return Sale{}, ErrInvalidTransition
	}

	confirming := current.Status == StatusPending && to == StatusConfirmed
	if confirming {
		if err := s.debitStock(current); err != nil {
			return Sale{}, err
		}
	}

	updated, err := s.repo.UpdateStatus(id, current.Status, to)
	if err != nil {
		if errors.Is(err, ErrStaleStatus) {
			if confirming {
				s.creditStock(current)
			}
			return Sale{}, ErrInvalidTransition
		}
		return Sale{}, err
	}

	if current.Status == StatusConfirmed && to == StatusCancelled {
		s.creditStock(updated)
	}

	s.events.Publish(notify.NewEvent(kindForStatus(to), s.snapshot(updated, nil)))
	return updated, nil
}

// debitStock decrements every line atomically, one product at a time.
// When a line fails, the lines already debited are credited back so the
// whole confirmation is a no-op.
func (s *Service) debitStock(sl Sale) error {
	debited := make([]SaleItem, 0, len(sl.Items))
	for _, item := range sl.Items {
		if _, err := s.catalog.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			for _, done := range debited {
				if _, cerr := s.catalog.AdjustStock(done.ProductID, done.Quantity); cerr != nil {
					log.Printf("sale: could not restore stock for product %d after failed confirmation of sale %d: %v",
						done.ProductID, sl.ID, cerr)
				}
			}
			name, available := s.productInfo(item.ProductID)
			return &InsufficientStockError{ProductName: name, Available: available, Requested: item.Quantity}
		}
		debited = append(debited, item)
	}
	return nil
}

// creditStock restores every line after a confirmed sale is cancelled.
// A product deleted since confirmation just loses its refund.
func (s *Service) creditStock(sl Sale) {
	for _, item := range sl.Items {
		if _, err := s.catalog.AdjustStock(item.ProductID, item.Quantity); err != nil {
			log.Printf("sale: could not credit stock for product %d on cancellation of sale %d: %v",
				item.ProductID, sl.ID, err)
		}
	}
}

func (s *Service) productInfo(id int) (string, int) {
	p, err := s.catalog.GetByID(id)
	if err != nil {
		return fmt.Sprintf("product %d", id), 0
	}
	return p.Name, p.Stock
}

func kindForStatus(status Status) notify.Kind {
	switch status {
	case StatusConfirmed:
		return notify.KindOrderConfirmed
	case StatusCancelled:
		return notify.KindOrderCancelled
	case StatusShipped:
		return notify.KindOrderShipped
	case StatusDelivered:
		return notify.KindOrderDelivered
	default:
		return notify.KindOrderCreated
	}
}

// snapshot builds the event payload. When lines were not collected
// during checkout they are rebuilt from the sale items, resolving
// product names best-effort.
func (s *Service) snapshot(sl Sale, lines []notify.Line) notify.Order {
	if lines == nil {
		lines = make([]notify.Line, 0, len(sl.Items))
		for _, item := range sl.Items {
			name, _ := s.productInfo(item.ProductID)
			lines = append(lines, notify.Line{
				Name:     name,
				Quantity: item.Quantity,
				Price:    item.PriceAtSale,
				Subtotal: item.Subtotal,
			})
		}
	}

	order := notify.Order{
		ID:              sl.ID,
		Lines:           lines,
		TotalPrice:      sl.TotalPrice,
		ShippingCost:    sl.ShippingCost,
		PaymentMethod:   sl.PaymentMethod,
		ShippingAddress: sl.ShippingAddress,
		Status:          string(sl.Status),
		Date:            sl.SaleDate,
	}
	if shipping, ok := FindShippingType(sl.ShippingType); ok {
		order.ShippingLabel = shipping.Label
	} else {
		order.ShippingLabel = sl.ShippingType
	}

	if u, err := s.users.GetByID(sl.UserID); err == nil {
		order.CustomerName = u.Name
		order.CustomerEmail = u.Email
	} else {
		log.Printf("sale: could not resolve customer %d for sale %d: %v", sl.UserID, sl.ID, err)
	}
	return order
}
