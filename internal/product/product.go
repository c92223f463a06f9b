package product

import "github.com/shopspring/decimal"

// Product is a catalog entry. Price and Stock are the two fields the
// sale workflow depends on; both must stay non-negative.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Discount    int             `json:"discount"`
	Image       string          `json:"image"`
	Images      []string        `json:"images,omitempty"`
	IsFavorite  bool            `json:"isFavorite"`
	Reviews     int             `json:"reviews"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// Validate enforces the catalog invariants on create and update.
func (p Product) Validate() error {
	if p.Name == "" || p.Description == "" || p.Category == "" {
		return ErrInvalidInput
	}
	if p.Price.IsNegative() {
		return ErrInvalidInput
	}
	if p.Stock < 0 {
		return ErrInvalidInput
	}
	if p.Discount < 0 || p.Discount > 100 {
		return ErrInvalidInput
	}
	return nil
}
