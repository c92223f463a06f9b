package cart

import "github.com/odontools/shop-backend/internal/product"

// Cart is a user's current selection with resolved product details.
// Lines are keyed by product, so the same product never appears twice.
type Cart struct {
	UserID int        `json:"userId"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}
