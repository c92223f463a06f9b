package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is the immutable per-line snapshot taken at checkout.
// Price and stock are copied from the product at that moment and never
// recomputed, so historical sales survive later catalog changes.
type SaleItem struct {
	ProductID   int             `json:"productId"`
	Quantity    int             `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"priceAtSale"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	StockAtSale int             `json:"stockAtSale"`
}

type Sale struct {
	ID              int             `json:"id"`
	UserID          int             `json:"userId"`
	Items           []SaleItem      `json:"items"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingType    string          `json:"shippingType"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress string          `json:"shippingAddress"`
	Status          Status          `json:"status"`
	SaleDate        time.Time       `json:"saleDate"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

var PaymentMethods = []string{"cash", "bank_transfer"}

func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// ShippingType is one row of the configured shipping table.
type ShippingType struct {
	Type  string          `json:"type"`
	Label string          `json:"label"`
	Cost  decimal.Decimal `json:"cost"`
}

var ShippingTypes = []ShippingType{
	{Type: "Cargotrans", Label: "Cargotrans 24-48 horas", Cost: decimal.Zero},
	{Type: "Estandar", Label: "Envio Estandar 24 horas", Cost: decimal.NewFromInt(150)},
	{Type: "Express", Label: "Envio Express 1-2 horas", Cost: decimal.NewFromInt(300)},
}

func FindShippingType(t string) (ShippingType, bool) {
	for _, s := range ShippingTypes {
		if s.Type == t {
			return s, true
		}
	}
	return ShippingType{}, false
}
