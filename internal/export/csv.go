package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/odontools/shop-backend/internal/sale"
)

// ErrNoSales means there is nothing to export.
var ErrNoSales = errors.New("no sales to export")

var csvHeader = []string{
	"Sale ID", "User", "Sale Date", "Status",
	"Payment Method", "Shipping Address", "Total Price", "Products",
}

// SalesCSV writes one row per sale. customerName resolves the buyer
// (falling back to the raw user id when the account is gone) and
// productName resolves snapshot lines; lines for deleted products are
// left out of the products column.
func SalesCSV(w io.Writer, sales []sale.Sale, customerName func(userID int) (string, bool), productName func(id int) (string, bool)) error {
	if len(sales) == 0 {
		return ErrNoSales
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range sales {
		buyer, ok := customerName(s.UserID)
		if !ok {
			buyer = "user #" + strconv.Itoa(s.UserID)
		}
		products := make([]string, 0, len(s.Items))
		for _, item := range s.Items {
			name, ok := productName(item.ProductID)
			if !ok {
				continue
			}
			products = append(products, fmt.Sprintf("%s (Qty: %d, Price: $%s)",
				name, item.Quantity, item.PriceAtSale.StringFixed(2)))
		}
		row := []string{
			strconv.Itoa(s.ID),
			buyer,
			s.SaleDate.Format("2006-01-02 15:04"),
			string(s.Status),
			s.PaymentMethod,
			s.ShippingAddress,
			s.TotalPrice.StringFixed(2),
			strings.Join(products, " | "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
