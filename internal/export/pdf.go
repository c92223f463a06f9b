package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/odontools/shop-backend/internal/sale"
	"github.com/odontools/shop-backend/internal/user"
)

// ErrNoValidItems means every line of the sale referenced a product
// that has since been deleted.
var ErrNoValidItems = errors.New("sale has no valid products")

var statusColors = map[sale.Status][3]int{
	sale.StatusPending:   {243, 156, 18},
	sale.StatusConfirmed: {52, 152, 219},
	sale.StatusShipped:   {155, 89, 182},
	sale.StatusDelivered: {39, 174, 96},
	sale.StatusCancelled: {231, 76, 60},
}

// InvoicePDF renders a sale as an A4 invoice. productName resolves a
// snapshot line to its current catalog name; lines whose product no
// longer exists are skipped rather than failing the render. The
// document dates are pinned to the sale date so the same input always
// produces identical bytes.
func InvoicePDF(w io.Writer, s sale.Sale, customer user.User, productName func(id int) (string, bool)) error {
	type row struct {
		name string
		item sale.SaleItem
	}
	rows := make([]row, 0, len(s.Items))
	for _, item := range s.Items {
		name, ok := productName(item.ProductID)
		if !ok {
			continue
		}
		rows = append(rows, row{name: name, item: item})
	}
	if len(rows) == 0 {
		return ErrNoValidItems
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(s.SaleDate)
	pdf.SetModificationDate(s.SaleDate)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// header
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "SALE INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 6, fmt.Sprintf("ID: %d", s.ID), "", 1, "C", false, 0, "")
	pdf.SetDrawColor(52, 152, 219)
	pdf.SetLineWidth(0.8)
	pdf.Line(15, pdf.GetY()+2, 195, pdf.GetY()+2)
	pdf.Ln(8)

	// customer block
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Customer", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 6, "Name: "+customer.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Email: "+customer.Email, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// sale details
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Sale details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 6, "Date: "+s.SaleDate.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	color, ok := statusColors[s.Status]
	if !ok {
		color = [3]int{52, 73, 94}
	}
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Status: "+string(s.Status), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 6, "Payment method: "+s.PaymentMethod, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Shipping address: "+s.ShippingAddress, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// items table
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 8, "Product", "", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Subtotal", "", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	subtotal := decimal.Zero
	for i, r := range rows {
		fill := i%2 == 0
		pdf.SetFillColor(236, 240, 241)
		pdf.SetTextColor(44, 62, 80)
		pdf.CellFormat(80, 8, r.name, "", 0, "L", fill, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", r.item.Quantity), "", 0, "C", fill, 0, "")
		pdf.CellFormat(35, 8, "$"+r.item.PriceAtSale.StringFixed(2), "", 0, "R", fill, 0, "")
		pdf.CellFormat(40, 8, "$"+r.item.Subtotal.StringFixed(2), "", 1, "R", fill, 0, "")
		subtotal = subtotal.Add(r.item.Subtotal)
	}
	pdf.Ln(4)

	// totals
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(140, 7, "Products subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "$"+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(140, 7, "Shipping cost:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "$"+s.ShippingCost.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFillColor(39, 174, 96)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(140, 10, "TOTAL:", "", 0, "R", true, 0, "")
	pdf.CellFormat(40, 10, "$"+s.TotalPrice.StringFixed(2), "", 1, "R", true, 0, "")

	// footer
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(149, 165, 166)
	pdf.CellFormat(0, 6, "Thank you for your purchase. Contact us with any questions.", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}
