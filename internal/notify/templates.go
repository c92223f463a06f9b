package notify

import (
	"fmt"
	"strings"
)

// adminMessage renders the new-order notification sent to the store
// admin. Only OrderCreated has an admin copy.
func adminMessage(o Order) (subject, body string) {
	subject = fmt.Sprintf("New order #%d - pending confirmation", o.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "A new order is waiting for confirmation.\n\n")
	fmt.Fprintf(&b, "Order #%d\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s <%s>\n", o.CustomerName, o.CustomerEmail)
	fmt.Fprintf(&b, "Date: %s\n", o.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Payment method: %s\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Shipping: %s to %s\n\n", o.ShippingLabel, o.ShippingAddress)
	writeLines(&b, o)
	fmt.Fprintf(&b, "\nConfirm the order to debit stock.\n")
	return subject, b.String()
}

// customerMessage renders the customer-facing message for an event kind.
func customerMessage(kind Kind, o Order) (subject, body string) {
	var b strings.Builder

	switch kind {
	case KindOrderCreated:
		subject = fmt.Sprintf("We received your order #%d", o.ID)
		fmt.Fprintf(&b, "Hi %s,\n\nThanks for your purchase! Your order is pending confirmation.\n\n", o.CustomerName)
	case KindOrderConfirmed:
		subject = fmt.Sprintf("Your order #%d is confirmed", o.ID)
		fmt.Fprintf(&b, "Hi %s,\n\nYour order has been confirmed and is being prepared.\n\n", o.CustomerName)
	case KindOrderCancelled:
		subject = fmt.Sprintf("Your order #%d was cancelled", o.ID)
		fmt.Fprintf(&b, "Hi %s,\n\nYour order has been cancelled. If you already paid, the amount will be refunded.\n\n", o.CustomerName)
	case KindOrderShipped:
		subject = fmt.Sprintf("Your order #%d is on its way", o.ID)
		fmt.Fprintf(&b, "Hi %s,\n\nYour order has been shipped via %s.\n\n", o.CustomerName, o.ShippingLabel)
	case KindOrderDelivered:
		subject = fmt.Sprintf("Your order #%d was delivered", o.ID)
		fmt.Fprintf(&b, "Hi %s,\n\nYour order has been delivered. Enjoy!\n\n", o.CustomerName)
	default:
		subject = fmt.Sprintf("Update on your order #%d", o.ID)
		fmt.Fprintf(&b, "Hi %s,\n\nThere is an update on your order.\n\n", o.CustomerName)
	}

	writeLines(&b, o)
	fmt.Fprintf(&b, "\nShipping address: %s\n", o.ShippingAddress)
	fmt.Fprintf(&b, "\nThanks for shopping with Odontools.\n")
	return subject, b.String()
}

func writeLines(b *strings.Builder, o Order) {
	for _, line := range o.Lines {
		fmt.Fprintf(b, "  %dx %s @ $%s = $%s\n",
			line.Quantity, line.Name, line.Price.StringFixed(2), line.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(b, "  Shipping (%s): $%s\n", o.ShippingLabel, o.ShippingCost.StringFixed(2))
	fmt.Fprintf(b, "  Total: $%s\n", o.TotalPrice.StringFixed(2))
}
