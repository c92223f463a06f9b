package sale

// Status is the sale state machine. The wire values are the Spanish
// labels the storefront has always used.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusConfirmed Status = "confirmado"
	StatusShipped   Status = "enviado"
	StatusDelivered Status = "entregado"
	StatusCancelled Status = "cancelado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type transition struct {
	from, to Status
}

// allowedTransitions is the full set of legal moves. Anything else,
// including jumps like pendiente -> entregado and repeated
// confirmations, is rejected so stock accounting stays one-way-safe.
var allowedTransitions = map[transition]struct{}{
	{StatusPending, StatusConfirmed}:   {},
	{StatusPending, StatusCancelled}:   {},
	{StatusConfirmed, StatusShipped}:   {},
	{StatusConfirmed, StatusCancelled}: {},
	{StatusShipped, StatusDelivered}:   {},
}

func CanTransition(from, to Status) bool {
	_, ok := allowedTransitions[transition{from, to}]
	return ok
}
