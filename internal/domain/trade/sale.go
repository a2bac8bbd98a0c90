package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleItem is one line of a sale. CostSnapshot is the normalized cost of the
// whole line (quantity x unit cost) captured at the moment of sale; it is the
// basis for historical gross-profit reporting and must never be recomputed.
type SaleItem struct {
	ProductBarcode string
	ProductName    string
	Quantity       int
	UnitPrice      decimal.Decimal
	CostSnapshot   decimal.Decimal
}

// Sale is a completed cart. Its identity is a time-ordered numeric id, which
// doubles as the most-recent-first sort key.
type Sale struct {
	ID           int64
	Items        []SaleItem
	Total        decimal.Decimal
	PaymentIDs   []string
	Date         time.Time
	CustomerID   string
	CustomerName string
}

// NewSaleID returns a fresh time-based sale identity.
func NewSaleID(now time.Time) int64 {
	return now.UnixMilli()
}

// PaymentMethod is the fixed set of ways a payment can be made.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheque   PaymentMethod = "cheque"
)

// Payment records money received against a sale. Immutable once created,
// except for its attachment list.
type Payment struct {
	ID            string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Date          time.Time
	AttachmentIDs []string
}

// NewPayment creates a payment with a generated id.
func NewPayment(amount decimal.Decimal, method PaymentMethod, date time.Time) (*Payment, error) {
	switch method {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCheque:
	default:
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	return &Payment{
		ID:     uuid.NewString(),
		Amount: amount,
		Method: method,
		Date:   date,
	}, nil
}
