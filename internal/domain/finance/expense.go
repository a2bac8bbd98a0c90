package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense is a one-time cost entry. Expenses are created explicitly or
// generated by the recurring-expense engine.
type Expense struct {
	ID            string
	Title         string
	Amount        decimal.Decimal
	Date          time.Time
	AttachmentIDs []string
}

// NewExpense creates an expense with a generated id.
func NewExpense(title string, amount decimal.Decimal, date time.Time) (*Expense, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Expense title cannot be empty")
	}
	return &Expense{
		ID:     uuid.NewString(),
		Title:  title,
		Amount: amount,
		Date:   date,
	}, nil
}

// AttachmentOwner is the kind of document an attachment belongs to.
type AttachmentOwner string

const (
	OwnerSale    AttachmentOwner = "sale"
	OwnerExpense AttachmentOwner = "expense"
	OwnerPayment AttachmentOwner = "payment"
)

// Attachment is a receipt or reference document bound to an owning entity.
// Attachments are looked up by owner id and cascade-deleted with the owner.
type Attachment struct {
	ID          string
	SourceID    string
	OwnerKind   AttachmentOwner
	Date        time.Time
	Description string
	ReceiptNo   string
	Image       string // opaque reference produced by file upload
}

// NewAttachment creates an attachment with a generated id.
func NewAttachment(sourceID string, kind AttachmentOwner, date time.Time) *Attachment {
	return &Attachment{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		OwnerKind: kind,
		Date:      date,
	}
}
