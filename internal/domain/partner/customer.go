package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopbook/backend/internal/domain/shared"
)

// Customer is a buyer known to the shop. Customers are created explicitly or
// implicitly during sale completion when a sale names an unknown customer.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer creates a customer with a generated id.
func NewCustomer(name, phone, address string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	now := time.Now()
	return &Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
