package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring expense falls due.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecurringExpense generates an Expense once per period. LastApplied is the
// watermark that prevents duplicate generation: it only ever moves forward,
// one period at a time.
type RecurringExpense struct {
	ID          string
	Title       string
	Amount      decimal.Decimal
	Frequency   Frequency
	StartDate   time.Time
	LastApplied *time.Time
}

// NewRecurringExpense creates a recurring expense with a generated id.
func NewRecurringExpense(title string, amount decimal.Decimal, freq Frequency, start time.Time) (*RecurringExpense, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Recurring expense title cannot be empty")
	}
	switch freq {
	case FrequencyMonthly, FrequencyYearly:
	default:
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Frequency must be monthly or yearly")
	}
	return &RecurringExpense{
		ID:        uuid.NewString(),
		Title:     title,
		Amount:    amount,
		Frequency: freq,
		StartDate: start,
	}, nil
}

// nextPeriod advances a date by one period.
func (r *RecurringExpense) nextPeriod(t time.Time) time.Time {
	if r.Frequency == FrequencyYearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// IsDue reports whether at least one period has elapsed past the watermark.
func (r *RecurringExpense) IsDue(today time.Time) bool {
	return len(r.DueDates(today)) > 0
}

// DueDates returns every date, in order, for which an expense should be
// generated as of today: each period boundary after the watermark (or start
// date, when never applied) up to and including today. Dates at or before an
// already-advanced watermark are never returned, which is what makes repeated
// application within one period a no-op.
func (r *RecurringExpense) DueDates(today time.Time) []time.Time {
	cursor := r.StartDate
	if r.LastApplied != nil {
		cursor = *r.LastApplied
	}

	var due []time.Time
	for {
		cursor = r.nextPeriod(cursor)
		if cursor.After(today) {
			break
		}
		if r.LastApplied != nil && !cursor.After(*r.LastApplied) {
			continue
		}
		due = append(due, cursor)
	}
	return due
}

// Advance moves the watermark to the given date. The watermark never regresses.
func (r *RecurringExpense) Advance(applied time.Time) {
	if r.LastApplied != nil && !applied.After(*r.LastApplied) {
		return
	}
	t := applied
	r.LastApplied = &t
}

// Employee is a staff member whose monthly salary is represented by a paired
// RecurringExpense. The two records share a lifecycle: deleting the employee
// deletes the linked recurring expense.
type Employee struct {
	ID                 string
	Name               string
	Position           string
	MonthlySalary      decimal.Decimal
	RecurringExpenseID string
	CreatedAt          time.Time
}

// NewEmployee creates an employee together with its salary recurring expense.
func NewEmployee(name, position string, salary decimal.Decimal, hiredAt time.Time) (*Employee, *RecurringExpense, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	salaryExpense, err := NewRecurringExpense("Salary: "+name, salary, FrequencyMonthly, hiredAt)
	if err != nil {
		return nil, nil, err
	}
	emp := &Employee{
		ID:                 uuid.NewString(),
		Name:               name,
		Position:           position,
		MonthlySalary:      salary,
		RecurringExpenseID: salaryExpense.ID,
		CreatedAt:          hiredAt,
	}
	return emp, salaryExpense, nil
}
