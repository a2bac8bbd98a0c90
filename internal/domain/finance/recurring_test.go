package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRecurringExpense(t *testing.T) {
	t.Run("creates with valid inputs", func(t *testing.T) {
		r, err := NewRecurringExpense("Rent", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "Rent", r.Title)
		assert.Nil(t, r.LastApplied)
	})

	t.Run("fails with empty title", func(t *testing.T) {
		_, err := NewRecurringExpense("  ", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))
		require.Error(t, err)
	})

	t.Run("fails with unknown frequency", func(t *testing.T) {
		_, err := NewRecurringExpense("Rent", decimal.NewFromInt(500), Frequency("weekly"), date(2025, 1, 15))
		require.Error(t, err)
	})
}

func TestRecurringExpenseDueDates(t *testing.T) {
	t.Run("nothing due before the first period elapses", func(t *testing.T) {
		r, _ := NewRecurringExpense("Rent", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))
		assert.Empty(t, r.DueDates(date(2025, 2, 14)))
		assert.False(t, r.IsDue(date(2025, 2, 14)))
	})

	t.Run("one date per elapsed month", func(t *testing.T) {
		r, _ := NewRecurringExpense("Rent", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))
		due := r.DueDates(date(2025, 4, 20))
		require.Len(t, due, 3)
		assert.Equal(t, date(2025, 2, 15), due[0])
		assert.Equal(t, date(2025, 3, 15), due[1])
		assert.Equal(t, date(2025, 4, 15), due[2])
	})

	t.Run("a period boundary on today is due", func(t *testing.T) {
		r, _ := NewRecurringExpense("Rent", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))
		due := r.DueDates(date(2025, 2, 15))
		require.Len(t, due, 1)
		assert.Equal(t, date(2025, 2, 15), due[0])
	})

	t.Run("yearly frequency steps by year", func(t *testing.T) {
		r, _ := NewRecurringExpense("Insurance", decimal.NewFromInt(900), FrequencyYearly, date(2023, 6, 1))
		due := r.DueDates(date(2025, 7, 1))
		require.Len(t, due, 2)
		assert.Equal(t, date(2024, 6, 1), due[0])
		assert.Equal(t, date(2025, 6, 1), due[1])
	})

	t.Run("watermark suppresses already-applied periods", func(t *testing.T) {
		r, _ := NewRecurringExpense("Rent", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))
		r.Advance(date(2025, 3, 15))

		due := r.DueDates(date(2025, 4, 20))
		require.Len(t, due, 1)
		assert.Equal(t, date(2025, 4, 15), due[0])
	})

	t.Run("repeated application within one period yields nothing", func(t *testing.T) {
		r, _ := NewRecurringExpense("Rent", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))
		for _, d := range r.DueDates(date(2025, 4, 20)) {
			r.Advance(d)
		}
		assert.Empty(t, r.DueDates(date(2025, 4, 20)))
		assert.Empty(t, r.DueDates(date(2025, 4, 30)))
	})
}

func TestRecurringExpenseAdvance(t *testing.T) {
	r, _ := NewRecurringExpense("Rent", decimal.NewFromInt(500), FrequencyMonthly, date(2025, 1, 15))

	r.Advance(date(2025, 3, 15))
	require.NotNil(t, r.LastApplied)
	assert.Equal(t, date(2025, 3, 15), *r.LastApplied)

	// The watermark never regresses.
	r.Advance(date(2025, 2, 15))
	assert.Equal(t, date(2025, 3, 15), *r.LastApplied)
}

func TestNewEmployee(t *testing.T) {
	t.Run("pairs the employee with a monthly salary expense", func(t *testing.T) {
		emp, salary, err := NewEmployee("Sara", "Cashier", decimal.NewFromInt(1200), date(2025, 5, 1))
		require.NoError(t, err)
		require.NotNil(t, salary)

		assert.Equal(t, salary.ID, emp.RecurringExpenseID)
		assert.Equal(t, "Salary: Sara", salary.Title)
		assert.Equal(t, FrequencyMonthly, salary.Frequency)
		assert.True(t, salary.Amount.Equal(emp.MonthlySalary))
		assert.Equal(t, date(2025, 5, 1), salary.StartDate)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, _, err := NewEmployee("", "Cashier", decimal.NewFromInt(1200), date(2025, 5, 1))
		require.Error(t, err)
	})
}
