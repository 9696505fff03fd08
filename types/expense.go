package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a company cost record carrying its own VAT rate. Expenses
// feed the quarterly BTW report alongside earnings.
type Expense struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	BtwPercentage decimal.Decimal `json:"btwPercentage"`
	IncurredOn    time.Time       `json:"incurredOn"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BtwAmount derives the VAT portion of the expense, rounded to cents.
func (e *Expense) BtwAmount() decimal.Decimal {
	return e.Amount.Mul(e.BtwPercentage).Div(decimal.NewFromInt(100)).Round(2)
}

// CreateExpenseRequest is the payload for recording an expense.
type CreateExpenseRequest struct {
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	BtwPercentage decimal.Decimal `json:"btwPercentage"`
	IncurredOn    time.Time       `json:"incurredOn" binding:"required"`
}

// BtwReport summarizes VAT collected on earnings and VAT paid on expenses
// over a reporting period.
type BtwReport struct {
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
	EarningsGross   decimal.Decimal `json:"earningsGross"`
	EarningsBtw     decimal.Decimal `json:"earningsBtw"`
	ExpensesTotal   decimal.Decimal `json:"expensesTotal"`
	ExpensesBtw     decimal.Decimal `json:"expensesBtw"`
	BtwBalance      decimal.Decimal `json:"btwBalance"`
	EarningCount    int             `json:"earningCount"`
	ExpenseCount    int             `json:"expenseCount"`
}
