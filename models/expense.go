package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/logger"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/shopspring/decimal"
)

// ExpenseModel manages company expenses and produces the BTW report that
// offsets VAT collected on earnings against VAT paid on expenses.
type ExpenseModel struct {
	store        store.ExpenseStore
	earningStore store.EarningStore
}

func NewExpenseModel(expenseStore store.ExpenseStore, earningStore store.EarningStore) *ExpenseModel {
	return &ExpenseModel{
		store:        expenseStore,
		earningStore: earningStore,
	}
}

func (xm *ExpenseModel) CreateExpense(ctx context.Context, companyID string, req *types.CreateExpenseRequest) (*types.Expense, error) {
	log := logger.GetLogger()

	if err := validateCreateExpenseRequest(req); err != nil {
		return nil, err
	}

	expense := &types.Expense{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Category:      strings.TrimSpace(req.Category),
		Description:   strings.TrimSpace(req.Description),
		Amount:        req.Amount,
		BtwPercentage: req.BtwPercentage,
		IncurredOn:    req.IncurredOn,
		IsActive:      true,
	}

	if _, err := xm.store.Create(ctx, expense); err != nil {
		log.Errorw("Failed to create expense",
			"category", req.Category,
			"error", err,
		)
		return nil, errors.NewDatabaseError(err)
	}
	return expense, nil
}

func (xm *ExpenseModel) GetExpense(ctx context.Context, id, companyID string) (*types.Expense, error) {
	return xm.store.GetByID(ctx, id, companyID)
}

func (xm *ExpenseModel) ListExpenses(ctx context.Context, companyID string, limit, offset int) (*types.PaginatedResponse, error) {
	expenses, total, err := xm.store.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &types.PaginatedResponse{
		Data: expenses,
		Pagination: types.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

func (xm *ExpenseModel) ArchiveExpense(ctx context.Context, id, companyID string) error {
	return xm.store.Archive(ctx, id, companyID)
}

// BtwReport aggregates VAT over a reporting period. The balance is VAT
// collected on earnings minus VAT paid on expenses; a positive balance is
// owed to the tax office.
func (xm *ExpenseModel) BtwReport(ctx context.Context, companyID string, from, to time.Time) (*types.BtwReport, error) {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return nil, errors.ValidationFailed("Invalid report period", "period end must be after period start")
	}

	earnings, err := xm.earningStore.ListByPeriod(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := xm.store.ListByPeriod(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	report := &types.BtwReport{
		PeriodStart:   from,
		PeriodEnd:     to,
		EarningsGross: decimal.Zero,
		EarningsBtw:   decimal.Zero,
		ExpensesTotal: decimal.Zero,
		ExpensesBtw:   decimal.Zero,
		EarningCount:  len(earnings),
		ExpenseCount:  len(expenses),
	}

	for i := range earnings {
		e := &earnings[i]
		report.EarningsGross = report.EarningsGross.Add(e.GrossIncome)
		report.EarningsBtw = report.EarningsBtw.Add(e.BtwAmount())
	}
	for i := range expenses {
		x := &expenses[i]
		report.ExpensesTotal = report.ExpensesTotal.Add(x.Amount)
		report.ExpensesBtw = report.ExpensesBtw.Add(x.BtwAmount())
	}
	report.BtwBalance = report.EarningsBtw.Sub(report.ExpensesBtw).Round(2)
	return report, nil
}

func validateCreateExpenseRequest(req *types.CreateExpenseRequest) error {
	if req == nil {
		return errors.ValidationFailed("Invalid expense data", "request body is required")
	}

	var validationErrors []string

	if strings.TrimSpace(req.Category) == "" {
		validationErrors = append(validationErrors, "category is required")
	}
	if req.Amount.IsNegative() {
		validationErrors = append(validationErrors, "amount cannot be negative")
	}
	if req.BtwPercentage.IsNegative() || req.BtwPercentage.GreaterThan(decimal.NewFromInt(100)) {
		validationErrors = append(validationErrors, "btw percentage must be between 0 and 100")
	}
	if req.IncurredOn.IsZero() {
		validationErrors = append(validationErrors, "incurred date is required")
	}

	if len(validationErrors) > 0 {
		return errors.ValidationFailed(
			"Invalid expense data",
			strings.Join(validationErrors, "; "),
		)
	}
	return nil
}
