package models

import (
	"context"
	"testing"
	"time"

	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExpenseStore struct {
	mock.Mock
}

func (m *MockExpenseStore) Create(ctx context.Context, expense *types.Expense) (string, error) {
	args := m.Called(ctx, expense)
	return args.String(0), args.Error(1)
}

func (m *MockExpenseStore) GetByID(ctx context.Context, id, companyID string) (*types.Expense, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Expense, int, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseStore) ListByPeriod(ctx context.Context, companyID string, from, to time.Time) ([]types.Expense, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Expense), args.Error(1)
}

func (m *MockExpenseStore) Archive(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

var _ store.ExpenseStore = (*MockExpenseStore)(nil)

func TestExpenseModel_BtwReport(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	expenseStore := new(MockExpenseStore)
	earningStore := new(MockEarningStore)
	model := NewExpenseModel(expenseStore, earningStore)

	earningStore.On("ListByPeriod", ctx, testCompanyID, from, to).Return([]types.Earning{
		{GrossIncome: decimal.NewFromInt(1000), BtwPercentage: decimal.NewFromInt(21)},
		{GrossIncome: decimal.NewFromFloat(333.33), BtwPercentage: decimal.NewFromInt(21)},
	}, nil)
	expenseStore.On("ListByPeriod", ctx, testCompanyID, from, to).Return([]types.Expense{
		{Amount: decimal.NewFromInt(121), BtwPercentage: decimal.NewFromInt(21)},
	}, nil)

	report, err := model.BtwReport(ctx, testCompanyID, from, to)
	require.NoError(t, err)

	// Earnings BTW: 210.00 + 70.00; expense BTW: 25.41.
	assert.True(t, report.EarningsGross.Equal(decimal.NewFromFloat(1333.33)), "gross = %s", report.EarningsGross)
	assert.True(t, report.EarningsBtw.Equal(decimal.NewFromInt(280)), "earnings btw = %s", report.EarningsBtw)
	assert.True(t, report.ExpensesBtw.Equal(decimal.NewFromFloat(25.41)), "expenses btw = %s", report.ExpensesBtw)
	assert.True(t, report.BtwBalance.Equal(decimal.NewFromFloat(254.59)), "balance = %s", report.BtwBalance)
	assert.Equal(t, 2, report.EarningCount)
	assert.Equal(t, 1, report.ExpenseCount)
}

func TestExpenseModel_BtwReport_InvalidPeriod(t *testing.T) {
	model := NewExpenseModel(new(MockExpenseStore), new(MockEarningStore))

	_, err := model.BtwReport(context.Background(), testCompanyID, time.Now(), time.Now().Add(-time.Hour))
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ValidationError, appErr.Type)
}
