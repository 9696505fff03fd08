package models

import (
	"context"
	"testing"
	"time"

	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/logger"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID    = "company-123"
	testContractID   = "contract-456"
	testSettlementID = "settlement-789"
)

func init() {
	logger.IsTest = true
}

type MockSettlementStore struct {
	mock.Mock
}

func (m *MockSettlementStore) CreateWithEarnings(ctx context.Context, settlement *types.Settlement, newEarnings []types.Earning, claimEarningIDs []string) error {
	args := m.Called(ctx, settlement, newEarnings, claimEarningIDs)
	return args.Error(0)
}

func (m *MockSettlementStore) GetWithRelations(ctx context.Context, id, companyID string) (*types.Settlement, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Settlement), args.Error(1)
}

func (m *MockSettlementStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Settlement, int, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Settlement), args.Int(1), args.Error(2)
}

func (m *MockSettlementStore) UpdateTotals(ctx context.Context, settlement *types.Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockSettlementStore) UpdateStatus(ctx context.Context, id, companyID string, status types.SettlementStatus) error {
	args := m.Called(ctx, id, companyID, status)
	return args.Error(0)
}

func (m *MockSettlementStore) Confirm(ctx context.Context, id, companyID string, confirmedAt time.Time) error {
	args := m.Called(ctx, id, companyID, confirmedAt)
	return args.Error(0)
}

var _ store.SettlementStore = (*MockSettlementStore)(nil)

type MockEarningStore struct {
	mock.Mock
}

func (m *MockEarningStore) Create(ctx context.Context, earning *types.Earning) (string, error) {
	args := m.Called(ctx, earning)
	return args.String(0), args.Error(1)
}

func (m *MockEarningStore) GetByID(ctx context.Context, id, companyID string) (*types.Earning, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Earning), args.Error(1)
}

func (m *MockEarningStore) List(ctx context.Context, companyID, contractID string, limit, offset int) ([]types.Earning, int, error) {
	args := m.Called(ctx, companyID, contractID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Earning), args.Int(1), args.Error(2)
}

func (m *MockEarningStore) ListByPeriod(ctx context.Context, companyID string, from, to time.Time) ([]types.Earning, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Earning), args.Error(1)
}

func (m *MockEarningStore) Link(ctx context.Context, earningID, companyID, settlementID string) error {
	args := m.Called(ctx, earningID, companyID, settlementID)
	return args.Error(0)
}

func (m *MockEarningStore) Archive(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

var _ store.EarningStore = (*MockEarningStore)(nil)

type MockContractStore struct {
	mock.Mock
}

func (m *MockContractStore) Create(ctx context.Context, contract *types.Contract) (string, error) {
	args := m.Called(ctx, contract)
	return args.String(0), args.Error(1)
}

func (m *MockContractStore) GetByID(ctx context.Context, id, companyID string) (*types.Contract, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Contract), args.Error(1)
}

func (m *MockContractStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Contract, int, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Contract), args.Int(1), args.Error(2)
}

func (m *MockContractStore) Update(ctx context.Context, id, companyID string, update *types.UpdateContractRequest) (*types.Contract, error) {
	args := m.Called(ctx, id, companyID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Contract), args.Error(1)
}

func (m *MockContractStore) Archive(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

func (m *MockContractStore) Restore(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

var _ store.ContractStore = (*MockContractStore)(nil)

type MockDriverStore struct {
	mock.Mock
}

func (m *MockDriverStore) Create(ctx context.Context, driver *types.Driver) (string, error) {
	args := m.Called(ctx, driver)
	return args.String(0), args.Error(1)
}

func (m *MockDriverStore) GetByID(ctx context.Context, id, companyID string) (*types.Driver, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Driver), args.Error(1)
}

func (m *MockDriverStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Driver, int, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Driver), args.Int(1), args.Error(2)
}

func (m *MockDriverStore) Update(ctx context.Context, id, companyID string, update *types.UpdateDriverRequest) (*types.Driver, error) {
	args := m.Called(ctx, id, companyID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Driver), args.Error(1)
}

func (m *MockDriverStore) Archive(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

func (m *MockDriverStore) Restore(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

var _ store.DriverStore = (*MockDriverStore)(nil)

type MockCarStore struct {
	mock.Mock
}

func (m *MockCarStore) Create(ctx context.Context, car *types.Car) (string, error) {
	args := m.Called(ctx, car)
	return args.String(0), args.Error(1)
}

func (m *MockCarStore) GetByID(ctx context.Context, id, companyID string) (*types.Car, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Car), args.Error(1)
}

func (m *MockCarStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Car, int, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Car), args.Int(1), args.Error(2)
}

func (m *MockCarStore) Update(ctx context.Context, id, companyID string, update *types.UpdateCarRequest) (*types.Car, error) {
	args := m.Called(ctx, id, companyID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Car), args.Error(1)
}

func (m *MockCarStore) Archive(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

func (m *MockCarStore) Restore(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

var _ store.CarStore = (*MockCarStore)(nil)

func newTestSettlementModel() (*SettlementModel, *MockSettlementStore, *MockEarningStore, *MockContractStore) {
	settlementStore := new(MockSettlementStore)
	earningStore := new(MockEarningStore)
	contractStore := new(MockContractStore)
	driverStore := new(MockDriverStore)
	carStore := new(MockCarStore)
	model := NewSettlementModel(settlementStore, earningStore, contractStore, driverStore, carStore)
	return model, settlementStore, earningStore, contractStore
}

func testContract() *types.Contract {
	return &types.Contract{
		ID:            testContractID,
		CompanyID:     testCompanyID,
		PaymentAmount: decimal.NewFromInt(300),
		Status:        types.ContractStatusActive,
		IsActive:      true,
	}
}

func week(day int) (time.Time, time.Time) {
	start := time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func testPeriod() (time.Time, time.Time) {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
}

func newEarningSpec(day int, gross float64) types.EarningSpec {
	ws, we := week(day)
	return types.EarningSpec{
		Platform:      types.PlatformUber,
		GrossIncome:   decimal.NewFromFloat(gross),
		BtwPercentage: decimal.NewFromInt(21),
		WeekStart:     ws,
		WeekEnd:       we,
	}
}

func TestSettlementModel_CreateSettlement_NewEarnings(t *testing.T) {
	model, settlementStore, _, contractStore := newTestSettlementModel()
	ctx := context.Background()

	periodStart, periodEnd := testPeriod()
	req := &types.CreateSettlementRequest{
		ContractID:  testContractID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		ExtraCosts:  decimal.NewFromInt(50),
		Description: "  week 10 and 11  ",
		Earnings: []types.EarningSpec{
			newEarningSpec(2, 1000),
			newEarningSpec(9, 800),
		},
	}

	settlementStore.On("CreateWithEarnings", ctx, mock.AnythingOfType("*types.Settlement"),
		mock.AnythingOfType("[]types.Earning"), []string(nil)).
		Run(func(args mock.Arguments) {
			s := args.Get(1).(*types.Settlement)
			newEarnings := args.Get(2).([]types.Earning)
			require.Len(t, newEarnings, 2)
			for _, e := range newEarnings {
				require.NotNil(t, e.SettlementID)
				assert.Equal(t, s.ID, *e.SettlementID)
				assert.Equal(t, testContractID, e.ContractID)
				assert.True(t, e.IsActive)
			}
		}).
		Return(nil)
	contractStore.On("GetByID", ctx, testContractID, testCompanyID).Return(testContract(), nil)

	ws1, we1 := week(2)
	ws2, we2 := week(9)
	reloaded := &types.Settlement{
		ID:          testSettlementID,
		CompanyID:   testCompanyID,
		ContractID:  testContractID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		ExtraCosts:  decimal.NewFromInt(50),
		Status:      types.SettlementStatusPending,
		Contract:    testContract(),
		Earnings: []types.Earning{
			{ID: "e1", GrossIncome: decimal.NewFromInt(1000), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws1, WeekEnd: we1, IsActive: true},
			{ID: "e2", GrossIncome: decimal.NewFromInt(800), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws2, WeekEnd: we2, IsActive: true},
		},
	}
	settlementStore.On("GetWithRelations", ctx, mock.AnythingOfType("string"), testCompanyID).Return(reloaded, nil)
	settlementStore.On("UpdateTotals", ctx, reloaded).Return(nil)

	created, err := model.CreateSettlement(ctx, testCompanyID, req)
	require.NoError(t, err)

	// 1000 -> 790 net, 800 -> 632 net; rent 2 weeks x 300; minus 50 extra.
	assert.True(t, created.GrossAmount.Equal(decimal.NewFromInt(1422)), "gross = %s", created.GrossAmount)
	assert.True(t, created.RentDeduction.Equal(decimal.NewFromInt(600)), "rent = %s", created.RentDeduction)
	assert.True(t, created.NetPayout.Equal(decimal.NewFromInt(772)), "net = %s", created.NetPayout)
	settlementStore.AssertExpectations(t)
}

func TestSettlementModel_CreateSettlement_ExistingEarningChecks(t *testing.T) {
	periodStart, periodEnd := testPeriod()
	ws, we := week(2)
	otherID := "settlement-other"

	baseEarning := func() *types.Earning {
		return &types.Earning{
			ID:            "earning-1",
			CompanyID:     testCompanyID,
			ContractID:    testContractID,
			Platform:      types.PlatformBolt,
			GrossIncome:   decimal.NewFromInt(500),
			BtwPercentage: decimal.NewFromInt(21),
			WeekStart:     ws,
			WeekEnd:       we,
			IsActive:      true,
		}
	}

	testCases := []struct {
		name     string
		earning  func() *types.Earning
		getErr   error
		wantType errors.ErrorType
	}{
		{
			name:     "not found",
			earning:  func() *types.Earning { return nil },
			getErr:   errors.EarningNotFound("earning-1"),
			wantType: errors.EarningNotFoundError,
		},
		{
			name: "contract mismatch",
			earning: func() *types.Earning {
				e := baseEarning()
				e.ContractID = "contract-other"
				return e
			},
			wantType: errors.EarningContractMismatchError,
		},
		{
			name: "already linked",
			earning: func() *types.Earning {
				e := baseEarning()
				e.SettlementID = &otherID
				return e
			},
			wantType: errors.EarningAlreadyLinkedError,
		},
		{
			name: "outside period",
			earning: func() *types.Earning {
				e := baseEarning()
				e.WeekStart = periodStart.AddDate(0, 0, -10)
				e.WeekEnd = periodStart.AddDate(0, 0, -3)
				return e
			},
			wantType: errors.EarningOutsidePeriodError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model, settlementStore, earningStore, contractStore := newTestSettlementModel()
			ctx := context.Background()

			contractStore.On("GetByID", ctx, testContractID, testCompanyID).Return(testContract(), nil)
			earningStore.On("GetByID", ctx, "earning-1", testCompanyID).Return(tc.earning(), tc.getErr)

			earningID := "earning-1"
			req := &types.CreateSettlementRequest{
				ContractID:  testContractID,
				PeriodStart: periodStart,
				PeriodEnd:   periodEnd,
				Earnings:    []types.EarningSpec{{EarningID: &earningID}},
			}

			_, err := model.CreateSettlement(ctx, testCompanyID, req)
			require.Error(t, err)
			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.wantType, appErr.Type)
			settlementStore.AssertNotCalled(t, "CreateWithEarnings",
				mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSettlementModel_CreateSettlement_Validation(t *testing.T) {
	periodStart, periodEnd := testPeriod()

	testCases := []struct {
		name string
		req  *types.CreateSettlementRequest
	}{
		{name: "nil request", req: nil},
		{
			name: "missing contract",
			req: &types.CreateSettlementRequest{
				PeriodStart: periodStart,
				PeriodEnd:   periodEnd,
				Earnings:    []types.EarningSpec{newEarningSpec(2, 100)},
			},
		},
		{
			name: "inverted period",
			req: &types.CreateSettlementRequest{
				ContractID:  testContractID,
				PeriodStart: periodEnd,
				PeriodEnd:   periodStart,
				Earnings:    []types.EarningSpec{newEarningSpec(2, 100)},
			},
		},
		{
			name: "negative extra costs",
			req: &types.CreateSettlementRequest{
				ContractID:  testContractID,
				PeriodStart: periodStart,
				PeriodEnd:   periodEnd,
				ExtraCosts:  decimal.NewFromInt(-1),
				Earnings:    []types.EarningSpec{newEarningSpec(2, 100)},
			},
		},
		{
			name: "no earnings",
			req: &types.CreateSettlementRequest{
				ContractID:  testContractID,
				PeriodStart: periodStart,
				PeriodEnd:   periodEnd,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model, _, _, _ := newTestSettlementModel()

			_, err := model.CreateSettlement(context.Background(), testCompanyID, tc.req)
			require.Error(t, err)
			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ValidationError, appErr.Type)
		})
	}
}

func TestSettlementModel_CreateSettlement_InvertedEarningWeek(t *testing.T) {
	model, settlementStore, _, contractStore := newTestSettlementModel()
	ctx := context.Background()

	periodStart, periodEnd := testPeriod()
	spec := newEarningSpec(2, 1000)
	spec.WeekStart, spec.WeekEnd = spec.WeekEnd, spec.WeekStart

	contractStore.On("GetByID", ctx, testContractID, testCompanyID).Return(testContract(), nil)

	req := &types.CreateSettlementRequest{
		ContractID:  testContractID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Earnings:    []types.EarningSpec{spec},
	}

	_, err := model.CreateSettlement(ctx, testCompanyID, req)
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.InvalidEarningWindowError, appErr.Type)
	settlementStore.AssertNotCalled(t, "CreateWithEarnings",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementModel_CreateSettlement_RecalculationFailure(t *testing.T) {
	model, settlementStore, _, contractStore := newTestSettlementModel()
	ctx := context.Background()

	periodStart, periodEnd := testPeriod()
	req := &types.CreateSettlementRequest{
		ContractID:  testContractID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Earnings:    []types.EarningSpec{newEarningSpec(2, 1000)},
	}

	contractStore.On("GetByID", ctx, testContractID, testCompanyID).Return(testContract(), nil)
	settlementStore.On("CreateWithEarnings", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	settlementStore.On("GetWithRelations", ctx, mock.AnythingOfType("string"), testCompanyID).
		Return(nil, errors.NewDatabaseError(assert.AnError))

	_, err := model.CreateSettlement(ctx, testCompanyID, req)
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.RecalculationError, appErr.Type)
	settlementStore.AssertExpectations(t)
}

func TestRecalculate(t *testing.T) {
	ws1, we1 := week(2)
	ws2, we2 := week(9)

	t.Run("rent charged once per distinct week", func(t *testing.T) {
		s := &types.Settlement{
			ExtraCosts: decimal.Zero,
			Contract:   testContract(),
			Earnings: []types.Earning{
				{GrossIncome: decimal.NewFromInt(1000), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws1, WeekEnd: we1, IsActive: true},
				{GrossIncome: decimal.NewFromInt(500), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws1, WeekEnd: we1, IsActive: true},
			},
		}
		Recalculate(s)
		// Two earnings in the same week: rent deducted once.
		assert.True(t, s.RentDeduction.Equal(decimal.NewFromInt(300)), "rent = %s", s.RentDeduction)
		assert.True(t, s.GrossAmount.Equal(decimal.NewFromFloat(1185)), "gross = %s", s.GrossAmount)
		assert.True(t, s.NetPayout.Equal(decimal.NewFromInt(885)), "net = %s", s.NetPayout)
	})

	t.Run("inactive earnings excluded", func(t *testing.T) {
		s := &types.Settlement{
			ExtraCosts: decimal.Zero,
			Contract:   testContract(),
			Earnings: []types.Earning{
				{GrossIncome: decimal.NewFromInt(1000), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws1, WeekEnd: we1, IsActive: true},
				{GrossIncome: decimal.NewFromInt(9999), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws2, WeekEnd: we2, IsActive: false},
			},
		}
		Recalculate(s)
		assert.True(t, s.GrossAmount.Equal(decimal.NewFromInt(790)))
		assert.True(t, s.RentDeduction.Equal(decimal.NewFromInt(300)))
	})

	t.Run("payout clamped at zero", func(t *testing.T) {
		s := &types.Settlement{
			ExtraCosts: decimal.NewFromInt(100),
			Contract:   testContract(),
			Earnings: []types.Earning{
				{GrossIncome: decimal.NewFromInt(200), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws1, WeekEnd: we1, IsActive: true},
			},
		}
		Recalculate(s)
		// 158 net - 300 rent - 100 extra is negative.
		assert.True(t, s.NetPayout.IsZero(), "net = %s", s.NetPayout)
		assert.True(t, s.GrossAmount.Equal(decimal.NewFromInt(158)))
	})

	t.Run("recalculation is idempotent", func(t *testing.T) {
		s := &types.Settlement{
			ExtraCosts: decimal.NewFromInt(50),
			Contract:   testContract(),
			Earnings: []types.Earning{
				{GrossIncome: decimal.NewFromFloat(333.33), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws1, WeekEnd: we1, IsActive: true},
			},
		}
		Recalculate(s)
		gross, rent, net := s.GrossAmount, s.RentDeduction, s.NetPayout
		Recalculate(s)
		assert.True(t, s.GrossAmount.Equal(gross))
		assert.True(t, s.RentDeduction.Equal(rent))
		assert.True(t, s.NetPayout.Equal(net))
	})

	t.Run("empty settlement", func(t *testing.T) {
		s := &types.Settlement{ExtraCosts: decimal.Zero, Contract: testContract()}
		Recalculate(s)
		assert.True(t, s.GrossAmount.IsZero())
		assert.True(t, s.RentDeduction.IsZero())
		assert.True(t, s.NetPayout.IsZero())
	})

	t.Run("missing contract means no rent", func(t *testing.T) {
		s := &types.Settlement{
			ExtraCosts: decimal.Zero,
			Earnings: []types.Earning{
				{GrossIncome: decimal.NewFromInt(1000), BtwPercentage: decimal.NewFromInt(21), WeekStart: ws1, WeekEnd: we1, IsActive: true},
			},
		}
		Recalculate(s)
		assert.True(t, s.GrossAmount.Equal(decimal.NewFromInt(790)), "gross = %s", s.GrossAmount)
		assert.True(t, s.RentDeduction.IsZero(), "rent = %s", s.RentDeduction)
		assert.True(t, s.NetPayout.Equal(decimal.NewFromInt(790)), "net = %s", s.NetPayout)
	})
}

func TestSettlementModel_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition", func(t *testing.T) {
		model, settlementStore, _, _ := newTestSettlementModel()
		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).
			Return(&types.Settlement{ID: testSettlementID, Status: types.SettlementStatusPending}, nil)
		settlementStore.On("UpdateStatus", ctx, testSettlementID, testCompanyID, types.SettlementStatusApproved).Return(nil)

		err := model.UpdateStatus(ctx, testSettlementID, testCompanyID, types.SettlementStatusApproved)
		require.NoError(t, err)
		settlementStore.AssertExpectations(t)
	})

	t.Run("skipping a step rejected", func(t *testing.T) {
		model, settlementStore, _, _ := newTestSettlementModel()
		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).
			Return(&types.Settlement{ID: testSettlementID, Status: types.SettlementStatusPending}, nil)

		err := model.UpdateStatus(ctx, testSettlementID, testCompanyID, types.SettlementStatusPaid)
		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.InvalidStatusTransitionError, appErr.Type)
		settlementStore.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed is terminal", func(t *testing.T) {
		model, settlementStore, _, _ := newTestSettlementModel()
		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).
			Return(&types.Settlement{ID: testSettlementID, Status: types.SettlementStatusConfirmed}, nil)

		err := model.UpdateStatus(ctx, testSettlementID, testCompanyID, types.SettlementStatusPending)
		require.Error(t, err)
	})
}

func TestSettlementModel_ConfirmByDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("paid settlement confirmed", func(t *testing.T) {
		model, settlementStore, _, _ := newTestSettlementModel()
		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).
			Return(&types.Settlement{ID: testSettlementID, Status: types.SettlementStatusPaid}, nil)
		settlementStore.On("Confirm", ctx, testSettlementID, testCompanyID, mock.AnythingOfType("time.Time")).Return(nil)

		settlement, err := model.ConfirmByDriver(ctx, testSettlementID, testCompanyID)
		require.NoError(t, err)
		assert.Equal(t, types.SettlementStatusConfirmed, settlement.Status)
		assert.True(t, settlement.ConfirmedByDriver)
		require.NotNil(t, settlement.ConfirmedAt)
	})

	t.Run("pending settlement rejected", func(t *testing.T) {
		model, settlementStore, _, _ := newTestSettlementModel()
		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).
			Return(&types.Settlement{ID: testSettlementID, Status: types.SettlementStatusPending}, nil)

		_, err := model.ConfirmByDriver(ctx, testSettlementID, testCompanyID)
		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.InvalidStatusTransitionError, appErr.Type)
	})
}

func TestSettlementModel_AddEarning(t *testing.T) {
	ctx := context.Background()
	periodStart, periodEnd := testPeriod()
	ws, we := week(16)

	pendingSettlement := func() *types.Settlement {
		return &types.Settlement{
			ID:          testSettlementID,
			CompanyID:   testCompanyID,
			ContractID:  testContractID,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			ExtraCosts:  decimal.Zero,
			Status:      types.SettlementStatusPending,
			Contract:    testContract(),
		}
	}

	t.Run("links existing earning and recalculates", func(t *testing.T) {
		model, settlementStore, earningStore, _ := newTestSettlementModel()

		earning := &types.Earning{
			ID:            "earning-9",
			CompanyID:     testCompanyID,
			ContractID:    testContractID,
			GrossIncome:   decimal.NewFromInt(1000),
			BtwPercentage: decimal.NewFromInt(21),
			WeekStart:     ws,
			WeekEnd:       we,
			IsActive:      true,
		}
		reloaded := pendingSettlement()
		linked := *earning
		linkedID := testSettlementID
		linked.SettlementID = &linkedID
		reloaded.Earnings = []types.Earning{linked}

		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).Return(pendingSettlement(), nil).Once()
		earningStore.On("GetByID", ctx, "earning-9", testCompanyID).Return(earning, nil)
		earningStore.On("Link", ctx, "earning-9", testCompanyID, testSettlementID).Return(nil)
		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).Return(reloaded, nil).Once()
		settlementStore.On("UpdateTotals", ctx, reloaded).Return(nil)

		earningID := "earning-9"
		updated, err := model.AddEarning(ctx, testSettlementID, testCompanyID, &types.EarningSpec{EarningID: &earningID})
		require.NoError(t, err)
		assert.True(t, updated.GrossAmount.Equal(decimal.NewFromInt(790)))
		assert.True(t, updated.RentDeduction.Equal(decimal.NewFromInt(300)))
		assert.True(t, updated.NetPayout.Equal(decimal.NewFromInt(490)))
		settlementStore.AssertExpectations(t)
		earningStore.AssertExpectations(t)
	})

	t.Run("frozen after approval", func(t *testing.T) {
		model, settlementStore, earningStore, _ := newTestSettlementModel()

		approved := pendingSettlement()
		approved.Status = types.SettlementStatusApproved
		settlementStore.On("GetWithRelations", ctx, testSettlementID, testCompanyID).Return(approved, nil)

		earningID := "earning-9"
		_, err := model.AddEarning(ctx, testSettlementID, testCompanyID, &types.EarningSpec{EarningID: &earningID})
		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ConflictError, appErr.Type)
		earningStore.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
