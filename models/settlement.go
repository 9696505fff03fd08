package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/logger"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/shopspring/decimal"
)

// SettlementModel owns the weekly payout workflow: building a settlement
// from earnings, recalculating its totals and walking it through the
// status lifecycle.
type SettlementModel struct {
	store         store.SettlementStore
	earningStore  store.EarningStore
	contractStore store.ContractStore
	driverStore   store.DriverStore
	carStore      store.CarStore
}

func NewSettlementModel(
	settlementStore store.SettlementStore,
	earningStore store.EarningStore,
	contractStore store.ContractStore,
	driverStore store.DriverStore,
	carStore store.CarStore,
) *SettlementModel {
	return &SettlementModel{
		store:         settlementStore,
		earningStore:  earningStore,
		contractStore: contractStore,
		driverStore:   driverStore,
		carStore:      carStore,
	}
}

// CreateSettlement validates the request, resolves and claims the listed
// earnings, commits everything atomically and recalculates the totals.
// A failure before commit leaves no trace; a failure after commit returns
// a RecalculationError while the settlement itself is durable.
func (sm *SettlementModel) CreateSettlement(ctx context.Context, companyID string, req *types.CreateSettlementRequest) (*types.Settlement, error) {
	log := logger.GetLogger()

	if err := validateCreateSettlementRequest(req); err != nil {
		return nil, err
	}

	contract, err := sm.contractStore.GetByID(ctx, req.ContractID, companyID)
	if err != nil {
		return nil, err
	}

	settlement := &types.Settlement{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ContractID:  contract.ID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		ExtraCosts:  req.ExtraCosts,
		Description: strings.TrimSpace(req.Description),
		Status:      types.SettlementStatusPending,
	}

	newEarnings, claimIDs, err := sm.resolveEarnings(ctx, settlement, req.Earnings)
	if err != nil {
		return nil, err
	}

	if err := sm.store.CreateWithEarnings(ctx, settlement, newEarnings, claimIDs); err != nil {
		log.Errorw("Failed to create settlement",
			"contractId", req.ContractID,
			"error", err,
		)
		return nil, err
	}

	// The settlement is committed from here on. Recalculation reloads the
	// linked earnings so the totals reflect exactly what was persisted.
	created, err := sm.recalculateAndPersist(ctx, settlement.ID, companyID)
	if err != nil {
		return nil, errors.RecalculationFailed(settlement.ID, err)
	}
	return created, nil
}

// resolveEarnings walks the request specs in order and fails on the first
// invalid one. Existing earnings are checked against the settlement's
// contract and period; new earnings are built with the settlement id
// already assigned so the insert links them in the same transaction.
func (sm *SettlementModel) resolveEarnings(ctx context.Context, settlement *types.Settlement, specs []types.EarningSpec) ([]types.Earning, []string, error) {
	var newEarnings []types.Earning
	var claimIDs []string

	for i := range specs {
		spec := &specs[i]
		if spec.IsExisting() {
			earning, err := sm.earningStore.GetByID(ctx, *spec.EarningID, settlement.CompanyID)
			if err != nil {
				return nil, nil, err
			}
			if earning.ContractID != settlement.ContractID {
				return nil, nil, errors.EarningContractMismatch(earning.ID, settlement.ContractID)
			}
			if earning.IsLinked() {
				return nil, nil, errors.EarningAlreadyLinked(earning.ID, *earning.SettlementID)
			}
			if !weekWithinPeriod(earning.WeekStart, earning.WeekEnd, settlement.PeriodStart, settlement.PeriodEnd) {
				return nil, nil, errors.EarningOutsidePeriod(earning.ID)
			}
			claimIDs = append(claimIDs, earning.ID)
			continue
		}

		if err := validateNewEarningSpec(spec, i); err != nil {
			return nil, nil, err
		}
		if !weekWithinPeriod(spec.WeekStart, spec.WeekEnd, settlement.PeriodStart, settlement.PeriodEnd) {
			return nil, nil, errors.ValidationFailed(
				"Invalid earning",
				fmt.Sprintf("earning %d: week falls outside the settlement period", i),
			)
		}

		settlementID := settlement.ID
		newEarnings = append(newEarnings, types.Earning{
			ID:            uuid.New().String(),
			CompanyID:     settlement.CompanyID,
			ContractID:    settlement.ContractID,
			SettlementID:  &settlementID,
			Platform:      spec.Platform,
			GrossIncome:   spec.GrossIncome,
			BtwPercentage: spec.BtwPercentage,
			WeekStart:     spec.WeekStart,
			WeekEnd:       spec.WeekEnd,
			IsActive:      true,
		})
	}
	return newEarnings, claimIDs, nil
}

// Recalculate recomputes the derived totals from the loaded earnings and
// contract. Gross is the sum of net incomes of active linked earnings,
// rent is charged once per distinct earning week, and the payout never
// goes below zero. A missing contract relation means no rent can be
// deducted, not a failure.
func Recalculate(settlement *types.Settlement) {
	gross := decimal.Zero
	weeks := make(map[int64]struct{})
	for i := range settlement.Earnings {
		e := &settlement.Earnings[i]
		if !e.IsActive {
			continue
		}
		gross = gross.Add(e.NetIncome())
		weeks[e.WeekStart.UTC().Unix()] = struct{}{}
	}

	rent := decimal.Zero
	if settlement.Contract != nil {
		rent = settlement.Contract.PaymentAmount.Mul(decimal.NewFromInt(int64(len(weeks))))
	}
	net := gross.Sub(rent).Sub(settlement.ExtraCosts)
	if net.IsNegative() {
		net = decimal.Zero
	}

	settlement.GrossAmount = gross.Round(2)
	settlement.RentDeduction = rent.Round(2)
	settlement.NetPayout = net.Round(2)
}

func (sm *SettlementModel) recalculateAndPersist(ctx context.Context, id, companyID string) (*types.Settlement, error) {
	settlement, err := sm.store.GetWithRelations(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	Recalculate(settlement)
	if err := sm.store.UpdateTotals(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// GetSettlement loads a settlement with its contract, earnings, driver
// and car.
func (sm *SettlementModel) GetSettlement(ctx context.Context, id, companyID string) (*types.SettlementResponse, error) {
	settlement, err := sm.store.GetWithRelations(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	resp := &types.SettlementResponse{Settlement: *settlement}
	if settlement.Contract != nil {
		driver, err := sm.driverStore.GetByID(ctx, settlement.Contract.DriverID, companyID)
		if err == nil {
			resp.Driver = driver
		}
		car, err := sm.carStore.GetByID(ctx, settlement.Contract.CarID, companyID)
		if err == nil {
			resp.Car = car
		}
	}
	return resp, nil
}

// ListSettlements returns the company's settlements, newest period first.
func (sm *SettlementModel) ListSettlements(ctx context.Context, companyID string, limit, offset int) (*types.PaginatedResponse, error) {
	settlements, total, err := sm.store.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &types.PaginatedResponse{
		Data: settlements,
		Pagination: types.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

// UpdateStatus moves the settlement one step along the lifecycle. Only
// the linear pending -> approved -> paid -> confirmed progression is
// allowed.
func (sm *SettlementModel) UpdateStatus(ctx context.Context, id, companyID string, newStatus types.SettlementStatus) error {
	settlement, err := sm.store.GetWithRelations(ctx, id, companyID)
	if err != nil {
		return err
	}

	if !settlement.Status.IsValidTransition(newStatus) {
		return errors.InvalidStatusTransition(string(settlement.Status), string(newStatus))
	}
	return sm.store.UpdateStatus(ctx, id, companyID, newStatus)
}

// ConfirmByDriver records the driver's acknowledgement of a paid
// settlement and moves it to its terminal confirmed state.
func (sm *SettlementModel) ConfirmByDriver(ctx context.Context, id, companyID string) (*types.Settlement, error) {
	settlement, err := sm.store.GetWithRelations(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	if !settlement.Status.IsValidTransition(types.SettlementStatusConfirmed) {
		return nil, errors.InvalidStatusTransition(string(settlement.Status), string(types.SettlementStatusConfirmed))
	}

	confirmedAt := time.Now().UTC()
	if err := sm.store.Confirm(ctx, id, companyID, confirmedAt); err != nil {
		return nil, err
	}

	settlement.Status = types.SettlementStatusConfirmed
	settlement.ConfirmedAt = &confirmedAt
	settlement.ConfirmedByDriver = true
	return settlement, nil
}

// AddEarning links one more earning to an existing pending settlement and
// recalculates the totals. Settlements past pending are frozen.
func (sm *SettlementModel) AddEarning(ctx context.Context, settlementID, companyID string, spec *types.EarningSpec) (*types.Settlement, error) {
	settlement, err := sm.store.GetWithRelations(ctx, settlementID, companyID)
	if err != nil {
		return nil, err
	}
	if settlement.Status != types.SettlementStatusPending {
		return nil, errors.NewConflictError(
			"Settlement can no longer be modified",
			fmt.Sprintf("settlement %s has status %s", settlementID, settlement.Status),
		)
	}

	if spec.IsExisting() {
		earning, err := sm.earningStore.GetByID(ctx, *spec.EarningID, companyID)
		if err != nil {
			return nil, err
		}
		if earning.ContractID != settlement.ContractID {
			return nil, errors.EarningContractMismatch(earning.ID, settlement.ContractID)
		}
		if earning.IsLinked() {
			return nil, errors.EarningAlreadyLinked(earning.ID, *earning.SettlementID)
		}
		if !weekWithinPeriod(earning.WeekStart, earning.WeekEnd, settlement.PeriodStart, settlement.PeriodEnd) {
			return nil, errors.EarningOutsidePeriod(earning.ID)
		}
		if err := sm.earningStore.Link(ctx, earning.ID, companyID, settlementID); err != nil {
			return nil, err
		}
	} else {
		if err := validateNewEarningSpec(spec, 0); err != nil {
			return nil, err
		}
		if !weekWithinPeriod(spec.WeekStart, spec.WeekEnd, settlement.PeriodStart, settlement.PeriodEnd) {
			return nil, errors.ValidationFailed("Invalid earning", "week falls outside the settlement period")
		}
		earning := &types.Earning{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ContractID:    settlement.ContractID,
			SettlementID:  &settlementID,
			Platform:      spec.Platform,
			GrossIncome:   spec.GrossIncome,
			BtwPercentage: spec.BtwPercentage,
			WeekStart:     spec.WeekStart,
			WeekEnd:       spec.WeekEnd,
			IsActive:      true,
		}
		if _, err := sm.earningStore.Create(ctx, earning); err != nil {
			return nil, err
		}
	}

	updated, err := sm.recalculateAndPersist(ctx, settlementID, companyID)
	if err != nil {
		return nil, errors.RecalculationFailed(settlementID, err)
	}
	return updated, nil
}

// Helper functions

func validateCreateSettlementRequest(req *types.CreateSettlementRequest) error {
	if req == nil {
		return errors.ValidationFailed("Invalid settlement data", "request body is required")
	}

	var validationErrors []string

	if req.ContractID == "" {
		validationErrors = append(validationErrors, "contract ID is required")
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() {
		validationErrors = append(validationErrors, "period start and end are required")
	} else if !req.PeriodEnd.After(req.PeriodStart) {
		validationErrors = append(validationErrors, "period end must be after period start")
	}
	if req.ExtraCosts.IsNegative() {
		validationErrors = append(validationErrors, "extra costs cannot be negative")
	}
	if len(req.Earnings) == 0 {
		validationErrors = append(validationErrors, "at least one earning is required")
	}

	if len(validationErrors) > 0 {
		return errors.ValidationFailed(
			"Invalid settlement data",
			strings.Join(validationErrors, "; "),
		)
	}
	return nil
}

func validateNewEarningSpec(spec *types.EarningSpec, index int) error {
	var validationErrors []string

	if !spec.Platform.IsValid() {
		validationErrors = append(validationErrors, fmt.Sprintf("invalid platform: %s", spec.Platform))
	}
	if spec.GrossIncome.IsNegative() {
		validationErrors = append(validationErrors, "gross income cannot be negative")
	}
	if spec.BtwPercentage.IsNegative() || spec.BtwPercentage.GreaterThan(decimal.NewFromInt(100)) {
		validationErrors = append(validationErrors, "btw percentage must be between 0 and 100")
	}
	if spec.WeekStart.IsZero() || spec.WeekEnd.IsZero() {
		validationErrors = append(validationErrors, "week start and end are required")
	} else if !spec.WeekEnd.After(spec.WeekStart) {
		return errors.InvalidEarningWindow(fmt.Sprintf("earning %d: week %s to %s is inverted",
			index, spec.WeekStart.Format("2006-01-02"), spec.WeekEnd.Format("2006-01-02")))
	}

	if len(validationErrors) > 0 {
		return errors.ValidationFailed(
			fmt.Sprintf("Invalid earning at position %d", index),
			strings.Join(validationErrors, "; "),
		)
	}
	return nil
}

func weekWithinPeriod(weekStart, weekEnd, periodStart, periodEnd time.Time) bool {
	return !weekStart.Before(periodStart) && !weekEnd.After(periodEnd)
}
