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

// EarningModel manages standalone earning records. Earnings created here
// start unlinked and become settlement input later.
type EarningModel struct {
	store         store.EarningStore
	contractStore store.ContractStore
}

func NewEarningModel(earningStore store.EarningStore, contractStore store.ContractStore) *EarningModel {
	return &EarningModel{
		store:         earningStore,
		contractStore: contractStore,
	}
}

func (em *EarningModel) CreateEarning(ctx context.Context, companyID string, req *types.CreateEarningRequest) (*types.Earning, error) {
	log := logger.GetLogger()

	if err := validateCreateEarningRequest(req); err != nil {
		return nil, err
	}

	// Contract lookup doubles as the tenant check.
	if _, err := em.contractStore.GetByID(ctx, req.ContractID, companyID); err != nil {
		return nil, err
	}

	earning := &types.Earning{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		ContractID:    req.ContractID,
		Platform:      req.Platform,
		GrossIncome:   req.GrossIncome,
		BtwPercentage: req.BtwPercentage,
		WeekStart:     req.WeekStart,
		WeekEnd:       req.WeekEnd,
		IsActive:      true,
	}

	if _, err := em.store.Create(ctx, earning); err != nil {
		log.Errorw("Failed to create earning",
			"contractId", req.ContractID,
			"error", err,
		)
		return nil, errors.NewDatabaseError(err)
	}
	return earning, nil
}

func (em *EarningModel) GetEarning(ctx context.Context, id, companyID string) (*types.Earning, error) {
	return em.store.GetByID(ctx, id, companyID)
}

// ListEarnings returns the company's earnings, optionally filtered by
// contract.
func (em *EarningModel) ListEarnings(ctx context.Context, companyID, contractID string, limit, offset int) (*types.PaginatedResponse, error) {
	earnings, total, err := em.store.List(ctx, companyID, contractID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &types.PaginatedResponse{
		Data: earnings,
		Pagination: types.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

// ListEarningsByPeriod returns earnings whose weeks fall entirely inside
// the given range.
func (em *EarningModel) ListEarningsByPeriod(ctx context.Context, companyID string, from, to time.Time) ([]types.Earning, error) {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return nil, errors.ValidationFailed("Invalid period", "period end must be after period start")
	}
	return em.store.ListByPeriod(ctx, companyID, from, to)
}

// ArchiveEarning soft-deletes an earning. Linked earnings are frozen and
// cannot be archived; the store enforces this.
func (em *EarningModel) ArchiveEarning(ctx context.Context, id, companyID string) error {
	return em.store.Archive(ctx, id, companyID)
}

func validateCreateEarningRequest(req *types.CreateEarningRequest) error {
	if req == nil {
		return errors.ValidationFailed("Invalid earning data", "request body is required")
	}

	var validationErrors []string

	if req.ContractID == "" {
		validationErrors = append(validationErrors, "contract ID is required")
	}
	if !req.Platform.IsValid() {
		validationErrors = append(validationErrors, fmt.Sprintf("invalid platform: %s", req.Platform))
	}
	if req.GrossIncome.IsNegative() {
		validationErrors = append(validationErrors, "gross income cannot be negative")
	}
	if req.BtwPercentage.IsNegative() || req.BtwPercentage.GreaterThan(decimal.NewFromInt(100)) {
		validationErrors = append(validationErrors, "btw percentage must be between 0 and 100")
	}
	if req.WeekStart.IsZero() || req.WeekEnd.IsZero() {
		validationErrors = append(validationErrors, "week start and end are required")
	} else if !req.WeekEnd.After(req.WeekStart) {
		return errors.InvalidEarningWindow(fmt.Sprintf("week %s to %s is inverted",
			req.WeekStart.Format("2006-01-02"), req.WeekEnd.Format("2006-01-02")))
	}

	if len(validationErrors) > 0 {
		return errors.ValidationFailed(
			"Invalid earning data",
			strings.Join(validationErrors, "; "),
		)
	}
	return nil
}
