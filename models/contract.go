package models

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/logger"
	"github.com/rijnfleet/fleet-backend/types"
)

// ContractModel manages rental contracts between cars and drivers.
type ContractModel struct {
	store       store.ContractStore
	carStore    store.CarStore
	driverStore store.DriverStore
}

func NewContractModel(contractStore store.ContractStore, carStore store.CarStore, driverStore store.DriverStore) *ContractModel {
	return &ContractModel{
		store:       contractStore,
		carStore:    carStore,
		driverStore: driverStore,
	}
}

func (cm *ContractModel) CreateContract(ctx context.Context, companyID string, req *types.CreateContractRequest) (*types.Contract, error) {
	log := logger.GetLogger()

	if err := validateCreateContractRequest(req); err != nil {
		return nil, err
	}

	// Both sides of the contract must exist within the tenant.
	if _, err := cm.carStore.GetByID(ctx, req.CarID, companyID); err != nil {
		return nil, err
	}
	if _, err := cm.driverStore.GetByID(ctx, req.DriverID, companyID); err != nil {
		return nil, err
	}

	contract := &types.Contract{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		CarID:         req.CarID,
		DriverID:      req.DriverID,
		PaymentAmount: req.PaymentAmount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        types.ContractStatusActive,
		IsActive:      true,
	}

	if _, err := cm.store.Create(ctx, contract); err != nil {
		log.Errorw("Failed to create contract",
			"carId", req.CarID,
			"driverId", req.DriverID,
			"error", err,
		)
		return nil, errors.NewDatabaseError(err)
	}
	return contract, nil
}

func (cm *ContractModel) GetContract(ctx context.Context, id, companyID string) (*types.Contract, error) {
	return cm.store.GetByID(ctx, id, companyID)
}

func (cm *ContractModel) ListContracts(ctx context.Context, companyID string, limit, offset int) (*types.PaginatedResponse, error) {
	contracts, total, err := cm.store.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &types.PaginatedResponse{
		Data: contracts,
		Pagination: types.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

func (cm *ContractModel) UpdateContract(ctx context.Context, id, companyID string, update *types.UpdateContractRequest) (*types.Contract, error) {
	if err := validateContractUpdate(update); err != nil {
		return nil, err
	}
	return cm.store.Update(ctx, id, companyID, update)
}

func (cm *ContractModel) ArchiveContract(ctx context.Context, id, companyID string) error {
	return cm.store.Archive(ctx, id, companyID)
}

func (cm *ContractModel) RestoreContract(ctx context.Context, id, companyID string) error {
	return cm.store.Restore(ctx, id, companyID)
}

// Helper functions

func validateCreateContractRequest(req *types.CreateContractRequest) error {
	if req == nil {
		return errors.ValidationFailed("Invalid contract data", "request body is required")
	}

	var validationErrors []string

	if req.CarID == "" {
		validationErrors = append(validationErrors, "car ID is required")
	}
	if req.DriverID == "" {
		validationErrors = append(validationErrors, "driver ID is required")
	}
	if req.PaymentAmount.IsNegative() {
		validationErrors = append(validationErrors, "payment amount cannot be negative")
	}
	if req.StartDate.IsZero() {
		validationErrors = append(validationErrors, "start date is required")
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		validationErrors = append(validationErrors, "end date must be after start date")
	}

	if len(validationErrors) > 0 {
		return errors.ValidationFailed(
			"Invalid contract data",
			strings.Join(validationErrors, "; "),
		)
	}
	return nil
}

func validateContractUpdate(update *types.UpdateContractRequest) error {
	if update == nil {
		return errors.ValidationFailed("Invalid update", "request body is required")
	}
	if update.PaymentAmount != nil && update.PaymentAmount.IsNegative() {
		return errors.ValidationFailed("Invalid update", "payment amount cannot be negative")
	}
	if update.Status != nil && !isValidContractStatus(*update.Status) {
		return errors.ValidationFailed("Invalid update", "invalid contract status")
	}
	return nil
}

func isValidContractStatus(status types.ContractStatus) bool {
	switch status {
	case types.ContractStatusActive, types.ContractStatusExpired, types.ContractStatusTerminated:
		return true
	}
	return false
}
