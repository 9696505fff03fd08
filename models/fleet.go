package models

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/types"
)

// CompanyModel manages tenant records.
type CompanyModel struct {
	store store.CompanyStore
}

func NewCompanyModel(companyStore store.CompanyStore) *CompanyModel {
	return &CompanyModel{store: companyStore}
}

func (cm *CompanyModel) CreateCompany(ctx context.Context, req *types.CreateCompanyRequest) (*types.Company, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, errors.ValidationFailed("Invalid company data", "company name is required")
	}

	company := &types.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		KvkNumber: req.KvkNumber,
		BtwNumber: req.BtwNumber,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		IsActive:  true,
	}
	if _, err := cm.store.Create(ctx, company); err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return company, nil
}

func (cm *CompanyModel) GetCompany(ctx context.Context, id string) (*types.Company, error) {
	return cm.store.GetByID(ctx, id)
}

func (cm *CompanyModel) UpdateCompany(ctx context.Context, id string, update *types.UpdateCompanyRequest) (*types.Company, error) {
	if update == nil {
		return nil, errors.ValidationFailed("Invalid update", "request body is required")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, errors.ValidationFailed("Invalid update", "company name cannot be empty")
	}
	return cm.store.Update(ctx, id, update)
}

func (cm *CompanyModel) ArchiveCompany(ctx context.Context, id string) error {
	return cm.store.Archive(ctx, id)
}

func (cm *CompanyModel) RestoreCompany(ctx context.Context, id string) error {
	return cm.store.Restore(ctx, id)
}

// DriverModel manages driver records.
type DriverModel struct {
	store store.DriverStore
}

func NewDriverModel(driverStore store.DriverStore) *DriverModel {
	return &DriverModel{store: driverStore}
}

func (dm *DriverModel) CreateDriver(ctx context.Context, companyID string, req *types.CreateDriverRequest) (*types.Driver, error) {
	if req == nil || strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, errors.ValidationFailed("Invalid driver data", "first and last name are required")
	}

	driver := &types.Driver{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         req.Email,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		IsActive:      true,
	}
	if _, err := dm.store.Create(ctx, driver); err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return driver, nil
}

func (dm *DriverModel) GetDriver(ctx context.Context, id, companyID string) (*types.Driver, error) {
	return dm.store.GetByID(ctx, id, companyID)
}

func (dm *DriverModel) ListDrivers(ctx context.Context, companyID string, limit, offset int) (*types.PaginatedResponse, error) {
	drivers, total, err := dm.store.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &types.PaginatedResponse{
		Data:       drivers,
		Pagination: types.Pagination{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func (dm *DriverModel) UpdateDriver(ctx context.Context, id, companyID string, update *types.UpdateDriverRequest) (*types.Driver, error) {
	if update == nil {
		return nil, errors.ValidationFailed("Invalid update", "request body is required")
	}
	return dm.store.Update(ctx, id, companyID, update)
}

func (dm *DriverModel) ArchiveDriver(ctx context.Context, id, companyID string) error {
	return dm.store.Archive(ctx, id, companyID)
}

func (dm *DriverModel) RestoreDriver(ctx context.Context, id, companyID string) error {
	return dm.store.Restore(ctx, id, companyID)
}

// CarModel manages fleet vehicle records.
type CarModel struct {
	store store.CarStore
}

func NewCarModel(carStore store.CarStore) *CarModel {
	return &CarModel{store: carStore}
}

func (cm *CarModel) CreateCar(ctx context.Context, companyID string, req *types.CreateCarRequest) (*types.Car, error) {
	if req == nil || strings.TrimSpace(req.LicensePlate) == "" {
		return nil, errors.ValidationFailed("Invalid car data", "license plate is required")
	}

	car := &types.Car{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		IsActive:     true,
	}
	if _, err := cm.store.Create(ctx, car); err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return car, nil
}

func (cm *CarModel) GetCar(ctx context.Context, id, companyID string) (*types.Car, error) {
	return cm.store.GetByID(ctx, id, companyID)
}

func (cm *CarModel) ListCars(ctx context.Context, companyID string, limit, offset int) (*types.PaginatedResponse, error) {
	cars, total, err := cm.store.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &types.PaginatedResponse{
		Data:       cars,
		Pagination: types.Pagination{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func (cm *CarModel) UpdateCar(ctx context.Context, id, companyID string, update *types.UpdateCarRequest) (*types.Car, error) {
	if update == nil {
		return nil, errors.ValidationFailed("Invalid update", "request body is required")
	}
	return cm.store.Update(ctx, id, companyID, update)
}

func (cm *CarModel) ArchiveCar(ctx context.Context, id, companyID string) error {
	return cm.store.Archive(ctx, id, companyID)
}

func (cm *CarModel) RestoreCar(ctx context.Context, id, companyID string) error {
	return cm.store.Restore(ctx, id, companyID)
}
