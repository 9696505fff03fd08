// Package store defines the data-access interfaces consumed by the
// business-logic models. Implementations live in the postgres subpackage.
package store

import (
	"context"
	"time"

	"github.com/rijnfleet/fleet-backend/types"
)

// CompanyStore handles tenant records.
type CompanyStore interface {
	Create(ctx context.Context, company *types.Company) (string, error)
	GetByID(ctx context.Context, id string) (*types.Company, error)
	Update(ctx context.Context, id string, update *types.UpdateCompanyRequest) (*types.Company, error)
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// DriverStore handles driver records, scoped to a company.
type DriverStore interface {
	Create(ctx context.Context, driver *types.Driver) (string, error)
	GetByID(ctx context.Context, id, companyID string) (*types.Driver, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]types.Driver, int, error)
	Update(ctx context.Context, id, companyID string, update *types.UpdateDriverRequest) (*types.Driver, error)
	Archive(ctx context.Context, id, companyID string) error
	Restore(ctx context.Context, id, companyID string) error
}

// CarStore handles fleet vehicle records, scoped to a company.
type CarStore interface {
	Create(ctx context.Context, car *types.Car) (string, error)
	GetByID(ctx context.Context, id, companyID string) (*types.Car, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]types.Car, int, error)
	Update(ctx context.Context, id, companyID string, update *types.UpdateCarRequest) (*types.Car, error)
	Archive(ctx context.Context, id, companyID string) error
	Restore(ctx context.Context, id, companyID string) error
}

// ContractStore handles rental contracts, scoped to a company.
type ContractStore interface {
	Create(ctx context.Context, contract *types.Contract) (string, error)
	GetByID(ctx context.Context, id, companyID string) (*types.Contract, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]types.Contract, int, error)
	Update(ctx context.Context, id, companyID string, update *types.UpdateContractRequest) (*types.Contract, error)
	Archive(ctx context.Context, id, companyID string) error
	Restore(ctx context.Context, id, companyID string) error
}

// EarningStore handles earning records, scoped to a company.
type EarningStore interface {
	Create(ctx context.Context, earning *types.Earning) (string, error)
	GetByID(ctx context.Context, id, companyID string) (*types.Earning, error)
	List(ctx context.Context, companyID, contractID string, limit, offset int) ([]types.Earning, int, error)
	ListByPeriod(ctx context.Context, companyID string, from, to time.Time) ([]types.Earning, error)
	// Link atomically claims an unlinked earning for a settlement. It must
	// fail if the earning is already linked, including when a concurrent
	// request claimed it first.
	Link(ctx context.Context, earningID, companyID, settlementID string) error
	Archive(ctx context.Context, id, companyID string) error
}

// SettlementStore handles settlement persistence, including the atomic
// create-with-earnings boundary.
type SettlementStore interface {
	// CreateWithEarnings commits the settlement, inserts the new earnings
	// and claims the referenced existing earnings in one serializable
	// transaction. Either everything commits or nothing does.
	CreateWithEarnings(ctx context.Context, settlement *types.Settlement, newEarnings []types.Earning, claimEarningIDs []string) error
	// GetWithRelations loads a settlement with its contract and earnings,
	// as required before totals recalculation.
	GetWithRelations(ctx context.Context, id, companyID string) (*types.Settlement, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]types.Settlement, int, error)
	// UpdateTotals persists the derived GrossAmount/RentDeduction/NetPayout.
	UpdateTotals(ctx context.Context, settlement *types.Settlement) error
	UpdateStatus(ctx context.Context, id, companyID string, status types.SettlementStatus) error
	Confirm(ctx context.Context, id, companyID string, confirmedAt time.Time) error
}

// ExpenseStore handles company expense records.
type ExpenseStore interface {
	Create(ctx context.Context, expense *types.Expense) (string, error)
	GetByID(ctx context.Context, id, companyID string) (*types.Expense, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]types.Expense, int, error)
	ListByPeriod(ctx context.Context, companyID string, from, to time.Time) ([]types.Expense, error)
	Archive(ctx context.Context, id, companyID string) error
}
