package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/rijnfleet/fleet-backend/errors"
	internal_store "github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ internal_store.ContractStore = (*pgContractStore)(nil)

type pgContractStore struct {
	pool DB
}

// NewPgContractStore creates a new PostgreSQL contract store.
func NewPgContractStore(pool DB) internal_store.ContractStore {
	return &pgContractStore{pool: pool}
}

const contractColumns = `
    id, company_id, car_id, driver_id, payment_amount,
    start_date, end_date, status, is_active, created_at, updated_at`

func scanContract(row pgx.Row) (*types.Contract, error) {
	var c types.Contract
	var status string
	err := row.Scan(
		&c.ID,
		&c.CompanyID,
		&c.CarID,
		&c.DriverID,
		&c.PaymentAmount,
		&c.StartDate,
		&c.EndDate,
		&status,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = types.ContractStatus(status)
	return &c, nil
}

// Create implements internal_store.ContractStore.
func (s *pgContractStore) Create(ctx context.Context, contract *types.Contract) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
        INSERT INTO contracts (
            id, company_id, car_id, driver_id, payment_amount,
            start_date, end_date, status, is_active
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id`,
		contract.ID,
		contract.CompanyID,
		contract.CarID,
		contract.DriverID,
		contract.PaymentAmount,
		contract.StartDate,
		contract.EndDate,
		string(contract.Status),
		contract.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert contract: %w", err)
	}
	return id, nil
}

// GetByID implements internal_store.ContractStore.
func (s *pgContractStore) GetByID(ctx context.Context, id, companyID string) (*types.Contract, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+contractColumns+`
        FROM contracts
        WHERE id = $1 AND company_id = $2 AND is_active = TRUE`,
		id, companyID,
	)

	contract, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("contract", id)
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

// List implements internal_store.ContractStore.
func (s *pgContractStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Contract, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contracts WHERE company_id = $1 AND is_active = TRUE`,
		companyID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
        SELECT `+contractColumns+`
        FROM contracts
        WHERE company_id = $1 AND is_active = TRUE
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []types.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, total, rows.Err()
}

// Update implements internal_store.ContractStore.
func (s *pgContractStore) Update(ctx context.Context, id, companyID string, update *types.UpdateContractRequest) (*types.Contract, error) {
	var setFields []string
	var args []interface{}
	argPosition := 1

	if update.PaymentAmount != nil {
		setFields = append(setFields, fmt.Sprintf("payment_amount = $%d", argPosition))
		args = append(args, *update.PaymentAmount)
		argPosition++
	}
	if update.EndDate != nil {
		setFields = append(setFields, fmt.Sprintf("end_date = $%d", argPosition))
		args = append(args, *update.EndDate)
		argPosition++
	}
	if update.Status != nil {
		setFields = append(setFields, fmt.Sprintf("status = $%d", argPosition))
		args = append(args, string(*update.Status))
		argPosition++
	}

	if len(setFields) == 0 {
		return s.GetByID(ctx, id, companyID)
	}

	setFields = append(setFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
        UPDATE contracts
        SET %s
        WHERE id = $%d AND company_id = $%d AND is_active = TRUE
        RETURNING `+contractColumns,
		strings.Join(setFields, ", "), argPosition, argPosition+1)
	args = append(args, id, companyID)

	contract, err := scanContract(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("contract", id)
		}
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}
	return contract, nil
}

// Archive implements internal_store.ContractStore.
func (s *pgContractStore) Archive(ctx context.Context, id, companyID string) error {
	return s.setActive(ctx, id, companyID, false)
}

// Restore implements internal_store.ContractStore.
func (s *pgContractStore) Restore(ctx context.Context, id, companyID string) error {
	return s.setActive(ctx, id, companyID, true)
}

func (s *pgContractStore) setActive(ctx context.Context, id, companyID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE contracts
        SET is_active = $1, updated_at = NOW()
        WHERE id = $2 AND company_id = $3 AND is_active = $4`,
		active, id, companyID, !active,
	)
	if err != nil {
		return fmt.Errorf("failed to change contract archive state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("contract", id)
	}
	return nil
}
