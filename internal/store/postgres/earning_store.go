package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/rijnfleet/fleet-backend/errors"
	internal_store "github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ internal_store.EarningStore = (*pgEarningStore)(nil)

type pgEarningStore struct {
	pool DB
}

// NewPgEarningStore creates a new PostgreSQL earning store.
func NewPgEarningStore(pool DB) internal_store.EarningStore {
	return &pgEarningStore{pool: pool}
}

const earningColumns = `
    id, company_id, contract_id, settlement_id, platform,
    gross_income, btw_percentage, week_start, week_end,
    is_active, created_at, updated_at`

func scanEarning(row pgx.Row) (*types.Earning, error) {
	var e types.Earning
	var platform string
	err := row.Scan(
		&e.ID,
		&e.CompanyID,
		&e.ContractID,
		&e.SettlementID,
		&platform,
		&e.GrossIncome,
		&e.BtwPercentage,
		&e.WeekStart,
		&e.WeekEnd,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Platform = types.Platform(platform)
	return &e, nil
}

// Create implements internal_store.EarningStore.
func (s *pgEarningStore) Create(ctx context.Context, earning *types.Earning) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
        INSERT INTO earnings (
            id, company_id, contract_id, settlement_id, platform,
            gross_income, btw_percentage, week_start, week_end, is_active
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id`,
		earning.ID,
		earning.CompanyID,
		earning.ContractID,
		earning.SettlementID,
		string(earning.Platform),
		earning.GrossIncome,
		earning.BtwPercentage,
		earning.WeekStart,
		earning.WeekEnd,
		earning.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert earning: %w", err)
	}
	return id, nil
}

// GetByID implements internal_store.EarningStore. Lookup is company-scoped.
func (s *pgEarningStore) GetByID(ctx context.Context, id, companyID string) (*types.Earning, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+earningColumns+`
        FROM earnings
        WHERE id = $1 AND company_id = $2 AND is_active = TRUE`,
		id, companyID,
	)

	earning, err := scanEarning(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.EarningNotFound(id)
		}
		return nil, fmt.Errorf("failed to get earning: %w", err)
	}
	return earning, nil
}

// List implements internal_store.EarningStore. contractID may be empty to
// list all of the company's earnings.
func (s *pgEarningStore) List(ctx context.Context, companyID, contractID string, limit, offset int) ([]types.Earning, int, error) {
	where := `company_id = $1 AND is_active = TRUE`
	args := []interface{}{companyID}
	if contractID != "" {
		where += ` AND contract_id = $2`
		args = append(args, contractID)
	}

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM earnings WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count earnings: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM earnings
        WHERE %s
        ORDER BY week_start DESC, created_at DESC
        LIMIT $%d OFFSET $%d`,
		earningColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list earnings: %w", err)
	}
	defer rows.Close()

	var earnings []types.Earning
	for rows.Next() {
		e, err := scanEarning(rows)
		if err != nil {
			return nil, 0, err
		}
		earnings = append(earnings, *e)
	}
	return earnings, total, rows.Err()
}

// ListByPeriod implements internal_store.EarningStore. Used for BTW
// reporting; returns active earnings whose week falls inside the window.
func (s *pgEarningStore) ListByPeriod(ctx context.Context, companyID string, from, to time.Time) ([]types.Earning, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+earningColumns+`
        FROM earnings
        WHERE company_id = $1 AND is_active = TRUE
          AND week_start >= $2 AND week_end <= $3
        ORDER BY week_start`,
		companyID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list earnings by period: %w", err)
	}
	defer rows.Close()

	var earnings []types.Earning
	for rows.Next() {
		e, err := scanEarning(rows)
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, *e)
	}
	return earnings, rows.Err()
}

// Link implements internal_store.EarningStore. The settlement_id IS NULL
// predicate makes the claim race-safe: a concurrent link loses and sees
// zero rows affected.
func (s *pgEarningStore) Link(ctx context.Context, earningID, companyID, settlementID string) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE earnings
        SET settlement_id = $1, updated_at = NOW()
        WHERE id = $2 AND company_id = $3 AND settlement_id IS NULL AND is_active = TRUE`,
		settlementID, earningID, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to link earning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.EarningAlreadyLinked(earningID, "another settlement")
	}
	return nil
}

// Archive implements internal_store.EarningStore. Linked earnings cannot be
// archived; they contribute to a settlement's persisted totals.
func (s *pgEarningStore) Archive(ctx context.Context, id, companyID string) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE earnings
        SET is_active = FALSE, updated_at = NOW()
        WHERE id = $1 AND company_id = $2 AND settlement_id IS NULL AND is_active = TRUE`,
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to archive earning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflictError(
			"Earning cannot be archived",
			"earning is missing, already archived, or linked to a settlement",
		)
	}
	return nil
}
