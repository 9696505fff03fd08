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

var _ internal_store.ExpenseStore = (*pgExpenseStore)(nil)

type pgExpenseStore struct {
	pool DB
}

// NewPgExpenseStore creates a new PostgreSQL expense store.
func NewPgExpenseStore(pool DB) internal_store.ExpenseStore {
	return &pgExpenseStore{pool: pool}
}

const expenseColumns = `
    id, company_id, category, description, amount, btw_percentage,
    incurred_on, is_active, created_at, updated_at`

func scanExpense(row pgx.Row) (*types.Expense, error) {
	var e types.Expense
	err := row.Scan(
		&e.ID,
		&e.CompanyID,
		&e.Category,
		&e.Description,
		&e.Amount,
		&e.BtwPercentage,
		&e.IncurredOn,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create implements internal_store.ExpenseStore.
func (s *pgExpenseStore) Create(ctx context.Context, expense *types.Expense) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
        INSERT INTO expenses (
            id, company_id, category, description, amount,
            btw_percentage, incurred_on, is_active
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		expense.ID,
		expense.CompanyID,
		expense.Category,
		expense.Description,
		expense.Amount,
		expense.BtwPercentage,
		expense.IncurredOn,
		expense.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert expense: %w", err)
	}
	return id, nil
}

// GetByID implements internal_store.ExpenseStore.
func (s *pgExpenseStore) GetByID(ctx context.Context, id, companyID string) (*types.Expense, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+expenseColumns+`
        FROM expenses
        WHERE id = $1 AND company_id = $2 AND is_active = TRUE`,
		id, companyID,
	)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("expense", id)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// List implements internal_store.ExpenseStore.
func (s *pgExpenseStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Expense, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE company_id = $1 AND is_active = TRUE`,
		companyID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
        SELECT `+expenseColumns+`
        FROM expenses
        WHERE company_id = $1 AND is_active = TRUE
        ORDER BY incurred_on DESC
        LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []types.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, total, rows.Err()
}

// ListByPeriod implements internal_store.ExpenseStore.
func (s *pgExpenseStore) ListByPeriod(ctx context.Context, companyID string, from, to time.Time) ([]types.Expense, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+expenseColumns+`
        FROM expenses
        WHERE company_id = $1 AND is_active = TRUE
          AND incurred_on >= $2 AND incurred_on <= $3
        ORDER BY incurred_on`,
		companyID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by period: %w", err)
	}
	defer rows.Close()

	var expenses []types.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// Archive implements internal_store.ExpenseStore.
func (s *pgExpenseStore) Archive(ctx context.Context, id, companyID string) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE expenses
        SET is_active = FALSE, updated_at = NOW()
        WHERE id = $1 AND company_id = $2 AND is_active = TRUE`,
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to archive expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("expense", id)
	}
	return nil
}
