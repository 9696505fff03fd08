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

var _ internal_store.CompanyStore = (*pgCompanyStore)(nil)

type pgCompanyStore struct {
	pool DB
}

// NewPgCompanyStore creates a new PostgreSQL company store.
func NewPgCompanyStore(pool DB) internal_store.CompanyStore {
	return &pgCompanyStore{pool: pool}
}

const companyColumns = `
    id, name, kvk_number, btw_number, email, phone, address,
    is_active, created_at, updated_at`

func scanCompany(row pgx.Row) (*types.Company, error) {
	var c types.Company
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.KvkNumber,
		&c.BtwNumber,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create implements internal_store.CompanyStore.
func (s *pgCompanyStore) Create(ctx context.Context, company *types.Company) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
        INSERT INTO companies (
            id, name, kvk_number, btw_number, email, phone, address, is_active
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		company.ID,
		company.Name,
		company.KvkNumber,
		company.BtwNumber,
		company.Email,
		company.Phone,
		company.Address,
		company.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert company: %w", err)
	}
	return id, nil
}

// GetByID implements internal_store.CompanyStore.
func (s *pgCompanyStore) GetByID(ctx context.Context, id string) (*types.Company, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+companyColumns+`
        FROM companies
        WHERE id = $1 AND is_active = TRUE`,
		id,
	)

	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("company", id)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// Update implements internal_store.CompanyStore.
func (s *pgCompanyStore) Update(ctx context.Context, id string, update *types.UpdateCompanyRequest) (*types.Company, error) {
	var setFields []string
	var args []interface{}
	argPosition := 1

	addField := func(column string, value interface{}) {
		setFields = append(setFields, fmt.Sprintf("%s = $%d", column, argPosition))
		args = append(args, value)
		argPosition++
	}

	if update.Name != nil {
		addField("name", *update.Name)
	}
	if update.KvkNumber != nil {
		addField("kvk_number", *update.KvkNumber)
	}
	if update.BtwNumber != nil {
		addField("btw_number", *update.BtwNumber)
	}
	if update.Email != nil {
		addField("email", *update.Email)
	}
	if update.Phone != nil {
		addField("phone", *update.Phone)
	}
	if update.Address != nil {
		addField("address", *update.Address)
	}

	if len(setFields) == 0 {
		return s.GetByID(ctx, id)
	}

	setFields = append(setFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
        UPDATE companies
        SET %s
        WHERE id = $%d AND is_active = TRUE
        RETURNING `+companyColumns,
		strings.Join(setFields, ", "), argPosition)
	args = append(args, id)

	company, err := scanCompany(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("company", id)
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// Archive implements internal_store.CompanyStore.
func (s *pgCompanyStore) Archive(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Restore implements internal_store.CompanyStore.
func (s *pgCompanyStore) Restore(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *pgCompanyStore) setActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE companies
        SET is_active = $1, updated_at = NOW()
        WHERE id = $2 AND is_active = $3`,
		active, id, !active,
	)
	if err != nil {
		return fmt.Errorf("failed to change company archive state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("company", id)
	}
	return nil
}
