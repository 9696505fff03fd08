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

var _ internal_store.DriverStore = (*pgDriverStore)(nil)

type pgDriverStore struct {
	pool DB
}

// NewPgDriverStore creates a new PostgreSQL driver store.
func NewPgDriverStore(pool DB) internal_store.DriverStore {
	return &pgDriverStore{pool: pool}
}

const driverColumns = `
    id, company_id, first_name, last_name, email, phone,
    license_number, is_active, created_at, updated_at`

func scanDriver(row pgx.Row) (*types.Driver, error) {
	var d types.Driver
	err := row.Scan(
		&d.ID,
		&d.CompanyID,
		&d.FirstName,
		&d.LastName,
		&d.Email,
		&d.Phone,
		&d.LicenseNumber,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create implements internal_store.DriverStore.
func (s *pgDriverStore) Create(ctx context.Context, driver *types.Driver) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
        INSERT INTO drivers (
            id, company_id, first_name, last_name, email, phone,
            license_number, is_active
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		driver.ID,
		driver.CompanyID,
		driver.FirstName,
		driver.LastName,
		driver.Email,
		driver.Phone,
		driver.LicenseNumber,
		driver.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert driver: %w", err)
	}
	return id, nil
}

// GetByID implements internal_store.DriverStore.
func (s *pgDriverStore) GetByID(ctx context.Context, id, companyID string) (*types.Driver, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+driverColumns+`
        FROM drivers
        WHERE id = $1 AND company_id = $2 AND is_active = TRUE`,
		id, companyID,
	)

	driver, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("driver", id)
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return driver, nil
}

// List implements internal_store.DriverStore.
func (s *pgDriverStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Driver, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM drivers WHERE company_id = $1 AND is_active = TRUE`,
		companyID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
        SELECT `+driverColumns+`
        FROM drivers
        WHERE company_id = $1 AND is_active = TRUE
        ORDER BY last_name, first_name
        LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []types.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, 0, err
		}
		drivers = append(drivers, *d)
	}
	return drivers, total, rows.Err()
}

// Update implements internal_store.DriverStore.
func (s *pgDriverStore) Update(ctx context.Context, id, companyID string, update *types.UpdateDriverRequest) (*types.Driver, error) {
	var setFields []string
	var args []interface{}
	argPosition := 1

	addField := func(column string, value interface{}) {
		setFields = append(setFields, fmt.Sprintf("%s = $%d", column, argPosition))
		args = append(args, value)
		argPosition++
	}

	if update.FirstName != nil {
		addField("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		addField("last_name", *update.LastName)
	}
	if update.Email != nil {
		addField("email", *update.Email)
	}
	if update.Phone != nil {
		addField("phone", *update.Phone)
	}
	if update.LicenseNumber != nil {
		addField("license_number", *update.LicenseNumber)
	}

	if len(setFields) == 0 {
		return s.GetByID(ctx, id, companyID)
	}

	setFields = append(setFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
        UPDATE drivers
        SET %s
        WHERE id = $%d AND company_id = $%d AND is_active = TRUE
        RETURNING `+driverColumns,
		strings.Join(setFields, ", "), argPosition, argPosition+1)
	args = append(args, id, companyID)

	driver, err := scanDriver(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("driver", id)
		}
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}
	return driver, nil
}

// Archive implements internal_store.DriverStore.
func (s *pgDriverStore) Archive(ctx context.Context, id, companyID string) error {
	return s.setActive(ctx, id, companyID, false)
}

// Restore implements internal_store.DriverStore.
func (s *pgDriverStore) Restore(ctx context.Context, id, companyID string) error {
	return s.setActive(ctx, id, companyID, true)
}

func (s *pgDriverStore) setActive(ctx context.Context, id, companyID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE drivers
        SET is_active = $1, updated_at = NOW()
        WHERE id = $2 AND company_id = $3 AND is_active = $4`,
		active, id, companyID, !active,
	)
	if err != nil {
		return fmt.Errorf("failed to change driver archive state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("driver", id)
	}
	return nil
}
