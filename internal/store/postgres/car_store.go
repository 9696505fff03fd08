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

var _ internal_store.CarStore = (*pgCarStore)(nil)

type pgCarStore struct {
	pool DB
}

// NewPgCarStore creates a new PostgreSQL car store.
func NewPgCarStore(pool DB) internal_store.CarStore {
	return &pgCarStore{pool: pool}
}

const carColumns = `
    id, company_id, license_plate, make, model, year,
    is_active, created_at, updated_at`

func scanCar(row pgx.Row) (*types.Car, error) {
	var c types.Car
	err := row.Scan(
		&c.ID,
		&c.CompanyID,
		&c.LicensePlate,
		&c.Make,
		&c.Model,
		&c.Year,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create implements internal_store.CarStore.
func (s *pgCarStore) Create(ctx context.Context, car *types.Car) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
        INSERT INTO cars (
            id, company_id, license_plate, make, model, year, is_active
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`,
		car.ID,
		car.CompanyID,
		car.LicensePlate,
		car.Make,
		car.Model,
		car.Year,
		car.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert car: %w", err)
	}
	return id, nil
}

// GetByID implements internal_store.CarStore.
func (s *pgCarStore) GetByID(ctx context.Context, id, companyID string) (*types.Car, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+carColumns+`
        FROM cars
        WHERE id = $1 AND company_id = $2 AND is_active = TRUE`,
		id, companyID,
	)

	car, err := scanCar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("car", id)
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return car, nil
}

// List implements internal_store.CarStore.
func (s *pgCarStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Car, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cars WHERE company_id = $1 AND is_active = TRUE`,
		companyID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
        SELECT `+carColumns+`
        FROM cars
        WHERE company_id = $1 AND is_active = TRUE
        ORDER BY license_plate
        LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var cars []types.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *c)
	}
	return cars, total, rows.Err()
}

// Update implements internal_store.CarStore.
func (s *pgCarStore) Update(ctx context.Context, id, companyID string, update *types.UpdateCarRequest) (*types.Car, error) {
	var setFields []string
	var args []interface{}
	argPosition := 1

	addField := func(column string, value interface{}) {
		setFields = append(setFields, fmt.Sprintf("%s = $%d", column, argPosition))
		args = append(args, value)
		argPosition++
	}

	if update.LicensePlate != nil {
		addField("license_plate", *update.LicensePlate)
	}
	if update.Make != nil {
		addField("make", *update.Make)
	}
	if update.Model != nil {
		addField("model", *update.Model)
	}
	if update.Year != nil {
		addField("year", *update.Year)
	}

	if len(setFields) == 0 {
		return s.GetByID(ctx, id, companyID)
	}

	setFields = append(setFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
        UPDATE cars
        SET %s
        WHERE id = $%d AND company_id = $%d AND is_active = TRUE
        RETURNING `+carColumns,
		strings.Join(setFields, ", "), argPosition, argPosition+1)
	args = append(args, id, companyID)

	car, err := scanCar(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("car", id)
		}
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	return car, nil
}

// Archive implements internal_store.CarStore.
func (s *pgCarStore) Archive(ctx context.Context, id, companyID string) error {
	return s.setActive(ctx, id, companyID, false)
}

// Restore implements internal_store.CarStore.
func (s *pgCarStore) Restore(ctx context.Context, id, companyID string) error {
	return s.setActive(ctx, id, companyID, true)
}

func (s *pgCarStore) setActive(ctx context.Context, id, companyID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE cars
        SET is_active = $1, updated_at = NOW()
        WHERE id = $2 AND company_id = $3 AND is_active = $4`,
		active, id, companyID, !active,
	)
	if err != nil {
		return fmt.Errorf("failed to change car archive state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("car", id)
	}
	return nil
}
