package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/rijnfleet/fleet-backend/errors"
	internal_store "github.com/rijnfleet/fleet-backend/internal/store"
	"github.com/rijnfleet/fleet-backend/logger"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ internal_store.SettlementStore = (*pgSettlementStore)(nil)

type pgSettlementStore struct {
	pool DB
}

// NewPgSettlementStore creates a new PostgreSQL settlement store.
func NewPgSettlementStore(pool DB) internal_store.SettlementStore {
	return &pgSettlementStore{pool: pool}
}

// CreateWithEarnings implements internal_store.SettlementStore.
// The settlement row, the new earning rows and the claims on existing
// earnings commit as one serializable transaction.
func (s *pgSettlementStore) CreateWithEarnings(ctx context.Context, settlement *types.Settlement, newEarnings []types.Earning, claimEarningIDs []string) error {
	log := logger.GetLogger()

	err := WithTx(ctx, s.pool, serializableTx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            INSERT INTO settlements (
                id, company_id, contract_id, period_start, period_end,
                extra_costs, description, status,
                gross_amount, rent_deduction, net_payout
            )
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			settlement.ID,
			settlement.CompanyID,
			settlement.ContractID,
			settlement.PeriodStart,
			settlement.PeriodEnd,
			settlement.ExtraCosts,
			settlement.Description,
			string(settlement.Status),
			settlement.GrossAmount,
			settlement.RentDeduction,
			settlement.NetPayout,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}

		for i := range newEarnings {
			e := &newEarnings[i]
			_, err := tx.Exec(ctx, `
                INSERT INTO earnings (
                    id, company_id, contract_id, settlement_id, platform,
                    gross_income, btw_percentage, week_start, week_end, is_active
                )
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				e.ID,
				e.CompanyID,
				e.ContractID,
				e.SettlementID,
				string(e.Platform),
				e.GrossIncome,
				e.BtwPercentage,
				e.WeekStart,
				e.WeekEnd,
				e.IsActive,
			)
			if err != nil {
				return fmt.Errorf("failed to insert earning: %w", err)
			}
		}

		for _, earningID := range claimEarningIDs {
			tag, err := tx.Exec(ctx, `
                UPDATE earnings
                SET settlement_id = $1, updated_at = NOW()
                WHERE id = $2 AND company_id = $3 AND settlement_id IS NULL AND is_active = TRUE`,
				settlement.ID,
				earningID,
				settlement.CompanyID,
			)
			if err != nil {
				return fmt.Errorf("failed to claim earning %s: %w", earningID, err)
			}
			// Zero rows means the earning was claimed by a concurrent
			// settlement between the pre-transaction check and now.
			if tag.RowsAffected() == 0 {
				return apperrors.EarningAlreadyLinked(earningID, "another settlement")
			}
		}

		return nil
	})

	if err != nil {
		log.Errorw("CreateWithEarnings transaction failed",
			"settlementId", settlement.ID, "error", err)
		return err
	}

	log.Infow("Settlement created",
		"settlementId", settlement.ID,
		"newEarnings", len(newEarnings),
		"claimedEarnings", len(claimEarningIDs))
	return nil
}

// GetWithRelations implements internal_store.SettlementStore.
func (s *pgSettlementStore) GetWithRelations(ctx context.Context, id, companyID string) (*types.Settlement, error) {
	settlement, err := s.getSettlement(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	contract, err := s.getContract(ctx, settlement.ContractID, companyID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	settlement.Contract = contract

	earnings, err := s.getEarnings(ctx, id)
	if err != nil {
		return nil, err
	}
	settlement.Earnings = earnings

	return settlement, nil
}

func (s *pgSettlementStore) getSettlement(ctx context.Context, id, companyID string) (*types.Settlement, error) {
	query := `
        SELECT id, company_id, contract_id, period_start, period_end,
               extra_costs, description, status,
               gross_amount, rent_deduction, net_payout,
               confirmed_at, confirmed_by_driver, created_at, updated_at
        FROM settlements
        WHERE id = $1 AND company_id = $2`

	var st types.Settlement
	var status string
	err := s.pool.QueryRow(ctx, query, id, companyID).Scan(
		&st.ID,
		&st.CompanyID,
		&st.ContractID,
		&st.PeriodStart,
		&st.PeriodEnd,
		&st.ExtraCosts,
		&st.Description,
		&status,
		&st.GrossAmount,
		&st.RentDeduction,
		&st.NetPayout,
		&st.ConfirmedAt,
		&st.ConfirmedByDriver,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("settlement", id)
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	st.Status = types.SettlementStatus(status)
	return &st, nil
}

func (s *pgSettlementStore) getContract(ctx context.Context, id, companyID string) (*types.Contract, error) {
	query := `
        SELECT id, company_id, car_id, driver_id, payment_amount,
               start_date, end_date, status, is_active, created_at, updated_at
        FROM contracts
        WHERE id = $1 AND company_id = $2`

	var c types.Contract
	var status string
	err := s.pool.QueryRow(ctx, query, id, companyID).Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("contract", id)
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	c.Status = types.ContractStatus(status)
	return &c, nil
}

func (s *pgSettlementStore) getEarnings(ctx context.Context, settlementID string) ([]types.Earning, error) {
	query := `
        SELECT id, company_id, contract_id, settlement_id, platform,
               gross_income, btw_percentage, week_start, week_end,
               is_active, created_at, updated_at
        FROM earnings
        WHERE settlement_id = $1
        ORDER BY week_start, created_at`

	rows, err := s.pool.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement earnings: %w", err)
	}
	defer rows.Close()

	var earnings []types.Earning
	for rows.Next() {
		var e types.Earning
		var platform string
		err := rows.Scan(
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
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

// List implements internal_store.SettlementStore.
func (s *pgSettlementStore) List(ctx context.Context, companyID string, limit, offset int) ([]types.Settlement, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM settlements WHERE company_id = $1`, companyID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
        SELECT id, company_id, contract_id, period_start, period_end,
               extra_costs, description, status,
               gross_amount, rent_deduction, net_payout,
               confirmed_at, confirmed_by_driver, created_at, updated_at
        FROM settlements
        WHERE company_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []types.Settlement
	for rows.Next() {
		var st types.Settlement
		var status string
		err := rows.Scan(
			&st.ID,
			&st.CompanyID,
			&st.ContractID,
			&st.PeriodStart,
			&st.PeriodEnd,
			&st.ExtraCosts,
			&st.Description,
			&status,
			&st.GrossAmount,
			&st.RentDeduction,
			&st.NetPayout,
			&st.ConfirmedAt,
			&st.ConfirmedByDriver,
			&st.CreatedAt,
			&st.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		st.Status = types.SettlementStatus(status)
		settlements = append(settlements, st)
	}
	return settlements, total, rows.Err()
}

// UpdateTotals implements internal_store.SettlementStore.
func (s *pgSettlementStore) UpdateTotals(ctx context.Context, settlement *types.Settlement) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE settlements
        SET gross_amount = $1, rent_deduction = $2, net_payout = $3, updated_at = NOW()
        WHERE id = $4 AND company_id = $5`,
		settlement.GrossAmount,
		settlement.RentDeduction,
		settlement.NetPayout,
		settlement.ID,
		settlement.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("settlement", settlement.ID)
	}
	return nil
}

// UpdateStatus implements internal_store.SettlementStore.
func (s *pgSettlementStore) UpdateStatus(ctx context.Context, id, companyID string, status types.SettlementStatus) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE settlements
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND company_id = $3`,
		string(status), id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("settlement", id)
	}
	return nil
}

// Confirm implements internal_store.SettlementStore.
func (s *pgSettlementStore) Confirm(ctx context.Context, id, companyID string, confirmedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE settlements
        SET status = $1, confirmed_at = $2, confirmed_by_driver = TRUE, updated_at = NOW()
        WHERE id = $3 AND company_id = $4`,
		string(types.SettlementStatusConfirmed), confirmedAt, id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to confirm settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("settlement", id)
	}
	return nil
}

func isNotFound(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Type == apperrors.NotFoundError
}
