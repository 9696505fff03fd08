package services

import (
	"testing"
	"time"

	"github.com/rijnfleet/fleet-backend/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFService_SettlementStatement(t *testing.T) {
	svc := NewPDFService()

	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	settlement := &types.SettlementResponse{
		Settlement: types.Settlement{
			ID:            "settlement-1",
			Status:        types.SettlementStatusApproved,
			PeriodStart:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			ExtraCosts:    decimal.NewFromInt(25),
			GrossAmount:   decimal.NewFromInt(790),
			RentDeduction: decimal.NewFromInt(300),
			NetPayout:     decimal.NewFromInt(465),
			Earnings: []types.Earning{
				{
					Platform:      types.PlatformUber,
					GrossIncome:   decimal.NewFromInt(1000),
					BtwPercentage: decimal.NewFromInt(21),
					WeekStart:     weekStart,
					WeekEnd:       weekStart.AddDate(0, 0, 7),
					IsActive:      true,
				},
			},
		},
		Driver: &types.Driver{FirstName: "Jan", LastName: "de Vries"},
		Car:    &types.Car{Make: "Toyota", Model: "Prius", LicensePlate: "AB-123-C"},
	}

	data, err := svc.SettlementStatement(settlement)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
