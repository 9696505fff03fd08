package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus tracks a settlement through its payout lifecycle.
// Progression is linear: pending -> approved -> paid -> confirmed.
type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "pending"
	SettlementStatusApproved  SettlementStatus = "approved"
	SettlementStatusPaid      SettlementStatus = "paid"
	SettlementStatusConfirmed SettlementStatus = "confirmed"
)

// IsValidTransition reports whether moving to newStatus is allowed from
// the current status. Reverse transitions and jumps are rejected.
func (ss SettlementStatus) IsValidTransition(newStatus SettlementStatus) bool {
	transitions := map[SettlementStatus][]SettlementStatus{
		SettlementStatusPending:   {SettlementStatusApproved},
		SettlementStatusApproved:  {SettlementStatusPaid},
		SettlementStatusPaid:      {SettlementStatusConfirmed},
		SettlementStatusConfirmed: {}, // Terminal state
	}

	allowedTransitions, exists := transitions[ss]
	if !exists {
		return false
	}

	for _, allowed := range allowedTransitions {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// Settlement aggregates a contract's earnings over a period and owns the
// derived payout totals. GrossAmount, RentDeduction and NetPayout are
// recomputed from the earnings collection and the contract's rent; they
// are never set directly by a caller.
type Settlement struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"companyId"`
	ContractID        string           `json:"contractId"`
	PeriodStart       time.Time        `json:"periodStart"`
	PeriodEnd         time.Time        `json:"periodEnd"`
	ExtraCosts        decimal.Decimal  `json:"extraCosts"`
	Description       string           `json:"description"`
	Status            SettlementStatus `json:"status"`
	GrossAmount       decimal.Decimal  `json:"grossAmount"`
	RentDeduction     decimal.Decimal  `json:"rentDeduction"`
	NetPayout         decimal.Decimal  `json:"netPayout"`
	ConfirmedAt       *time.Time       `json:"confirmedAt,omitempty"`
	ConfirmedByDriver bool             `json:"confirmedByDriver"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`

	// Loaded relations; nil/empty unless fetched with relations.
	Contract *Contract `json:"contract,omitempty"`
	Earnings []Earning `json:"earnings,omitempty"`
}

// CreateSettlementRequest is the payload for the settlement builder.
// CompanyID is taken from the authenticated caller context, never from
// the request body.
type CreateSettlementRequest struct {
	ContractID  string          `json:"contractId" binding:"required"`
	PeriodStart time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time       `json:"periodEnd" binding:"required"`
	ExtraCosts  decimal.Decimal `json:"extraCosts"`
	Description string          `json:"description"`
	Earnings    []EarningSpec   `json:"earnings"`
}

// UpdateSettlementStatusRequest carries a requested status change.
type UpdateSettlementStatusRequest struct {
	Status SettlementStatus `json:"status" binding:"required"`
}

// SettlementResponse is the client-facing projection of a settlement with
// its contract, driver, car and earnings.
type SettlementResponse struct {
	Settlement
	Driver *Driver `json:"driver,omitempty"`
	Car    *Car    `json:"car,omitempty"`
}
