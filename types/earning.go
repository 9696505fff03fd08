package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform is the income source an earning was reported from.
type Platform string

const (
	PlatformUber    Platform = "uber"
	PlatformBolt    Platform = "bolt"
	PlatformFreeNow Platform = "freenow"
	PlatformOther   Platform = "other"
)

// IsValid reports whether the platform is one of the supported sources.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformUber, PlatformBolt, PlatformFreeNow, PlatformOther:
		return true
	}
	return false
}

// Earning is one platform-income record for one driver-week, attributable
// to a contract. An earning starts unlinked (SettlementID nil) and is
// adopted by exactly one settlement at link time; it is never re-linked.
type Earning struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	ContractID    string          `json:"contractId"`
	SettlementID  *string         `json:"settlementId,omitempty"`
	Platform      Platform        `json:"platform"`
	GrossIncome   decimal.Decimal `json:"grossIncome"`
	BtwPercentage decimal.Decimal `json:"btwPercentage"`
	WeekStart     time.Time       `json:"weekStart"`
	WeekEnd       time.Time       `json:"weekEnd"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BtwAmount derives the VAT portion of the gross income, rounded to cents.
// Not stored; always recomputed from GrossIncome and BtwPercentage.
func (e *Earning) BtwAmount() decimal.Decimal {
	return e.GrossIncome.Mul(e.BtwPercentage).Div(decimal.NewFromInt(100)).Round(2)
}

// NetIncome derives the income net of VAT.
func (e *Earning) NetIncome() decimal.Decimal {
	return e.GrossIncome.Sub(e.BtwAmount())
}

// IsLinked reports whether the earning has been adopted by a settlement.
func (e *Earning) IsLinked() bool {
	return e.SettlementID != nil
}

// CreateEarningRequest is the payload for creating a standalone, unlinked
// earning.
type CreateEarningRequest struct {
	ContractID    string          `json:"contractId" binding:"required"`
	Platform      Platform        `json:"platform" binding:"required"`
	GrossIncome   decimal.Decimal `json:"grossIncome"`
	BtwPercentage decimal.Decimal `json:"btwPercentage"`
	WeekStart     time.Time       `json:"weekStart" binding:"required"`
	WeekEnd       time.Time       `json:"weekEnd" binding:"required"`
}

// EarningSpec is one item of a settlement-creation request. Either
// EarningID references an existing unlinked earning, or the remaining
// fields describe a brand-new earning created as part of the settlement.
type EarningSpec struct {
	EarningID     *string         `json:"earningId,omitempty"`
	Platform      Platform        `json:"platform,omitempty"`
	GrossIncome   decimal.Decimal `json:"grossIncome"`
	BtwPercentage decimal.Decimal `json:"btwPercentage"`
	WeekStart     time.Time       `json:"weekStart"`
	WeekEnd       time.Time       `json:"weekEnd"`
}

// IsExisting reports whether the spec references a pre-existing earning.
func (s *EarningSpec) IsExisting() bool {
	return s.EarningID != nil && *s.EarningID != ""
}
