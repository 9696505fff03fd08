package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus tracks the lifecycle of a rental contract.
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract is the rental agreement between a car and a driver. Its
// PaymentAmount is the weekly rent charged to the driver and is the
// read-only input to settlement rent deductions.
type Contract struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	CarID         string          `json:"carId"`
	DriverID      string          `json:"driverId"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	Status        ContractStatus  `json:"status"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CreateContractRequest is the payload for creating a contract.
type CreateContractRequest struct {
	CarID         string          `json:"carId" binding:"required"`
	DriverID      string          `json:"driverId" binding:"required"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
}

// UpdateContractRequest carries optional field updates for a contract.
type UpdateContractRequest struct {
	PaymentAmount *decimal.Decimal `json:"paymentAmount,omitempty"`
	EndDate       *time.Time       `json:"endDate,omitempty"`
	Status        *ContractStatus  `json:"status,omitempty"`
}
