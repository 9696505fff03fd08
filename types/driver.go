package types

import "time"

// Driver is a person renting a car under one or more contracts.
type Driver struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"companyId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	LicenseNumber string    `json:"licenseNumber,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateDriverRequest is the payload for registering a driver.
type CreateDriverRequest struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
}

// UpdateDriverRequest carries optional field updates for a driver.
type UpdateDriverRequest struct {
	FirstName     *string `json:"firstName,omitempty"`
	LastName      *string `json:"lastName,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	LicenseNumber *string `json:"licenseNumber,omitempty"`
}
