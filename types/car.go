package types

import "time"

// Car is a fleet vehicle available for rental contracts.
type Car struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	LicensePlate string    `json:"licensePlate"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateCarRequest is the payload for registering a car.
type CreateCarRequest struct {
	LicensePlate string `json:"licensePlate" binding:"required"`
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year,omitempty"`
}

// UpdateCarRequest carries optional field updates for a car.
type UpdateCarRequest struct {
	LicensePlate *string `json:"licensePlate,omitempty"`
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`
	Year         *int    `json:"year,omitempty"`
}
