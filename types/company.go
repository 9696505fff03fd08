package types

import "time"

// Company is a tenant. Every other record in the system is scoped to a
// company id taken from the authenticated caller context.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	KvkNumber string    `json:"kvkNumber,omitempty"`
	BtwNumber string    `json:"btwNumber,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCompanyRequest is the payload for registering a company.
type CreateCompanyRequest struct {
	Name      string `json:"name" binding:"required"`
	KvkNumber string `json:"kvkNumber,omitempty"`
	BtwNumber string `json:"btwNumber,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// UpdateCompanyRequest carries optional field updates for a company.
type UpdateCompanyRequest struct {
	Name      *string `json:"name,omitempty"`
	KvkNumber *string `json:"kvkNumber,omitempty"`
	BtwNumber *string `json:"btwNumber,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}
