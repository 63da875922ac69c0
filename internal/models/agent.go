package models

import (
	"time"
)

// PropertyAgent represents a property agent record.
type PropertyAgent struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AgentFields holds the writable fields of an agent.
type AgentFields struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"email"`
	MobileNumber string `json:"mobileNumber" validate:"phone"`
}

// AgentPatch is a partial update. Nil fields are left unchanged.
type AgentPatch struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Email        *string `json:"email,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
}

// Apply overwrites the fields of a that are present in p.
func (p AgentPatch) Apply(a *PropertyAgent) {
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.MobileNumber != nil {
		a.MobileNumber = *p.MobileNumber
	}
}
