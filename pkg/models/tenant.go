package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents an organization or business unit. Every other entity
// belongs to a tenant.
type Tenant struct {
	ID           uuid.UUID `db:"id"             json:"id"`
	Name         string    `db:"name"           json:"name"`
	FSMAccountID string    `db:"fsm_account_id" json:"fsm_account_id"`
	CreatedAt    time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"     json:"updated_at"`
}
