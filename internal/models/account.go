package models

import "time"

// Account is a managed Instagram account as delivered by the upstream API.
// Only the fields the timeline core consumes are mapped.
type Account struct {
	ID                 int64   `json:"id"`
	Username           string  `json:"username"`
	Location           string  `json:"location,omitempty"`
	Status             string  `json:"status"`
	MonthlyCost        float64 `json:"monthly_cost,omitempty"`
	CooldownUntil      string  `json:"cooldown_until,omitempty"`
	NextMaintenanceDue string  `json:"next_maintenance_due,omitempty"`
}

// AccountState is derived from the raw records on every refresh cycle.
// It is never persisted upstream and never mutated after construction.
type AccountState struct {
	CurrentLocation    string        `json:"current_location"`
	ActiveSprintIDs    []int64       `json:"active_sprint_ids"`
	IdleSince          *time.Time    `json:"idle_since,omitempty"`
	IdleDuration       time.Duration `json:"idle_duration,omitempty"`
	CooldownUntil      *time.Time    `json:"cooldown_until,omitempty"`
	NextMaintenanceDue *time.Time    `json:"next_maintenance_due,omitempty"`
}

// InCooldown reports whether the account may not start a new assignment at t.
func (s *AccountState) InCooldown(t time.Time) bool {
	return s.CooldownUntil != nil && t.Before(*s.CooldownUntil)
}
