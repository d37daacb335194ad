package models

import "time"

// ContentSprint is a themed content campaign assignable to accounts.
type ContentSprint struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	SprintType            string  `json:"sprint_type"`
	Location              string  `json:"location,omitempty"`
	AvailableMonths       []int   `json:"available_months,omitempty"`
	BlocksSprints         []int64 `json:"blocks_sprints,omitempty"`
	BlocksHighlightGroups []int64 `json:"blocks_highlight_groups,omitempty"`
}

// AvailableIn reports whether the sprint may run in the given month.
// An empty AvailableMonths list means the sprint is always available.
func (s *ContentSprint) AvailableIn(m time.Month) bool {
	if len(s.AvailableMonths) == 0 {
		return true
	}
	for _, am := range s.AvailableMonths {
		if time.Month(am) == m {
			return true
		}
	}
	return false
}

// Blocks reports whether running this sprint forbids sprintID from
// running concurrently.
func (s *ContentSprint) Blocks(sprintID int64) bool {
	for _, id := range s.BlocksSprints {
		if id == sprintID {
			return true
		}
	}
	return false
}
