package models

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

type ConflictKind string

const (
	KindOverlap  ConflictKind = "overlap"
	KindLocation ConflictKind = "location"
	KindSeasonal ConflictKind = "seasonal"
	KindCooldown ConflictKind = "cooldown"
	KindResource ConflictKind = "resource"
	KindBlocking ConflictKind = "blocking"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type ResolutionAction string

const (
	ActionReschedule ResolutionAction = "reschedule"
	ActionPause      ResolutionAction = "pause"
	ActionCancel     ResolutionAction = "cancel"
	ActionOverride   ResolutionAction = "override"
	ActionWait       ResolutionAction = "wait"
)

// Resolution is a command value describing one way to resolve a
// conflict. The detection engine only offers these; executing them is
// the control layer's business.
type Resolution struct {
	Action       ResolutionAction `json:"action"`
	Label        string           `json:"label"`
	Description  string           `json:"description"`
	AssignmentID int64            `json:"assignment_id,omitempty"`
	NotBefore    *time.Time       `json:"not_before,omitempty"`
}

// ConflictDetail is the closed set of kind-specific payloads. Each
// conflict kind carries exactly the fields it needs.
type ConflictDetail interface {
	Kind() ConflictKind
}

type OverlapDetail struct {
	EarlierID int64 `json:"earlier_id"`
	LaterID   int64 `json:"later_id"`
}

type LocationDetail struct {
	Required string `json:"required"`
	Current  string `json:"current"`
}

type SeasonalDetail struct {
	ValidMonths []time.Month `json:"valid_months"`
}

type CooldownDetail struct {
	CooldownUntil  time.Time `json:"cooldown_until"`
	HoursRemaining int       `json:"hours_remaining"`
}

type ResourceDetail struct {
	ActiveCount int `json:"active_count"`
	Limit       int `json:"limit"`
}

type BlockingDetail struct {
	BlockingSprintID int64 `json:"blocking_sprint_id"`
	BlockedSprintID  int64 `json:"blocked_sprint_id"`
}

func (OverlapDetail) Kind() ConflictKind  { return KindOverlap }
func (LocationDetail) Kind() ConflictKind { return KindLocation }
func (SeasonalDetail) Kind() ConflictKind { return KindSeasonal }
func (CooldownDetail) Kind() ConflictKind { return KindCooldown }
func (ResourceDetail) Kind() ConflictKind { return KindResource }
func (BlockingDetail) Kind() ConflictKind { return KindBlocking }

// ConflictWarning is one detected scheduling problem. IDs are
// deterministic (kind plus sorted affected ids), so re-running
// detection over unchanged data yields byte-identical warnings.
type ConflictWarning struct {
	ID            string         `json:"id"`
	Kind          ConflictKind   `json:"type"`
	Severity      Severity       `json:"severity"`
	Message       string         `json:"message"`
	Description   string         `json:"description,omitempty"`
	AffectedItems []string       `json:"affected_items"`
	Resolutions   []Resolution   `json:"resolution_options"`
	Detail        ConflictDetail `json:"detail,omitempty"`
}

type conflictWarningJSON struct {
	ID            string          `json:"id"`
	Kind          ConflictKind    `json:"type"`
	Severity      Severity        `json:"severity"`
	Message       string          `json:"message"`
	Description   string          `json:"description,omitempty"`
	AffectedItems []string        `json:"affected_items"`
	Resolutions   []Resolution    `json:"resolution_options"`
	Detail        json.RawMessage `json:"detail,omitempty"`
}

// UnmarshalJSON decodes the kind-specific detail into its concrete
// type, keeping the variant closed across snapshot round-trips.
func (w *ConflictWarning) UnmarshalJSON(data []byte) error {
	var raw conflictWarningJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.ID = raw.ID
	w.Kind = raw.Kind
	w.Severity = raw.Severity
	w.Message = raw.Message
	w.Description = raw.Description
	w.AffectedItems = raw.AffectedItems
	w.Resolutions = raw.Resolutions
	w.Detail = nil
	if len(raw.Detail) == 0 {
		return nil
	}

	switch raw.Kind {
	case KindOverlap:
		var d OverlapDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		w.Detail = d
	case KindLocation:
		var d LocationDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		w.Detail = d
	case KindSeasonal:
		var d SeasonalDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		w.Detail = d
	case KindCooldown:
		var d CooldownDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		w.Detail = d
	case KindResource:
		var d ResourceDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		w.Detail = d
	case KindBlocking:
		var d BlockingDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		w.Detail = d
	default:
		return fmt.Errorf("unknown conflict kind %q", raw.Kind)
	}
	return nil
}
