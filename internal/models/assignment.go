package models

import (
	"fmt"
	"time"
)

type AssignmentStatus string

const (
	StatusScheduled AssignmentStatus = "scheduled"
	StatusActive    AssignmentStatus = "active"
	StatusCompleted AssignmentStatus = "completed"
	StatusPaused    AssignmentStatus = "paused"
	StatusCancelled AssignmentStatus = "cancelled"
)

// SprintAssignment binds one sprint to one account over a time interval.
// Dates arrive as strings from the upstream API; start/end fall back to
// the assignment date when absent.
type SprintAssignment struct {
	ID                  int64              `json:"id"`
	AccountID           int64              `json:"account_id"`
	SprintID            int64              `json:"sprint_id"`
	AssignmentDate      string             `json:"assignment_date"`
	StartDate           string             `json:"start_date,omitempty"`
	EndDate             string             `json:"end_date,omitempty"`
	Status              AssignmentStatus   `json:"status"`
	CurrentContentIndex int                `json:"current_content_index"`
	NextContentDue      string             `json:"next_content_due,omitempty"`
	SprintInstanceID    string             `json:"sprint_instance_id,omitempty"`
	ContentItems        []SprintContentItem `json:"content_items,omitempty"`
}

// SprintContentItem is a single piece of content scheduled inside an
// assignment's run.
type SprintContentItem struct {
	ID            int64  `json:"id"`
	ContentType   string `json:"content_type"`
	Status        string `json:"status"`
	ScheduledTime string `json:"scheduled_time"`
	PostedTime    string `json:"posted_time,omitempty"`
	IsEmergency   bool   `json:"is_emergency,omitempty"`
}

// Interval is a half-open [Start, End) time span. A point interval
// (Start == End) represents an instantaneous assignment and never
// overlaps anything.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) IsPoint() bool {
	return iv.Start.Equal(iv.End)
}

// Overlaps reports whether two intervals intersect. The rule is
// symmetric and point intervals are excluded by construction.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.IsPoint() || other.IsPoint() {
		return false
	}
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts the date formats the upstream API emits.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// Interval resolves the assignment's effective time span: start and end
// both fall back to the assignment date when absent. The result always
// satisfies Start <= End; a reversed pair is clamped to a point at Start.
func (a *SprintAssignment) Interval() (Interval, error) {
	base := a.AssignmentDate
	startStr := a.StartDate
	if startStr == "" {
		startStr = base
	}
	endStr := a.EndDate
	if endStr == "" {
		endStr = base
	}
	if startStr == "" {
		return Interval{}, fmt.Errorf("assignment %d has no dates", a.ID)
	}

	start, err := ParseDate(startStr)
	if err != nil {
		return Interval{}, fmt.Errorf("assignment %d: %w", a.ID, err)
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return Interval{}, fmt.Errorf("assignment %d: %w", a.ID, err)
	}
	if end.Before(start) {
		end = start
	}
	return Interval{Start: start, End: end}, nil
}
