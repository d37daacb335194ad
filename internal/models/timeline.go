package models

import "time"

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the range length in fractional days.
func (r DateRange) Days() float64 {
	return r.End.Sub(r.Start).Hours() / 24
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

type DateTick struct {
	Date    time.Time `json:"date"`
	X       float64   `json:"x"`
	Label   string    `json:"label"`
	IsMajor bool      `json:"is_major"`
}

// TimeScale maps calendar time onto the pixel axis at one zoom density.
// CurrentTimeX is -1 when "now" falls outside the range, meaning a
// now-marker must not be rendered.
type TimeScale struct {
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
	PixelsPerDay float64    `json:"pixels_per_day"`
	TotalWidth   float64    `json:"total_width"`
	MajorTicks   []DateTick `json:"major_ticks"`
	MinorTicks   []DateTick `json:"minor_ticks"`
	CurrentTimeX float64    `json:"current_time_x"`
}

type ContentItemMarker struct {
	ID            string     `json:"id"`
	X             float64    `json:"x"`
	ContentType   string     `json:"content_type"`
	Status        string     `json:"status"`
	IsEmergency   bool       `json:"is_emergency"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	PostedTime    *time.Time `json:"posted_time,omitempty"`
}

// AssignmentBar is the positioned view of one assignment. Content
// markers are positioned relative to the bar and clamped inside it.
type AssignmentBar struct {
	ID           string              `json:"id"`
	Assignment   SprintAssignment    `json:"assignment"`
	Sprint       ContentSprint       `json:"sprint"`
	X            float64             `json:"x"`
	Width        float64             `json:"width"`
	Height       float64             `json:"height"`
	Color        string              `json:"color"`
	Progress     int                 `json:"progress"`
	Status       AssignmentStatus    `json:"status"`
	ContentItems []ContentItemMarker `json:"content_items"`
	Conflicts    []ConflictWarning   `json:"conflicts"`
}

type AccountTimelineRow struct {
	Account     Account           `json:"account"`
	Assignments []AssignmentBar   `json:"assignments"`
	State       AccountState      `json:"state"`
	Conflicts   []ConflictWarning `json:"conflicts"`
	Height      float64           `json:"height"`
	Y           float64           `json:"y"`
}

// TimelineData is the complete computed graph handed to the rendering
// layer. It is rebuilt from scratch on every refresh and never mutated.
type TimelineData struct {
	Accounts      []AccountTimelineRow `json:"accounts"`
	Conflicts     []ConflictWarning    `json:"conflicts"`
	DateRange     DateRange            `json:"date_range"`
	TotalDuration float64              `json:"total_duration"`
	Scale         *TimeScale           `json:"scale"`
}

// VirtualScrollData is the window calculator's output: the slice of
// rows the renderer should materialize for the current scroll offset.
type VirtualScrollData struct {
	StartIndex  int                  `json:"start_index"`
	EndIndex    int                  `json:"end_index"`
	VisibleRows []AccountTimelineRow `json:"visible_rows"`
	TotalHeight int                  `json:"total_height"`
	ScrollTop   int                  `json:"scroll_top"`
}

// FetchResult is one raw pull from the upstream dashboard API.
type FetchResult struct {
	Accounts    []Account          `json:"accounts"`
	Sprints     []ContentSprint    `json:"sprints"`
	Assignments []SprintAssignment `json:"assignments"`
	FetchedAt   time.Time          `json:"fetched_at"`
}
