package services

import (
	"fmt"
	"time"

	"sprintd/internal/conflict"
	"sprintd/internal/models"
	"sprintd/internal/providers"
	"sprintd/internal/structures"
	"sprintd/internal/timeline"
)

// sprintColors maps a sprint type to its bar color. Unknown types get
// the default indigo.
var sprintColors = map[string]string{
	"vacation":   "#10B981",
	"university": "#3B82F6",
	"home":       "#6B7280",
	"work":       "#374151",
	"fitness":    "#EF4444",
	"lifestyle":  "#8B5CF6",
}

const defaultSprintColor = "#6366F1"

const barHeightInset = 20

type TimelineServiceInterface interface {
	Rebuild(res *models.FetchResult) *models.TimelineData
	Snapshot() (*models.TimelineData, time.Time)
	Restore(data *models.TimelineData, builtAt time.Time)
	Raw() *models.FetchResult
	TimelineFor(zoomLevel string, r *models.DateRange, containerWidth int) (*models.TimelineData, error)
	Conflicts() ([]models.ConflictWarning, error)
	Indicators(zoomLevel string) ([]conflict.Indicator, error)
	Window(rowHeight, viewportHeight, scrollTop int) (*models.VirtualScrollData, error)
}

type TimelineService struct {
	conf    *structures.Config
	logger  providers.Logger
	engine  *conflict.Engine
	metrics providers.MetricsProviderInterface
	store   *models.TimelineStore
	now     func() time.Time
}

func NewTimelineService(conf *structures.Config, logger providers.Logger, engine *conflict.Engine, metrics providers.MetricsProviderInterface) TimelineServiceInterface {
	return &TimelineService{
		conf:    conf,
		logger:  logger,
		engine:  engine,
		metrics: metrics,
		store:   models.NewTimelineStore(),
		now:     time.Now,
	}
}

// Rebuild recomputes the entire timeline graph from one raw fetch and
// publishes it as the new snapshot. The previous snapshot stays visible
// until the swap.
func (ts *TimelineService) Rebuild(res *models.FetchResult) *models.TimelineData {
	data := ts.build(res, ts.conf.Timeline.DefaultZoom, nil)
	ts.store.Put(data, res)

	ts.metrics.SetAccountsTotal(len(res.Accounts))
	ts.metrics.SetAssignmentsTotal(len(res.Assignments))
	byKind := make(map[string]int)
	for _, c := range data.Conflicts {
		byKind[string(c.Kind)]++
	}
	for _, kind := range []models.ConflictKind{
		models.KindOverlap, models.KindLocation, models.KindSeasonal,
		models.KindCooldown, models.KindResource, models.KindBlocking,
	} {
		ts.metrics.SetConflictsTotal(string(kind), byKind[string(kind)])
	}
	ts.metrics.SetSnapshotTimestamp(ts.now())

	ts.logger.Infof(providers.TypeApp, "Timeline rebuilt: %d accounts, %d assignments, %d conflicts",
		len(res.Accounts), len(res.Assignments), len(data.Conflicts))
	return data
}

func (ts *TimelineService) Snapshot() (*models.TimelineData, time.Time) {
	return ts.store.Get()
}

// Restore installs a snapshot loaded from disk. It is a no-op once a
// live rebuild has already published data.
func (ts *TimelineService) Restore(data *models.TimelineData, builtAt time.Time) {
	ts.store.PutRestored(data, builtAt)
}

func (ts *TimelineService) Raw() *models.FetchResult {
	return ts.store.Raw()
}

// TimelineFor recomputes the positioned view from the last raw fetch at
// the requested zoom and range. A nil range selects the optimal range
// around the current assignments; a non-positive containerWidth falls
// back to the configured one.
func (ts *TimelineService) TimelineFor(zoomLevel string, r *models.DateRange, containerWidth int) (*models.TimelineData, error) {
	raw := ts.store.Raw()
	if raw == nil {
		data, _ := ts.store.Get()
		if data == nil {
			return nil, fmt.Errorf("timeline not available yet")
		}
		if r == nil && zoomLevel == ts.conf.Timeline.DefaultZoom && containerWidth <= 0 {
			return data, nil
		}
		return nil, fmt.Errorf("raw feed not available yet")
	}
	return ts.buildWithWidth(raw, zoomLevel, r, containerWidth), nil
}

func (ts *TimelineService) Conflicts() ([]models.ConflictWarning, error) {
	data, _ := ts.store.Get()
	if data == nil {
		return nil, fmt.Errorf("timeline not available yet")
	}
	return data.Conflicts, nil
}

// Indicators projects the current conflicts onto bars positioned at the
// requested zoom. Conflicts whose bars are not part of the view are
// dropped from the visual set only.
func (ts *TimelineService) Indicators(zoomLevel string) ([]conflict.Indicator, error) {
	raw := ts.store.Raw()
	data, _ := ts.store.Get()
	if data == nil {
		return nil, fmt.Errorf("timeline not available yet")
	}
	if raw != nil && zoomLevel != ts.conf.Timeline.DefaultZoom {
		data = ts.build(raw, zoomLevel, nil)
	}
	return conflict.ConvertToIndicators(data.Conflicts, data.Accounts), nil
}

// Window selects the visible row slice for a scroll offset.
func (ts *TimelineService) Window(rowHeight, viewportHeight, scrollTop int) (*models.VirtualScrollData, error) {
	data, _ := ts.store.Get()
	if data == nil {
		return nil, fmt.Errorf("timeline not available yet")
	}
	if rowHeight <= 0 {
		rowHeight = ts.conf.Timeline.RowHeight
	}

	totalRows := len(data.Accounts)
	window := timeline.CalculateVisibleRange(totalRows, rowHeight, viewportHeight, scrollTop)

	visible := []models.AccountTimelineRow{}
	if !window.Empty() {
		visible = data.Accounts[window.Start : window.End+1]
	}
	return &models.VirtualScrollData{
		StartIndex:  window.Start,
		EndIndex:    window.End,
		VisibleRows: visible,
		TotalHeight: timeline.TotalHeight(totalRows, rowHeight, ts.conf.Timeline.HeaderHeight),
		ScrollTop:   scrollTop,
	}, nil
}

func (ts *TimelineService) build(res *models.FetchResult, zoomLevel string, r *models.DateRange) *models.TimelineData {
	return ts.buildWithWidth(res, zoomLevel, r, 0)
}

// buildWithWidth is the pure computation pass: derive account states,
// detect conflicts, position every bar and marker. It never mutates res.
func (ts *TimelineService) buildWithWidth(res *models.FetchResult, zoomLevel string, r *models.DateRange, containerWidth int) *models.TimelineData {
	if containerWidth <= 0 {
		containerWidth = ts.conf.Timeline.ContainerWidth
	}
	now := ts.now()
	zoom := timeline.ZoomOrDefault(zoomLevel)
	states := ts.deriveStates(res, now)

	dateRange := models.DateRange{}
	if r != nil {
		dateRange = *r
	} else {
		dateRange = ts.optimalRange(res.Assignments, now)
	}

	conflicts := ts.engine.Detect(conflict.Context{
		Accounts:      res.Accounts,
		Sprints:       res.Sprints,
		Assignments:   res.Assignments,
		AccountStates: states,
		CurrentTime:   now,
	}, ts.detectOptions())

	sprints := make(map[int64]*models.ContentSprint, len(res.Sprints))
	for i := range res.Sprints {
		sprints[res.Sprints[i].ID] = &res.Sprints[i]
	}
	byAccount := make(map[int64][]*models.SprintAssignment)
	for i := range res.Assignments {
		a := &res.Assignments[i]
		byAccount[a.AccountID] = append(byAccount[a.AccountID], a)
	}

	rowHeight := float64(ts.conf.Timeline.RowHeight)
	barHeight := rowHeight - barHeightInset
	rows := make([]models.AccountTimelineRow, 0, len(res.Accounts))
	for i := range res.Accounts {
		account := res.Accounts[i]
		row := models.AccountTimelineRow{
			Account:     account,
			State:       states[account.ID],
			Height:      rowHeight,
			Y:           float64(i) * rowHeight,
			Assignments: []models.AssignmentBar{},
			Conflicts:   []models.ConflictWarning{},
		}

		for _, a := range byAccount[account.ID] {
			iv, err := a.Interval()
			if err != nil {
				ts.logger.Warnf(providers.TypeApp, "Skipping assignment without usable dates: %s", err)
				continue
			}
			row.Assignments = append(row.Assignments, ts.buildBar(a, iv, sprints, conflicts, dateRange.Start, zoom.PixelsPerDay, barHeight))
		}

		row.Conflicts = rowConflicts(row.Assignments, conflicts)
		rows = append(rows, row)
	}

	return &models.TimelineData{
		Accounts:      rows,
		Conflicts:     conflicts,
		DateRange:     dateRange,
		TotalDuration: dateRange.Days(),
		Scale:         timeline.CalculateTimeScale(dateRange, float64(containerWidth), zoom, now),
	}
}

func (ts *TimelineService) buildBar(a *models.SprintAssignment, iv models.Interval, sprints map[int64]*models.ContentSprint, conflicts []models.ConflictWarning, start time.Time, pixelsPerDay, barHeight float64) models.AssignmentBar {
	pos := timeline.PositionAssignmentBar(iv.Start, iv.End, start, pixelsPerDay)

	sprint := models.ContentSprint{ID: a.SprintID, Name: fmt.Sprintf("sprint %d", a.SprintID)}
	if s, ok := sprints[a.SprintID]; ok {
		sprint = *s
	}

	color, ok := sprintColors[sprint.SprintType]
	if !ok {
		color = defaultSprintColor
	}

	return models.AssignmentBar{
		ID:           fmt.Sprintf("bar-%d", a.ID),
		Assignment:   *a,
		Sprint:       sprint,
		X:            pos.X,
		Width:        pos.Width,
		Height:       barHeight,
		Color:        color,
		Progress:     progress(a),
		Status:       a.Status,
		ContentItems: timeline.PositionContentItems(a.ContentItems, iv.Start, start, pixelsPerDay, pos.Width),
		Conflicts:    assignmentConflicts(a.ID, conflicts),
	}
}

// deriveStates computes the transient per-account state from the raw
// records. States are rebuilt from scratch on every pass.
func (ts *TimelineService) deriveStates(res *models.FetchResult, now time.Time) map[int64]models.AccountState {
	activeByAccount := make(map[int64][]int64)
	lastEndByAccount := make(map[int64]time.Time)
	for i := range res.Assignments {
		a := &res.Assignments[i]
		if a.Status == models.StatusActive {
			activeByAccount[a.AccountID] = append(activeByAccount[a.AccountID], a.SprintID)
		}
		if iv, err := a.Interval(); err == nil {
			if last, ok := lastEndByAccount[a.AccountID]; !ok || iv.End.After(last) {
				lastEndByAccount[a.AccountID] = iv.End
			}
		}
	}

	states := make(map[int64]models.AccountState, len(res.Accounts))
	for i := range res.Accounts {
		account := &res.Accounts[i]
		state := models.AccountState{
			CurrentLocation: account.Location,
			ActiveSprintIDs: activeByAccount[account.ID],
		}

		if account.CooldownUntil != "" {
			if t, err := models.ParseDate(account.CooldownUntil); err == nil {
				state.CooldownUntil = &t
			} else {
				ts.logger.Warnf(providers.TypeApp, "Account %d has unparseable cooldown_until %q", account.ID, account.CooldownUntil)
			}
		}
		if account.NextMaintenanceDue != "" {
			if t, err := models.ParseDate(account.NextMaintenanceDue); err == nil {
				state.NextMaintenanceDue = &t
			}
		}

		if len(state.ActiveSprintIDs) == 0 {
			if last, ok := lastEndByAccount[account.ID]; ok && last.Before(now) {
				idle := last
				state.IdleSince = &idle
				state.IdleDuration = now.Sub(last)
			}
		}

		states[account.ID] = state
	}
	return states
}

// optimalRange frames the current assignments with padding on both
// sides. With no parseable assignments it falls back to a window around
// now.
func (ts *TimelineService) optimalRange(assignments []models.SprintAssignment, now time.Time) models.DateRange {
	padding := ts.conf.Timeline.PaddingDays

	var earliest, latest time.Time
	found := false
	for i := range assignments {
		iv, err := assignments[i].Interval()
		if err != nil {
			continue
		}
		if !found || iv.Start.Before(earliest) {
			earliest = iv.Start
		}
		if !found || iv.End.After(latest) {
			latest = iv.End
		}
		found = true
	}

	if !found {
		return models.DateRange{
			Start: now.AddDate(0, 0, -padding),
			End:   now.Add(ts.conf.Timeline.Horizon),
		}
	}
	return models.DateRange{
		Start: earliest.AddDate(0, 0, -padding),
		End:   latest.AddDate(0, 0, padding),
	}
}

func (ts *TimelineService) detectOptions() conflict.Options {
	opts := conflict.DefaultOptions()
	opts.ToleranceHours = ts.conf.Timeline.ToleranceHours
	if ts.conf.Timeline.MaxConcurrentSprints > 0 {
		opts.MaxConcurrentSprints = ts.conf.Timeline.MaxConcurrentSprints
	}
	return opts
}

func progress(a *models.SprintAssignment) int {
	if len(a.ContentItems) == 0 {
		if a.Status == models.StatusCompleted {
			return 100
		}
		return 0
	}
	p := a.CurrentContentIndex * 100 / len(a.ContentItems)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func assignmentConflicts(id int64, conflicts []models.ConflictWarning) []models.ConflictWarning {
	key := fmt.Sprintf("%d", id)
	var out []models.ConflictWarning
	for _, c := range conflicts {
		for _, item := range c.AffectedItems {
			if item == key {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func rowConflicts(bars []models.AssignmentBar, conflicts []models.ConflictWarning) []models.ConflictWarning {
	ids := make(map[string]struct{}, len(bars))
	for i := range bars {
		ids[fmt.Sprintf("%d", bars[i].Assignment.ID)] = struct{}{}
	}

	out := []models.ConflictWarning{}
	for _, c := range conflicts {
		for _, item := range c.AffectedItems {
			if _, ok := ids[item]; ok {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
