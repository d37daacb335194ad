package conflict

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"sprintd/internal/models"
	"sprintd/internal/providers"
)

// DefaultMaxConcurrentSprints is the capacity limit per account before
// a resource warning is raised.
const DefaultMaxConcurrentSprints = 3

// Options toggles each conflict family independently. ToleranceHours is
// a buffer: when positive, intervals closer than the tolerance count as
// overlapping.
type Options struct {
	CheckOverlaps        bool
	CheckLocation        bool
	CheckSeasonal        bool
	CheckCooldown        bool
	CheckResource        bool
	CheckBlocking        bool
	ToleranceHours       int
	MaxConcurrentSprints int
}

func DefaultOptions() Options {
	return Options{
		CheckOverlaps:        true,
		CheckLocation:        true,
		CheckSeasonal:        true,
		CheckCooldown:        true,
		CheckResource:        true,
		CheckBlocking:        true,
		ToleranceHours:       0,
		MaxConcurrentSprints: DefaultMaxConcurrentSprints,
	}
}

// Context is the read-only record set one detection pass runs over.
type Context struct {
	Accounts      []models.Account
	Sprints       []models.ContentSprint
	Assignments   []models.SprintAssignment
	AccountStates map[int64]models.AccountState
	CurrentTime   time.Time
}

// Engine detects scheduling conflicts. It holds no state between calls;
// running Detect twice over unchanged input yields identical warnings.
type Engine struct {
	logger providers.Logger
}

func NewEngine(logger providers.Logger) *Engine {
	return &Engine{logger: logger}
}

// scheduled pairs an assignment with its resolved interval. Assignments
// whose dates cannot be parsed never make it into one of these.
type scheduled struct {
	assignment *models.SprintAssignment
	interval   models.Interval
}

// Detect runs every enabled conflict family over the context. A single
// malformed assignment is skipped with a warning log; it never aborts
// the pass.
func (e *Engine) Detect(ctx Context, opts Options) []models.ConflictWarning {
	if opts.MaxConcurrentSprints <= 0 {
		opts.MaxConcurrentSprints = DefaultMaxConcurrentSprints
	}
	tolerance := time.Duration(opts.ToleranceHours) * time.Hour

	sprints := make(map[int64]*models.ContentSprint, len(ctx.Sprints))
	for i := range ctx.Sprints {
		sprints[ctx.Sprints[i].ID] = &ctx.Sprints[i]
	}
	accounts := make(map[int64]*models.Account, len(ctx.Accounts))
	for i := range ctx.Accounts {
		accounts[ctx.Accounts[i].ID] = &ctx.Accounts[i]
	}

	valid := make([]scheduled, 0, len(ctx.Assignments))
	byAccount := make(map[int64][]scheduled)
	for i := range ctx.Assignments {
		a := &ctx.Assignments[i]
		iv, err := a.Interval()
		if err != nil {
			if e.logger != nil {
				e.logger.Warnf(providers.TypeApp, "Skipping malformed assignment: %s", err)
			}
			continue
		}
		s := scheduled{assignment: a, interval: iv}
		valid = append(valid, s)
		byAccount[a.AccountID] = append(byAccount[a.AccountID], s)
	}

	accountIDs := make([]int64, 0, len(byAccount))
	for id := range byAccount {
		accountIDs = append(accountIDs, id)
	}
	sort.Slice(accountIDs, func(i, j int) bool { return accountIDs[i] < accountIDs[j] })

	var conflicts []models.ConflictWarning
	for _, accountID := range accountIDs {
		account, ok := accounts[accountID]
		if !ok {
			continue
		}
		list := byAccount[accountID]
		sort.Slice(list, func(i, j int) bool {
			if !list[i].interval.Start.Equal(list[j].interval.Start) {
				return list[i].interval.Start.Before(list[j].interval.Start)
			}
			return list[i].assignment.ID < list[j].assignment.ID
		})

		if opts.CheckOverlaps {
			conflicts = append(conflicts, e.detectOverlaps(list, account, sprints, tolerance)...)
		}
		if opts.CheckLocation {
			conflicts = append(conflicts, e.detectLocationMismatches(list, account, sprints)...)
		}
		if opts.CheckSeasonal {
			conflicts = append(conflicts, e.detectSeasonalMismatches(list, sprints)...)
		}
		if opts.CheckCooldown {
			state, ok := ctx.AccountStates[accountID]
			if ok {
				conflicts = append(conflicts, e.detectCooldownViolations(list, &state, sprints)...)
			}
		}
		if opts.CheckResource {
			conflicts = append(conflicts, e.detectResourceOverload(list, account, opts.MaxConcurrentSprints)...)
		}
	}

	if opts.CheckBlocking {
		conflicts = append(conflicts, e.detectBlocking(ctx.Sprints, valid, tolerance)...)
	}

	return conflicts
}

// overlapsWithin applies the overlap rule with an optional tolerance
// buffer. Point intervals never overlap anything.
func overlapsWithin(a, b models.Interval, tolerance time.Duration) bool {
	if tolerance <= 0 {
		return a.Overlaps(b)
	}
	if a.IsPoint() || b.IsPoint() {
		return false
	}
	return a.Start.Before(b.End.Add(tolerance)) && b.Start.Before(a.End.Add(tolerance))
}

// detectOverlaps sweeps the start-sorted list keeping the running
// latest end. Comparing each assignment against that predecessor
// witnesses every overlap, including intervals wholly nested inside an
// earlier, longer one that plain adjacent-pair checking would miss.
func (e *Engine) detectOverlaps(list []scheduled, account *models.Account, sprints map[int64]*models.ContentSprint, tolerance time.Duration) []models.ConflictWarning {
	var conflicts []models.ConflictWarning
	maxEndIdx := -1
	for i := range list {
		if maxEndIdx >= 0 {
			earlier := list[maxEndIdx]
			current := list[i]
			if overlapsWithin(earlier.interval, current.interval, tolerance) {
				conflicts = append(conflicts, e.overlapWarning(earlier, current, account, sprints))
			}
		}
		if list[i].interval.IsPoint() {
			continue
		}
		if maxEndIdx < 0 || list[i].interval.End.After(list[maxEndIdx].interval.End) {
			maxEndIdx = i
		}
	}
	return conflicts
}

func (e *Engine) overlapWarning(earlier, later scheduled, account *models.Account, sprints map[int64]*models.ContentSprint) models.ConflictWarning {
	id1, id2 := earlier.assignment.ID, later.assignment.ID
	loID, hiID := id1, id2
	if hiID < loID {
		loID, hiID = hiID, loID
	}

	return models.ConflictWarning{
		ID:       fmt.Sprintf("overlap-%d-%d", loID, hiID),
		Kind:     models.KindOverlap,
		Severity: models.SeverityError,
		Message:  "Overlapping assignments detected",
		Description: fmt.Sprintf("Account %s has overlapping sprint assignments: %q and %q",
			account.Username, sprintName(sprints, earlier.assignment.SprintID), sprintName(sprints, later.assignment.SprintID)),
		AffectedItems: affected(id1, id2),
		Resolutions: []models.Resolution{
			{
				Action:       models.ActionReschedule,
				Label:        "Auto-reschedule",
				Description:  "Automatically adjust timing to prevent overlap",
				AssignmentID: later.assignment.ID,
			},
			{
				Action:       models.ActionPause,
				Label:        "Pause conflicting sprint",
				Description:  "Pause the later of the conflicting sprints",
				AssignmentID: later.assignment.ID,
			},
			{
				Action:       models.ActionCancel,
				Label:        "Cancel one assignment",
				Description:  "Cancel the later assignment",
				AssignmentID: later.assignment.ID,
			},
		},
		Detail: models.OverlapDetail{EarlierID: earlier.assignment.ID, LaterID: later.assignment.ID},
	}
}

// detectLocationMismatches is a warning, not an error: the account may
// move before the assignment actually starts.
func (e *Engine) detectLocationMismatches(list []scheduled, account *models.Account, sprints map[int64]*models.ContentSprint) []models.ConflictWarning {
	var conflicts []models.ConflictWarning
	for _, s := range list {
		sprint, ok := sprints[s.assignment.SprintID]
		if !ok || sprint.Location == "" {
			continue
		}
		if account.Location == "" || sprint.Location == account.Location {
			continue
		}
		conflicts = append(conflicts, models.ConflictWarning{
			ID:       fmt.Sprintf("location-%d", s.assignment.ID),
			Kind:     models.KindLocation,
			Severity: models.SeverityWarning,
			Message:  "Location mismatch detected",
			Description: fmt.Sprintf("Sprint %q requires location %q but account is in %q",
				sprint.Name, sprint.Location, account.Location),
			AffectedItems: affected(s.assignment.ID),
			Resolutions: []models.Resolution{
				{
					Action:       models.ActionReschedule,
					Label:        "Wait for location change",
					Description:  "Delay assignment until account moves to required location",
					AssignmentID: s.assignment.ID,
				},
				{
					Action:       models.ActionOverride,
					Label:        "Force assignment",
					Description:  "Assign anyway despite location conflict",
					AssignmentID: s.assignment.ID,
				},
			},
			Detail: models.LocationDetail{Required: sprint.Location, Current: account.Location},
		})
	}
	return conflicts
}

func (e *Engine) detectSeasonalMismatches(list []scheduled, sprints map[int64]*models.ContentSprint) []models.ConflictWarning {
	var conflicts []models.ConflictWarning
	for _, s := range list {
		sprint, ok := sprints[s.assignment.SprintID]
		if !ok || len(sprint.AvailableMonths) == 0 {
			continue
		}
		month := s.interval.Start.Month()
		if sprint.AvailableIn(month) {
			continue
		}

		months := make([]time.Month, len(sprint.AvailableMonths))
		names := make([]string, len(sprint.AvailableMonths))
		for i, m := range sprint.AvailableMonths {
			months[i] = time.Month(m)
			names[i] = time.Month(m).String()
		}
		monthList := strings.Join(names, ", ")

		conflicts = append(conflicts, models.ConflictWarning{
			ID:            fmt.Sprintf("seasonal-%d", s.assignment.ID),
			Kind:          models.KindSeasonal,
			Severity:      models.SeverityWarning,
			Message:       fmt.Sprintf("Sprint %q scheduled outside its season", sprint.Name),
			Description:   "This sprint is available in: " + monthList,
			AffectedItems: affected(s.assignment.ID),
			Resolutions: []models.Resolution{
				{
					Action:       models.ActionReschedule,
					Label:        "Move to valid season",
					Description:  "Reschedule assignment to an available month",
					AssignmentID: s.assignment.ID,
				},
				{
					Action:       models.ActionOverride,
					Label:        "Keep current timing",
					Description:  "Proceed despite seasonal mismatch",
					AssignmentID: s.assignment.ID,
				},
			},
			Detail: models.SeasonalDetail{ValidMonths: months},
		})
	}
	return conflicts
}

// detectCooldownViolations is always an error: starting inside a
// cooldown risks penalties on the account itself, beyond scheduling.
func (e *Engine) detectCooldownViolations(list []scheduled, state *models.AccountState, sprints map[int64]*models.ContentSprint) []models.ConflictWarning {
	if state.CooldownUntil == nil {
		return nil
	}
	cooldownEnd := *state.CooldownUntil

	var conflicts []models.ConflictWarning
	for _, s := range list {
		if !s.interval.Start.Before(cooldownEnd) {
			continue
		}
		hoursRemaining := int(math.Ceil(cooldownEnd.Sub(s.interval.Start).Hours()))
		notBefore := cooldownEnd

		conflicts = append(conflicts, models.ConflictWarning{
			ID:       fmt.Sprintf("cooldown-%d", s.assignment.ID),
			Kind:     models.KindCooldown,
			Severity: models.SeverityError,
			Message:  "Cooldown period violation",
			Description: fmt.Sprintf("Account in cooldown for %d more hours. Cannot start %q until %s",
				hoursRemaining, sprintName(sprints, s.assignment.SprintID), cooldownEnd.Format("2006-01-02 15:04")),
			AffectedItems: affected(s.assignment.ID),
			Resolutions: []models.Resolution{
				{
					Action:       models.ActionReschedule,
					Label:        "Wait for cooldown",
					Description:  "Automatically reschedule after cooldown period",
					AssignmentID: s.assignment.ID,
					NotBefore:    &notBefore,
				},
				{
					Action:       models.ActionOverride,
					Label:        "Emergency override",
					Description:  "Override cooldown (may affect account health)",
					AssignmentID: s.assignment.ID,
				},
			},
			Detail: models.CooldownDetail{CooldownUntil: cooldownEnd, HoursRemaining: hoursRemaining},
		})
	}
	return conflicts
}

// detectResourceOverload emits at most one warning per account, listing
// every active assignment.
func (e *Engine) detectResourceOverload(list []scheduled, account *models.Account, limit int) []models.ConflictWarning {
	var active []scheduled
	for _, s := range list {
		if s.assignment.Status == models.StatusActive {
			active = append(active, s)
		}
	}
	if len(active) <= limit {
		return nil
	}

	ids := make([]int64, len(active))
	for i, s := range active {
		ids[i] = s.assignment.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return []models.ConflictWarning{{
		ID:            fmt.Sprintf("resource-%d", account.ID),
		Kind:          models.KindResource,
		Severity:      models.SeverityWarning,
		Message:       "Resource overload detected",
		Description:   fmt.Sprintf("Account has %d concurrent assignments (max: %d)", len(active), limit),
		AffectedItems: affected(ids...),
		Resolutions: []models.Resolution{
			{
				Action:      models.ActionPause,
				Label:       "Pause excess assignments",
				Description: "Pause the most recent assignments",
			},
			{
				Action:      models.ActionReschedule,
				Label:       "Stagger assignments",
				Description: "Space out assignment timing automatically",
			},
		},
		Detail: models.ResourceDetail{ActiveCount: len(active), Limit: limit},
	}}
}

// detectBlocking runs across accounts: a sprint with a blocks_sprints
// list forbids assignments of the listed sprints from overlapping any
// of its own assignments, on any account.
func (e *Engine) detectBlocking(sprints []models.ContentSprint, valid []scheduled, tolerance time.Duration) []models.ConflictWarning {
	sorted := make([]*models.ContentSprint, 0, len(sprints))
	for i := range sprints {
		if len(sprints[i].BlocksSprints) > 0 {
			sorted = append(sorted, &sprints[i])
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	seen := make(map[string]struct{})
	var conflicts []models.ConflictWarning
	for _, sprint := range sorted {
		var blocking, blocked []scheduled
		for _, s := range valid {
			if s.assignment.SprintID == sprint.ID {
				blocking = append(blocking, s)
			}
			if sprint.Blocks(s.assignment.SprintID) {
				blocked = append(blocked, s)
			}
		}

		for _, b := range blocking {
			for _, target := range blocked {
				if b.assignment.ID == target.assignment.ID {
					continue
				}
				if !overlapsWithin(b.interval, target.interval, tolerance) {
					continue
				}

				loID, hiID := b.assignment.ID, target.assignment.ID
				if hiID < loID {
					loID, hiID = hiID, loID
				}
				id := fmt.Sprintf("blocking-%d-%d", loID, hiID)
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}

				conflicts = append(conflicts, models.ConflictWarning{
					ID:       id,
					Kind:     models.KindBlocking,
					Severity: models.SeverityError,
					Message:  "Sprint blocking conflict",
					Description: fmt.Sprintf("Sprint %q blocks sprint %d from running concurrently",
						sprint.Name, target.assignment.SprintID),
					AffectedItems: affected(b.assignment.ID, target.assignment.ID),
					Resolutions: []models.Resolution{
						{
							Action:       models.ActionReschedule,
							Label:        "Reschedule blocked sprint",
							Description:  "Move the blocked sprint to a different time",
							AssignmentID: target.assignment.ID,
						},
					},
					Detail: models.BlockingDetail{BlockingSprintID: sprint.ID, BlockedSprintID: target.assignment.SprintID},
				})
			}
		}
	}
	return conflicts
}

func sprintName(sprints map[int64]*models.ContentSprint, id int64) string {
	if s, ok := sprints[id]; ok {
		return s.Name
	}
	return "sprint " + strconv.FormatInt(id, 10)
}

func affected(ids ...int64) []string {
	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = strconv.FormatInt(id, 10)
	}
	return items
}
