package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, w ConflictWarning) ConflictWarning {
	t.Helper()
	data, err := json.Marshal(w)
	require.NoError(t, err)

	var out ConflictWarning
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestConflictWarning_RoundTripOverlap(t *testing.T) {
	w := ConflictWarning{
		ID:            "overlap-1-2",
		Kind:          KindOverlap,
		Severity:      SeverityError,
		Message:       "Overlapping assignments detected",
		AffectedItems: []string{"1", "2"},
		Resolutions: []Resolution{
			{Action: ActionReschedule, Label: "Auto-reschedule", AssignmentID: 2},
		},
		Detail: OverlapDetail{EarlierID: 1, LaterID: 2},
	}

	out := roundTrip(t, w)
	assert.Equal(t, w.ID, out.ID)
	assert.Equal(t, w.Resolutions, out.Resolutions)
	require.IsType(t, OverlapDetail{}, out.Detail)
	assert.Equal(t, w.Detail, out.Detail)
}

func TestConflictWarning_RoundTripCooldown(t *testing.T) {
	until := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	w := ConflictWarning{
		ID:            "cooldown-5",
		Kind:          KindCooldown,
		Severity:      SeverityError,
		Message:       "Cooldown period violation",
		AffectedItems: []string{"5"},
		Resolutions: []Resolution{
			{Action: ActionReschedule, Label: "Wait for cooldown", AssignmentID: 5, NotBefore: &until},
		},
		Detail: CooldownDetail{CooldownUntil: until, HoursRemaining: 120},
	}

	out := roundTrip(t, w)
	require.IsType(t, CooldownDetail{}, out.Detail)
	d := out.Detail.(CooldownDetail)
	assert.Equal(t, 120, d.HoursRemaining)
	assert.True(t, d.CooldownUntil.Equal(until))
	require.NotNil(t, out.Resolutions[0].NotBefore)
	assert.True(t, out.Resolutions[0].NotBefore.Equal(until))
}

func TestConflictWarning_RoundTripAllKinds(t *testing.T) {
	details := []ConflictDetail{
		LocationDetail{Required: "Paris", Current: "Berlin"},
		SeasonalDetail{ValidMonths: []time.Month{time.June, time.July}},
		ResourceDetail{ActiveCount: 4, Limit: 3},
		BlockingDetail{BlockingSprintID: 1, BlockedSprintID: 2},
	}

	for _, detail := range details {
		w := ConflictWarning{
			ID:            "x",
			Kind:          detail.Kind(),
			Severity:      SeverityWarning,
			AffectedItems: []string{"1"},
			Detail:        detail,
		}
		out := roundTrip(t, w)
		assert.Equal(t, detail, out.Detail, string(detail.Kind()))
	}
}

func TestConflictWarning_NoDetail(t *testing.T) {
	w := ConflictWarning{ID: "x", Kind: KindOverlap, Severity: SeverityError, AffectedItems: []string{"1"}}
	out := roundTrip(t, w)
	assert.Nil(t, out.Detail)
}

func TestConflictWarning_UnknownKindRejected(t *testing.T) {
	raw := []byte(`{"id":"x","type":"gravity","severity":"error","affected_items":[],"detail":{"a":1}}`)
	var out ConflictWarning
	assert.Error(t, json.Unmarshal(raw, &out))
}

func TestTimelineStore_PutAndGet(t *testing.T) {
	store := NewTimelineStore()

	data, builtAt := store.Get()
	assert.Nil(t, data)
	assert.True(t, builtAt.IsZero())

	snapshot := &TimelineData{TotalDuration: 37}
	raw := &FetchResult{FetchedAt: time.Now()}
	store.Put(snapshot, raw)

	got, builtAt := store.Get()
	assert.Same(t, snapshot, got)
	assert.False(t, builtAt.IsZero())
	assert.Same(t, raw, store.Raw())
}

func TestTimelineStore_PutRestoredDoesNotOverride(t *testing.T) {
	store := NewTimelineStore()
	live := &TimelineData{TotalDuration: 1}
	store.Put(live, nil)

	restoredAt := time.Now().Add(-time.Hour)
	store.PutRestored(&TimelineData{TotalDuration: 2}, restoredAt)

	got, _ := store.Get()
	assert.Same(t, live, got)
}

func TestTimelineStore_PutRestoredOnColdStart(t *testing.T) {
	store := NewTimelineStore()
	restoredAt := time.Now().Add(-time.Hour)
	restored := &TimelineData{TotalDuration: 2}
	store.PutRestored(restored, restoredAt)

	got, builtAt := store.Get()
	assert.Same(t, restored, got)
	assert.Equal(t, restoredAt, builtAt)
	assert.Nil(t, store.Raw())
}
