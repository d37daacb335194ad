package feed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintd/internal/conflict"
	"sprintd/internal/models"
	"sprintd/internal/services"
	"sprintd/internal/structures"
	"sprintd/internal/testutil"
)

func schedulerConfig(filePath string) *structures.Config {
	return &structures.Config{
		Feed: structures.FeedConfig{
			UpstreamURL:  "http://localhost:0",
			PollInterval: time.Second,
			FetchTimeout: time.Second,
		},
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: time.Second,
		},
		Timeline: structures.TimelineConfig{
			DefaultZoom:          "week",
			RowHeight:            60,
			HeaderHeight:         40,
			MaxConcurrentSprints: 3,
			PaddingDays:          7,
			Horizon:              30 * 24 * time.Hour,
		},
	}
}

func newTestScheduler(conf *structures.Config, client *testutil.MockClient) (*Scheduler, services.TimelineServiceInterface, *testutil.MockMetrics) {
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	svc := services.NewTimelineService(conf, logger, conflict.NewEngine(logger), metrics)
	snapshots := NewSnapshotManager(&testutil.MockCompressor{}, logger)

	s := NewScheduler(conf, logger, metrics, svc, client, snapshots)
	return s.(*Scheduler), svc, metrics
}

func feedResult() *models.FetchResult {
	return &models.FetchResult{
		Accounts: []models.Account{{ID: 1, Username: "alice"}},
		Sprints:  []models.ContentSprint{{ID: 10, Name: "Summer Vacation", SprintType: "vacation"}},
		Assignments: []models.SprintAssignment{
			{ID: 1, AccountID: 1, SprintID: 10, StartDate: "2025-01-10", EndDate: "2025-01-20", Status: models.StatusActive},
		},
		FetchedAt: time.Now(),
	}
}

func TestScheduler_Refresh_PublishesSnapshot(t *testing.T) {
	client := &testutil.MockClient{Result: feedResult()}
	s, svc, metrics := newTestScheduler(schedulerConfig("/tmp/unused.dat"), client)

	require.NoError(t, s.Refresh())

	data, _ := svc.Snapshot()
	require.NotNil(t, data)
	assert.Len(t, data.Accounts, 1)
	assert.Equal(t, 1, metrics.Refreshes)
	assert.Equal(t, 0, metrics.FetchErrors)
}

func TestScheduler_Refresh_FetchError(t *testing.T) {
	client := &testutil.MockClient{Err: errors.New("upstream down")}
	s, svc, metrics := newTestScheduler(schedulerConfig("/tmp/unused.dat"), client)

	assert.Error(t, s.Refresh())

	data, _ := svc.Snapshot()
	assert.Nil(t, data)
	assert.Equal(t, 1, metrics.FetchErrors)
}

func TestScheduler_Refresh_DropsStaleResponse(t *testing.T) {
	conf := schedulerConfig("/tmp/unused.dat")
	client := &testutil.MockClient{}
	s, svc, metrics := newTestScheduler(conf, client)

	// the fetch completes after a newer fetch has already been issued
	client.FetchFn = func(ctx context.Context) (*models.FetchResult, error) {
		s.generation.Inc()
		return feedResult(), nil
	}

	require.NoError(t, s.Refresh())

	data, _ := svc.Snapshot()
	assert.Nil(t, data)
	assert.Equal(t, 1, metrics.StaleDropped)
	assert.Equal(t, 0, metrics.Refreshes)
}

func TestScheduler_PersistAndRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timeline.dat")
	conf := schedulerConfig(path)

	client := &testutil.MockClient{Result: feedResult()}
	s, _, metrics := newTestScheduler(conf, client)
	require.NoError(t, s.Refresh())
	require.NoError(t, s.Persist())
	assert.Equal(t, 1, metrics.Persists)

	_, err := os.Stat(path)
	require.NoError(t, err)

	// a fresh daemon restores the persisted snapshot before any fetch
	s2, svc2, _ := newTestScheduler(conf, &testutil.MockClient{})
	require.NoError(t, s2.Restore())

	data, builtAt := svc2.Snapshot()
	require.NotNil(t, data)
	assert.False(t, builtAt.IsZero())
	assert.Len(t, data.Accounts, 1)
}

func TestScheduler_Persist_NothingToSave(t *testing.T) {
	s, _, metrics := newTestScheduler(schedulerConfig("/nonexistent/dir/x.dat"), &testutil.MockClient{})
	assert.NoError(t, s.Persist())
	assert.Equal(t, 0, metrics.Persists)
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	s, svc, _ := newTestScheduler(schedulerConfig("/nonexistent/file.dat"), &testutil.MockClient{})
	assert.NoError(t, s.Restore())

	data, _ := svc.Snapshot()
	assert.Nil(t, data)
}

func TestScheduler_Restore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	s, _, _ := newTestScheduler(schedulerConfig(path), &testutil.MockClient{})
	assert.Error(t, s.Restore())
}

func TestScheduler_StopNilCron(t *testing.T) {
	s, _, _ := newTestScheduler(schedulerConfig("/tmp/unused.dat"), &testutil.MockClient{})
	// Should not panic with nil cron
	s.Stop()
}

func TestScheduler_InitAndStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lifecycle.dat")

	s, _, _ := newTestScheduler(schedulerConfig(path), &testutil.MockClient{Result: feedResult()})
	s.Init()
	// Give the cron a moment to start
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
