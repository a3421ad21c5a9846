package analytics

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openoptions/go-settings-registry/model"
)

func trackAt(service *Service, query string, hits int, took time.Duration, at time.Time) {
	service.TrackSearchEvent(model.SearchEvent{
		Query:        query,
		HitCount:     hits,
		ResponseTime: took,
		Timestamp:    at,
	})
}

func TestDashboardAggregatesRecentSearches(t *testing.T) {
	service := NewService(t.TempDir())
	now := time.Now()

	trackAt(service, "gamma", 1, 4*time.Millisecond, now.Add(-time.Hour))
	trackAt(service, "gamma", 1, 2*time.Millisecond, now.Add(-time.Hour))
	trackAt(service, "vsync", 1, 6*time.Millisecond, now.Add(-2*time.Hour))
	trackAt(service, "bloom", 0, 3*time.Millisecond, now.Add(-3*time.Hour))
	// Old events stay in the popularity ranking but not in the 24h window.
	trackAt(service, "gamma", 1, 100*time.Millisecond, now.Add(-48*time.Hour))

	dashboard := service.GetDashboardData()

	assert.Equal(t, 4, dashboard.TotalSearches24h)
	require.NotEmpty(t, dashboard.PopularQueries)
	assert.Equal(t, "gamma", dashboard.PopularQueries[0].Query)
	assert.Equal(t, 3, dashboard.PopularQueries[0].SearchCount)

	require.Len(t, dashboard.ZeroHitQueries, 1)
	assert.Equal(t, "bloom", dashboard.ZeroHitQueries[0].Query)
	assert.InDelta(t, 0.25, dashboard.ZeroHitRate, 1e-9)

	assert.Len(t, dashboard.SearchPerformance24h, 24)
}

func TestBlankQueriesAreExcludedFromRankings(t *testing.T) {
	service := NewService(t.TempDir())
	now := time.Now()

	trackAt(service, "", 5, time.Millisecond, now)
	trackAt(service, "  ", 5, time.Millisecond, now)
	trackAt(service, "gamma", 1, time.Millisecond, now)

	dashboard := service.GetDashboardData()

	assert.Equal(t, 3, dashboard.TotalSearches24h)
	require.Len(t, dashboard.PopularQueries, 1)
	assert.Equal(t, "gamma", dashboard.PopularQueries[0].Query)
	assert.Zero(t, dashboard.ZeroHitRate)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	service := NewService(dir)
	trackAt(service, "gamma", 1, time.Millisecond, time.Now())
	require.NoError(t, service.Save())

	reloaded := NewService(dir)
	dashboard := reloaded.GetDashboardData()
	assert.Equal(t, 1, dashboard.TotalSearches24h)

	// The save goes through a temp file and a rename; only the final file
	// remains.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "analytics.json", entries[0].Name())
}

func TestEmptyServiceDashboard(t *testing.T) {
	service := NewService(t.TempDir())

	dashboard := service.GetDashboardData()
	assert.Zero(t, dashboard.TotalSearches24h)
	assert.Zero(t, dashboard.AvgResponseTime)
	assert.Empty(t, dashboard.PopularQueries)
	assert.Empty(t, dashboard.ZeroHitQueries)
}
