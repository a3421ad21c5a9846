package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openoptions/go-settings-registry/config"
	"github.com/openoptions/go-settings-registry/internal/bindings"
	"github.com/openoptions/go-settings-registry/internal/errors"
	"github.com/openoptions/go-settings-registry/internal/persistence"
	"github.com/openoptions/go-settings-registry/model"
	"github.com/openoptions/go-settings-registry/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(t.TempDir(), config.DefaultSchema(), 2)
	t.Cleanup(reg.Stop)
	return reg
}

func TestSearchPagesBlankQueryReturnsEverything(t *testing.T) {
	reg := newTestRegistry(t)

	result := reg.SearchPages("")
	assert.Equal(t, len(config.DefaultSchema().Pages), result.Total)
	assert.NotEmpty(t, result.QueryID)
}

func TestSearchPagesRanksHintMatches(t *testing.T) {
	reg := newTestRegistry(t)

	result := reg.SearchPages("reflection")
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "detail", result.Hits[0].Name)
	assert.Equal(t, 0, result.Hits[0].NameScore)
	assert.Equal(t, 1, result.Hits[0].HintScore)
}

func TestRegisterPageMakesItSearchable(t *testing.T) {
	reg := newTestRegistry(t)

	page := config.PageDef{
		Name:        "gameplay",
		Label:       "Gameplay",
		SearchHints: "difficulty autosave subtitles",
		Settings: []config.SettingDef{
			{Key: "difficulty", Section: "game", Type: config.TypeInt, Default: 0, Min: -100, Max: 100},
			{Key: "subtitles", Section: "game", Type: config.TypeBool, Default: true},
		},
	}
	require.NoError(t, reg.RegisterPage(page))

	result := reg.SearchPages("subtitles")
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "gameplay", result.Hits[0].Name)

	// Its settings picked up their defaults.
	value, err := reg.GetValue("game", "difficulty")
	require.NoError(t, err)
	assert.Equal(t, 0, value)
}

func TestRegisterPageRejectsDuplicatesAndBadPages(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.RegisterPage(config.PageDef{Name: "video"})
	assert.ErrorIs(t, err, errors.ErrPageAlreadyExists)

	err = reg.RegisterPage(config.PageDef{Name: "  "})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestRegisterPageRejectsSettingsOwnedByAnotherPage(t *testing.T) {
	reg := newTestRegistry(t)

	// The built-in video page already defines video.gamma; a second page
	// claiming the same (section, key) would alias its stored value.
	err := reg.RegisterPage(config.PageDef{
		Name: "calibration",
		Settings: []config.SettingDef{
			{Key: "gamma", Section: "video", Type: config.TypeFloat, Max: 3},
		},
	})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	// The same key under a fresh section is fine.
	err = reg.RegisterPage(config.PageDef{
		Name: "calibration",
		Settings: []config.SettingDef{
			{Key: "gamma", Section: "calibration", Type: config.TypeFloat, Max: 3},
		},
	})
	assert.NoError(t, err)
}

func TestDeletePageDropsItsValues(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.DeletePage("audio"))

	_, err := reg.GetValue("sound", "master volume")
	assert.ErrorIs(t, err, errors.ErrSettingNotFound)

	err = reg.DeletePage("audio")
	assert.ErrorIs(t, err, errors.ErrPageNotFound)
}

func TestStateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	reg := NewRegistry(dir, config.DefaultSchema(), 2)
	require.NoError(t, reg.SetValue("video", "vsync", false))
	require.NoError(t, reg.Rebind(bindings.DeviceKeyboard, "jump", "x"))
	require.NoError(t, reg.RegisterPage(config.PageDef{
		Name:     "extras",
		Settings: []config.SettingDef{{Key: "cheats", Section: "game", Type: config.TypeBool}},
	}))
	reg.Stop() // persists

	restarted := NewRegistry(dir, config.DefaultSchema(), 2)
	defer restarted.Stop()

	value, err := restarted.GetValue("video", "vsync")
	require.NoError(t, err)
	assert.Equal(t, false, value)

	input, err := restarted.bindings.Lookup(bindings.DeviceKeyboard, "jump")
	require.NoError(t, err)
	assert.Equal(t, "x", input)

	_, err = restarted.GetPage("extras")
	assert.NoError(t, err)
}

func TestSearchPagesSuggestsCorrectionOnZeroHits(t *testing.T) {
	reg := newTestRegistry(t)

	result := reg.SearchPages("reflectoin")
	require.Equal(t, 0, result.Total)
	assert.Equal(t, "reflection", result.Suggestion)

	// A matching query never carries a suggestion.
	result = reg.SearchPages("reflection")
	assert.Empty(t, result.Suggestion)

	// Gibberish is not corrected.
	result = reg.SearchPages("qqqqqqqq")
	assert.Empty(t, result.Suggestion)
}

func TestSearchPagesFeedsAnalytics(t *testing.T) {
	reg := newTestRegistry(t)

	reg.SearchPages("gamma")
	reg.SearchPages("gamma")
	reg.SearchPages("bloom and glow")

	dashboard := reg.AnalyticsDashboard()
	assert.Equal(t, 3, dashboard.TotalSearches24h)
	require.NotEmpty(t, dashboard.PopularQueries)
	assert.Equal(t, "gamma", dashboard.PopularQueries[0].Query)
	assert.Equal(t, 2, dashboard.PopularQueries[0].SearchCount)
}

func waitForJob(t *testing.T, reg *Registry, jobID string) *model.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := reg.GetJob(jobID)
		require.NoError(t, err)
		if job.Status == model.JobStatusCompleted || job.Status == model.JobStatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Job %s did not finish in time", jobID)
	return nil
}

func TestPersistAsyncCompletes(t *testing.T) {
	reg := newTestRegistry(t)

	jobID, err := reg.PersistAsync()
	require.NoError(t, err)

	job := waitForJob(t, reg, jobID)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, model.JobTypePersist, job.Type)
}

func TestResetAllAsyncRestoresDefaults(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.SetValue("video", "vsync", false))
	require.NoError(t, reg.Rebind(bindings.DeviceKeyboard, "jump", "x"))

	jobID, err := reg.ResetAllAsync()
	require.NoError(t, err)
	job := waitForJob(t, reg, jobID)
	require.Equal(t, model.JobStatusCompleted, job.Status)

	value, err := reg.GetValue("video", "vsync")
	require.NoError(t, err)
	assert.Equal(t, true, value)

	input, err := reg.bindings.Lookup(bindings.DeviceKeyboard, "jump")
	require.NoError(t, err)
	assert.Equal(t, "space", input)
}

func TestImportSchemaAsyncMergesPages(t *testing.T) {
	reg := newTestRegistry(t)

	jobID, err := reg.ImportSchemaAsync([]config.PageDef{
		{
			Name:        "video", // replaces the built-in page
			Label:       "Video",
			SearchHints: "resolution hdr",
			Settings: []config.SettingDef{
				{Key: "hdr", Section: "video", Type: config.TypeBool, Default: false},
			},
		},
		{
			Name:  "mods",
			Label: "Mods",
			Settings: []config.SettingDef{
				{Key: "enabled", Section: "mods", Type: config.TypeBool, Default: true},
			},
		},
	})
	require.NoError(t, err)

	job := waitForJob(t, reg, jobID)
	require.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, model.JobTypeImportSchema, job.Type)

	page, err := reg.GetPage("video")
	require.NoError(t, err)
	assert.Equal(t, "resolution hdr", page.SearchHints)

	// The replaced page's old settings are gone, the new ones are live.
	_, err = reg.GetValue("video", "vsync")
	assert.ErrorIs(t, err, errors.ErrSettingNotFound)
	value, err := reg.GetValue("video", "hdr")
	require.NoError(t, err)
	assert.Equal(t, false, value)

	result := reg.SearchPages("mods")
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "mods", result.Hits[0].Name)
}

func TestImportSchemaAsyncRejectsInvalidPages(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.ImportSchemaAsync([]config.PageDef{{Name: "  "}})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	// A batch whose settings collide with a page it does not replace is
	// rejected up front, before any job is created.
	_, err = reg.ImportSchemaAsync([]config.PageDef{{
		Name: "calibration",
		Settings: []config.SettingDef{
			{Key: "gamma", Section: "video", Type: config.TypeFloat, Max: 3},
		},
	}})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestExternalValueEditsReachObservers(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(dir, config.DefaultSchema(), 2)
	t.Cleanup(reg.Stop)
	require.NoError(t, reg.WatchValues())

	changed := make(chan model.Change, 1)
	reg.Store().Subscribe("video", func(c model.Change) {
		select {
		case changed <- c:
		default:
		}
	})

	// Simulate another process rewriting the values file: a scratch store
	// holding a different gamma, saved the same way the registry saves it
	// (temp file plus rename).
	scratch := store.NewValueStore(config.DefaultSchema())
	require.NoError(t, scratch.Set("video", "gamma", 2.5))
	require.NoError(t, persistence.SaveGob(filepath.Join(dir, "values.gob"), scratch))

	select {
	case change := <-changed:
		assert.Equal(t, "gamma", change.Key)
		assert.Equal(t, 2.5, change.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("External edit never reached the observer")
	}

	value, err := reg.GetValue("video", "gamma")
	require.NoError(t, err)
	assert.Equal(t, 2.5, value)
}

func TestObserversSeeLiveWrites(t *testing.T) {
	reg := newTestRegistry(t)

	var seen []model.Change
	reg.Store().Subscribe("video", func(c model.Change) { seen = append(seen, c) })

	require.NoError(t, reg.SetValue("video", "gamma", 2.0))
	require.Len(t, seen, 1)
	assert.Equal(t, "gamma", seen[0].Key)
	assert.Equal(t, 2.0, seen[0].Value)
}
