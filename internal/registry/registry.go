// Package registry wires the settings schema, value store, bindings table
// and page search together behind one orchestrator, and owns their
// persistence under a single data directory.
package registry

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/openoptions/go-settings-registry/config"
	"github.com/openoptions/go-settings-registry/internal/analytics"
	"github.com/openoptions/go-settings-registry/internal/bindings"
	"github.com/openoptions/go-settings-registry/internal/errors"
	"github.com/openoptions/go-settings-registry/internal/jobs"
	"github.com/openoptions/go-settings-registry/internal/persistence"
	"github.com/openoptions/go-settings-registry/internal/suggest"
	"github.com/openoptions/go-settings-registry/internal/textfilter"
	"github.com/openoptions/go-settings-registry/internal/tokenizer"
	"github.com/openoptions/go-settings-registry/model"
	"github.com/openoptions/go-settings-registry/services"
	"github.com/openoptions/go-settings-registry/store"
)

const (
	dataDirPerm  = 0755
	schemaFile   = "schema.gob"
	valuesFile   = "values.gob"
	bindingsFile = "bindings.gob"
)

// Registry is the settings orchestrator. It implements the
// services.SettingsManager interface.
type Registry struct {
	mu        sync.RWMutex
	schema    *config.Schema
	values    *store.ValueStore
	bindings  *bindings.Table
	jobs      *jobs.Manager
	analytics *analytics.Service
	vocab     *suggest.Vocabulary
	dataDir   string
	watcher   *fsnotify.Watcher
}

// NewRegistry creates a registry rooted at dataDir. The given schema is the
// starting point when no schema has been persisted yet; persisted state, when
// present, wins over it.
func NewRegistry(dataDir string, schema *config.Schema, maxWorkers int) *Registry {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v. Proceeding without persistence.", dataDir, err)
	}

	loaded := &config.Schema{}
	schemaPath := filepath.Join(dataDir, schemaFile)
	if err := persistence.LoadGob(schemaPath, loaded); err == nil {
		schema = loaded
		log.Printf("Loaded schema with %d pages from %s", len(schema.Pages), schemaPath)
	} else if err != os.ErrNotExist {
		log.Printf("Warning: Failed to load schema from %s: %v. Using the built-in schema.", schemaPath, err)
	}
	schema.ApplyDefaults()
	if conflicts := schema.Validate(); len(conflicts) > 0 {
		log.Printf("Warning: schema has %d conflicts: %v", len(conflicts), conflicts)
	}

	values := store.NewValueStore(schema)
	valuesPath := filepath.Join(dataDir, valuesFile)
	if err := persistence.LoadGob(valuesPath, values); err != nil && err != os.ErrNotExist {
		log.Printf("Warning: Failed to load values from %s: %v. Starting from schema defaults.", valuesPath, err)
	}

	table := bindings.DefaultTable()
	bindingsPath := filepath.Join(dataDir, bindingsFile)
	if err := persistence.LoadGob(bindingsPath, table); err != nil && err != os.ErrNotExist {
		log.Printf("Warning: Failed to load bindings from %s: %v. Starting from stock bindings.", bindingsPath, err)
	}

	jobManager := jobs.NewManager(maxWorkers)
	jobManager.Start()

	return &Registry{
		schema:    schema,
		values:    values,
		bindings:  table,
		jobs:      jobManager,
		analytics: analytics.NewService(dataDir),
		vocab:     buildVocabulary(schema),
		dataDir:   dataDir,
	}
}

// buildVocabulary collects every word occurring in the schema: page names,
// labels, search hints, sections and setting keys. Zero-hit queries are
// corrected against this set.
func buildVocabulary(schema *config.Schema) *suggest.Vocabulary {
	vocab := suggest.NewVocabulary(nil)
	for _, page := range schema.Pages {
		vocab.Add(tokenizer.Tokenize(page.Name))
		vocab.Add(tokenizer.Tokenize(page.Label))
		vocab.Add(tokenizer.Tokenize(page.SearchHints))
		for _, def := range page.Settings {
			vocab.Add(tokenizer.Tokenize(def.Section))
			vocab.Add(tokenizer.Tokenize(def.Key))
			vocab.Add(tokenizer.Tokenize(def.Label))
		}
	}
	return vocab
}

// Store exposes the value store so subsystems can register live-apply
// observers and read values through the typed accessors.
func (r *Registry) Store() *store.ValueStore {
	return r.values
}

// SearchPages filters and ranks pages against a user query. Searches that
// match nothing get a corrected-query suggestion when one is close enough.
func (r *Registry) SearchPages(query string) services.PageSearchResult {
	startTime := time.Now()

	r.mu.RLock()
	candidates := make([]textfilter.Candidate, len(r.schema.Pages))
	for i, page := range r.schema.Pages {
		candidates[i] = textfilter.Candidate{
			ID:    page.Name,
			Label: page.Label,
			Hints: page.SearchHints,
		}
	}
	vocab := r.vocab
	r.mu.RUnlock()

	ranked := textfilter.Rank(query, candidates)

	hits := make([]model.ScoredPage, len(ranked))
	for i, hit := range ranked {
		hits[i] = model.ScoredPage{
			Name:      hit.ID,
			Label:     hit.Label,
			NameScore: hit.NameScore,
			HintScore: hit.HintScore,
		}
	}

	took := time.Since(startTime)

	suggestion := ""
	if len(hits) == 0 {
		suggestion = vocab.Query(tokenizer.Tokenize(query))
	}

	r.analytics.TrackSearchEvent(model.SearchEvent{
		Query:        query,
		HitCount:     len(hits),
		ResponseTime: took,
		Timestamp:    time.Now(),
	})

	return services.PageSearchResult{
		Query:      query,
		Hits:       hits,
		Total:      len(hits),
		Took:       took.Milliseconds(),
		QueryID:    uuid.New().String(),
		Suggestion: suggestion,
	}
}

// RegisterPage adds a new page to the schema and seeds defaults for its
// settings.
func (r *Registry) RegisterPage(page config.PageDef) error {
	candidate := config.Schema{Pages: []config.PageDef{page}}
	if conflicts := candidate.Validate(); len(conflicts) > 0 {
		return errors.NewValidationError("page", fmt.Sprintf("%v", conflicts))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schema.Page(page.Name); exists {
		return errors.NewPageAlreadyExistsError(page.Name)
	}
	if conflicts := crossPageConflicts(r.schema, page); len(conflicts) > 0 {
		return errors.NewValidationError("page", fmt.Sprintf("%v", conflicts))
	}

	r.schema.Pages = append(r.schema.Pages, page)
	r.schema.ApplyDefaults()
	r.values.SetSchema(r.schema)
	r.vocab = buildVocabulary(r.schema)
	log.Printf("Registered page '%s' with %d settings", page.Name, len(page.Settings))
	return nil
}

// crossPageConflicts reports the (section, key) pairs of the incoming pages
// that are already defined by a page the incoming batch does not replace.
// Setting keys are scoped by section, so such a pair would alias one stored
// value between two pages.
func crossPageConflicts(schema *config.Schema, pages ...config.PageDef) []string {
	incoming := make(map[string]bool, len(pages))
	for _, page := range pages {
		incoming[page.Name] = true
	}
	owned := make(map[string]string)
	for _, existing := range schema.Pages {
		if incoming[existing.Name] {
			continue // a replacement takes over its own keys
		}
		for _, def := range existing.Settings {
			owned[def.Section+"."+def.Key] = existing.Name
		}
	}

	var conflicts []string
	for _, page := range pages {
		for _, def := range page.Settings {
			qualified := def.Section + "." + def.Key
			if owner, ok := owned[qualified]; ok {
				conflicts = append(conflicts, "Setting '"+qualified+"' in page '"+page.Name+"' is already defined by page '"+owner+"'")
			}
		}
	}
	return conflicts
}

// ImportSchemaAsync merges a batch of pages into the schema in the
// background: new pages are appended, pages with a known name are replaced.
// Returns the job ID.
func (r *Registry) ImportSchemaAsync(pages []config.PageDef) (string, error) {
	candidate := config.Schema{Pages: pages}
	if conflicts := candidate.Validate(); len(conflicts) > 0 {
		return "", errors.NewValidationError("pages", fmt.Sprintf("%v", conflicts))
	}

	r.mu.RLock()
	conflicts := crossPageConflicts(r.schema, pages...)
	r.mu.RUnlock()
	if len(conflicts) > 0 {
		return "", errors.NewValidationError("pages", fmt.Sprintf("%v", conflicts))
	}

	jobID := r.jobs.CreateJob(model.JobTypeImportSchema, map[string]string{
		"page_count": fmt.Sprintf("%d", len(pages)),
	})
	err := r.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		r.mu.Lock()
		for _, page := range pages {
			replaced := false
			for i := range r.schema.Pages {
				if r.schema.Pages[i].Name == page.Name {
					r.schema.Pages[i] = page
					replaced = true
					break
				}
			}
			if !replaced {
				r.schema.Pages = append(r.schema.Pages, page)
			}
		}
		r.schema.ApplyDefaults()
		r.values.SetSchema(r.schema)
		r.vocab = buildVocabulary(r.schema)
		r.mu.Unlock()

		log.Printf("Imported %d pages into the schema", len(pages))
		return r.persist()
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// ListPages returns all pages in registration order.
func (r *Registry) ListPages() []config.PageDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pages := make([]config.PageDef, len(r.schema.Pages))
	copy(pages, r.schema.Pages)
	return pages
}

// GetPage returns one page by name.
func (r *Registry) GetPage(name string) (config.PageDef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.schema.Page(name)
	if !ok {
		return config.PageDef{}, errors.NewPageNotFoundError(name)
	}
	return page, nil
}

// DeletePage removes a page and drops the values of its settings.
func (r *Registry) DeletePage(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, page := range r.schema.Pages {
		if page.Name == name {
			r.schema.Pages = append(r.schema.Pages[:i], r.schema.Pages[i+1:]...)
			r.values.SetSchema(r.schema)
			r.vocab = buildVocabulary(r.schema)
			log.Printf("Deleted page '%s'", name)
			return nil
		}
	}
	return errors.NewPageNotFoundError(name)
}

// GetValue returns the current value of a setting.
func (r *Registry) GetValue(section, key string) (interface{}, error) {
	return r.values.Get(section, key)
}

// SetValue validates and stores a new setting value, notifying observers.
func (r *Registry) SetValue(section, key string, value interface{}) error {
	return r.values.Set(section, key, value)
}

// ResetSection restores one section to its schema defaults.
func (r *Registry) ResetSection(section string) error {
	return r.values.ResetSection(section)
}

// ResetAllAsync restores every setting and binding to defaults in the
// background and persists the result. Returns the job ID.
func (r *Registry) ResetAllAsync() (string, error) {
	jobID := r.jobs.CreateJob(model.JobTypeResetAll, nil)
	err := r.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		r.values.ResetAll()
		for _, device := range bindings.Devices() {
			if err := r.bindings.ResetDefaults(device); err != nil {
				return err
			}
		}
		return r.persist()
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// ListBindings returns one device's bindings in display order.
func (r *Registry) ListBindings(device bindings.Device) ([]bindings.Binding, error) {
	return r.bindings.Bindings(device)
}

// Rebind assigns an input to an action.
func (r *Registry) Rebind(device bindings.Device, action, input string) error {
	return r.bindings.Rebind(device, action, input)
}

// ResetBindings restores one device's stock bindings.
func (r *Registry) ResetBindings(device bindings.Device) error {
	return r.bindings.ResetDefaults(device)
}

// GetJob retrieves a background job by ID.
func (r *Registry) GetJob(jobID string) (*model.Job, error) {
	return r.jobs.GetJob(jobID)
}

// ListJobs returns background jobs, optionally filtered by status.
func (r *Registry) ListJobs(status *model.JobStatus) []*model.Job {
	return r.jobs.ListJobs(status)
}

// JobMetrics returns the job manager's performance counters.
func (r *Registry) JobMetrics() jobs.JobMetricsData {
	return r.jobs.GetMetrics()
}

// JobSuccessRate returns the fraction of finished jobs that completed
// successfully.
func (r *Registry) JobSuccessRate() float64 {
	return r.jobs.GetJobSuccessRate()
}

// PersistAsync snapshots all registry state to disk in the background.
// Returns the job ID.
func (r *Registry) PersistAsync() (string, error) {
	jobID := r.jobs.CreateJob(model.JobTypePersist, nil)
	err := r.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return r.persist()
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// Persist writes all registry state to disk synchronously.
func (r *Registry) Persist() error {
	return r.persist()
}

func (r *Registry) persist() error {
	r.mu.RLock()
	schemaCopy := config.Schema{Pages: make([]config.PageDef, len(r.schema.Pages))}
	copy(schemaCopy.Pages, r.schema.Pages)
	r.mu.RUnlock()

	if err := persistence.SaveGob(filepath.Join(r.dataDir, schemaFile), &schemaCopy); err != nil {
		return fmt.Errorf("failed to persist schema: %w", err)
	}
	if err := persistence.SaveGob(filepath.Join(r.dataDir, valuesFile), r.values); err != nil {
		return fmt.Errorf("failed to persist values: %w", err)
	}
	if err := persistence.SaveGob(filepath.Join(r.dataDir, bindingsFile), r.bindings); err != nil {
		return fmt.Errorf("failed to persist bindings: %w", err)
	}
	if err := r.analytics.Save(); err != nil {
		return fmt.Errorf("failed to persist analytics: %w", err)
	}
	return nil
}

// AnalyticsDashboard returns aggregated search analytics.
func (r *Registry) AnalyticsDashboard() model.AnalyticsDashboard {
	return r.analytics.GetDashboardData()
}

// WatchValues starts watching the persisted values file so edits made by
// other processes are picked up and dispatched to observers.
func (r *Registry) WatchValues() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create values watcher: %w", err)
	}
	// Watch the directory, not the file: saves go through a rename, which
	// replaces the inode a file watch would be pinned to.
	if err := watcher.Add(r.dataDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch data directory %s: %w", r.dataDir, err)
	}
	r.watcher = watcher
	go r.watchLoop()
	log.Printf("Watching %s for external value changes", filepath.Join(r.dataDir, valuesFile))
	return nil
}

func (r *Registry) watchLoop() {
	target := filepath.Clean(filepath.Join(r.dataDir, valuesFile))
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			r.reloadValues()
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: values watcher error: %v", err)
		}
	}
}

// reloadValues reads the persisted values file and applies it on top of the
// live store, notifying observers of anything that changed.
func (r *Registry) reloadValues() {
	r.mu.RLock()
	schemaCopy := config.Schema{Pages: make([]config.PageDef, len(r.schema.Pages))}
	copy(schemaCopy.Pages, r.schema.Pages)
	r.mu.RUnlock()

	scratch := store.NewValueStore(&schemaCopy)
	path := filepath.Join(r.dataDir, valuesFile)
	if err := persistence.LoadGob(path, scratch); err != nil {
		log.Printf("Warning: Failed to reload values from %s: %v", path, err)
		return
	}
	r.values.ApplySnapshot(scratch.Snapshot())
	log.Printf("Reloaded values from %s", path)
}

// Stop shuts the registry down: the watcher is closed, pending jobs drain,
// and state is persisted one last time.
func (r *Registry) Stop() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
	r.jobs.Stop()
	if err := r.persist(); err != nil {
		log.Printf("Warning: Failed to persist registry state on shutdown: %v", err)
	}
}
