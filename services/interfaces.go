package services

import (
	"github.com/openoptions/go-settings-registry/config"
	"github.com/openoptions/go-settings-registry/internal/bindings"
	"github.com/openoptions/go-settings-registry/model"
)

// PageSearchResult is the outcome of one page search: the matching pages,
// best first, with the match counts that produced the order.
type PageSearchResult struct {
	Query      string             `json:"query"`
	Hits       []model.ScoredPage `json:"hits"`
	Total      int                `json:"total"`
	Took       int64              `json:"took"`                 // milliseconds
	QueryID    string             `json:"query_id"`             // unique UUID for this search
	Suggestion string             `json:"suggestion,omitempty"` // corrected query when nothing matched
}

// PageManager manages the lifecycle of settings pages
type PageManager interface {
	RegisterPage(page config.PageDef) error
	ListPages() []config.PageDef
	GetPage(name string) (config.PageDef, error)
	DeletePage(name string) error
}

// PageSearcher filters and ranks pages against a user query
type PageSearcher interface {
	SearchPages(query string) PageSearchResult
}

// ValueAccessor reads and writes current setting values
type ValueAccessor interface {
	GetValue(section, key string) (interface{}, error)
	SetValue(section, key string, value interface{}) error
	ResetSection(section string) error
	ResetAllAsync() (string, error) // Returns job ID
}

// BindingManager edits the input-action binding tables
type BindingManager interface {
	ListBindings(device bindings.Device) ([]bindings.Binding, error)
	Rebind(device bindings.Device, action, input string) error
	ResetBindings(device bindings.Device) error
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// SettingsManager is everything the HTTP API needs from the registry.
type SettingsManager interface {
	PageManager
	PageSearcher
	ValueAccessor
	BindingManager
	JobManager
	PersistAsync() (string, error) // Returns job ID
}
