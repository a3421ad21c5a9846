// Package analytics tracks page searches and aggregates them into usage
// statistics: popular queries, queries that match nothing, and latency.
package analytics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openoptions/go-settings-registry/model"
)

const (
	analyticsFileName = "analytics.json"
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
	topQueryCount     = 5
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex        sync.RWMutex
	events       []model.SearchEvent
	dataFilePath string
}

// NewService creates a new analytics service persisting under dataDir.
func NewService(dataDir string) *Service {
	service := &Service{
		events:       make([]model.SearchEvent, 0),
		dataFilePath: filepath.Join(dataDir, analyticsFileName),
	}

	// Load existing analytics data
	if err := service.loadData(); err != nil {
		log.Printf("Warning: Failed to load analytics data: %v", err)
	}

	return service
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
}

// GetDashboardData returns aggregated search analytics.
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	yesterday := time.Now().Add(-24 * time.Hour)
	last24hEvents := s.filterEventsByTime(s.events, yesterday)

	return model.AnalyticsDashboard{
		TotalSearches24h:     len(last24hEvents),
		AvgResponseTime:      s.calculateAvgResponseTime(last24hEvents),
		ZeroHitRate:          s.calculateZeroHitRate(last24hEvents),
		PopularQueries:       s.getPopularQueries(s.events),
		ZeroHitQueries:       s.getZeroHitQueries(s.events),
		SearchPerformance24h: s.getHourlyPerformance(last24hEvents),
	}
}

// filterEventsByTime returns events after the given time
func (s *Service) filterEventsByTime(events []model.SearchEvent, after time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func (s *Service) calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	avgDuration := total / time.Duration(len(events))
	return avgDuration.Milliseconds()
}

// calculateZeroHitRate returns the fraction of searches that matched nothing.
// Blank queries are excluded: they match every page by definition.
func (s *Service) calculateZeroHitRate(events []model.SearchEvent) float64 {
	total := 0
	zeroHit := 0
	for _, event := range events {
		if strings.TrimSpace(event.Query) == "" {
			continue
		}
		total++
		if event.HitCount == 0 {
			zeroHit++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(zeroHit) / float64(total)
}

// getPopularQueries returns the most frequent non-blank queries.
func (s *Service) getPopularQueries(events []model.SearchEvent) []model.PopularQuery {
	counts := s.countQueries(events, func(event model.SearchEvent) bool {
		return strings.TrimSpace(event.Query) != ""
	})

	popular := make([]model.PopularQuery, 0, topQueryCount)
	for i, qc := range counts {
		if i >= topQueryCount {
			break
		}
		popular = append(popular, model.PopularQuery{Query: qc.query, SearchCount: qc.count})
	}
	return popular
}

// getZeroHitQueries returns the most frequent queries that matched nothing.
func (s *Service) getZeroHitQueries(events []model.SearchEvent) []model.ZeroHitQuery {
	counts := s.countQueries(events, func(event model.SearchEvent) bool {
		return strings.TrimSpace(event.Query) != "" && event.HitCount == 0
	})

	zeroHit := make([]model.ZeroHitQuery, 0, topQueryCount)
	for i, qc := range counts {
		if i >= topQueryCount {
			break
		}
		zeroHit = append(zeroHit, model.ZeroHitQuery{Query: qc.query, SearchCount: qc.count})
	}
	return zeroHit
}

type queryCount struct {
	query string
	count int
}

// countQueries tallies matching events per query, most frequent first.
// Equal counts order alphabetically so the ranking is deterministic.
func (s *Service) countQueries(events []model.SearchEvent, include func(model.SearchEvent) bool) []queryCount {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if include(event) {
			queryCounts[event.Query]++
		}
	}

	counts := make([]queryCount, 0, len(queryCounts))
	for query, count := range queryCounts {
		counts = append(counts, queryCount{query: query, count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count == counts[j].count {
			return counts[i].query < counts[j].query
		}
		return counts[i].count > counts[j].count
	})
	return counts
}

// getHourlyPerformance returns hourly search performance for the last 24 hours
func (s *Service) getHourlyPerformance(events []model.SearchEvent) []model.SearchPerformanceHourly {
	hourlyData := make(map[int][]model.SearchEvent)

	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.SearchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		hourEvents := hourlyData[hour]
		performance = append(performance, model.SearchPerformanceHourly{
			Hour:            hour,
			SearchCount:     len(hourEvents),
			AvgResponseTime: s.calculateAvgResponseTime(hourEvents),
		})
	}

	return performance
}

// Save persists the recorded events to disk.
func (s *Service) Save() error {
	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	// Write through a temporary file and a rename so a crash mid-write never
	// leaves a truncated event log behind.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.dataFilePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp analytics file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp analytics file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.dataFilePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move analytics file into place: %w", err)
	}
	return nil
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	data, err := os.ReadFile(s.dataFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist yet, that's okay
		}
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}
	return nil
}
