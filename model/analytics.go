package model

import "time"

// SearchEvent records one page search for analytics purposes.
type SearchEvent struct {
	Query        string        `json:"query"`
	HitCount     int           `json:"hit_count"`
	ResponseTime time.Duration `json:"response_time"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularQuery is one entry in the popular-queries ranking.
type PopularQuery struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ZeroHitQuery is a query users keep trying that matches nothing. These are
// the first candidates for new search hints.
type ZeroHitQuery struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// SearchPerformanceHourly holds search volume and latency for one hour of
// the day.
type SearchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	SearchCount     int   `json:"search_count"`
	AvgResponseTime int64 `json:"avg_response_time_ms"`
}

// AnalyticsDashboard aggregates search analytics for the dashboard endpoint.
type AnalyticsDashboard struct {
	TotalSearches24h     int                       `json:"total_searches_24h"`
	AvgResponseTime      int64                     `json:"avg_response_time_ms"`
	ZeroHitRate          float64                   `json:"zero_hit_rate"`
	PopularQueries       []PopularQuery            `json:"popular_queries"`
	ZeroHitQueries       []ZeroHitQuery            `json:"zero_hit_queries"`
	SearchPerformance24h []SearchPerformanceHourly `json:"search_performance_24h"`
}
