package storage

import "time"

// DomainRecord is a point-in-time view of every link discovered for a host
type DomainRecord struct {
	Domain string   `json:"domain"`
	Count  int      `json:"count"`
	URLs   []string `json:"urls"`
}

// Metrics tracks crawl statistics for export on exit
type Metrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	JobsLaunched      int       `json:"jobs_launched"`
	JobsStarted       int       `json:"jobs_started"`
	JobsCompleted     int       `json:"jobs_completed"`
	PagesFetched      int       `json:"pages_fetched"`
	PagesSkipped      int       `json:"pages_skipped"`
	PagesFailed       int       `json:"pages_failed"`
	LinksRecorded     int       `json:"links_recorded"`
	TerminationReason string    `json:"termination_reason"`
}
