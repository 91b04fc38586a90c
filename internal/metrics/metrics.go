package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alvmarrod/link-weaver/internal/storage"
)

// Tracker holds and manages crawl metrics
type Tracker struct {
	mu    sync.Mutex
	data  storage.Metrics
	descs descriptors
}

// NewTracker creates a new metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		data: storage.Metrics{
			StartTime: time.Now(),
		},
		descs: newDescriptors(),
	}
}

// JobLaunched counts a job accepted by the supervisor
func (t *Tracker) JobLaunched() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.JobsLaunched++
}

// JobStarted counts a job that was admitted and began crawling
func (t *Tracker) JobStarted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.JobsStarted++
}

// JobCompleted counts a job whose frontier drained
func (t *Tracker) JobCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.JobsCompleted++
}

// PageFetched increments the successful HTML fetch counter
func (t *Tracker) PageFetched() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFetched++
}

// PageSkipped increments the non-HTML response counter
func (t *Tracker) PageSkipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesSkipped++
}

// PageFailed increments the failed fetch counter
func (t *Tracker) PageFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFailed++
}

// LinkRecorded increments the recorded link counter
func (t *Tracker) LinkRecorded() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.LinksRecorded++
}

// GetSnapshot returns a copy of current metrics
func (t *Tracker) GetSnapshot() storage.Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data
}

// JobsRunning returns the number of admitted jobs that have not finished
func (t *Tracker) JobsRunning() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data.JobsStarted - t.data.JobsCompleted
}

// WriteToFile exports metrics to a JSON file
func (t *Tracker) WriteToFile(path, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Finalize metrics
	t.data.EndTime = time.Now()
	t.data.TerminationReason = reason

	// Marshal to JSON
	jsonData, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	return nil
}

// LogProgress formats current metrics for periodic console updates
func (t *Tracker) LogProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("Jobs: %d launched, %d running, %d completed | Pages: %d fetched, %d skipped, %d failed | Links: %d",
		t.data.JobsLaunched,
		t.data.JobsStarted-t.data.JobsCompleted,
		t.data.JobsCompleted,
		t.data.PagesFetched,
		t.data.PagesSkipped,
		t.data.PagesFailed,
		t.data.LinksRecorded,
	)
}
