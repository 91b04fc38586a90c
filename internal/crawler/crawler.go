package crawler

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// PageFetcher retrieves a page. ok is false for documents that are not HTML.
type PageFetcher interface {
	Fetch(rawURL string) (body string, ok bool, err error)
}

// LinkRecorder is the shared link index jobs write into
type LinkRecorder interface {
	Record(host, link string)
}

// Observer receives crawl events for metrics
type Observer interface {
	JobLaunched()
	JobStarted()
	JobCompleted()
	PageFetched()
	PageSkipped()
	PageFailed()
	LinkRecorded()
}

// Options tunes the supervisor. Zero values mean unbounded.
type Options struct {
	// MaxConcurrentJobs caps how many jobs traverse at once. Jobs over the
	// cap wait for a slot in their own goroutine.
	MaxConcurrentJobs int
	// MaxPagesPerJob caps the number of fetches a single job performs.
	MaxPagesPerJob int
}

// Supervisor launches crawl jobs and tracks the ones still running
type Supervisor struct {
	fetcher  PageFetcher
	store    LinkRecorder
	observer Observer
	slots    *semaphore.Weighted
	maxPages int
	wg       sync.WaitGroup
	running  atomic.Int64
}

// NewSupervisor creates a supervisor writing into store. observer may be nil.
func NewSupervisor(fetcher PageFetcher, store LinkRecorder, observer Observer, opts Options) *Supervisor {
	if observer == nil {
		observer = nopObserver{}
	}

	s := &Supervisor{
		fetcher:  fetcher,
		store:    store,
		observer: observer,
		maxPages: opts.MaxPagesPerJob,
	}
	if opts.MaxConcurrentJobs > 0 {
		s.slots = semaphore.NewWeighted(int64(opts.MaxConcurrentJobs))
	}
	return s
}

// Launch starts a crawl job for the domain of base and returns its id
// without waiting for it. base must be an absolute URL with a host.
func (s *Supervisor) Launch(base *url.URL) string {
	j := newJob(uuid.NewString(), base, s.fetcher, s.store, s.observer, s.maxPages)
	s.observer.JobLaunched()

	s.wg.Add(1)
	s.running.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Add(-1)

		if s.slots != nil {
			// Acquire only fails when the context is done
			_ = s.slots.Acquire(context.Background(), 1)
			defer s.slots.Release(1)
		}

		s.observer.JobStarted()
		j.run()
		s.observer.JobCompleted()
	}()

	logrus.Infof("Launched job %s for %s", j.id, j.host)
	return j.id
}

// Running returns the number of launched jobs that have not finished,
// including those waiting for a slot
func (s *Supervisor) Running() int {
	return int(s.running.Load())
}

// Wait blocks until every launched job has finished
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

type nopObserver struct{}

func (nopObserver) JobLaunched()  {}
func (nopObserver) JobStarted()   {}
func (nopObserver) JobCompleted() {}
func (nopObserver) PageFetched()  {}
func (nopObserver) PageSkipped()  {}
func (nopObserver) PageFailed()   {}
func (nopObserver) LinkRecorded() {}
