package crawler

import (
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// job is one breadth-first traversal of a single domain
type job struct {
	id       string
	base     *url.URL
	host     string
	frontier *Frontier
	fetcher  PageFetcher
	store    LinkRecorder
	observer Observer
	maxPages int
	log      *logrus.Entry
}

func newJob(id string, base *url.URL, fetcher PageFetcher, store LinkRecorder, observer Observer, maxPages int) *job {
	root := DomainRoot(base)
	host := root.Hostname()

	return &job{
		id:       id,
		base:     root,
		host:     host,
		frontier: NewFrontier(root.String()),
		fetcher:  fetcher,
		store:    store,
		observer: observer,
		maxPages: maxPages,
		log:      logrus.WithFields(logrus.Fields{"job": id, "host": host}),
	}
}

// run drives the fetch/extract/record loop until the frontier is empty
func (j *job) run() {
	start := time.Now()
	fetched := 0
	j.log.Infof("Crawl started at %s", j.base)

	for {
		next, ok := j.frontier.Next()
		if !ok {
			break
		}

		if j.maxPages > 0 && fetched >= j.maxPages {
			j.log.Warnf("Page cap of %d reached, abandoning %d queued entries", j.maxPages, j.frontier.Size()+1)
			break
		}
		fetched++

		body, isHTML, err := j.fetcher.Fetch(next)
		if err != nil {
			j.log.Errorf("Error getting %s: %v", next, err)
			j.observer.PageFailed()
			continue
		}
		if !isHTML {
			j.log.Debugf("Not html: %s", next)
			j.observer.PageSkipped()
			continue
		}
		j.observer.PageFetched()

		j.handleLinks(ExtractLinks(j.base, body))
	}

	j.log.Infof("Crawl complete: %d pages visited in %v", j.frontier.VisitedCount(), time.Since(start))
}

// handleLinks records every link under the job's host and queues the
// internal ones that have not been visited yet
func (j *job) handleLinks(links []string) {
	for _, link := range links {
		j.store.Record(j.host, link)
		j.observer.LinkRecorded()

		domain, err := ExtractDomain(link)
		if err != nil || domain != j.host {
			continue
		}
		if !j.frontier.Visited(link) {
			j.frontier.Push(link)
		}
	}
}
