package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/alvmarrod/link-weaver/internal/storage"
	"github.com/sirupsen/logrus"
)

// Index maps a crawled host to the set of every link discovered under it.
// It is shared by all crawl jobs and the read API.
type Index struct {
	mu      sync.RWMutex
	domains map[string]map[string]struct{} // host -> links

	flushMu sync.Mutex // one flush at a time
}

// NewIndex creates an empty link index
func NewIndex() *Index {
	return &Index{
		domains: make(map[string]map[string]struct{}),
	}
}

// Record adds link to the record for host, creating the record on first
// use. Recording a link twice is a no-op.
func (ix *Index) Record(host, link string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	links, exists := ix.domains[host]
	if !exists {
		links = make(map[string]struct{})
		ix.domains[host] = links
	}
	links[link] = struct{}{}
}

// ListDomains returns every known host, sorted
func (ix *Index) ListDomains() []string {
	ix.mu.RLock()
	hosts := make([]string, 0, len(ix.domains))
	for host := range ix.domains {
		hosts = append(hosts, host)
	}
	ix.mu.RUnlock()

	sort.Strings(hosts)
	return hosts
}

// Get returns a copy of the record for host. The second result is false
// when nothing has been discovered for host.
func (ix *Index) Get(host string) (storage.DomainRecord, bool) {
	ix.mu.RLock()
	links, exists := ix.domains[host]
	if !exists {
		ix.mu.RUnlock()
		return storage.DomainRecord{}, false
	}
	urls := make([]string, 0, len(links))
	for link := range links {
		urls = append(urls, link)
	}
	ix.mu.RUnlock()

	sort.Strings(urls)
	return storage.DomainRecord{
		Domain: host,
		Count:  len(urls),
		URLs:   urls,
	}, true
}

// GetStats returns the number of hosts and the total number of links
func (ix *Index) GetStats() (domainCount, linkCount int) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, links := range ix.domains {
		linkCount += len(links)
	}
	return len(ix.domains), linkCount
}

// Flush writes a snapshot of every record to the archive. Each record is
// copied under the read lock and written outside it. Concurrent flushes
// run one after the other.
func (ix *Index) Flush(archive *storage.Archive) error {
	ix.flushMu.Lock()
	defer ix.flushMu.Unlock()

	startTime := time.Now()
	logrus.Info("Starting flush to archive...")

	domainsWritten := 0
	linksWritten := 0
	var firstErr error

	for _, host := range ix.ListDomains() {
		record, ok := ix.Get(host)
		if !ok {
			continue
		}

		// Write outside the index lock
		if err := archive.SaveRecord(record); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logrus.Warnf("Failed to flush domain %s: %v", host, err)
			continue
		}

		domainsWritten++
		linksWritten += record.Count
	}

	logrus.Infof("Flush complete: %d domains, %d links written in %v", domainsWritten, linksWritten, time.Since(startTime))
	return firstErr
}
