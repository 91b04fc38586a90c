package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsNamespace is the namespace for all exported metrics.
	MetricsNamespace = "linkweaver"
)

type descriptors struct {
	jobsLaunched  *prometheus.Desc
	jobsCompleted *prometheus.Desc
	jobsRunning   *prometheus.Desc
	pagesFetched  *prometheus.Desc
	pagesSkipped  *prometheus.Desc
	pagesFailed   *prometheus.Desc
	linksRecorded *prometheus.Desc
}

func newDescriptors() descriptors {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(MetricsNamespace, "", name), help, nil, nil)
	}
	return descriptors{
		jobsLaunched:  desc("jobs_launched_total", "Total number of crawl jobs launched"),
		jobsCompleted: desc("jobs_completed_total", "Total number of crawl jobs whose frontier drained"),
		jobsRunning:   desc("jobs_running", "Number of crawl jobs currently traversing"),
		pagesFetched:  desc("pages_fetched_total", "Total number of HTML pages fetched"),
		pagesSkipped:  desc("pages_skipped_total", "Total number of non-HTML responses skipped"),
		pagesFailed:   desc("pages_failed_total", "Total number of failed fetches"),
		linksRecorded: desc("links_recorded_total", "Total number of link observations recorded"),
	}
}

// Describe implements prometheus.Collector.
func (t *Tracker) Describe(ch chan<- *prometheus.Desc) {
	ch <- t.descs.jobsLaunched
	ch <- t.descs.jobsCompleted
	ch <- t.descs.jobsRunning
	ch <- t.descs.pagesFetched
	ch <- t.descs.pagesSkipped
	ch <- t.descs.pagesFailed
	ch <- t.descs.linksRecorded
}

// Collect implements prometheus.Collector over a snapshot of the counters.
func (t *Tracker) Collect(ch chan<- prometheus.Metric) {
	s := t.GetSnapshot()

	counter := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}

	counter(t.descs.jobsLaunched, s.JobsLaunched)
	counter(t.descs.jobsCompleted, s.JobsCompleted)
	ch <- prometheus.MustNewConstMetric(t.descs.jobsRunning, prometheus.GaugeValue, float64(s.JobsStarted-s.JobsCompleted))
	counter(t.descs.pagesFetched, s.PagesFetched)
	counter(t.descs.pagesSkipped, s.PagesSkipped)
	counter(t.descs.pagesFailed, s.PagesFailed)
	counter(t.descs.linksRecorded, s.LinksRecorded)
}
