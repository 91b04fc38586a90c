package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alvmarrod/link-weaver/internal/api"
	"github.com/alvmarrod/link-weaver/internal/config"
	"github.com/alvmarrod/link-weaver/internal/crawler"
	"github.com/alvmarrod/link-weaver/internal/memory"
	"github.com/alvmarrod/link-weaver/internal/metrics"
	"github.com/alvmarrod/link-weaver/internal/storage"
	"github.com/alvmarrod/link-weaver/internal/version"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	progressInterval = 10 * time.Second
	flushInterval    = 30 * time.Second
	shutdownTimeout  = 5 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API that launches crawls and serves the link index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

// newCrawlStack builds the shared index, the metrics tracker and a
// supervisor wired to both
func newCrawlStack(cfg *config.Config) (*memory.Index, *metrics.Tracker, *crawler.Supervisor) {
	index := memory.NewIndex()
	tracker := metrics.NewTracker()
	fetcher := crawler.NewFetcher(cfg.UserAgent, cfg.RequestTimeout())
	sup := crawler.NewSupervisor(fetcher, index, tracker, crawler.Options{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		MaxPagesPerJob:    cfg.MaxPagesPerJob,
	})
	return index, tracker, sup
}

// openArchive opens the configured archive, or returns nil when archiving
// is disabled
func openArchive(cfg *config.Config) (*storage.Archive, error) {
	if cfg.ArchivePath == "" {
		return nil, nil
	}
	archive, err := storage.OpenArchive(cfg.ArchivePath)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Archive initialized: %s", cfg.ArchivePath)
	return archive, nil
}

func runServe(cfg *config.Config) error {
	logrus.Infof("Link Weaver v%s starting...", version.Version)
	logrus.Infof("Configuration loaded: listen=%s, max_jobs=%d, max_pages=%d, timeout=%v",
		cfg.ListenAddr, cfg.MaxConcurrentJobs, cfg.MaxPagesPerJob, cfg.RequestTimeout())

	archive, err := openArchive(cfg)
	if err != nil {
		return err
	}
	if archive != nil {
		defer archive.Close()
	}

	index, tracker, sup := newCrawlStack(cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(tracker, collectors.NewGoCollector())

	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewServer(cfg.ListenAddr, sup, index, registry)
	errCh := srv.StartAsync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Handle force quit on second signal
	forceQuitChan := make(chan os.Signal, 2)
	signal.Notify(forceQuitChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-forceQuitChan        // First signal (consumed by main handler)
		sig := <-forceQuitChan // Second signal = force quit
		logrus.Warnf("Received second signal (%v) - forcing immediate exit!", sig)
		if archive != nil {
			if err := index.Flush(archive); err != nil {
				logrus.Errorf("Emergency archive flush failed: %v", err)
			}
		}
		if err := tracker.WriteToFile(cfg.MetricsPath, "forced_exit"); err != nil {
			logrus.Errorf("Emergency metrics save failed: %v", err)
		}
		os.Exit(1)
	}()

	var wg sync.WaitGroup
	stopBackground := make(chan struct{})

	// Progress logger and periodic archive flush
	wg.Add(1)
	go func() {
		defer wg.Done()
		progress := time.NewTicker(progressInterval)
		defer progress.Stop()
		flush := time.NewTicker(flushInterval)
		defer flush.Stop()

		for {
			select {
			case <-progress.C:
				domains, links := index.GetStats()
				logrus.Infof("%s | Index: %d domains, %d links", tracker.LogProgress(), domains, links)
			case <-flush.C:
				if archive == nil {
					continue
				}
				if err := index.Flush(archive); err != nil {
					logrus.Warnf("Periodic archive flush failed: %v", err)
				}
			case <-stopBackground:
				return
			}
		}
	}()

	terminationReason := "signal"
	select {
	case sig := <-sigChan:
		logrus.Infof("Received signal: %v", sig)
	case err := <-errCh:
		logrus.Errorf("API server failed: %v", err)
		terminationReason = "server_error"
	}

	close(stopBackground)
	wg.Wait()

	logrus.Info("Initiating graceful shutdown...")
	logrus.Info("Step 1/4: Stopping API server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Warnf("API server did not stop cleanly: %v", err)
	}

	logrus.Info("Step 2/4: Checking crawl jobs...")
	if running := sup.Running(); running > 0 {
		logrus.Warnf("%d crawl jobs still running, they will be abandoned", running)
	}

	logrus.Info("Step 3/4: Flushing link index to archive...")
	if archive != nil {
		if err := index.Flush(archive); err != nil {
			logrus.Errorf("Failed to flush link index: %v", err)
		} else {
			logrus.Info("Link index flushed successfully")
		}
	} else {
		logrus.Info("Archive disabled, nothing to flush")
	}

	logrus.Info("Step 4/4: Writing final metrics...")
	logrus.Info("Final stats: " + tracker.LogProgress())
	if err := tracker.WriteToFile(cfg.MetricsPath, terminationReason); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
	} else {
		logrus.Infof("Metrics written to %s", cfg.MetricsPath)
	}

	logrus.Info("Graceful shutdown complete. Goodbye!")
	return nil
}
