// Package api exposes the crawl supervisor and the link index over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alvmarrod/link-weaver/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Launcher starts crawl jobs
type Launcher interface {
	Launch(base *url.URL) string
}

// DomainReader reads snapshots of the link index
type DomainReader interface {
	ListDomains() []string
	Get(host string) (storage.DomainRecord, bool)
}

// Server is the HTTP front of the crawler
type Server struct {
	router   *gin.Engine
	server   *http.Server
	launcher Launcher
	domains  DomainReader
}

// NewServer creates a server listening on addr. gatherer may be nil, in
// which case /metrics is not registered.
func NewServer(addr string, launcher Launcher, domains DomainReader, gatherer prometheus.Gatherer) *Server {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware())

	s := &Server{
		router:   router,
		launcher: launcher,
		domains:  domains,
	}
	s.setupRoutes(gatherer)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/crawl", s.handleCrawl)
	s.router.GET("/domains", s.handleListDomains)
	s.router.GET("/domains/:host", s.handleGetDomain)

	if gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// Router returns the underlying Gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// StartAsync starts the HTTP server in a goroutine. The returned channel
// receives a listen error, if any, and is closed when the server stops.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		logrus.Infof("API listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	return errCh
}

// Shutdown gracefully stops the HTTP server. Running crawl jobs are not
// affected.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	logrus.Info("API server stopped")
	return nil
}
