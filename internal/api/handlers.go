package api

import (
	"net/http"
	"strings"

	"github.com/alvmarrod/link-weaver/internal/crawler"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type crawlRequest struct {
	URL string `json:"url" binding:"required"`
}

type crawlResponse struct {
	JobID  string `json:"job_id"`
	Domain string `json:"domain"`
}

type domainsResponse struct {
	Domains []string `json:"domains"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.String(http.StatusOK, "Hello")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCrawl validates the URL and launches a job for its domain.
//
// Method: POST
// Path:   /crawl
// Example:
//
//	curl -X POST -d '{"url": "https://example.com"}' "http://localhost:8080/crawl"
func (s *Server) handleCrawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be {\"url\": \"...\"}"})
		return
	}

	base, err := ValidateBaseURL(req.URL)
	if err != nil {
		logrus.Debugf("Rejected crawl request for %q: %v", req.URL, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := s.launcher.Launch(base)

	c.JSON(http.StatusAccepted, crawlResponse{
		JobID:  jobID,
		Domain: crawler.DomainRoot(base).Hostname(),
	})
}

// handleListDomains returns every host that has at least one link.
//
// Method: GET
// Path:   /domains
func (s *Server) handleListDomains(c *gin.Context) {
	c.JSON(http.StatusOK, domainsResponse{Domains: s.domains.ListDomains()})
}

// handleGetDomain returns the links discovered for one host.
//
// Method: GET
// Path:   /domains/{host}
func (s *Server) handleGetDomain(c *gin.Context) {
	host := strings.ToLower(c.Param("host"))

	record, ok := s.domains.Get(host)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}
