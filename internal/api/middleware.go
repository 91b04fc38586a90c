package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware logs one line per request with method, path, status,
// duration and client IP
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start),
			"client_ip": c.ClientIP(),
		}

		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
			logrus.WithFields(fields).Error("HTTP request with errors")
			return
		}

		// health checks and scrapes are noisy
		if path == "/health" || strings.HasPrefix(path, "/metrics") {
			logrus.WithFields(fields).Debug("HTTP request")
			return
		}
		logrus.WithFields(fields).Info("HTTP request")
	}
}
