package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 5 * time.Second

// BuildInfo is stamped into the binary at link time
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// Pinger checks that the reasoning service answers
type Pinger interface {
	Ping(ctx context.Context) error
	IsEnabled() bool
}

// RecordCounter reports the size of the loaded snapshot
type RecordCounter interface {
	Counts() (properties, contacts int)
}

// DatabasePinger checks the database the records were loaded from
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// RecordSource names where the snapshot came from. DB is nil for file sources.
type RecordSource struct {
	Name string
	DB   DatabasePinger
}

// HealthHandler serves liveness and version endpoints
type HealthHandler struct {
	build    BuildInfo
	reasoner Pinger
	records  RecordCounter
	source   RecordSource
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(build BuildInfo, reasoner Pinger, records RecordCounter, source RecordSource) *HealthHandler {
	return &HealthHandler{build: build, reasoner: reasoner, records: records, source: source}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "pdf-service",
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}

// Detailed handles GET /health/detailed. An unreachable reasoning service
// or record database only degrades the status: documents still render from
// the loaded snapshot with the fallback analysis.
func (h *HealthHandler) Detailed(c *gin.Context) {
	status := "healthy"

	properties, contacts := h.records.Counts()
	records := gin.H{
		"source":     h.source.Name,
		"properties": properties,
		"contacts":   contacts,
	}
	if h.source.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := h.source.DB.Ping(ctx); err != nil {
			status = "degraded"
			records["database"] = "unreachable"
			records["error"] = err.Error()
		} else {
			records["database"] = "ok"
		}
	}

	reasoning := gin.H{"enabled": h.reasoner.IsEnabled()}
	if h.reasoner.IsEnabled() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		start := time.Now()
		if err := h.reasoner.Ping(ctx); err != nil {
			status = "degraded"
			reasoning["status"] = "unreachable"
			reasoning["error"] = err.Error()
		} else {
			reasoning["status"] = "ok"
		}
		reasoning["latency_ms"] = time.Since(start).Milliseconds()
	} else {
		reasoning["status"] = "disabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "pdf-service",
		"version": h.build.Version,
		"records":   records,
		"reasoning": reasoning,
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}
