package handler

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Documents *DocumentHandler
	Records   *RecordsHandler
	Health    *HealthHandler
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(h Handlers, logger *zap.Logger, allowedOrigins string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitOrigins(allowedOrigins)
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Analysis-Source", "X-Fallback-Reason", requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.Health.Health)
	router.GET("/health/detailed", h.Health.Detailed)
	router.GET("/version", h.Health.Version)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		// Documents
		apiV1.GET("/compare", h.Documents.Compare)
		apiV1.GET("/recommend", h.Documents.Recommend)
		apiV1.GET("/quote", h.Documents.Quote)

		// Records
		apiV1.GET("/properties", h.Records.ListProperties)
		apiV1.GET("/properties/:id", h.Records.GetProperty)
		apiV1.GET("/contacts", h.Records.ListContacts)
		apiV1.GET("/contacts/:id", h.Records.GetContact)
	}

	return router
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
