package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ServerOptions struct {
	Version string
	// SyncRate and SyncBurst throttle POST /sync per client. Zero disables throttling.
	SyncRate  float64
	SyncBurst int
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler, opts ServerOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, opts)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, opts ServerOptions) {
	syncHandlers := []gin.HandlerFunc{handler.Sync}
	if opts.SyncRate > 0 {
		syncHandlers = append([]gin.HandlerFunc{rateLimitMiddleware(opts.SyncRate, opts.SyncBurst)}, syncHandlers...)
	}
	r.POST("/sync", syncHandlers...)

	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "RSS Estate",
			"version":     opts.Version,
			"description": "Dubai real estate news ingest with relevance filtering, categorization and enrichment",
			"endpoints": map[string]string{
				"sync":   "/sync (POST)",
				"health": "/health",
				"stats":  "/stats",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
