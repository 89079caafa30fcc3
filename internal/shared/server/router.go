package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"trackshift-engine/internal/engine"
	"trackshift-engine/internal/shared/config"
	"trackshift-engine/internal/shared/metrics"
	"trackshift-engine/internal/shared/server/middleware"
	"trackshift-engine/internal/shared/server/respond"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	rules, err := engine.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Printf("falling back to default rules: %v", err)
	}
	if cfg.MaskScoreGate > 0 {
		rules.MaskScoreGate = cfg.MaskScoreGate
	}
	resolver := engine.ArtifactResolver{APIBase: cfg.ArtifactAPIBase}
	handler := engine.NewHandler(engine.New(rules, resolver))

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	handler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())
	return r
}

// Addr renders the listen address for a port.
func Addr(port string) string {
	return fmt.Sprintf(":%s", port)
}
