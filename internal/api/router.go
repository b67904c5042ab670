package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourname/wardwatch/internal/auth"
)

type RouterOptions struct {
	CORSOrigins []string
	Providers   []auth.Provider
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
}

func NewRouter(app App, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(app.Logger()))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware(opts.Providers...))
	protected.GET("/patients", ListPatients(app))
	protected.POST("/patients", AdmitPatient(app))
	protected.GET("/patients/:id", GetPatient(app))
	protected.PATCH("/patients/:id", EditPatient(app))
	protected.DELETE("/patients/:id", DeletePatient(app))
	protected.GET("/patients/:id/vitals", ListVitals(app))
	protected.POST("/patients/:id/vitals", PostVitals(app))
	protected.GET("/alerts", ListAlerts(app))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// credentials are not allowed with a wildcard origin
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
