package bootstrap

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-records/config"
	httpapi "github.com/GoSim-25-26J-441/project-records/internal/api/http"
	"github.com/GoSim-25-26J-441/project-records/internal/api/http/middleware"
	projecthttp "github.com/GoSim-25-26J-441/project-records/internal/projects/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Server      config.ServerConfig
	DB          httpapi.Pinger
	Projects    projecthttp.ProjectService
	// MaxBodyBytes caps create/update bodies.
	MaxBodyBytes int64
	// UploadDir is served under /uploads when set.
	UploadDir string
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.Default()

	// ClientIP feeds the rate limiter, so forwarded headers are only
	// honored from configured proxies.
	if err := r.SetTrustedProxies(dep.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(middleware.RequestID())
	r.Use(corsMiddleware(dep.Server.AllowedOrigins))
	if dep.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(dep.Server.RequestTimeout))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)
	httpapi.NewDocsHandler(dep.Version).RegisterRoutes(r)

	if dep.UploadDir != "" {
		r.Static("/uploads", dep.UploadDir)
	}

	projects := projecthttp.New(dep.Projects, dep.MaxBodyBytes)

	var limit gin.HandlerFunc
	if dep.Server.RateLimitRPS > 0 {
		limit = middleware.NewRateLimiter(dep.Server.RateLimitRPS, dep.Server.RateLimitBurst).Middleware()
	}

	// /projects is kept for clients of the unversioned API.
	for _, prefix := range []string{"/api/v1/projects", "/projects"} {
		g := r.Group(prefix)
		if limit != nil {
			g.Use(limit)
		}
		projects.Register(g)
	}

	return r, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
