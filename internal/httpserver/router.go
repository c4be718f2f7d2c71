package httpserver

import (
	"context"
	"errors"
	"time"

	"scraper-dashboard/internal/columns"
	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/observability"
	"scraper-dashboard/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductSource loads the full product table.
type ProductSource interface {
	FetchAll(ctx context.Context, table string) (domain.Collection, error)
}

// Sessions is the session lifecycle used by the auth routes.
type Sessions interface {
	SignIn(ctx context.Context, email, password string) (session.Context, error)
	Current(ctx context.Context, id string) (session.Context, error)
	SignOut(ctx context.Context, id string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirm string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles the collaborators of the router.
type Deps struct {
	Products      ProductSource
	Sessions      Sessions
	ProductsTable string
	Columns       columns.Config
	Metrics       *observability.Metrics
	CORSOrigins   []string
	SessionTTL    time.Duration
	// Ready lists dependencies pinged by /readyz, keyed by name.
	Ready map[string]Pinger
}

func (d Deps) validate() error {
	if d.Products == nil {
		return errors.New("httpserver: product source required")
	}
	if d.Sessions == nil {
		return errors.New("httpserver: sessions required")
	}
	if d.ProductsTable == "" {
		return errors.New("httpserver: products table required")
	}
	return nil
}

// buildRouter wires routes for the dashboard API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Columns.Products == nil && deps.Columns.Recent == nil {
		deps.Columns = columns.Default()
	}

	router := gin.New()
	router.Use(accessLog(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = deps.CORSOrigins
		cfg.AllowCredentials = true
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	h := &handlers{deps: deps, logger: logger}

	auth := router.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/me", h.requireSession, h.me)
	auth.POST("/password/forgot", h.forgotPassword)
	auth.POST("/password/reset", h.resetPassword)

	api := router.Group("/api", h.requireSession)
	api.GET("/overview", h.overview)
	api.GET("/products", h.products)
	api.GET("/products/export.csv", h.exportProducts)
	api.GET("/analytics", h.analytics)

	return router, nil
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http: request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
