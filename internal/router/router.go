package router

import (
	"context"
	"net/http"
	"time"

	"github.com/coupleswish/wishes-backend/config"
	"github.com/coupleswish/wishes-backend/internal/app/controller"
	"github.com/coupleswish/wishes-backend/internal/middleware"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"github.com/coupleswish/wishes-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is a dependency checked by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Router struct {
	userController   *controller.UserController
	coupleController *controller.CoupleController
	wishController   *controller.WishController
	uploadController *controller.UploadController
	httpMetrics      *metrics.HTTPMetrics
	gatherer         prometheus.Gatherer
	checks           map[string]Pinger
	config           *config.Config
}

func NewRouter(
	userController *controller.UserController,
	coupleController *controller.CoupleController,
	wishController *controller.WishController,
	uploadController *controller.UploadController,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	checks map[string]Pinger,
	cfg *config.Config,
) *Router {
	return &Router{
		userController:   userController,
		coupleController: coupleController,
		wishController:   wishController,
		uploadController: uploadController,
		httpMetrics:      httpMetrics,
		gatherer:         gatherer,
		checks:           checks,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(r.httpMetrics))
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)
	if r.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	users := router.Group("/users")
	{
		handle(users, http.MethodGet, "", r.userController.ListUsers)
		handle(users, http.MethodPost, "", r.userController.CreateUser)
		handle(users, http.MethodGet, "/:id", r.userController.GetUser)
		handle(users, http.MethodPut, "/:id", r.userController.UpdateUser)
		handle(users, http.MethodDelete, "/:id", r.userController.DeleteUser)
	}

	couples := router.Group("/couples")
	{
		handle(couples, http.MethodGet, "", r.coupleController.ListCouples)
		handle(couples, http.MethodPost, "", r.coupleController.CreateCouple)
		handle(couples, http.MethodGet, "/:id", r.coupleController.GetCouple)
		handle(couples, http.MethodPut, "/:id", r.coupleController.UpdateCouple)
		handle(couples, http.MethodDelete, "/:id", r.coupleController.DeleteCouple)
		handle(couples, http.MethodGet, "/:id/wishes", r.wishController.ListCoupleWishes)
		handle(couples, http.MethodGet, "/:id/wishes/export", r.wishController.ExportCoupleWishes)
	}

	wishes := router.Group("/wishes")
	{
		handle(wishes, http.MethodGet, "", r.wishController.ListWishes)
		handle(wishes, http.MethodPost, "", r.wishController.CreateWish)
		handle(wishes, http.MethodGet, "/:id", r.wishController.GetWish)
		handle(wishes, http.MethodPut, "/:id", r.wishController.UpdateWish)
		handle(wishes, http.MethodDelete, "/:id", r.wishController.DeleteWish)
	}

	uploads := router.Group("/uploads")
	{
		handle(uploads, http.MethodPost, "/wish-image", r.uploadController.PresignWishImage)
	}

	return router
}

// handle registers path both with and without a trailing slash.
func handle(g *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	g.Handle(method, path, h)
	g.Handle(method, path+"/", h)
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(r.checks))
	for name, check := range r.checks {
		if err := check.Ping(ctx); err != nil {
			logger.Warn("Health check failed", map[string]interface{}{
				"dependency": name,
				"error":      err.Error(),
			})
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"dependencies": results,
	})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			c.Writer.Header().Set("Access-Control-Allow-Headers", requested)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Headers", "*")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
