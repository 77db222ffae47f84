package routes

import (
	"net/http"

	"github.com/Govind-619/MintSphere/controllers"
	"github.com/Govind-619/MintSphere/metrics"
	"github.com/Govind-619/MintSphere/middleware"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const healthPath = "/api/health"

// Options carries the pieces of configuration the router needs
type Options struct {
	SessionSecret string
	SecureCookies bool
	AllowedOrigin string

	// AuthLimiter throttles the auth endpoints; nil disables throttling
	AuthLimiter *middleware.RateLimiter
	// NFTCache caches NFT listings; nil or disabled passes through
	NFTCache *middleware.ResponseCache
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware(healthPath))
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware(opts.AllowedOrigin))
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(metrics.Middleware())

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24, // 1 day
		Path:     "/",
		Secure:   opts.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("mintsphere", store))

	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	{
		api.GET("/health", controllers.Health)

		initUserRoutes(api, opts)
		initAdminRoutes(api)
	}

	router.NoRoute(utils.NotFoundHandler)
	return router
}
