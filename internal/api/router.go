package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/povertyline/server/internal/auth"
	"github.com/povertyline/server/internal/handlers"
	"github.com/povertyline/server/internal/middleware"
	"github.com/povertyline/server/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
// The account service is injected because it carries the mailer; the remaining
// services are constructed here from the shared database handle.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, accounts *services.AccountService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account service must be provided")
	}

	profiles, err := services.NewProfileService(db)
	if err != nil {
		return nil, err
	}
	records, err := services.NewRecordService(db)
	if err != nil {
		return nil, err
	}
	references, err := services.NewReferenceService(db)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	// Basic rate limiting: 100 requests/minute per IP+path
	r.Use(middleware.RateLimit(100, time.Minute))

	r.NoRoute(middleware.NotFoundHandler)

	// Public operational endpoints
	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.Auth(jwt)
	api := r.Group("/api")
	api.Use(requireAuth)

	registerAuthRoutes(r, api, handlers.NewAuthHandler(accounts, jwt))
	registerReferenceRoutes(r, handlers.NewReferenceHandler(references))
	registerProfileRoutes(api, handlers.NewProfileHandler(profiles))
	registerRecordRoutes(api, handlers.NewRecordHandler(records))

	return r, nil
}
