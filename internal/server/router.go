// Package server assembles the HTTP API: repositories, services, and the admin
// and partner route families.
package server

import (
	"net/http"

	"backoffice/internal/access"
	"backoffice/internal/cache"
	"backoffice/internal/config"
	"backoffice/internal/middleware"
	"backoffice/internal/modules/auth"
	"backoffice/internal/modules/availability"
	"backoffice/internal/modules/experience"
	"backoffice/internal/modules/roomtype"
	jwtsvc "backoffice/internal/pkg/jwt"
	"backoffice/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	JWT    *jwtsvc.Service
	Cache  *cache.Availability
}

func NewRouter(d Deps) *gin.Engine {
	userRepo := repository.NewUserRepository(d.DB)
	experienceRepo := repository.NewExperienceRepository(d.DB)
	roomTypeRepo := repository.NewRoomTypeRepository(d.DB)
	availabilityRepo := repository.NewAvailabilityRepository(d.DB)

	guard := access.NewGuard(experienceRepo)

	authHandler := auth.NewHandler(auth.NewService(userRepo, d.JWT, d.JWT.TTL()))
	experienceHandler := experience.NewHandler(experience.NewService(experienceRepo))
	roomTypeHandler := roomtype.NewHandler(roomtype.NewService(roomTypeRepo, guard, d.Cache))
	availabilityHandler := availability.NewHandler(
		availability.NewService(availabilityRepo, roomTypeRepo, guard, d.Cache, d.Config.MaxRangeDays),
	)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.Config.CORSOrigins))
	if !d.Config.IsProd() && gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(d.JWT))
	authHandler.RegisterProtectedRoutes(protected)

	// both families share the same handlers; the role gate and access.Scope decide visibility
	admin := protected.Group("/admin", middleware.AdminOnly())
	partner := protected.Group("/partner", middleware.PartnerOnly())
	for _, g := range []*gin.RouterGroup{admin, partner} {
		experienceHandler.RegisterRoutes(g)
		roomTypeHandler.RegisterRoutes(g)
		availabilityHandler.RegisterRoutes(g)
	}

	return r
}
