package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"greencurry/internal/infra/config"
	"greencurry/internal/infra/obs"
)

type AuthHTTP interface {
	Login(c *gin.Context)
}

type RoomHTTP interface {
	List(c *gin.Context)
	Calendar(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type BookingHTTP interface {
	Quote(c *gin.Context)
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type DashboardHTTP interface {
	Stats(c *gin.Context)
}

type Handlers struct {
	Auth       AuthHTTP
	Rooms      RoomHTTP
	Bookings   BookingHTTP
	Dashboard  DashboardHTTP
	AdminGuard gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
	}
	if h.Rooms != nil {
		api.GET("/rooms", h.Rooms.List)
		api.GET("/rooms/:id/calendar", h.Rooms.Calendar)
	}
	if h.Bookings != nil {
		api.POST("/quotes", h.Bookings.Quote)
		api.POST("/bookings", h.Bookings.Create)
	}

	guard := h.AdminGuard
	if guard == nil {
		guard = func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	}
	admin := api.Group("", guard)
	if h.Bookings != nil {
		admin.GET("/bookings", h.Bookings.List)
		admin.GET("/bookings/:id", h.Bookings.Get)
		admin.PUT("/bookings/:id", h.Bookings.Update)
		admin.DELETE("/bookings/:id", h.Bookings.Delete)
	}
	if h.Dashboard != nil {
		admin.GET("/dashboard", h.Dashboard.Stats)
	}
	if h.Rooms != nil {
		admin.POST("/rooms/:id/photos", h.Rooms.UploadPhoto)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
