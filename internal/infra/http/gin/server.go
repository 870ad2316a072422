package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"resort/internal/infra/config"
	"resort/internal/infra/obs"
)

type AuthHTTP interface {
	Login(c *gin.Context)
	RegisterAdmin(c *gin.Context)
	Me(c *gin.Context)
	Logout(c *gin.Context)
}

type RoomHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Availability(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Cancel(c *gin.Context)
}

type PricingHTTP interface {
	ListByRoom(c *gin.Context)
	Quote(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type PaymentHTTP interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type GuestHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type ReviewHTTP interface {
	Published(c *gin.Context)
	Submit(c *gin.Context)
	All(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type DiningHTTP interface {
	Menu(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type AdminHTTP interface {
	Analytics(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Rooms          RoomHTTP
	Bookings       BookingHTTP
	Pricing        PricingHTTP
	Payments       PaymentHTTP
	Guests         GuestHTTP
	Reviews        ReviewHTTP
	Dining         DiningHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine without binding a listener.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	router.GET("/health", health.Health)

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := router.Group(prefix)
	admin := requireAdmin()

	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/register-admin", h.Auth.RegisterAdmin)
		api.GET("/auth/me", requireAuth(), h.Auth.Me)
		api.POST("/auth/logout", requireAuth(), h.Auth.Logout)
	}
	if h.Rooms != nil {
		api.GET("/rooms", h.Rooms.List)
		api.GET("/rooms/:id", h.Rooms.Get)
		api.GET("/rooms/:id/availability", h.Rooms.Availability)
		api.POST("/rooms", admin, h.Rooms.Create)
		api.PUT("/rooms/:id", admin, h.Rooms.Update)
		api.DELETE("/rooms/:id", admin, h.Rooms.Delete)
		api.POST("/rooms/:id/photos", admin, h.Rooms.UploadPhoto)
	}
	if h.Bookings != nil {
		api.POST("/bookings", h.Bookings.Create)
		api.GET("/bookings", admin, h.Bookings.List)
		api.GET("/bookings/:id", admin, h.Bookings.Get)
		api.PUT("/bookings/:id", admin, h.Bookings.Update)
		api.DELETE("/bookings/:id", admin, h.Bookings.Cancel)
	}
	if h.Pricing != nil {
		api.GET("/pricing/room/:id", h.Pricing.ListByRoom)
		api.GET("/pricing/room/:id/price", h.Pricing.Quote)
		api.POST("/pricing", admin, h.Pricing.Create)
		api.PUT("/pricing/:id", admin, h.Pricing.Update)
		api.DELETE("/pricing/:id", admin, h.Pricing.Delete)
	}
	if h.Payments != nil {
		api.POST("/payments", h.Payments.Create)
		api.GET("/payments", admin, h.Payments.List)
		api.GET("/payments/:id", admin, h.Payments.Get)
		api.PUT("/payments/:id", admin, h.Payments.Update)
		api.DELETE("/payments/:id", admin, h.Payments.Delete)
	}
	if h.Guests != nil {
		guests := api.Group("/guests", admin)
		guests.GET("", h.Guests.List)
		guests.POST("", h.Guests.Create)
		guests.GET("/:id", h.Guests.Get)
		guests.PUT("/:id", h.Guests.Update)
		guests.DELETE("/:id", h.Guests.Delete)
	}
	if h.Reviews != nil {
		api.GET("/reviews", h.Reviews.Published)
		api.POST("/reviews", h.Reviews.Submit)
		api.GET("/reviews/admin", admin, h.Reviews.All)
		api.PUT("/reviews/:id", admin, h.Reviews.Update)
		api.DELETE("/reviews/:id", admin, h.Reviews.Delete)
	}
	if h.Dining != nil {
		api.GET("/dining", h.Dining.Menu)
		api.GET("/dining/:id", h.Dining.Get)
		api.POST("/dining", admin, h.Dining.Create)
		api.PUT("/dining/:id", admin, h.Dining.Update)
		api.DELETE("/dining/:id", admin, h.Dining.Delete)
	}
	if h.Admin != nil {
		api.GET("/admin/analytics", admin, h.Admin.Analytics)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", obs.RequestIDHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
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
