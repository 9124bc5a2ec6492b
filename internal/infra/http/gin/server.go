package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"rentdesk/internal/infra/config"
	"rentdesk/internal/infra/obs"
)

type PropertyHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Calendar(c *gin.Context)
	Quote(c *gin.Context)
	Availability(c *gin.Context)
}

type CustomerHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Stats(c *gin.Context)
}

type BookingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Cancel(c *gin.Context)
}

type PaymentHTTP interface {
	Record(c *gin.Context)
	ListForBooking(c *gin.Context)
	List(c *gin.Context)
}

type ReportHTTP interface {
	Summary(c *gin.Context)
	Export(c *gin.Context)
}

type Handlers struct {
	Property PropertyHTTP
	Customer CustomerHTTP
	Booking  BookingHTTP
	Payment  PaymentHTTP
	Report   ReportHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, metrics *obs.Metrics, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.CORSOrigins, obsMW, health, metrics, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter wires middleware and routes; handlers left nil are not mounted.
func NewRouter(origins []string, obsMW obs.Middleware, health obs.HealthHandlers, metrics *obs.Metrics, h Handlers) *gin.Engine {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	if metrics != nil {
		router.Use(metrics.HTTPMiddleware())
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := router.Group("/api/v1")
	if h.Property != nil {
		group := api.Group("/properties")
		group.GET("", h.Property.List)
		group.POST("", h.Property.Create)
		group.GET("/:id", h.Property.Get)
		group.GET("/:id/calendar", h.Property.Calendar)
		group.GET("/:id/quote", h.Property.Quote)
		api.GET("/availability", h.Property.Availability)
	}
	if h.Customer != nil {
		group := api.Group("/customers")
		group.GET("", h.Customer.List)
		group.POST("", h.Customer.Create)
		group.GET("/:id", h.Customer.Get)
		group.GET("/:id/stats", h.Customer.Stats)
	}
	if h.Booking != nil {
		group := api.Group("/bookings")
		group.GET("", h.Booking.List)
		group.POST("", h.Booking.Create)
		group.GET("/:id", h.Booking.Get)
		group.PATCH("/:id", h.Booking.Update)
		group.POST("/:id/cancel", h.Booking.Cancel)
		group.DELETE("/:id", h.Booking.Cancel)
		if h.Payment != nil {
			group.POST("/:id/payments", h.Payment.Record)
			group.GET("/:id/payments", h.Payment.ListForBooking)
		}
	}
	if h.Payment != nil {
		api.GET("/payments", h.Payment.List)
	}
	if h.Report != nil {
		group := api.Group("/reports")
		group.GET("/summary", h.Report.Summary)
		group.GET("/export", h.Report.Export)
	}
	return router
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
