package api

import (
	"log"
	stdhttp "net/http"

	"cabline/internal/config"
	h "cabline/internal/http/handlers"
	"cabline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env config.Env, handler *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/db-check", handler.DBCheck)

		// Public tracking surface
		api.POST("/track", handler.Track)

		// Staff auth
		auth := api.Group("/auth")
		auth.POST("/login", handler.Login)
		auth.POST("/register", handler.Register)

		// Admin surface
		bookings := api.Group("/bookings")
		bookings.Use(middleware.RequireStaff(handler.JWTSecret))
		bookings.POST("", handler.CreateBooking)
		bookings.GET("", handler.ListBookings)
		bookings.GET("/:id", handler.GetBooking)
		bookings.PUT("/:id/status", handler.SetBookingStatus)
		bookings.GET("/:id/audit", handler.GetBookingAudit)
		bookings.GET("/:id/e-ticket", handler.GetBookingETicket)
		bookings.GET("/:id/receipt", handler.GetBookingReceipt)
	}

	return r
}
