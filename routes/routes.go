package routes

import (
	"github.com/gin-gonic/gin"

	"clinicvoice/handlers"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Availability *handlers.AvailabilityHandler
	Monitoring   *handlers.MonitoringHandler
	Admin        *handlers.AdminHandler
}

// RegisterRoutes registers all endpoints.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	availability := r.Group("/api/availability")
	{
		availability.POST("/next", h.Availability.FindNextAvailable)
		availability.POST("/on-date", h.Availability.ListAvailableOnDate)
	}

	bookings := r.Group("/api/bookings")
	{
		bookings.POST("/attempts", h.Monitoring.LogBookingAttempt)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/warm", h.Admin.TriggerWarm)
	}

	r.GET("/health", handlers.Health)
}
