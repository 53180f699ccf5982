package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicvoice/models"
	"clinicvoice/services/monitoring"
	"clinicvoice/utils"
)

// MonitoringHandler receives booking attempt outcomes from the booking
// executor. The cache only advises; the executor reports back here when a
// slot turned out to be taken so the staleness monitor can react.
type MonitoringHandler struct {
	Monitor monitoring.MonitorService
	Logger  *zap.Logger
}

// NewMonitoringHandler constructs a MonitoringHandler.
func NewMonitoringHandler(monitor monitoring.MonitorService, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{Monitor: monitor, Logger: logger}
}

type bookingAttemptRequest struct {
	SessionID      string    `json:"sessionId" binding:"required"`
	ClinicID       string    `json:"clinicId"`
	PractitionerID string    `json:"practitionerId" binding:"required"`
	RequestedTime  time.Time `json:"requestedTime" binding:"required"`
	FoundSlot      *bool     `json:"foundSlot" binding:"required"`
	ErrorType      string    `json:"errorType"`
}

// LogBookingAttempt handles POST /api/bookings/attempts.
func (h *MonitoringHandler) LogBookingAttempt(c *gin.Context) {
	var req bookingAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	err := h.Monitor.LogBookingAttempt(c.Request.Context(), models.BookingAttemptRecord{
		SessionID:      req.SessionID,
		ClinicID:       req.ClinicID,
		PractitionerID: req.PractitionerID,
		RequestedTime:  req.RequestedTime.UTC(),
		FoundSlot:      *req.FoundSlot,
		ErrorType:      req.ErrorType,
	})
	if err != nil {
		h.Logger.Error("failed to log booking attempt", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to record booking attempt", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": true})
}
