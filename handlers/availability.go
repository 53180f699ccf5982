package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	directoryRepo "clinicvoice/database/repository/directory"
	"clinicvoice/models"
	"clinicvoice/services/availability"
)

// AvailabilityHandler serves the query boundary consumed by the voice agent.
type AvailabilityHandler struct {
	Directory directoryRepo.DirectoryRepository
	Query     availability.QueryService
	Logger    *zap.Logger
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(directory directoryRepo.DirectoryRepository, query availability.QueryService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Directory: directory, Query: query, Logger: logger}
}

type findNextRequest struct {
	DialedNumber string `json:"dialedNumber" binding:"required"`
	Practitioner string `json:"practitioner" binding:"required"`
	Service      string `json:"service"`
	Location     string `json:"location"`
	MaxDaysAhead int    `json:"maxDaysAhead"`
}

type listOnDateRequest struct {
	DialedNumber string `json:"dialedNumber" binding:"required"`
	Practitioner string `json:"practitioner" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Service      string `json:"service"`
	Location     string `json:"location"`
}

// FindNextAvailable handles POST /api/availability/next. Classified outcomes
// are returned with status 200; only malformed input is a 400.
func (h *AvailabilityHandler) FindNextAvailable(c *gin.Context) {
	var req findNextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	clinic, result := h.resolveClinic(c, req.DialedNumber)
	if clinic == nil {
		c.JSON(http.StatusOK, models.NextAvailableResult{
			Success:   false,
			ErrorKind: result.kind,
			Message:   result.message,
		})
		return
	}

	out := h.Query.FindNextAvailable(c.Request.Context(), clinic, availability.FindNextParams{
		PractitionerName: req.Practitioner,
		ServiceName:      req.Service,
		LocationHint:     req.Location,
		MaxDaysAhead:     req.MaxDaysAhead,
	})
	c.JSON(http.StatusOK, out)
}

// ListAvailableOnDate handles POST /api/availability/on-date.
func (h *AvailabilityHandler) ListAvailableOnDate(c *gin.Context) {
	var req listOnDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	clinic, result := h.resolveClinic(c, req.DialedNumber)
	if clinic == nil {
		c.JSON(http.StatusOK, models.DayAvailabilityResult{
			Success:   false,
			ErrorKind: result.kind,
			Message:   result.message,
		})
		return
	}

	out := h.Query.ListAvailableOnDate(c.Request.Context(), clinic, availability.ListOnDateParams{
		PractitionerName: req.Practitioner,
		Date:             req.Date,
		ServiceName:      req.Service,
		LocationHint:     req.Location,
	})
	c.JSON(http.StatusOK, out)
}

type clinicFailure struct {
	kind    models.ErrorKind
	message string
}

func (h *AvailabilityHandler) resolveClinic(c *gin.Context, dialedNumber string) (*models.Clinic, clinicFailure) {
	clinic, err := h.Directory.ResolveClinicByNumber(c.Request.Context(), dialedNumber)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, clinicFailure{
				kind:    models.ErrKindClinicNotFound,
				message: "Sorry, we couldn't find a clinic for this number.",
			}
		}
		h.Logger.Error("clinic resolution failed",
			zap.String("dialedNumber", dialedNumber), zap.Error(err))
		return nil, clinicFailure{
			kind:    models.ErrKindInternalError,
			message: "Something went wrong on our end. Please try again shortly.",
		}
	}
	return clinic, clinicFailure{}
}
