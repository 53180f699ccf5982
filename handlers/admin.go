package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"clinicvoice/cron"
	"clinicvoice/models"
	"clinicvoice/utils"
)

// AdminHandler exposes operational endpoints: manual warm triggers and the
// health snapshot.
type AdminHandler struct {
	Tasks  *asynq.Client
	Logger *zap.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(tasks *asynq.Client, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Tasks: tasks, Logger: logger}
}

type warmRequest struct {
	ClinicID string `json:"clinicId" binding:"required"`
}

// TriggerWarm handles POST /api/admin/warm: enqueues an immediate warm cycle
// for one clinic instead of waiting for the next scheduled pass.
func (h *AdminHandler) TriggerWarm(c *gin.Context) {
	var req warmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	payload, err := json.Marshal(models.WarmTaskPayload{ClinicID: req.ClinicID})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to build warm task", "")
		return
	}
	info, err := h.Tasks.EnqueueContext(c.Request.Context(), asynq.NewTask(cron.TypeWarmClinic, payload))
	if err != nil {
		h.Logger.Error("failed to enqueue warm task",
			zap.String("clinicId", req.ClinicID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to enqueue warm task", "")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"taskId": info.ID, "queue": info.Queue})
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
