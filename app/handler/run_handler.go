package handler

import (
	"context"
	"net/http"

	"otprelay/internal/automation"
	"otprelay/internal/model"

	"github.com/gin-gonic/gin"
)

// RunHandler starts automation runs
type RunHandler struct {
	runner *automation.Runner
}

// NewRunHandler creates a new run handler
func NewRunHandler(runner *automation.Runner) *RunHandler {
	return &RunHandler{runner: runner}
}

// Start launches one automation run
// @Summary Start automation run
// @Description Registers a worker and drives the portal walk in the background; returns the worker ID immediately
// @Tags run
// @Accept json
// @Produce json
// @Param request body model.StartRunRequest true "Run request"
// @Success 202 {object} model.StartRunResponse
// @Router /start [post]
func (h *RunHandler) Start(c *gin.Context) {
	var req model.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidAction(req.Action) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported action: " + req.Action})
		return
	}

	// The run outlives this request; it must not inherit the request context.
	rec := h.runner.Launch(context.Background(), req)

	c.JSON(http.StatusAccepted, model.StartRunResponse{
		WorkerID: rec.ID,
		RunID:    rec.RunID,
		Status:   rec.Status.String(),
	})
}
