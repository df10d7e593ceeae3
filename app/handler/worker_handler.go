package handler

import (
	"net/http"
	"strconv"

	"otprelay/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkerHandler exposes worker lifecycle records for diagnostics
type WorkerHandler struct {
	workerService *service.WorkerService
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(workerService *service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerService: workerService}
}

// List returns all worker records
// @Summary List workers
// @Description Lists every worker record of this process lifetime, including finished runs
// @Tags worker
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	records := h.workerService.List()
	c.JSON(http.StatusOK, gin.H{
		"workers": records,
		"count":   len(records),
	})
}

// Get returns one worker record by ID
// @Summary Worker detail
// @Tags worker
// @Produce json
// @Param id path int true "Worker ID"
// @Success 200 {object} registry.Record
// @Router /v1/workers/{id} [get]
func (h *WorkerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}

	rec, ok := h.workerService.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
