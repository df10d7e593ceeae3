package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"otprelay/internal/model"
	"otprelay/internal/service"
	"otprelay/pkg/ports"
	"otprelay/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkerTestRouter() (*gin.Engine, *service.WorkerService) {
	gin.SetMode(gin.TestMode)

	svc := service.NewWorkerService(registry.NewRegistry(), ports.NewAllocator(9223, 9999))
	h := NewWorkerHandler(svc)

	engine := gin.New()
	engine.GET("/v1/workers", h.List)
	engine.GET("/v1/workers/:id", h.Get)
	return engine, svc
}

func TestListWorkers(t *testing.T) {
	engine, svc := newWorkerTestRouter()
	svc.Register(model.StartRunRequest{PolicyNumber: "POL-1", Action: model.ActionDriverAdd})
	svc.Register(model.StartRunRequest{PolicyNumber: "POL-2", Action: model.ActionVehicleAdd})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/workers", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
	assert.Contains(t, w.Body.String(), `"POL-1"`)
}

func TestGetWorker(t *testing.T) {
	engine, svc := newWorkerTestRouter()
	rec := svc.Register(model.StartRunRequest{PolicyNumber: "POL-1", Action: model.ActionDriverUpdate})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/workers/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), rec.RunID)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/workers/42", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/workers/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
