package service

import (
	"testing"

	"otprelay/internal/model"
	"otprelay/pkg/constants"
	"otprelay/pkg/ports"
	"otprelay/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkerService() *WorkerService {
	return NewWorkerService(registry.NewRegistry(), ports.NewAllocator(9223, 9999))
}

func TestRegister(t *testing.T) {
	svc := newTestWorkerService()

	rec := svc.Register(model.StartRunRequest{PolicyNumber: "POL-123", Action: model.ActionDriverAdd})
	assert.Equal(t, int64(1), rec.ID)
	assert.NotEmpty(t, rec.RunID)
	assert.Equal(t, "POL-123", rec.PolicyNumber)
	assert.Equal(t, model.ActionDriverAdd, rec.Action)
	assert.Equal(t, constants.RunStatusInitializing, rec.Status)

	second := svc.Register(model.StartRunRequest{PolicyNumber: "POL-456", Action: model.ActionVehicleReplace})
	assert.Greater(t, second.ID, rec.ID)
	assert.NotEqual(t, rec.RunID, second.RunID)
}

func TestAllocatePort(t *testing.T) {
	svc := newTestWorkerService()

	assert.Equal(t, 9223, svc.AllocatePort())
	assert.Equal(t, 9224, svc.AllocatePort())
}

func TestReportStatus(t *testing.T) {
	svc := newTestWorkerService()
	rec := svc.Register(model.StartRunRequest{PolicyNumber: "POL-123", Action: model.ActionDriverUpdate})

	svc.ReportStatus(rec.ID, constants.RunStatusBrowserReady, "")
	got, ok := svc.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, constants.RunStatusBrowserReady, got.Status)

	// Unknown worker: fire-and-forget, never fails.
	assert.NotPanics(t, func() {
		svc.ReportStatus(999, constants.RunStatusError, "nope")
	})
}

func TestList(t *testing.T) {
	svc := newTestWorkerService()
	svc.Register(model.StartRunRequest{PolicyNumber: "A", Action: model.ActionDriverAdd})
	svc.Register(model.StartRunRequest{PolicyNumber: "B", Action: model.ActionVehicleAdd})

	assert.Len(t, svc.List(), 2)
}
