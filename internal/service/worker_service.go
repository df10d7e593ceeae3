package service

import (
	"otprelay/internal/model"
	"otprelay/pkg/constants"
	"otprelay/pkg/logger"
	"otprelay/pkg/ports"
	"otprelay/pkg/registry"

	"github.com/google/uuid"
)

// WorkerService manages worker identities, their lifecycle records and the
// debug-port allocation done once per worker at startup.
type WorkerService struct {
	registry  *registry.Registry
	allocator *ports.Allocator
}

// NewWorkerService creates a new worker service.
func NewWorkerService(reg *registry.Registry, allocator *ports.Allocator) *WorkerService {
	return &WorkerService{
		registry:  reg,
		allocator: allocator,
	}
}

// Register creates a worker identity for one automation run and attaches the
// job metadata under a fresh run ID.
func (s *WorkerService) Register(req model.StartRunRequest) registry.Record {
	id := s.registry.NextID()
	runID := uuid.NewString()
	s.registry.SetJob(id, runID, req.PolicyNumber, req.Action)

	rec, _ := s.registry.Get(id)
	logger.Infof("[worker-%d] registered (run: %s, policy: %s, action: %s)", id, runID, req.PolicyNumber, req.Action)
	return rec
}

// AllocatePort hands out the next remote-debugging port.
func (s *WorkerService) AllocatePort() int {
	return s.allocator.Next()
}

// ReportStatus records a status transition. Fire-and-forget: it never fails,
// and a failure to record must never abort the run it is about.
func (s *WorkerService) ReportStatus(id int64, status constants.RunStatus, detail string) {
	s.registry.SetStatus(id, status, detail)
	if detail != "" {
		logger.Infof("[worker-%d] status: %s (%s)", id, status, detail)
	} else {
		logger.Infof("[worker-%d] status: %s", id, status)
	}
}

// Get returns one worker record.
func (s *WorkerService) Get(id int64) (registry.Record, bool) {
	return s.registry.Get(id)
}

// List returns all worker records ordered by ID.
func (s *WorkerService) List() []registry.Record {
	return s.registry.List()
}
