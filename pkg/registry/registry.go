// Package registry issues worker identities and tracks one lifecycle record
// per automation run. Records are diagnostic only: nothing reads another
// worker's record to make a control decision, and records are never deleted
// during the process lifetime.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"otprelay/pkg/constants"
	"otprelay/pkg/logger"
)

// Record is one worker's lifecycle record.
type Record struct {
	ID           int64               `json:"id"`
	RunID        string              `json:"run_id,omitempty"`        // External run correlation ID
	PolicyNumber string              `json:"policy_number,omitempty"` // Policy the run operates on
	Action       string              `json:"action,omitempty"`        // Job kind (driver_add, vehicle_replace, ...)
	Status       constants.RunStatus `json:"status"`
	Detail       string              `json:"detail,omitempty"` // Last error or status detail
	CreatedAt    time.Time           `json:"created_at"`
}

// Registry allocates monotonically increasing worker IDs and owns the record
// table. IDs are 64-bit, so exhaustion is unreachable in a process lifetime.
type Registry struct {
	counter atomic.Int64

	mu      sync.RWMutex
	records map[int64]*Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[int64]*Record),
	}
}

// NextID allocates the next worker ID, strictly greater than every ID issued
// before it, and creates its record in the initializing state.
func (r *Registry) NextID() int64 {
	id := r.counter.Add(1)

	r.mu.Lock()
	r.records[id] = &Record{
		ID:        id,
		Status:    constants.RunStatusInitializing,
		CreatedAt: time.Now(),
	}
	r.mu.Unlock()

	return id
}

// SetJob attaches job metadata to a record. No-op for unknown IDs.
func (r *Registry) SetJob(id int64, runID, policyNumber, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return
	}
	rec.RunID = runID
	rec.PolicyNumber = policyNumber
	rec.Action = action
}

// SetStatus overwrites a record's status and detail. It never fails: unknown
// IDs are ignored, and a record already in a terminal state keeps it, since
// the run it describes is over.
func (r *Registry) SetStatus(id int64, status constants.RunStatus, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		logger.Debugf("status update for unknown worker %d ignored", id)
		return
	}
	if rec.Status.Terminal() {
		logger.Debugf("[worker-%d] already %s, ignoring transition to %s", id, rec.Status, status)
		return
	}
	rec.Status = status
	rec.Detail = detail
}

// Get returns a copy of the record for id.
func (r *Registry) Get(id int64) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// List returns copies of all records ordered by ID.
func (r *Registry) List() []Record {
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
