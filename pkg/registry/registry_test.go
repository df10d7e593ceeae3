package registry

import (
	"sync"
	"testing"

	"otprelay/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextID_MonotonicAndInitializing(t *testing.T) {
	r := NewRegistry()

	var prev int64
	for i := 0; i < 10; i++ {
		id := r.NextID()
		assert.Greater(t, id, prev)
		prev = id

		rec, ok := r.Get(id)
		require.True(t, ok)
		assert.Equal(t, constants.RunStatusInitializing, rec.Status)
		assert.False(t, rec.CreatedAt.IsZero())
	}
}

func TestNextID_ConcurrentUniqueness(t *testing.T) {
	r := NewRegistry()

	const goroutines = 100
	ids := make(chan int64, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.NextID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, goroutines)
	for id := range ids {
		assert.False(t, seen[id], "duplicate worker id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines)
	assert.Len(t, r.List(), goroutines)
}

func TestSetStatus(t *testing.T) {
	r := NewRegistry()
	id := r.NextID()

	r.SetStatus(id, constants.RunStatusBrowserReady, "")
	rec, _ := r.Get(id)
	assert.Equal(t, constants.RunStatusBrowserReady, rec.Status)

	r.SetStatus(id, constants.RunStatusError, "portal rejected login")
	rec, _ = r.Get(id)
	assert.Equal(t, constants.RunStatusError, rec.Status)
	assert.Equal(t, "portal rejected login", rec.Detail)
}

func TestSetStatus_UnknownIDIsNoOp(t *testing.T) {
	r := NewRegistry()

	assert.NotPanics(t, func() {
		r.SetStatus(42, constants.RunStatusCompleted, "")
	})
	_, ok := r.Get(42)
	assert.False(t, ok)
}

func TestSetStatus_TerminalStateIsFinal(t *testing.T) {
	r := NewRegistry()
	id := r.NextID()

	r.SetStatus(id, constants.RunStatusCompleted, "")
	r.SetStatus(id, constants.RunStatusWaitingForOTP, "")

	rec, _ := r.Get(id)
	assert.Equal(t, constants.RunStatusCompleted, rec.Status)
}

func TestSetJob(t *testing.T) {
	r := NewRegistry()
	id := r.NextID()

	r.SetJob(id, "run-1", "POL-123", "driver_add")
	rec, _ := r.Get(id)
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, "POL-123", rec.PolicyNumber)
	assert.Equal(t, "driver_add", rec.Action)

	// Unknown id: silent no-op.
	assert.NotPanics(t, func() {
		r.SetJob(99, "run-2", "POL-456", "vehicle_add")
	})
}

func TestGet_ReturnsCopy(t *testing.T) {
	r := NewRegistry()
	id := r.NextID()

	rec, _ := r.Get(id)
	rec.Status = constants.RunStatusError

	fresh, _ := r.Get(id)
	assert.Equal(t, constants.RunStatusInitializing, fresh.Status)
}

func TestList_OrderedByID(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		r.NextID()
	}

	records := r.List()
	require.Len(t, records, 5)
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i].ID, records[i-1].ID)
	}
}
