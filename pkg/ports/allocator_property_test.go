// Property-based tests for the port allocator: every issued value stays in
// range, and values are distinct until the range wraps.
package ports

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_AllocatedPortsStayInRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("every value lies within [low, high]", prop.ForAll(
		func(low int, span int, calls int) bool {
			high := low + span
			a := NewAllocator(low, high)
			for i := 0; i < calls; i++ {
				port := a.Next()
				if port < low || port > high {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 10000),
		gen.IntRange(0, 50),
		gen.IntRange(1, 200),
	))

	properties.Property("values are distinct until the first wraparound", prop.ForAll(
		func(low int, span int) bool {
			high := low + span
			a := NewAllocator(low, high)
			size := high - low + 1

			seen := make(map[int]bool, size)
			for i := 0; i < size; i++ {
				port := a.Next()
				if seen[port] {
					return false
				}
				seen[port] = true
			}
			// One full pass consumes the range exactly once.
			return a.Wraps() == 1 && a.Next() == low
		},
		gen.IntRange(1, 10000),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
