// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/amortization/internal/schedule"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []schedule.Result, name string) *schedule.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
