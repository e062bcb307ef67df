package testutil

import (
	"testing"

	"github.com/iwvelando/amortization/internal/schedule"
)

func TestFindScenario(t *testing.T) {
	results := []schedule.Result{
		{Name: "Scenario A", PeriodRate: 0.01},
		{Name: "Scenario B", PeriodRate: 0.02},
		{Name: "Another Scenario", PeriodRate: 0.03},
	}

	tests := []struct {
		name         string
		searchName   string
		expectFound  bool
		expectedRate float64
	}{
		{name: "Find existing scenario A", searchName: "Scenario A", expectFound: true, expectedRate: 0.01},
		{name: "Find existing scenario B", searchName: "Scenario B", expectFound: true, expectedRate: 0.02},
		{name: "Find scenario with spaces", searchName: "Another Scenario", expectFound: true, expectedRate: 0.03},
		{name: "Scenario not found", searchName: "Missing", expectFound: false},
		{name: "Case sensitive search", searchName: "scenario a", expectFound: false},
		{name: "Empty name", searchName: "", expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindScenario(results, tt.searchName)

			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindScenario(%q) expected nil, got %+v", tt.searchName, result)
				}
				return
			}

			if result == nil {
				t.Fatalf("FindScenario(%q) expected a result, got nil", tt.searchName)
			}
			if result.PeriodRate != tt.expectedRate {
				t.Errorf("FindScenario(%q) rate = %v, expected %v", tt.searchName, result.PeriodRate, tt.expectedRate)
			}
		})
	}
}

func TestFindScenarioReturnsPointerIntoSlice(t *testing.T) {
	results := []schedule.Result{{Name: "only"}}

	found := FindScenario(results, "only")
	found.ID = "changed"

	if results[0].ID != "changed" {
		t.Errorf("expected FindScenario to return a pointer into the slice")
	}
}

func TestFindScenarioEmptySlice(t *testing.T) {
	if FindScenario(nil, "anything") != nil {
		t.Errorf("expected nil for empty results")
	}
}
