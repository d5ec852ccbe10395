// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
)

// FindItem finds an item result by ID in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindItem(results []portfolio.ItemResult, id string) *portfolio.ItemResult {
	for i := range results {
		if results[i].ID == id {
			return &results[i]
		}
	}
	return nil
}

// FindSweepPoint finds the sweep point for a sensitivity offset.
func FindSweepPoint(points []simulation.SweepPoint, sensitivity float64) *simulation.SweepPoint {
	for i := range points {
		if points[i].Sensitivity == sensitivity {
			return &points[i]
		}
	}
	return nil
}
