// Package entity defines the domain models for the results feature.
package entity

// Run represents one monitored benchmark action.
type Run struct {
	ID       uint    // Run number
	Database string  // Benchmarked database (e.g., "postgres")
	Action   string  // Action name (e.g., "insert-batch")
	Duration float64 // Wall-clock duration in seconds
}

// Graph identifies one chart of a run: a monitor (subgroup) of a program (group).
type Graph struct {
	Group    string
	Subgroup string
}
