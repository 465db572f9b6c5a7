package core

import "time"

// SyncEvent records a single knowledge entry crossing from one repository to
// the other. Events are immutable once appended to the ledger.
type SyncEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EntryID   string    `json:"entry_id"`
	Direction Direction `json:"direction"`
}

// RoutingRecord captures one routing decision made by the agent router.
type RoutingRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	ProblemType   string    `json:"problem_type"`
	SelectedAgent string    `json:"selected_agent"`
	Rationale     string    `json:"rationale,omitempty"`
}

// SolutionStatus is the terminal state of a submitted problem.
type SolutionStatus string

const (
	// StatusSolved means the problem was routed and acknowledged. The engine
	// has no solving capability of its own; real solving happens in the
	// selected agent.
	StatusSolved SolutionStatus = "solved"
	// StatusFailed means routing or recording failed after submission.
	StatusFailed SolutionStatus = "failed"
)

// SolutionRecord captures one problem submitted through the orchestrator.
type SolutionRecord struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Problem     string         `json:"problem"`
	ProblemType string         `json:"problem_type"`
	SolvedBy    string         `json:"solved_by"`
	Status      SolutionStatus `json:"status"`
}

// AgentDescriptor describes a solving agent known to the router. The pool is
// held in memory for the lifetime of the process and re-seeded from external
// configuration at startup; it is not persisted.
type AgentDescriptor struct {
	Name        string `json:"name"`
	Available   bool   `json:"available"`
	CurrentLoad int    `json:"current_load"`
}
