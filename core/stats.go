package core

import "time"

// SyncResult summarizes one batch synchronization. Batches always complete;
// per-entry failures are counted rather than aborting the batch.
type SyncResult struct {
	Synced    int       `json:"synced"`
	Conflicts int       `json:"conflicts"`
	Errors    int       `json:"errors"`
	Direction Direction `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncStats aggregates the sync ledger. AToB counts events flowing from the
// configured first repository to the second, BToA the reverse. LastSync is
// nil when the ledger is empty.
type SyncStats struct {
	Total    int        `json:"total_syncs"`
	AToB     int        `json:"a_to_b"`
	BToA     int        `json:"b_to_a"`
	LastSync *time.Time `json:"last_sync,omitempty"`
}

// RoutingStats aggregates the router's decision history.
type RoutingStats struct {
	TotalRouted   int            `json:"total_routed"`
	ByAgent       map[string]int `json:"by_agent"`
	ByProblemType map[string]int `json:"by_problem_type"`
	LastRouting   *RoutingRecord `json:"last_routing,omitempty"`
}

// OrchestrationStats aggregates solve history plus the underlying routing
// statistics. SuccessRate is 0.0 when no solutions have been recorded.
type OrchestrationStats struct {
	TotalSolved  int          `json:"total_solved"`
	SuccessRate  float64      `json:"success_rate"`
	Routing      RoutingStats `json:"routing_stats"`
	LastSolution *time.Time   `json:"last_solution,omitempty"`
}
