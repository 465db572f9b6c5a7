// Package orchestrator composes the agent router with a persisted solution
// ledger. Solve routes a problem, records the outcome and persists the
// state document; there is no retry loop, no state machine beyond
// submitted -> routed -> recorded, and no actual solving: "solved" means
// routed and acknowledged, real solving happens in the selected agent.
package orchestrator
