// Package federation implements bidirectional knowledge synchronization
// between two repositories: an append-only sync ledger with persisted
// history and aggregate statistics, plus deterministic conflict resolution
// for entries that exist on both sides.
//
// Conflict detection is a pre-step the caller performs before handing a
// batch to the ledger: pair up colliding entries with DetectConflicts,
// resolve each pair with Resolver.Resolve, then register the batch with
// Ledger.SyncBatch. The ledger itself never resolves conflicts.
package federation
