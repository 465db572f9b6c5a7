// Package learning decouples best-effort learning writes from the primary
// call paths. The Notifier is a bounded queue draining into an Advisor's
// Store call on a background goroutine; when the queue is full, records are
// dropped rather than blocking a routing or resolution decision. The
// Journal is a local JSONL sink for deployments without a remote learning
// backend.
package learning
