package federation

import (
	"fmt"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/logging"
)

// ConfidenceThreshold is the confidence gap above which the higher-scored
// entry wins outright, regardless of timestamps.
const ConfidenceThreshold = 0.1

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Logger receives resolution decisions; defaults to NoOpLogger.
	Logger logging.Logger
	// Learner receives a best-effort audit record per resolution. Defaults
	// to a discard sink; failures or drops never affect the resolution.
	Learner core.LearningSink
}

// Resolver deterministically merges two competing knowledge entries into
// one. Resolve is a pure function of its inputs; the only side effect is an
// optional fire-and-forget audit record sent to the learning sink.
type Resolver struct {
	logger  logging.Logger
	learner core.LearningSink
}

// NewResolver constructs a Resolver.
func NewResolver(optFns ...func(o *ResolverOptions)) *Resolver {
	opts := ResolverOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{logger: opts.Logger, learner: opts.Learner}
}

// Resolve picks the winning entry:
//
//  1. Confidence gap above ConfidenceThreshold: the higher-confidence entry
//     wins, timestamps ignored.
//  2. Otherwise the entry with the later CreatedAt wins.
//  3. Equal timestamps resolve to a, deterministically.
//
// CreatedAt strings are compared lexicographically, which matches temporal
// order for ISO-8601 timestamps.
func (r *Resolver) Resolve(a, b core.KnowledgeEntry) core.KnowledgeEntry {
	diff := a.Confidence - b.Confidence
	if diff < 0 {
		diff = -diff
	}

	var winner, loser core.KnowledgeEntry
	var branch string
	switch {
	case diff > ConfidenceThreshold:
		branch = "confidence"
		if a.Confidence > b.Confidence {
			winner, loser = a, b
		} else {
			winner, loser = b, a
		}
	case b.CreatedAt > a.CreatedAt:
		branch = "recency"
		winner, loser = b, a
	default:
		branch = "recency"
		winner, loser = a, b
	}

	r.logger.Debug("conflict resolved",
		"winner", winner.ID, "loser", loser.ID, "branch", branch)

	if r.learner != nil {
		r.learner.Notify(core.Learning{
			Query:    fmt.Sprintf("conflict between %s (%s) and %s (%s)", a.ID, a.SourceRepo, b.ID, b.SourceRepo),
			Response: fmt.Sprintf("kept %s from %s via %s rule", winner.ID, winner.SourceRepo, branch),
			Category: "conflict_resolution",
			TTLDays:  core.TTLPermanent,
		})
	}
	return winner
}

// ConflictPair is one logical entry present on both sides of a federation.
type ConflictPair struct {
	Local  core.KnowledgeEntry
	Remote core.KnowledgeEntry
}

// DetectConflicts pairs up entries sharing an ID across the local and remote
// sets. Order follows the remote slice. This is the pre-step callers run
// before Ledger.SyncBatch; the ledger itself never detects conflicts.
func DetectConflicts(local, remote []core.KnowledgeEntry) []ConflictPair {
	byID := make(map[string]core.KnowledgeEntry, len(local))
	for _, entry := range local {
		if entry.ID != "" {
			byID[entry.ID] = entry
		}
	}

	var pairs []ConflictPair
	for _, entry := range remote {
		if existing, ok := byID[entry.ID]; ok && entry.ID != "" {
			pairs = append(pairs, ConflictPair{Local: existing, Remote: entry})
		}
	}
	return pairs
}
