package federation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/logging"
)

// DefaultRetention is the number of sync events kept in the persisted state
// document. Older events are trimmed at save time; the in-memory history for
// the current process is unbounded.
const DefaultRetention = 100

// syncDocument is the persisted shape of the ledger state.
type syncDocument struct {
	LastSync  time.Time        `json:"last_sync"`
	SyncCount int              `json:"sync_count"`
	Syncs     []core.SyncEvent `json:"syncs"`
}

// Options configures a Ledger.
type Options struct {
	// Logger receives ledger events; defaults to NoOpLogger.
	Logger logging.Logger
	// Retention bounds the persisted event history (default DefaultRetention).
	Retention int
	// RepoA / RepoB name the two federated repositories for stats
	// classification. Defaults: omnilore / oxproxion.
	RepoA core.RepoID
	RepoB core.RepoID
}

// Ledger is the append-only log of sync events between two repositories.
// Events are never edited or deleted; the only mutation is the retention
// trim applied to the persisted document. All public methods are safe for
// concurrent use: append-in-memory plus persist happen under one mutex so
// concurrent whole-document rewrites cannot lose updates.
type Ledger struct {
	store     core.StateStore
	logger    logging.Logger
	retention int
	repoA     core.RepoID
	repoB     core.RepoID

	mu     sync.Mutex
	events []core.SyncEvent
}

// NewLedger constructs a Ledger backed by the given store, loading any
// previously persisted history. A store with no prior document yields an
// empty ledger; an unreadable document is surfaced as a PersistenceError.
func NewLedger(store core.StateStore, optFns ...func(o *Options)) (*Ledger, error) {
	opts := Options{
		Logger:    logging.NoOpLogger{},
		Retention: DefaultRetention,
		RepoA:     core.RepoOmniLore,
		RepoB:     core.RepoOxproxion,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	l := &Ledger{
		store:     store,
		logger:    opts.Logger,
		retention: opts.Retention,
		repoA:     opts.RepoA,
		repoB:     opts.RepoB,
	}

	var doc syncDocument
	if err := store.Load(&doc); err != nil {
		if !errors.Is(err, core.ErrStateNotFound) {
			return nil, fmt.Errorf("load sync ledger: %w", err)
		}
	} else {
		l.events = doc.Syncs
	}
	return l, nil
}

// RegisterSync appends a sync event for the given entry and persists the
// ledger. On a persistence failure the event remains in memory and a
// PersistenceError is returned; the caller decides whether to retry. An
// event is therefore recorded on disk at most once, never duplicated.
func (l *Ledger) RegisterSync(entryID string, dir core.Direction) error {
	if entryID == "" {
		return &core.MalformedEntryError{Field: "id"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, core.SyncEvent{
		Timestamp: time.Now().UTC(),
		EntryID:   entryID,
		Direction: dir,
	})

	if err := l.persistLocked(); err != nil {
		l.logger.Warn("sync ledger persist failed", "entry_id", entryID, "error", err)
		return err
	}

	l.logger.Debug("sync registered", "entry_id", entryID, "direction", dir.String())
	return nil
}

// SyncBatch registers a sync event per entry. The batch always completes:
// malformed entries and per-entry persistence failures are counted in the
// result instead of aborting. Conflicts is always zero here; detecting and
// resolving entries that exist on both sides is the caller's pre-step (see
// DetectConflicts and Resolver).
func (l *Ledger) SyncBatch(entries []core.KnowledgeEntry, dir core.Direction) core.SyncResult {
	result := core.SyncResult{Direction: dir, Timestamp: time.Now().UTC()}

	for _, entry := range entries {
		if err := l.RegisterSync(entry.ID, dir); err != nil {
			result.Errors++
			continue
		}
		result.Synced++
	}

	l.logger.Info("sync batch completed",
		"direction", dir.String(),
		"synced", result.Synced,
		"errors", result.Errors,
	)
	return result
}

// Stats scans the history and aggregates counts per direction. Events whose
// direction does not match the configured repository pair are counted in
// Total only.
func (l *Ledger) Stats() core.SyncStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := core.SyncStats{Total: len(l.events)}
	if len(l.events) == 0 {
		return stats
	}

	aToB := core.Direction{From: l.repoA, To: l.repoB}
	bToA := core.Direction{From: l.repoB, To: l.repoA}
	for _, ev := range l.events {
		switch ev.Direction {
		case aToB:
			stats.AToB++
		case bToA:
			stats.BToA++
		}
	}

	last := l.events[len(l.events)-1].Timestamp
	stats.LastSync = &last
	return stats
}

// Events returns a defensive copy of the in-memory event history.
func (l *Ledger) Events() []core.SyncEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := make([]core.SyncEvent, len(l.events))
	copy(events, l.events)
	return events
}

// persistLocked writes the state document, trimming the persisted history to
// the retention window. Caller must hold l.mu.
func (l *Ledger) persistLocked() error {
	syncs := l.events
	if len(syncs) > l.retention {
		syncs = syncs[len(syncs)-l.retention:]
	}
	doc := syncDocument{
		LastSync:  time.Now().UTC(),
		SyncCount: len(l.events),
		Syncs:     syncs,
	}
	return l.store.Save(doc)
}
