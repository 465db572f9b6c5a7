package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/logging"
)

// DefaultConfidence is assigned to imported entries missing a confidence
// score.
const DefaultConfidence = 0.85

// ImportResult summarizes one import run. The run always completes;
// malformed entries and per-entry store failures are counted rather than
// aborting.
type ImportResult struct {
	Imported      int     `json:"imported_entries"`
	Malformed     int     `json:"malformed"`
	Errors        int     `json:"errors"`
	AvgConfidence float64 `json:"average_confidence"`
	Categories    int     `json:"categories"`
}

// ImporterOptions configures an Importer.
type ImporterOptions struct {
	// Logger receives import progress; defaults to NoOpLogger.
	Logger logging.Logger
	// TTLDays is the retention hint attached to imported learnings
	// (default core.TTLPermanent).
	TTLDays int
	// DefaultCategory is assigned to entries without one.
	DefaultCategory string
}

// Importer replays a knowledge snapshot into the learning backend through
// the advisor's Store call.
type Importer struct {
	advisor         core.Advisor
	logger          logging.Logger
	ttlDays         int
	defaultCategory string
}

// NewImporter constructs an Importer writing through the given advisor.
func NewImporter(advisor core.Advisor, optFns ...func(o *ImporterOptions)) *Importer {
	opts := ImporterOptions{
		Logger:          logging.NoOpLogger{},
		TTLDays:         core.TTLPermanent,
		DefaultCategory: "imported",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Importer{
		advisor:         advisor,
		logger:          opts.Logger,
		ttlDays:         opts.TTLDays,
		defaultCategory: opts.DefaultCategory,
	}
}

// ImportFile reads a snapshot from disk and imports it.
func (i *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return ImportResult{}, err
	}
	return i.Import(ctx, snap), nil
}

// Import replays every entry of the snapshot. Entries missing both an ID
// and a query, or missing a response, are counted as malformed; store
// failures are counted as errors. Neither aborts the run.
func (i *Importer) Import(ctx context.Context, snap *Snapshot) ImportResult {
	if snap.Version != SnapshotVersion {
		i.logger.Warn("snapshot version mismatch", "got", snap.Version, "want", SnapshotVersion)
	}

	var result ImportResult
	confidenceSum := 0.0
	categories := make(map[string]struct{})

	for _, entry := range snap.Entries {
		if err := i.storeEntry(ctx, entry); err != nil {
			var merr *core.MalformedEntryError
			if errors.As(err, &merr) {
				result.Malformed++
			} else {
				result.Errors++
			}
			i.logger.Debug("entry skipped", "entry_id", entry.ID, "error", err)
			continue
		}

		result.Imported++
		confidence := entry.Confidence
		if confidence == 0 {
			confidence = DefaultConfidence
		}
		confidenceSum += confidence

		category := entry.Category
		if category == "" {
			category = i.defaultCategory
		}
		categories[category] = struct{}{}
	}

	if result.Imported > 0 {
		result.AvgConfidence = confidenceSum / float64(result.Imported)
	}
	result.Categories = len(categories)

	i.logger.Info("knowledge imported",
		"imported", result.Imported,
		"malformed", result.Malformed,
		"errors", result.Errors,
	)
	return result
}

func (i *Importer) storeEntry(ctx context.Context, entry core.KnowledgeEntry) error {
	query := entry.Query
	if query == "" {
		query = entry.ID
	}
	if query == "" {
		return &core.MalformedEntryError{Field: "query"}
	}
	if entry.Response == "" {
		return &core.MalformedEntryError{Field: "response"}
	}

	category := entry.Category
	if category == "" {
		category = i.defaultCategory
	}

	if err := i.advisor.Store(ctx, core.Learning{
		Query:    query,
		Response: entry.Response,
		Category: category,
		TTLDays:  i.ttlDays,
	}); err != nil {
		return fmt.Errorf("store entry %s: %w", entry.ID, err)
	}
	return nil
}
