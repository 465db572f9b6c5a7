package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/logging"
)

// DefaultBatchSize is the page size used when walking the knowledge source.
const DefaultBatchSize = 100

// ExporterOptions configures an Exporter.
type ExporterOptions struct {
	// Logger receives export progress; defaults to NoOpLogger.
	Logger logging.Logger
	// BatchSize is the pagination window (default DefaultBatchSize).
	BatchSize int
}

// Exporter walks an external knowledge source page by page and assembles a
// portable snapshot.
type Exporter struct {
	source    core.KnowledgeSource
	logger    logging.Logger
	batchSize int
}

// NewExporter constructs an Exporter over the given source.
func NewExporter(source core.KnowledgeSource, optFns ...func(o *ExporterOptions)) *Exporter {
	opts := ExporterOptions{
		Logger:    logging.NoOpLogger{},
		BatchSize: DefaultBatchSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Exporter{source: source, logger: opts.Logger, batchSize: opts.BatchSize}
}

// Export paginates through the source until it is exhausted and returns the
// assembled snapshot.
func (e *Exporter) Export(ctx context.Context) (*Snapshot, error) {
	var entries []core.KnowledgeEntry
	for offset := 0; ; {
		page, err := e.source.List(ctx, e.batchSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list knowledge at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}
		entries = append(entries, page...)
		offset += len(page)
	}

	e.logger.Info("knowledge exported", "entries", len(entries))
	return &Snapshot{
		Version:      SnapshotVersion,
		ExportedAt:   time.Now().UTC(),
		TotalEntries: len(entries),
		Entries:      entries,
	}, nil
}

// ExportToFile exports the source and writes the snapshot to path.
func (e *Exporter) ExportToFile(ctx context.Context, path string) (*Snapshot, error) {
	snap, err := e.Export(ctx)
	if err != nil {
		return nil, err
	}
	if err := WriteSnapshot(path, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
