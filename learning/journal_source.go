package learning

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Bbowlby22/oxproxion/core"
)

// JournalSource exposes a learning journal as a core.KnowledgeSource so
// locally journaled learnings can be exported as a portable snapshot. The
// journal is read once on first List call and paged from memory.
type JournalSource struct {
	path    string
	repo    core.RepoID
	entries []core.KnowledgeEntry
	loaded  bool
}

var _ core.KnowledgeSource = (*JournalSource)(nil)

// NewJournalSource reads entries from the journal at path, attributing them
// to the given repository.
func NewJournalSource(path string, repo core.RepoID) *JournalSource {
	return &JournalSource{path: path, repo: repo}
}

// List implements core.KnowledgeSource.
func (s *JournalSource) List(_ context.Context, limit, offset int) ([]core.KnowledgeEntry, error) {
	if !s.loaded {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	if offset >= len(s.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.entries) {
		end = len(s.entries)
	}
	return s.entries[offset:end], nil
}

func (s *JournalSource) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var entries []core.KnowledgeEntry
	scanner := bufio.NewScanner(f)
	for i := 0; scanner.Scan(); i++ {
		var line journalLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			// Skip torn or hand-edited lines rather than failing the export.
			continue
		}
		entries = append(entries, core.KnowledgeEntry{
			ID:         fmt.Sprintf("%s-journal-%d", s.repo, i),
			SourceRepo: s.repo,
			Query:      line.Query,
			Response:   line.Response,
			Category:   line.Category,
			CreatedAt:  line.Timestamp,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	s.entries = entries
	s.loaded = true
	return nil
}
