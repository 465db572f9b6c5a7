package learning

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Bbowlby22/oxproxion/core"
)

// journalLine is the serialized form of one journal record.
type journalLine struct {
	Timestamp string `json:"timestamp"`
	Query     string `json:"query"`
	Response  string `json:"response"`
	Category  string `json:"category"`
	TTLDays   int    `json:"ttl_days"`
}

// Journal appends learning records to a local JSONL file, one JSON object
// per line. It backs the Store call of advisor adapters in deployments
// where no remote learning store is wired. Safe for concurrent use.
type Journal struct {
	mu   sync.Mutex
	file *os.File
}

// OpenJournal opens (creating if needed) the journal at path.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Journal{file: f}, nil
}

// Append writes one learning record as a JSON line.
func (j *Journal) Append(l core.Learning) error {
	line := journalLine{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Query:     l.Query,
		Response:  l.Response,
		Category:  l.Category,
		TTLDays:   l.TTLDays,
	}
	data, err := json.Marshal(line)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.file.Write(append(data, '\n'))
	return err
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
