package learning

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bbowlby22/oxproxion/core"
)

// blockingAdvisor blocks Store until released, to fill the notifier queue.
type blockingAdvisor struct {
	mu      sync.Mutex
	release chan struct{}
	stored  []core.Learning
}

func newBlockingAdvisor() *blockingAdvisor {
	return &blockingAdvisor{release: make(chan struct{})}
}

func (b *blockingAdvisor) Query(context.Context, string) (string, error) { return "", nil }
func (b *blockingAdvisor) Chat(context.Context, string) (string, error)  { return "", nil }

func (b *blockingAdvisor) Store(ctx context.Context, l core.Learning) error {
	select {
	case <-b.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stored = append(b.stored, l)
	return nil
}

func (b *blockingAdvisor) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stored)
}

func TestNotifier_DeliversRecords(t *testing.T) {
	adv := newBlockingAdvisor()
	close(adv.release) // never block

	n := NewNotifier(adv)
	n.Notify(core.Learning{Category: "routing_decision", TTLDays: core.TTLPermanent})
	n.Notify(core.Learning{Category: "conflict_resolution"})
	n.Close()

	assert.Equal(t, 2, adv.count())
	assert.Zero(t, n.Dropped())
}

func TestNotifier_DropsOnFullQueueWithoutBlocking(t *testing.T) {
	adv := newBlockingAdvisor()
	n := NewNotifier(adv, func(o *Options) { o.QueueSize = 2 })

	done := make(chan struct{})
	go func() {
		defer close(done)
		// One record may be in-flight in the drain goroutine, two fit in the
		// queue; anything beyond that must drop immediately.
		for i := 0; i < 10; i++ {
			n.Notify(core.Learning{Category: "routing_decision"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	assert.GreaterOrEqual(t, n.Dropped(), int64(7))

	close(adv.release)
	n.Close()
}

func TestNotifier_CloseDrainsQueue(t *testing.T) {
	adv := newBlockingAdvisor()
	close(adv.release)

	n := NewNotifier(adv, func(o *Options) { o.QueueSize = 16 })
	for i := 0; i < 5; i++ {
		n.Notify(core.Learning{Category: "routing_decision"})
	}
	n.Close()

	assert.Equal(t, 5, adv.count())
}

func TestJournal_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnings", "journal.jsonl")
	j, err := OpenJournal(path)
	require.NoError(t, err)

	require.NoError(t, j.Append(core.Learning{Query: "q1", Response: "r1", Category: "routing_decision", TTLDays: core.TTLPermanent}))
	require.NoError(t, j.Append(core.Learning{Query: "q2", Response: "r2", Category: "conflict_resolution"}))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []journalLine
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line journalLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "q1", lines[0].Query)
	assert.Equal(t, core.TTLPermanent, lines[0].TTLDays)
	assert.NotEmpty(t, lines[0].Timestamp)
	assert.Equal(t, "conflict_resolution", lines[1].Category)
}
