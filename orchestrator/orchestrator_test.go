package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/routing"
	"github.com/Bbowlby22/oxproxion/state"
)

func newTestOrchestrator(t *testing.T, agents ...core.AgentDescriptor) (*Orchestrator, *state.InMemoryStore) {
	t.Helper()
	router, err := routing.NewRouter(nil)
	require.NoError(t, err)
	for _, a := range agents {
		router.RegisterAgent(a)
	}
	store := state.NewInMemoryStore()
	orch, err := New(router, store)
	require.NoError(t, err)
	return orch, store
}

func TestOrchestrator_SolveRoutesToLeastLoaded(t *testing.T) {
	orch, _ := newTestOrchestrator(t,
		core.AgentDescriptor{Name: "a", Available: true, CurrentLoad: 3},
		core.AgentDescriptor{Name: "b", Available: true, CurrentLoad: 1},
	)

	record, err := orch.Solve(context.Background(), "fix bug", "code")
	require.NoError(t, err)

	assert.Equal(t, "b", record.SolvedBy)
	assert.Equal(t, "code", record.ProblemType)
	assert.Equal(t, core.StatusSolved, record.Status)
	assert.NotEmpty(t, record.ID)

	// The pool snapshot is fixed: load is not auto-incremented on selection,
	// so a second call routes identically.
	second, err := orch.Solve(context.Background(), "fix another bug", "code")
	require.NoError(t, err)
	assert.Equal(t, "b", second.SolvedBy)
}

func TestOrchestrator_EmptyProblemTypeDefaults(t *testing.T) {
	orch, _ := newTestOrchestrator(t,
		core.AgentDescriptor{Name: "a", Available: true},
	)

	record, err := orch.Solve(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultProblemType, record.ProblemType)
}

func TestOrchestrator_RoutingFailureSurfacesAndRecordsNothing(t *testing.T) {
	orch, _ := newTestOrchestrator(t) // empty pool

	_, err := orch.Solve(context.Background(), "anything", "general")
	assert.ErrorIs(t, err, core.ErrNoAgentAvailable)
	assert.Zero(t, orch.Stats().TotalSolved)
}

func TestOrchestrator_PersistFailureSurfaces(t *testing.T) {
	orch, store := newTestOrchestrator(t,
		core.AgentDescriptor{Name: "a", Available: true},
	)
	store.FailSaves(errors.New("disk full"))

	record, err := orch.Solve(context.Background(), "anything", "general")
	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
	// The record is still appended in memory; only persistence failed.
	assert.Equal(t, "a", record.SolvedBy)
	assert.Equal(t, 1, orch.Stats().TotalSolved)
}

func TestOrchestrator_StatsEmpty(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	stats := orch.Stats()
	assert.Zero(t, stats.TotalSolved)
	assert.Zero(t, stats.SuccessRate)
	assert.Nil(t, stats.LastSolution)
}

func TestOrchestrator_StatsAfterSolves(t *testing.T) {
	orch, _ := newTestOrchestrator(t,
		core.AgentDescriptor{Name: "a", Available: true},
	)

	for i := 0; i < 3; i++ {
		_, err := orch.Solve(context.Background(), "p", "code")
		require.NoError(t, err)
	}

	stats := orch.Stats()
	assert.Equal(t, 3, stats.TotalSolved)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.Equal(t, 3, stats.Routing.ByAgent["a"])
	require.NotNil(t, stats.LastSolution)
}

func TestOrchestrator_HistoryReloadsAcrossRestart(t *testing.T) {
	router, err := routing.NewRouter(nil)
	require.NoError(t, err)
	router.RegisterAgent(core.AgentDescriptor{Name: "a", Available: true})

	store := state.NewInMemoryStore()
	first, err := New(router, store)
	require.NoError(t, err)
	_, err = first.Solve(context.Background(), "p", "code")
	require.NoError(t, err)

	second, err := New(router, store)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats().TotalSolved)
}

func TestOrchestrator_RetentionTrimsPersistedDocument(t *testing.T) {
	router, err := routing.NewRouter(nil)
	require.NoError(t, err)
	router.RegisterAgent(core.AgentDescriptor{Name: "a", Available: true})

	store := state.NewInMemoryStore()
	orch, err := New(router, store, func(o *Options) { o.Retention = 4 })
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := orch.Solve(context.Background(), "p", "code")
		require.NoError(t, err)
	}
	assert.Equal(t, 10, orch.Stats().TotalSolved)

	reloaded, err := New(router, store, func(o *Options) { o.Retention = 4 })
	require.NoError(t, err)
	assert.Equal(t, 4, len(reloaded.Solutions()))
}
