package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bbowlby22/oxproxion/advisor"
	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/state"
)

func newTestRouter(t *testing.T, optFns ...func(o *Options)) *Router {
	t.Helper()
	r, err := NewRouter(state.NewInMemoryStore(), optFns...)
	require.NoError(t, err)
	return r
}

func agentDesc(name string, available bool, load int) core.AgentDescriptor {
	return core.AgentDescriptor{Name: name, Available: available, CurrentLoad: load}
}

func TestRouter_SelectsLowestLoad(t *testing.T) {
	r := newTestRouter(t)
	r.RegisterAgent(agentDesc("omnilore", true, 3))
	r.RegisterAgent(agentDesc("oxproxion", true, 1))

	got, err := r.SelectAgent(context.Background(), "code", false)
	require.NoError(t, err)
	assert.Equal(t, "oxproxion", got)
}

func TestRouter_SkipsUnavailableAgents(t *testing.T) {
	r := newTestRouter(t)
	r.RegisterAgent(agentDesc("a", false, 0))
	r.RegisterAgent(agentDesc("b", true, 9))

	got, err := r.SelectAgent(context.Background(), "general", false)
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestRouter_TieBreaksToFirstRegistered(t *testing.T) {
	r := newTestRouter(t)
	r.RegisterAgent(agentDesc("first", true, 2))
	r.RegisterAgent(agentDesc("second", true, 2))
	r.RegisterAgent(agentDesc("third", true, 2))

	// Deterministic across repeated calls.
	for i := 0; i < 5; i++ {
		got, err := r.SelectAgent(context.Background(), "general", false)
		require.NoError(t, err)
		assert.Equal(t, "first", got)
	}
}

func TestRouter_EmptyPoolIsHardError(t *testing.T) {
	r := newTestRouter(t)

	_, err := r.SelectAgent(context.Background(), "general", false)
	assert.ErrorIs(t, err, core.ErrNoAgentAvailable)
	assert.ErrorIs(t, err, core.ErrEmptyPool)
}

func TestRouter_AllUnavailableIsHardError(t *testing.T) {
	r := newTestRouter(t)
	r.RegisterAgent(agentDesc("a", false, 0))
	r.RegisterAgent(agentDesc("b", false, 0))

	_, err := r.SelectAgent(context.Background(), "general", false)
	assert.ErrorIs(t, err, core.ErrNoAgentAvailable)
}

func TestRouter_ExplicitDefaultAgent(t *testing.T) {
	r := newTestRouter(t, func(o *Options) { o.DefaultAgent = "fallback" })
	r.RegisterAgent(agentDesc("a", false, 0))

	got, err := r.SelectAgent(context.Background(), "general", false)
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
	// The default path is not a routing decision and records no history.
	assert.Zero(t, r.Stats().TotalRouted)
}

func TestRouter_PreferLocal(t *testing.T) {
	r := newTestRouter(t, func(o *Options) { o.LocalAgent = "oxproxion" })
	r.RegisterAgent(agentDesc("omnilore", true, 0))
	r.RegisterAgent(agentDesc("oxproxion", true, 7))

	got, err := r.SelectAgent(context.Background(), "general", true)
	require.NoError(t, err)
	assert.Equal(t, "oxproxion", got)
}

func TestRouter_PreferLocalFallsBackInPoolOrder(t *testing.T) {
	r := newTestRouter(t, func(o *Options) { o.LocalAgent = "oxproxion" })
	r.RegisterAgent(agentDesc("omnilore", true, 5))
	r.RegisterAgent(agentDesc("oxproxion", false, 0))

	got, err := r.SelectAgent(context.Background(), "general", true)
	require.NoError(t, err)
	assert.Equal(t, "omnilore", got)
}

func TestRouter_PreferLocalNoAvailableAgents(t *testing.T) {
	r := newTestRouter(t, func(o *Options) { o.LocalAgent = "oxproxion" })
	r.RegisterAgent(agentDesc("oxproxion", false, 0))

	_, err := r.SelectAgent(context.Background(), "general", true)
	assert.ErrorIs(t, err, core.ErrNoAgentAvailable)
}

func TestRouter_AdvisorBreaksExactTies(t *testing.T) {
	mock := advisor.NewMock()
	mock.ChatReply = "I'd send this one to oxproxion."

	r := newTestRouter(t, func(o *Options) { o.Advisor = mock })
	r.RegisterAgent(agentDesc("omnilore", true, 2))
	r.RegisterAgent(agentDesc("oxproxion", true, 2))

	got, err := r.SelectAgent(context.Background(), "code", false)
	require.NoError(t, err)
	assert.Equal(t, "oxproxion", got)
}

func TestRouter_AdvisorCannotOverrideLoadOrder(t *testing.T) {
	mock := advisor.NewMock()
	mock.ChatReply = "omnilore"

	r := newTestRouter(t, func(o *Options) { o.Advisor = mock })
	r.RegisterAgent(agentDesc("omnilore", true, 5))
	r.RegisterAgent(agentDesc("oxproxion", true, 1))

	// No tie: the advisor is not consulted and load wins.
	got, err := r.SelectAgent(context.Background(), "code", false)
	require.NoError(t, err)
	assert.Equal(t, "oxproxion", got)
	assert.Zero(t, mock.ChatCalls())
}

func TestRouter_AdvisorFailureDegradesToDeterministic(t *testing.T) {
	mock := advisor.NewMock()
	mock.Err = errors.New("backend offline")

	r := newTestRouter(t, func(o *Options) { o.Advisor = mock })
	r.RegisterAgent(agentDesc("first", true, 0))
	r.RegisterAgent(agentDesc("second", true, 0))

	got, err := r.SelectAgent(context.Background(), "general", false)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestRouter_AmbiguousAdviceIsIgnored(t *testing.T) {
	mock := advisor.NewMock()
	mock.ChatReply = "either omnilore or oxproxion would work"

	r := newTestRouter(t, func(o *Options) { o.Advisor = mock })
	r.RegisterAgent(agentDesc("omnilore", true, 1))
	r.RegisterAgent(agentDesc("oxproxion", true, 1))

	got, err := r.SelectAgent(context.Background(), "general", false)
	require.NoError(t, err)
	assert.Equal(t, "omnilore", got)
}

func TestRouter_Stats(t *testing.T) {
	r := newTestRouter(t)
	r.RegisterAgent(agentDesc("a", true, 0))
	r.RegisterAgent(agentDesc("b", true, 1))

	for i := 0; i < 3; i++ {
		_, err := r.SelectAgent(context.Background(), "code", false)
		require.NoError(t, err)
	}
	_, err := r.SelectAgent(context.Background(), "infra", false)
	require.NoError(t, err)

	stats := r.Stats()
	assert.Equal(t, 4, stats.TotalRouted)
	assert.Equal(t, 4, stats.ByAgent["a"])
	assert.Equal(t, 3, stats.ByProblemType["code"])
	assert.Equal(t, 1, stats.ByProblemType["infra"])
	require.NotNil(t, stats.LastRouting)
	assert.Equal(t, "infra", stats.LastRouting.ProblemType)
}

func TestRouter_StatsEmpty(t *testing.T) {
	r := newTestRouter(t)
	stats := r.Stats()
	assert.Zero(t, stats.TotalRouted)
	assert.Empty(t, stats.ByAgent)
	assert.Nil(t, stats.LastRouting)
}

func TestRouter_HistoryReloadsAcrossRestart(t *testing.T) {
	store := state.NewInMemoryStore()
	first, err := NewRouter(store)
	require.NoError(t, err)
	first.RegisterAgent(agentDesc("a", true, 0))
	_, err = first.SelectAgent(context.Background(), "code", false)
	require.NoError(t, err)

	second, err := NewRouter(store)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats().TotalRouted)
}

func TestRouter_ReRegisterUpdatesInPlace(t *testing.T) {
	r := newTestRouter(t)
	r.RegisterAgent(agentDesc("a", true, 5))
	r.RegisterAgent(agentDesc("b", true, 5))
	r.RegisterAgent(agentDesc("a", true, 5)) // no position change

	got, err := r.SelectAgent(context.Background(), "general", false)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestRouter_LearnerReceivesDecision(t *testing.T) {
	sink := &captureSink{}
	r := newTestRouter(t, func(o *Options) { o.Learner = sink })
	r.RegisterAgent(agentDesc("a", true, 0))

	_, err := r.SelectAgent(context.Background(), "code", false)
	require.NoError(t, err)

	require.Len(t, sink.learnings, 1)
	assert.Equal(t, "routing_decision", sink.learnings[0].Category)
	assert.Equal(t, core.TTLPermanent, sink.learnings[0].TTLDays)
}

type captureSink struct {
	learnings []core.Learning
}

func (c *captureSink) Notify(l core.Learning) { c.learnings = append(c.learnings, l) }
