package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/logging"
)

// DefaultRetention bounds the persisted routing history.
const DefaultRetention = 100

// routingDocument is the persisted shape of the router state.
type routingDocument struct {
	LastUpdated time.Time            `json:"last_updated"`
	TotalRouted int                  `json:"total_routed"`
	Routings    []core.RoutingRecord `json:"routings"`
}

// Options configures a Router.
type Options struct {
	// Logger receives routing events; defaults to NoOpLogger.
	Logger logging.Logger
	// Advisor, when set, is consulted for guidance on load ties. Calls are
	// best-effort: failures degrade to the deterministic tie-break.
	Advisor core.Advisor
	// Learner receives routing decisions as permanent learnings. Defaults
	// to none.
	Learner core.LearningSink
	// LocalAgent names the agent preferred when a caller asks for local
	// routing.
	LocalAgent string
	// DefaultAgent, when non-empty, is returned instead of
	// core.ErrNoAgentAvailable when no agent in the pool is available. Off
	// by default: routing failure is a hard error unless a default is
	// configured explicitly.
	DefaultAgent string
	// Retention bounds the persisted history (default DefaultRetention).
	Retention int
	// AdvisorTimeout bounds each advisory call (default 5s).
	AdvisorTimeout time.Duration
}

// Router selects agents for problems and tracks routing history. The agent
// pool lives in memory for the lifetime of the process; the decision history
// is persisted through the state store with the same append-then-save
// discipline as the sync ledger. Safe for concurrent use.
type Router struct {
	store          core.StateStore
	logger         logging.Logger
	advisor        core.Advisor
	learner        core.LearningSink
	localAgent     string
	defaultAgent   string
	retention      int
	advisorTimeout time.Duration

	mu      sync.Mutex
	pool    []core.AgentDescriptor // registration order is the tie-break order
	history []core.RoutingRecord
}

// NewRouter constructs a Router backed by the given store, loading any
// previously persisted decision history. The store may be nil, in which
// case history lives in memory only.
func NewRouter(store core.StateStore, optFns ...func(o *Options)) (*Router, error) {
	opts := Options{
		Logger:         logging.NoOpLogger{},
		Retention:      DefaultRetention,
		AdvisorTimeout: 5 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := &Router{
		store:          store,
		logger:         opts.Logger,
		advisor:        opts.Advisor,
		learner:        opts.Learner,
		localAgent:     opts.LocalAgent,
		defaultAgent:   opts.DefaultAgent,
		retention:      opts.Retention,
		advisorTimeout: opts.AdvisorTimeout,
	}

	if store != nil {
		var doc routingDocument
		if err := store.Load(&doc); err != nil {
			if !errors.Is(err, core.ErrStateNotFound) {
				return nil, fmt.Errorf("load routing history: %w", err)
			}
		} else {
			r.history = doc.Routings
		}
	}
	return r, nil
}

// RegisterAgent adds an agent to the pool. Registering an existing name
// updates the descriptor in place without changing its tie-break position.
func (r *Router) RegisterAgent(desc core.AgentDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pool {
		if r.pool[i].Name == desc.Name {
			r.pool[i] = desc
			return
		}
	}
	r.pool = append(r.pool, desc)
	r.logger.Debug("agent registered", "agent", desc.Name, "load", desc.CurrentLoad)
}

// SetAvailability flips an agent's availability, reporting whether the agent
// was found.
func (r *Router) SetAvailability(name string, available bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pool {
		if r.pool[i].Name == name {
			r.pool[i].Available = available
			return true
		}
	}
	return false
}

// SetLoad updates an agent's current load, reporting whether the agent was
// found. Load is externally maintained; the router does not increment it on
// selection.
func (r *Router) SetLoad(name string, load int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pool {
		if r.pool[i].Name == name {
			r.pool[i].CurrentLoad = load
			return true
		}
	}
	return false
}

// Agents returns a defensive copy of the pool in registration order.
func (r *Router) Agents() []core.AgentDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	pool := make([]core.AgentDescriptor, len(r.pool))
	copy(pool, r.pool)
	return pool
}

// SelectAgent picks an agent for the given problem type.
//
// With preferLocal set, the configured local agent wins when available,
// otherwise the first available agent in registration order; no routing
// record is appended on this branch.
//
// Otherwise the available agent with the lowest current load wins, ties
// broken by registration order. When an advisor is configured and several
// agents tie exactly, its advice may pick among the tied agents; advice
// naming anything else is ignored. Each load-based selection appends a
// routing record and persists the history.
//
// No available agent yields core.ErrNoAgentAvailable unless an explicit
// default agent was configured.
func (r *Router) SelectAgent(ctx context.Context, problemType string, preferLocal bool) (string, error) {
	r.mu.Lock()
	pool := make([]core.AgentDescriptor, len(r.pool))
	copy(pool, r.pool)
	r.mu.Unlock()

	if len(pool) == 0 {
		if r.defaultAgent != "" {
			return r.defaultAgent, nil
		}
		return "", core.ErrEmptyPool
	}

	if preferLocal {
		return r.selectLocal(pool)
	}

	tied := minLoadAgents(pool)
	if len(tied) == 0 {
		if r.defaultAgent != "" {
			r.logger.Warn("no agent available, using configured default",
				"default", r.defaultAgent, "problem_type", problemType)
			return r.defaultAgent, nil
		}
		return "", core.ErrNoAgentAvailable
	}

	selected := tied[0]
	rationale := fmt.Sprintf("lowest load %d", selected.CurrentLoad)
	if len(tied) > 1 {
		rationale = fmt.Sprintf("load tie at %d, first registered", selected.CurrentLoad)
		// Advisor is consulted outside the lock; it is advice, not the
		// decision. Only an exact match on a tied agent name overrides the
		// registration-order tie-break.
		if advised, ok := r.consultAdvisor(ctx, problemType, tied); ok {
			selected = advised
			rationale = fmt.Sprintf("load tie at %d, advisor preferred %s", selected.CurrentLoad, selected.Name)
		}
	}

	record := core.RoutingRecord{
		Timestamp:     time.Now().UTC(),
		ProblemType:   problemType,
		SelectedAgent: selected.Name,
		Rationale:     rationale,
	}

	r.mu.Lock()
	r.history = append(r.history, record)
	err := r.persistLocked()
	r.mu.Unlock()
	if err != nil {
		// The selection already happened; a history persist failure is not
		// grounds to fail the route.
		r.logger.Warn("routing history persist failed", "error", err)
	}

	r.logger.Info("problem routed",
		"problem_type", problemType, "agent", selected.Name, "rationale", rationale)

	if r.learner != nil {
		r.learner.Notify(core.Learning{
			Query:    fmt.Sprintf("How do I route a %s problem to the best agent?", problemType),
			Response: fmt.Sprintf("Route to %s: %s", selected.Name, rationale),
			Category: "routing_decision",
			TTLDays:  core.TTLPermanent,
		})
	}
	return selected.Name, nil
}

// Stats aggregates the routing history.
func (r *Router) Stats() core.RoutingStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := core.RoutingStats{
		TotalRouted:   len(r.history),
		ByAgent:       make(map[string]int),
		ByProblemType: make(map[string]int),
	}
	for _, rec := range r.history {
		stats.ByAgent[rec.SelectedAgent]++
		stats.ByProblemType[rec.ProblemType]++
	}
	if len(r.history) > 0 {
		last := r.history[len(r.history)-1]
		stats.LastRouting = &last
	}
	return stats
}

func (r *Router) selectLocal(pool []core.AgentDescriptor) (string, error) {
	for _, desc := range pool {
		if desc.Name == r.localAgent && desc.Available {
			return desc.Name, nil
		}
	}
	for _, desc := range pool {
		if desc.Available {
			return desc.Name, nil
		}
	}
	if r.defaultAgent != "" {
		return r.defaultAgent, nil
	}
	return "", core.ErrNoAgentAvailable
}

// consultAdvisor asks the advisor to pick among tied agents. The reply must
// name exactly one tied agent to take effect.
func (r *Router) consultAdvisor(ctx context.Context, problemType string, tied []core.AgentDescriptor) (core.AgentDescriptor, bool) {
	if r.advisor == nil {
		return core.AgentDescriptor{}, false
	}

	names := make([]string, len(tied))
	for i, desc := range tied {
		names[i] = desc.Name
	}

	ctx, cancel := context.WithTimeout(ctx, r.advisorTimeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Problem type: %s\nAgents tied on load: %s\nReply with exactly one of those agent names.",
		problemType, strings.Join(names, ", "),
	)
	reply, err := r.advisor.Chat(ctx, prompt)
	if err != nil {
		r.logger.Debug("advisor unavailable for tie-break", "error", err)
		return core.AgentDescriptor{}, false
	}

	reply = strings.ToLower(strings.TrimSpace(reply))
	var match core.AgentDescriptor
	matches := 0
	for _, desc := range tied {
		if strings.Contains(reply, strings.ToLower(desc.Name)) {
			match = desc
			matches++
		}
	}
	if matches != 1 {
		r.logger.Debug("advisor reply did not name exactly one tied agent", "reply", reply)
		return core.AgentDescriptor{}, false
	}
	return match, true
}

// minLoadAgents returns all available agents carrying the minimum load, in
// registration order.
func minLoadAgents(pool []core.AgentDescriptor) []core.AgentDescriptor {
	var tied []core.AgentDescriptor
	for _, desc := range pool {
		if !desc.Available {
			continue
		}
		switch {
		case len(tied) == 0, desc.CurrentLoad < tied[0].CurrentLoad:
			tied = []core.AgentDescriptor{desc}
		case desc.CurrentLoad == tied[0].CurrentLoad:
			tied = append(tied, desc)
		}
	}
	return tied
}

// persistLocked writes the routing document, trimming to the retention
// window. Caller must hold r.mu. A nil store is a no-op.
func (r *Router) persistLocked() error {
	if r.store == nil {
		return nil
	}
	routings := r.history
	if len(routings) > r.retention {
		routings = routings[len(routings)-r.retention:]
	}
	return r.store.Save(routingDocument{
		LastUpdated: time.Now().UTC(),
		TotalRouted: len(r.history),
		Routings:    routings,
	})
}
