// Package oxproxion provides a high-level façade over the federation and
// routing engine: bidirectional knowledge synchronization with conflict
// resolution between two repositories, plus a stateful router that assigns
// problems to agents. Most applications interact with this package by:
//  1. Creating an Engine via New() (optionally overriding the default
//     in-memory state stores and the advisory backend)
//  2. Registering the agent pool
//  3. Submitting problems (Solve) and knowledge batches (Federate)
//
// The façade delegates to the federation, routing and orchestrator packages
// while keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments supply file-backed state
// stores, a real advisor and a structured logger.
package oxproxion

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/Bbowlby22/oxproxion/advisor/anthropic"
	"github.com/Bbowlby22/oxproxion/advisor/openai"
	"github.com/Bbowlby22/oxproxion/config"
	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/federation"
	"github.com/Bbowlby22/oxproxion/knowledge"
	"github.com/Bbowlby22/oxproxion/learning"
	"github.com/Bbowlby22/oxproxion/logging"
	"github.com/Bbowlby22/oxproxion/orchestrator"
	"github.com/Bbowlby22/oxproxion/routing"
	"github.com/Bbowlby22/oxproxion/state"
)

// Options configures the Engine.
type Options struct {
	// RepoA / RepoB name the two federated repositories.
	RepoA core.RepoID
	RepoB core.RepoID

	// LocalAgent is preferred on local routing requests.
	LocalAgent string
	// DefaultAgent, when non-empty, replaces the hard routing error on an
	// exhausted pool. Off by default.
	DefaultAgent string

	// State stores (default to in-memory implementations if not provided).
	SyncStore     core.StateStore
	RoutingStore  core.StateStore
	SolutionStore core.StateStore

	// Advisor is the external knowledge/chat backend (nil disables advisory
	// calls and learning writes).
	Advisor core.Advisor
	// LearningQueueSize bounds the async learning queue.
	LearningQueueSize int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Engine aggregates the sync ledger, conflict resolver, router and
// orchestrator behind one handle.
type Engine struct {
	ledger   *federation.Ledger
	resolver *federation.Resolver
	router   *routing.Router
	orch     *orchestrator.Orchestrator

	advisor core.Advisor
	logger  logging.Logger

	// notifier is owned by the engine when it created one; Close stops it.
	notifier *learning.Notifier
}

// New creates an Engine with optional overrides. Any unset store is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) (*Engine, error) {
	opts := Options{
		RepoA:             core.RepoOmniLore,
		RepoB:             core.RepoOxproxion,
		LocalAgent:        string(core.RepoOxproxion),
		SyncStore:         state.NewInMemoryStore(),
		RoutingStore:      state.NewInMemoryStore(),
		SolutionStore:     state.NewInMemoryStore(),
		LearningQueueSize: learning.DefaultQueueSize,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var learner core.LearningSink = learning.Discard{}
	var notifier *learning.Notifier
	if opts.Advisor != nil {
		notifier = learning.NewNotifier(opts.Advisor, func(o *learning.Options) {
			o.Logger = opts.Logger
			o.QueueSize = opts.LearningQueueSize
		})
		learner = notifier
	}

	ledger, err := federation.NewLedger(opts.SyncStore, func(o *federation.Options) {
		o.Logger = opts.Logger
		o.RepoA = opts.RepoA
		o.RepoB = opts.RepoB
	})
	if err != nil {
		return nil, err
	}

	resolver := federation.NewResolver(func(o *federation.ResolverOptions) {
		o.Logger = opts.Logger
		o.Learner = learner
	})

	router, err := routing.NewRouter(opts.RoutingStore, func(o *routing.Options) {
		o.Logger = opts.Logger
		o.Advisor = opts.Advisor
		o.Learner = learner
		o.LocalAgent = opts.LocalAgent
		o.DefaultAgent = opts.DefaultAgent
	})
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(router, opts.SolutionStore, func(o *orchestrator.Options) {
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		ledger:   ledger,
		resolver: resolver,
		router:   router,
		orch:     orch,
		advisor:  opts.Advisor,
		logger:   opts.Logger,
		notifier: notifier,
	}, nil
}

// NewFromConfig wires an Engine from file configuration: file-backed state
// stores under the state directory, the configured advisor provider, and
// the configured agent pool.
func NewFromConfig(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	adv, err := buildAdvisor(cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	engine, err := New(func(o *Options) {
		o.RepoA = cfg.RepoA
		o.RepoB = cfg.RepoB
		o.LocalAgent = cfg.LocalAgent
		o.DefaultAgent = cfg.DefaultAgent
		o.SyncStore = state.NewFileStore(cfg.SyncStatePath())
		o.RoutingStore = state.NewFileStore(cfg.RoutingStatePath())
		o.SolutionStore = state.NewFileStore(cfg.SolutionStatePath())
		o.Advisor = adv
		if cfg.Learning.QueueSize > 0 {
			o.LearningQueueSize = cfg.Learning.QueueSize
		}
		o.Logger = logger
	})
	if err != nil {
		return nil, err
	}

	for _, a := range cfg.Agents {
		engine.RegisterAgent(core.AgentDescriptor{
			Name:        a.Name,
			Available:   a.Available,
			CurrentLoad: a.Load,
		})
	}
	return engine, nil
}

func buildAdvisor(cfg *config.Config) (core.Advisor, error) {
	var journal *learning.Journal
	if cfg.Advisor.JournalPath != "" {
		j, err := learning.OpenJournal(cfg.Advisor.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open learning journal: %w", err)
		}
		journal = j
	}

	switch cfg.Advisor.Provider {
	case "anthropic":
		return anthropic.NewAdvisor(func(o *anthropic.Options) {
			if cfg.Advisor.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Advisor.Model)
			}
			o.APIKey = cfg.Advisor.APIKey
			o.Journal = journal
		}), nil
	case "openai":
		return openai.NewAdvisor(func(o *openai.Options) {
			if cfg.Advisor.Model != "" {
				o.Model = cfg.Advisor.Model
			}
			o.Journal = journal
		}), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown advisor provider %q", cfg.Advisor.Provider)
	}
}

// RegisterAgent adds an agent to the router pool.
func (e *Engine) RegisterAgent(desc core.AgentDescriptor) { e.router.RegisterAgent(desc) }

// Solve routes a problem to an agent and records the solution. An empty
// problemType defaults to "general".
func (e *Engine) Solve(ctx context.Context, problem, problemType string) (core.SolutionRecord, error) {
	return e.orch.Solve(ctx, problem, problemType)
}

// RegisterSync appends one sync event to the ledger.
func (e *Engine) RegisterSync(entryID string, dir core.Direction) error {
	return e.ledger.RegisterSync(entryID, dir)
}

// SyncBatch registers a batch of entries without conflict handling; see
// Federate for the full pre-step.
func (e *Engine) SyncBatch(entries []core.KnowledgeEntry, dir core.Direction) core.SyncResult {
	return e.ledger.SyncBatch(entries, dir)
}

// Resolve merges two competing entries deterministically.
func (e *Engine) Resolve(a, b core.KnowledgeEntry) core.KnowledgeEntry {
	return e.resolver.Resolve(a, b)
}

// Federate runs the full synchronization flow for a batch flowing in the
// given direction: entries colliding with the existing set are resolved
// first, then the batch is registered with the ledger. It returns the sync
// result (with the conflict count filled in) and the entry set the target
// repository should keep: conflict winners plus all non-conflicting
// incoming entries.
func (e *Engine) Federate(incoming, existing []core.KnowledgeEntry, dir core.Direction) (core.SyncResult, []core.KnowledgeEntry) {
	pairs := federation.DetectConflicts(existing, incoming)
	winners := make(map[string]core.KnowledgeEntry, len(pairs))
	for _, pair := range pairs {
		winners[pair.Remote.ID] = e.resolver.Resolve(pair.Local, pair.Remote)
	}

	accepted := make([]core.KnowledgeEntry, 0, len(incoming))
	for _, entry := range incoming {
		if winner, ok := winners[entry.ID]; ok {
			accepted = append(accepted, winner)
		} else {
			accepted = append(accepted, entry)
		}
	}

	result := e.ledger.SyncBatch(incoming, dir)
	result.Conflicts = len(pairs)
	return result, accepted
}

// ImportSnapshot replays a knowledge snapshot file into the learning
// backend. Requires an advisor.
func (e *Engine) ImportSnapshot(ctx context.Context, path string) (knowledge.ImportResult, error) {
	if e.advisor == nil {
		return knowledge.ImportResult{}, fmt.Errorf("no advisor configured for import")
	}
	importer := knowledge.NewImporter(e.advisor, func(o *knowledge.ImporterOptions) {
		o.Logger = e.logger
	})
	return importer.ImportFile(ctx, path)
}

// ExportSnapshot walks the given knowledge source and writes a portable
// snapshot file.
func (e *Engine) ExportSnapshot(ctx context.Context, source core.KnowledgeSource, path string) (*knowledge.Snapshot, error) {
	exporter := knowledge.NewExporter(source, func(o *knowledge.ExporterOptions) {
		o.Logger = e.logger
	})
	return exporter.ExportToFile(ctx, path)
}

// Router exposes the underlying router for pool maintenance.
func (e *Engine) Router() *routing.Router { return e.router }

// SyncStats aggregates the sync ledger.
func (e *Engine) SyncStats() core.SyncStats { return e.ledger.Stats() }

// Stats aggregates solve history and routing statistics.
func (e *Engine) Stats() core.OrchestrationStats { return e.orch.Stats() }

// Close stops the background learning notifier, draining queued records.
func (e *Engine) Close() {
	if e.notifier != nil {
		e.notifier.Close()
	}
}
