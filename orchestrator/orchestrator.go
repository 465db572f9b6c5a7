package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/internal/util"
	"github.com/Bbowlby22/oxproxion/logging"
	"github.com/Bbowlby22/oxproxion/routing"
)

// DefaultProblemType is assumed when a caller submits a problem without a
// type.
const DefaultProblemType = "general"

// DefaultRetention bounds the persisted solution history.
const DefaultRetention = 100

// solutionDocument is the persisted shape of the orchestrator state.
type solutionDocument struct {
	LastUpdated    time.Time             `json:"last_updated"`
	TotalSolutions int                   `json:"total_solutions"`
	RouterStats    core.RoutingStats     `json:"router_stats"`
	Solutions      []core.SolutionRecord `json:"solutions"`
}

// Options configures an Orchestrator.
type Options struct {
	// Logger receives solve events; defaults to NoOpLogger.
	Logger logging.Logger
	// Retention bounds the persisted history (default DefaultRetention).
	Retention int
}

// Orchestrator owns the solution ledger and is the only caller of the
// router's SelectAgent in the solve path. Safe for concurrent use.
type Orchestrator struct {
	router    *routing.Router
	store     core.StateStore
	logger    logging.Logger
	retention int

	mu        sync.Mutex
	solutions []core.SolutionRecord
}

// New constructs an Orchestrator over the given router, loading any
// previously persisted solution history.
func New(router *routing.Router, store core.StateStore, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Logger:    logging.NoOpLogger{},
		Retention: DefaultRetention,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	o := &Orchestrator{
		router:    router,
		store:     store,
		logger:    opts.Logger,
		retention: opts.Retention,
	}

	var doc solutionDocument
	if err := store.Load(&doc); err != nil {
		if !errors.Is(err, core.ErrStateNotFound) {
			return nil, fmt.Errorf("load solution history: %w", err)
		}
	} else {
		o.solutions = doc.Solutions
	}
	return o, nil
}

// Solve routes the problem to an agent and records the solution. An empty
// problemType defaults to DefaultProblemType. A routing failure surfaces to
// the caller and records nothing; a persistence failure surfaces as a
// PersistenceError with the record already appended in memory.
func (o *Orchestrator) Solve(ctx context.Context, problem, problemType string) (core.SolutionRecord, error) {
	if problemType == "" {
		problemType = DefaultProblemType
	}

	agent, err := o.router.SelectAgent(ctx, problemType, false)
	if err != nil {
		return core.SolutionRecord{}, fmt.Errorf("route problem: %w", err)
	}

	record := core.SolutionRecord{
		ID:          util.NewID(),
		Timestamp:   time.Now().UTC(),
		Problem:     problem,
		ProblemType: problemType,
		SolvedBy:    agent,
		Status:      core.StatusSolved,
	}

	o.mu.Lock()
	o.solutions = append(o.solutions, record)
	err = o.persistLocked()
	o.mu.Unlock()
	if err != nil {
		return record, err
	}

	o.logger.Info("problem solved",
		"problem_type", problemType, "solved_by", agent, "solution_id", record.ID)
	return record, nil
}

// Stats aggregates the solution history and the underlying routing stats.
func (o *Orchestrator) Stats() core.OrchestrationStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	stats := core.OrchestrationStats{
		TotalSolved: len(o.solutions),
		Routing:     o.router.Stats(),
	}
	if len(o.solutions) == 0 {
		return stats
	}

	solved := 0
	for _, rec := range o.solutions {
		if rec.Status == core.StatusSolved {
			solved++
		}
	}
	stats.SuccessRate = float64(solved) / float64(len(o.solutions))

	last := o.solutions[len(o.solutions)-1].Timestamp
	stats.LastSolution = &last
	return stats
}

// Solutions returns a defensive copy of the in-memory solution history.
func (o *Orchestrator) Solutions() []core.SolutionRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]core.SolutionRecord, len(o.solutions))
	copy(out, o.solutions)
	return out
}

// persistLocked writes the state document, trimming the persisted history
// to the retention window. Caller must hold o.mu.
func (o *Orchestrator) persistLocked() error {
	solutions := o.solutions
	if len(solutions) > o.retention {
		solutions = solutions[len(solutions)-o.retention:]
	}
	return o.store.Save(solutionDocument{
		LastUpdated:    time.Now().UTC(),
		TotalSolutions: len(o.solutions),
		RouterStats:    o.router.Stats(),
		Solutions:      solutions,
	})
}
