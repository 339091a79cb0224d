package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/mkovac/journal-insights/internal/models"
)

// RunStatus classifies the outcome of one orchestrated run
type RunStatus int

const (
	StatusSkipped RunStatus = iota
	StatusGenerated
	StatusFailed
)

func (s RunStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusGenerated:
		return "generated"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// RunOutcome is the result of Orchestrator.Run. Skip carries the reason
// when Status is StatusSkipped; Err is set when Status is StatusFailed.
type RunOutcome struct {
	Type   string
	Status RunStatus
	Skip   Decision
	Err    error
}

// Orchestrator executes the generation pipeline for registered insight
// types. At most one run per identifier is in flight at any time; runs
// for different identifiers proceed independently. A failed run leaves
// the previously persisted record untouched.
type Orchestrator struct {
	registry *Registry
	entries  EntryStore
	insights InsightStore
	backend  Backend
	clock    clockwork.Clock

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewOrchestrator wires the orchestrator with its collaborators. Pass
// clockwork.NewRealClock() outside tests.
func NewOrchestrator(registry *Registry, entries EntryStore, insights InsightStore, backend Backend, clock clockwork.Clock) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		entries:  entries,
		insights: insights,
		backend:  backend,
		clock:    clock,
		inFlight: make(map[string]bool),
	}
}

// Run executes the pipeline for one insight type. force bypasses the
// interval, activity-window and no-new-data checks but never the minimum
// entry count. A concurrent call for the same identifier is rejected and
// reported as skipped.
func (o *Orchestrator) Run(ctx context.Context, identifier string, force bool) RunOutcome {
	pol, ok := o.registry.Policy(identifier)
	if !ok {
		return RunOutcome{Type: identifier, Status: StatusFailed, Err: fmt.Errorf("unknown insight type %q", identifier)}
	}

	if !o.acquire(identifier) {
		return RunOutcome{Type: identifier, Status: StatusSkipped, Skip: SkipAlreadyRunning}
	}
	defer o.release(identifier)

	now := o.clock.Now()

	last, err := o.insights.Latest(ctx, identifier)
	if err != nil {
		return RunOutcome{Type: identifier, Status: StatusFailed, Err: fmt.Errorf("loading last record: %w", err)}
	}

	all, err := o.entries.ListAll(ctx)
	if err != nil {
		return RunOutcome{Type: identifier, Status: StatusFailed, Err: fmt.Errorf("listing entries: %w", err)}
	}
	window, covered := SelectWindow(now, all, pol.Window)

	decision := ShouldGenerate(now, last, pol, window, force)
	if decision != Proceed {
		if decision == SkipNoNewData {
			// Bump the timestamp so the next trigger does not re-check
			// immediately. The payload stays untouched.
			if err := o.insights.TouchTimestamp(ctx, identifier, now); err != nil {
				log.Printf("touching %s timestamp: %v", identifier, err)
			}
		}
		log.Printf("Skipping %s: %s", identifier, decision)
		return RunOutcome{Type: identifier, Status: StatusSkipped, Skip: decision}
	}

	deps := o.resolveDependencies(ctx, pol.Dependencies)

	gc := &GenerationContext{
		Now:          now,
		Entries:      window,
		Dependencies: deps,
		Covered:      covered,
	}

	raw, err := o.backend.GenerateStructured(ctx, pol.Strategy.SystemPrompt(), pol.Strategy.UserMessage(gc))
	if err != nil {
		log.Printf("Generation failed for %s: %v", identifier, err)
		return RunOutcome{Type: identifier, Status: StatusFailed, Err: err}
	}

	payload, err := pol.Strategy.DecodePayload(raw)
	if err != nil {
		derr := &DecodeError{Type: identifier, Err: err}
		log.Printf("Discarding %s result: %v", identifier, derr)
		return RunOutcome{Type: identifier, Status: StatusFailed, Err: derr}
	}

	record := models.InsightRecord{
		Type:         identifier,
		GeneratedAt:  now,
		Payload:      payload,
		CoveredRange: covered,
	}
	if err := o.insights.Save(ctx, record); err != nil {
		// The generation succeeded but its result is lost; it will not be
		// reattempted until the next scheduled window.
		perr := &PersistError{Type: identifier, Err: err}
		log.Printf("ERROR: %v (generation result lost)", perr)
		return RunOutcome{Type: identifier, Status: StatusFailed, Err: perr}
	}

	log.Printf("Generated %s (%d entries in window)", identifier, len(window))
	return RunOutcome{Type: identifier, Status: StatusGenerated}
}

// RunAll runs every registered type in registration order and returns
// the outcomes. Dependent types read the last persisted value of their
// dependencies; a sibling run completing concurrently is picked up on
// the next trigger cycle.
func (o *Orchestrator) RunAll(ctx context.Context, force bool) []RunOutcome {
	ids := o.registry.Identifiers()
	outcomes := make([]RunOutcome, 0, len(ids))
	for _, id := range ids {
		outcomes = append(outcomes, o.Run(ctx, id, force))
	}
	return outcomes
}

// resolveDependencies fetches the latest payload of each dependency.
// Absence or a read failure maps to a nil payload; generation proceeds
// with reduced context either way.
func (o *Orchestrator) resolveDependencies(ctx context.Context, ids []string) map[string]json.RawMessage {
	if len(ids) == 0 {
		return nil
	}

	deps := make(map[string]json.RawMessage, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			var payload json.RawMessage
			rec, err := o.insights.Latest(ctx, id)
			if err != nil {
				log.Printf("resolving dependency %s: %v", id, err)
			} else if rec != nil {
				payload = rec.Payload
			}
			mu.Lock()
			deps[id] = payload
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return deps
}

func (o *Orchestrator) acquire(identifier string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight[identifier] {
		return false
	}
	o.inFlight[identifier] = true
	return true
}

func (o *Orchestrator) release(identifier string) {
	o.mu.Lock()
	delete(o.inFlight, identifier)
	o.mu.Unlock()
}
