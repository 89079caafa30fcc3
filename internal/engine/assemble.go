package engine

import (
	"errors"
	"fmt"
	"strings"

	"trackshift-engine/internal/engine/recommendations"
	"trackshift-engine/internal/jobresult"
)

// Analysis domains the orchestrator runs. They select which detectors run
// per pair and which phrasing templates the summary uses.
const (
	DomainManufacturing  = "manufacturing"
	DomainInfrastructure = "infrastructure"
	DomainGeneral        = "general"
)

// demoJobPrefix marks job results served from bundled demo fixtures rather
// than a live pipeline run.
const demoJobPrefix = "demo-"

// Engine assembles completed job results into canonical analysis results.
// It is a pure transformation: no I/O, no shared state, safe to use from
// multiple goroutines.
type Engine struct {
	rules    Rules
	resolver ArtifactResolver
}

// New builds an engine with the given severity rules and artifact resolver.
func New(rules Rules, resolver ArtifactResolver) *Engine {
	return &Engine{rules: rules, resolver: resolver}
}

// Assemble reduces one completed job result into the canonical change ledger.
// A job whose status is not "completed" fails with JobIncompleteError and
// produces nothing; every lesser shape problem degrades silently into the
// returned trace instead.
func (e *Engine) Assemble(doc *jobresult.JobResult) (*AnalysisResult, *Trace, error) {
	if doc == nil {
		return nil, nil, errors.New("nil job result")
	}
	if doc.Status != jobresult.StatusCompleted {
		incomplete := &JobIncompleteError{JobID: doc.JobID, Status: doc.Status}
		if doc.Error != nil {
			incomplete.Stage = doc.Error.Stage
			incomplete.Message = doc.Error.Message
		}
		return nil, nil, incomplete
	}

	trace := &Trace{}
	assembler := &timelineAssembler{rules: e.rules, resolver: e.resolver, trace: trace}
	timeline, changes := assembler.assemble(doc)
	changes = ensureUniqueIDs(changes, trace)
	if changes == nil {
		changes = []Change{}
	}

	domain := normalizeDomain(doc.Domain())
	stats := collectStats(domain, timeline, changes, trace)

	result := &AnalysisResult{
		Summary:         buildSummary(domain, stats),
		Changes:         changes,
		Recommendations: recommendations.Generate(stats),
		IsDemoMode:      strings.HasPrefix(doc.JobID, demoJobPrefix),
		JobID:           doc.JobID,
		Timeline:        timeline,
	}
	return result, trace, nil
}

// ensureUniqueIDs enforces the ledger's uniqueness invariant even if a
// detector repeats region IDs within one pair.
func ensureUniqueIDs(changes []Change, trace *Trace) []Change {
	seen := make(map[string]int, len(changes))
	for i := range changes {
		id := changes[i].ID
		if count := seen[id]; count > 0 {
			changes[i].ID = fmt.Sprintf("%s-%d", id, count+1)
			trace.Recordf("ledger", "changes.id", "duplicate change id %q re-suffixed", id)
		}
		seen[id]++
	}
	return changes
}

func normalizeDomain(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DomainManufacturing:
		return DomainManufacturing
	case DomainInfrastructure:
		return DomainInfrastructure
	default:
		return DomainGeneral
	}
}

// collectStats reduces the assembled ledger to the aggregate numbers the
// summary templates and the recommendation engine consume.
func collectStats(domain string, timeline *Timeline, changes []Change, trace *Trace) recommendations.Input {
	input := recommendations.Input{
		Domain:          domain,
		ComparisonCount: len(timeline.Comparisons),
		DegradedFields:  trace.Len(),
	}
	for _, change := range changes {
		label := change.Description
		if idx := strings.Index(label, " ("); idx > 0 {
			label = label[:idx]
		}
		input.Changes = append(input.Changes, recommendations.ChangeSummary{
			ID:          change.ID,
			Label:       label,
			Detector:    detectorForID(change.ID),
			Impact:      string(change.Impact),
			Criticality: change.Criticality,
			RedFlags:    change.RedFlags,
		})
	}
	for _, comparison := range timeline.Comparisons {
		if comparison.Coverage != nil {
			if input.Coverage == nil || *comparison.Coverage > *input.Coverage {
				coverage := *comparison.Coverage
				input.Coverage = &coverage
			}
		}
		input.RegionCount += comparison.RegionCount
	}
	return input
}

func detectorForID(id string) string {
	for stage, prefix := range detectorPrefixes {
		if strings.HasPrefix(id, prefix+"-") {
			return stage
		}
	}
	return ""
}

// buildSummary renders the deterministic, template-based result summary from
// aggregate statistics. Nothing model-generated: the ledger stays fully
// explainable.
func buildSummary(domain string, stats recommendations.Input) string {
	high := 0
	for _, change := range stats.Changes {
		if strings.EqualFold(change.Impact, "high") {
			high++
		}
	}

	var b strings.Builder
	if len(stats.Changes) == 0 {
		fmt.Fprintf(&b, "No significant changes were detected across %d comparison(s).", stats.ComparisonCount)
	} else {
		fmt.Fprintf(&b, "Detected %d change(s) across %d comparison(s), %d high impact.",
			len(stats.Changes), stats.ComparisonCount, high)
	}

	switch domain {
	case DomainManufacturing:
		if stats.RegionCount > 0 {
			fmt.Fprintf(&b, " Board inspection flagged %d defect region(s).", stats.RegionCount)
		} else {
			b.WriteString(" Board inspection found no defect regions.")
		}
	case DomainInfrastructure:
		if stats.Coverage != nil {
			fmt.Fprintf(&b, " Structural drift coverage peaked at %.2f%% of the frame.", *stats.Coverage*100)
		} else {
			b.WriteString(" No structural drift coverage was reported.")
		}
	default:
		if high > 0 {
			b.WriteString(" High-impact component changes should be inspected before the next session.")
		}
	}
	return b.String()
}
