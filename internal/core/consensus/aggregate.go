package consensus

import (
	"sort"

	"github.com/agenthands/quorum/internal/core/model"
)

// Aggregate compares every field seen across a round's backend results and
// partitions them into agreed and disagreed. Error results contribute no
// candidates; a field whose candidates are all null contributes no signal
// and is excluded from both sides. Field names are visited in sorted order
// so the report is deterministic for a given results list.
func Aggregate(results []model.BackendResult, tol Tolerances) model.ConsensusReport {
	fieldSet := make(map[string]struct{})
	for _, r := range results {
		if r.Failed() {
			continue
		}
		for name := range r.Fields {
			fieldSet[name] = struct{}{}
		}
	}

	fields := make([]string, 0, len(fieldSet))
	for name := range fieldSet {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	report := model.ConsensusReport{
		Agreed:    make(map[string]model.AgreedField),
		Disagreed: make(map[string]model.DisagreedField),
	}

	for _, name := range fields {
		candidates := collectCandidates(results, name)
		agree, value, reason := Compare(candidates, tol)
		switch {
		case agree:
			report.Agreed[name] = model.AgreedField{Value: value, Evidence: candidates}
		case reason == ReasonNoValues:
			// No backend offered a usable value; not a disagreement.
		default:
			report.Disagreed[name] = model.DisagreedField{Candidates: candidates, Reason: reason}
		}
	}

	return report
}

// collectCandidates flattens one field out of every non-error result.
// A backend silent on the field contributes a null candidate, which the
// comparator discards but the audit trail keeps.
func collectCandidates(results []model.BackendResult, field string) []model.FieldCandidate {
	candidates := make([]model.FieldCandidate, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			continue
		}
		candidates = append(candidates, model.FieldCandidate{
			BackendID: r.BackendID,
			Field:     field,
			Value:     r.Fields[field],
		})
	}
	return candidates
}
