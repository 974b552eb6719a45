package consensus

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agenthands/quorum/internal/core/model"
)

// Disagreement reasons surfaced to the audit trail.
const (
	ReasonNoValues        = "no_values"
	ReasonNumericDisagree = "numeric_disagree"
	ReasonStringDisagree  = "string_disagree"
)

// Tolerances control the numeric-closeness check.
type Tolerances struct {
	RelTol float64
	AbsTol float64
}

// DefaultTolerances matches the pipeline defaults: 1% relative, 1.0 absolute.
func DefaultTolerances() Tolerances {
	return Tolerances{RelTol: 0.01, AbsTol: 1.0}
}

// Compare decides whether one field's candidate values agree.
//
// Null/empty candidates are discarded first. If every remaining value is
// numeric the first candidate is the baseline and every other value must be
// close to it; the agreed value is the baseline number, not an average.
// Otherwise values are compared as whitespace-collapsed case-folded strings
// and the agreed value is the first candidate's original value. Mixed
// numeric/non-numeric sets take the string path.
func Compare(candidates []model.FieldCandidate, tol Tolerances) (bool, interface{}, string) {
	cleaned := make([]model.FieldCandidate, 0, len(candidates))
	for _, c := range candidates {
		v := unwrapValue(c.Value)
		if isEmpty(v) {
			continue
		}
		cleaned = append(cleaned, model.FieldCandidate{BackendID: c.BackendID, Field: c.Field, Value: v})
	}

	if len(cleaned) == 0 {
		return false, nil, ReasonNoValues
	}

	if nums, ok := allNumeric(cleaned); ok {
		base := nums[0]
		for _, n := range nums[1:] {
			if !numericClose(base, n, tol) {
				return false, nil, ReasonNumericDisagree
			}
		}
		return true, base, ""
	}

	first := normalize(cleaned[0].Value)
	for _, c := range cleaned[1:] {
		if normalize(c.Value) != first {
			return false, nil, ReasonStringDisagree
		}
	}
	return true, cleaned[0].Value, ""
}

// unwrapValue pulls the inner value out of tagged holders like
// {"value": 72.0, "_src": {...}} that focused re-extraction asks for.
func unwrapValue(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		if inner, ok := m["value"]; ok {
			return inner
		}
	}
	return v
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func allNumeric(candidates []model.FieldCandidate) ([]float64, bool) {
	nums := make([]float64, len(candidates))
	for i, c := range candidates {
		n, ok := asNumber(c.Value)
		if !ok {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

func asNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// numericClose mirrors math.isclose semantics:
// |a-b| <= max(relTol * max(|a|,|b|), absTol).
func numericClose(a, b float64, tol Tolerances) bool {
	return math.Abs(a-b) <= math.Max(tol.RelTol*math.Max(math.Abs(a), math.Abs(b)), tol.AbsTol)
}

// normalize collapses internal whitespace runs, trims, and case-folds.
func normalize(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
