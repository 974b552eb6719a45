package reextract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/quorum/internal/core/fanout"
	"github.com/agenthands/quorum/internal/core/model"
)

// Driver runs the focused second round: a narrower request covering only
// the disputed fields, dispatched to the same backend set as round one so a
// backend that disagreed gets to revise and one that was silent may answer.
type Driver struct {
	Controller *fanout.Controller
}

func NewDriver(ctrl *fanout.Controller) *Driver {
	return &Driver{Controller: ctrl}
}

// Reextract builds the focus request and invokes the full backend set.
// Round-two results stand alone; they are never merged with round one, so
// consensus cannot anchor on a possibly wrong first-round majority.
func (d *Driver) Reextract(ctx context.Context, prev model.ExtractionRequest, disagreed map[string]model.DisagreedField, backendIDs []string, snippets map[string]string) ([]model.BackendResult, error) {
	req := model.ExtractionRequest{
		Prompt: BuildFocusPrompt(disagreed, snippets),
		Images: prev.Images,
		Schema: narrowSchema(prev.Schema, fieldNames(disagreed)),
	}
	return d.Controller.Invoke(ctx, req, backendIDs)
}

// BuildFocusPrompt asks the backends to re-examine only the disputed
// fields, each value wrapped in a tagged holder carrying its provenance.
func BuildFocusPrompt(disagreed map[string]model.DisagreedField, snippets map[string]string) string {
	fields := fieldNames(disagreed)

	var b strings.Builder
	fmt.Fprintf(&b, "The previous extraction produced conflicting values for the following fields: %v\n", fields)
	b.WriteString("Please re-examine the provided snippets and the document content and return JSON only with keys for these fields.\n")
	b.WriteString(`For each key, return {"value": ..., "_src": {"page":int, "snippet":str, "confidence":float}}` + "\n")

	for _, f := range fields {
		if sn, ok := snippets[f]; ok {
			fmt.Fprintf(&b, "\n\nField: %s -- Context snippet: %s", f, sn)
		}
	}

	b.WriteString("\n\nReturn JSON only.")
	return b.String()
}

func fieldNames(disagreed map[string]model.DisagreedField) []string {
	fields := make([]string, 0, len(disagreed))
	for f := range disagreed {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// narrowSchema restricts the output-shape hint to the disputed fields.
// Hints without a properties map pass through untouched.
func narrowSchema(schema map[string]interface{}, fields []string) map[string]interface{} {
	if schema == nil {
		return nil
	}
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return schema
	}

	narrowed := make(map[string]interface{})
	for _, f := range fields {
		if p, ok := props[f]; ok {
			narrowed[f] = p
		}
	}

	out := make(map[string]interface{}, len(schema))
	for k, v := range schema {
		out[k] = v
	}
	out["properties"] = narrowed
	return out
}
