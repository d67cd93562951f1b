// Package report aggregates diagnostics into an ordered report. Pure
// aggregation: no new checks happen here.
package report

import (
	"sort"

	"github.com/groblegark/syllabus/internal/model"
)

// Build sorts the diagnostics by severity (errors before warnings), then by
// first offending node id, then by message, and computes the clean summary.
// The input slice is not modified.
func Build(diags []model.Diagnostic) *model.Report {
	sorted := make([]model.Diagnostic, len(diags))
	copy(sorted, diags)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if firstNode(a) != firstNode(b) {
			return firstNode(a) < firstNode(b)
		}
		return a.Message < b.Message
	})

	r := &model.Report{Diagnostics: sorted}
	r.Clean = r.Errors() == 0
	return r
}

func firstNode(d model.Diagnostic) string {
	if len(d.NodeIDs) == 0 {
		return ""
	}
	return d.NodeIDs[0]
}
