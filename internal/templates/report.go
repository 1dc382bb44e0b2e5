package templates

import (
	"fmt"
	"strings"
)

const cleanReportLine = "Template meets all quality standards."

// GenerateQualityReport validates t with the default heuristics and renders
// the result as text.
func GenerateQualityReport(t TemplateContent) string {
	return defaultValidator.Report(t)
}

func (v *Validator) Report(t TemplateContent) string {
	return RenderReport(t, v.Validate(t))
}

// RenderReport formats an existing result for t.
func RenderReport(t TemplateContent, r ValidationResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Template Quality Report: %s\n", t.Title)
	fmt.Fprintf(&sb, "Score: %d/100\n", r.Score)
	if r.IsValid {
		sb.WriteString("Status: valid\n")
	} else {
		sb.WriteString("Status: invalid\n")
	}

	writeList(&sb, "Errors", r.Errors)
	writeList(&sb, "Warnings", r.Warnings)

	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		sb.WriteString("\n" + cleanReportLine + "\n")
	}
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", heading)
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
}
