package templates

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Finding is one quality warning and the score it costs.
type Finding struct {
	Message string
	Penalty int
}

// QualityChecker scans the lower-cased serialized content of a template.
type QualityChecker interface {
	Check(serialized string) []Finding
}

// HeuristicChecker flags banned words, placeholder text and brevity.
type HeuristicChecker struct {
	BannedWords        []string
	BannedWordPenalty  int
	PlaceholderMarkers []string
	PlaceholderPenalty int
	MinLength          int
	BrevityPenalty     int
}

// DefaultQualityChecker returns the stock heuristics.
func DefaultQualityChecker() *HeuristicChecker {
	return &HeuristicChecker{
		BannedWords:        []string{"awesome", "amazing", "incredible", "fantastic"},
		BannedWordPenalty:  2,
		PlaceholderMarkers: []string{"[placeholder]", "lorem ipsum"},
		PlaceholderPenalty: 5,
		MinLength:          1000,
		BrevityPenalty:     5,
	}
}

func (h *HeuristicChecker) Check(serialized string) []Finding {
	var findings []Finding

	for _, word := range h.BannedWords {
		if strings.Contains(serialized, word) {
			findings = append(findings, Finding{
				Message: fmt.Sprintf("Avoid using the word %q - consider more professional alternatives", word),
				Penalty: h.BannedWordPenalty,
			})
		}
	}

	for _, marker := range h.PlaceholderMarkers {
		if strings.Contains(serialized, marker) {
			findings = append(findings, Finding{
				Message: "Template contains placeholder text that should be replaced",
				Penalty: h.PlaceholderPenalty,
			})
			break
		}
	}

	if utf8.RuneCountInString(serialized) < h.MinLength {
		findings = append(findings, Finding{
			Message: "Template content seems too brief - consider adding more detail",
			Penalty: h.BrevityPenalty,
		})
	}

	return findings
}
