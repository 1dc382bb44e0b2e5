package templates

const (
	penaltyMissingKey   = 10
	penaltySoftCount    = 5
	penaltyNoGreeting   = 3
	penaltyInvalidType  = 10
	msgInvalidType      = "Invalid template type"
	minResumeSections   = 3
	minCVSections       = 5
	minPresentationDeck = 5
)

// structuralCheck inspects the content object of one template type.
type structuralCheck func(content map[string]interface{}, b *resultBuilder)

// structuralCheckFor returns the check for t. The switch covers every value
// returned by Types; an unknown type has no check.
func structuralCheckFor(t Type) (structuralCheck, bool) {
	switch t {
	case TypeResume:
		return checkResume, true
	case TypePresentation:
		return checkPresentation, true
	case TypeLetter:
		return checkLetter, true
	case TypeCV:
		return checkCV, true
	}
	return nil, false
}

func checkResume(content map[string]interface{}, b *resultBuilder) {
	checkSectioned(content, b, "Resume", minResumeSections)
}

func checkCV(content map[string]interface{}, b *resultBuilder) {
	checkSectioned(content, b, "CV", minCVSections)
}

func checkSectioned(content map[string]interface{}, b *resultBuilder, label string, minSections int) {
	if !present(content["personalInfo"]) {
		b.fail(label+" template missing personalInfo section", penaltyMissingKey)
	}

	n, ok := arrayLen(content["sections"])
	if !ok {
		b.fail(label+" template missing sections array", penaltyMissingKey)
		return
	}
	if n < minSections {
		b.warnf(penaltySoftCount, "%s should have at least %d sections", label, minSections)
	}
}

func checkPresentation(content map[string]interface{}, b *resultBuilder) {
	if !present(content["title"]) {
		b.fail("Presentation template missing title", penaltyMissingKey)
	}

	n, ok := arrayLen(content["slides"])
	if !ok {
		b.fail("Presentation template missing slides array", penaltyMissingKey)
		return
	}
	if n < minPresentationDeck {
		b.warnf(penaltySoftCount, "Presentation should have at least %d slides", minPresentationDeck)
	}
}

func checkLetter(content map[string]interface{}, b *resultBuilder) {
	if !present(content["recipient"]) {
		b.fail("Letter template missing recipient information", penaltyMissingKey)
	}

	body := content["content"]
	if !present(body) {
		b.fail("Letter template missing content section", penaltyMissingKey)
		return
	}
	if !present(asObject(body)["greeting"]) {
		b.warn("Letter should include a greeting", penaltyNoGreeting)
	}
}
