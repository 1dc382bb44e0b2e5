package catalog

import "time"

// Category is the document kind a catalog entry renders.
type Category string

const (
	CategoryResume       Category = "resume"
	CategoryPresentation Category = "presentation"
	CategoryLetter       Category = "letter"
	CategoryCV           Category = "cv"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryResume, CategoryPresentation, CategoryLetter, CategoryCV:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// TemplateMetadata describes one entry of the template catalog.
type TemplateMetadata struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Category    Category   `json:"category" yaml:"category"`
	Industry    string     `json:"industry" yaml:"industry"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Tags        []string   `json:"tags" yaml:"tags"`
	FilePath    string     `json:"filePath" yaml:"filePath"`
	LastUpdated time.Time  `json:"lastUpdated" yaml:"lastUpdated"`
	UsageCount  *int       `json:"usageCount,omitempty" yaml:"usageCount,omitempty"`
	Rating      *float64   `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// File is the on-disk catalog document.
type File struct {
	Version   string             `json:"version" yaml:"version"`
	Templates []TemplateMetadata `json:"templates" yaml:"templates"`
}
