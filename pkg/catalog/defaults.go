package catalog

import "time"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultEntries returns the built-in sample catalog. Each call returns a
// fresh slice.
func DefaultEntries() []TemplateMetadata {
	return []TemplateMetadata{
		{
			ID:          "professional-resume",
			Title:       "Professional Resume",
			Description: "A clean, single-column resume suited to most corporate roles and applicant tracking systems.",
			Category:    CategoryResume,
			Industry:    "General",
			Difficulty:  DifficultyBeginner,
			Tags:        []string{"professional", "ats-friendly", "corporate"},
			FilePath:    "templates/resume/professional.json",
			LastUpdated: date("2024-01-15"),
			UsageCount:  intPtr(1250),
			Rating:      floatPtr(4.6),
		},
		{
			ID:          "software-engineer-resume",
			Title:       "Software Engineer Resume",
			Description: "Highlights technical skills, open source work and project impact for engineering roles.",
			Category:    CategoryResume,
			Industry:    "Technology",
			Difficulty:  DifficultyIntermediate,
			Tags:        []string{"tech", "engineering", "developer"},
			FilePath:    "templates/resume/software-engineer.json",
			LastUpdated: date("2024-02-03"),
			UsageCount:  intPtr(980),
			Rating:      floatPtr(4.8),
		},
		{
			ID:          "marketing-manager-resume",
			Title:       "Marketing Manager Resume",
			Description: "Showcases campaign results, brand growth and team leadership for marketing professionals.",
			Category:    CategoryResume,
			Industry:    "Marketing",
			Difficulty:  DifficultyIntermediate,
			Tags:        []string{"marketing", "creative", "leadership"},
			FilePath:    "templates/resume/marketing-manager.json",
			LastUpdated: date("2024-01-28"),
			UsageCount:  intPtr(640),
			Rating:      floatPtr(4.5),
		},
		{
			ID:          "executive-resume",
			Title:       "Executive Resume",
			Description: "Two-page layout for senior leaders with a board summary and key achievements up front.",
			Category:    CategoryResume,
			Industry:    "Business",
			Difficulty:  DifficultyAdvanced,
			Tags:        []string{"executive", "leadership", "senior"},
			FilePath:    "templates/resume/executive.json",
			LastUpdated: date("2023-12-10"),
			UsageCount:  intPtr(310),
			Rating:      floatPtr(4.7),
		},
		{
			ID:          "business-pitch-presentation",
			Title:       "Business Pitch Deck",
			Description: "Investor-ready slides covering problem, solution, traction, team and funding ask.",
			Category:    CategoryPresentation,
			Industry:    "Business",
			Difficulty:  DifficultyIntermediate,
			Tags:        []string{"pitch", "startup", "investors"},
			FilePath:    "templates/presentation/business-pitch.json",
			LastUpdated: date("2024-02-12"),
			UsageCount:  intPtr(520),
			Rating:      floatPtr(4.4),
		},
		{
			ID:          "academic-lecture-presentation",
			Title:       "Academic Lecture Slides",
			Description: "Structured lecture deck with learning objectives, content sections and a summary slide.",
			Category:    CategoryPresentation,
			Industry:    "Education",
			Difficulty:  DifficultyBeginner,
			Tags:        []string{"education", "lecture", "academic"},
			FilePath:    "templates/presentation/academic-lecture.json",
			LastUpdated: date("2023-11-20"),
		},
		{
			ID:          "formal-cover-letter",
			Title:       "Formal Cover Letter",
			Description: "Traditional business letter format for job applications with a clear call to action.",
			Category:    CategoryLetter,
			Industry:    "General",
			Difficulty:  DifficultyBeginner,
			Tags:        []string{"cover-letter", "formal", "job-application"},
			FilePath:    "templates/letter/formal-cover.json",
			LastUpdated: date("2024-01-05"),
			UsageCount:  intPtr(870),
			Rating:      floatPtr(4.3),
		},
		{
			ID:          "academic-cv",
			Title:       "Academic Curriculum Vitae",
			Description: "Comprehensive CV for researchers covering publications, grants, teaching and service.",
			Category:    CategoryCV,
			Industry:    "Education",
			Difficulty:  DifficultyAdvanced,
			Tags:        []string{"academic", "research", "publications"},
			FilePath:    "templates/cv/academic.json",
			LastUpdated: date("2023-10-30"),
			UsageCount:  intPtr(205),
			Rating:      floatPtr(4.9),
		},
		{
			ID:          "medical-cv",
			Title:       "Medical Professional CV",
			Description: "CV for physicians and clinicians with licensure, residencies and clinical experience.",
			Category:    CategoryCV,
			Industry:    "Healthcare",
			Difficulty:  DifficultyAdvanced,
			Tags:        []string{"medical", "healthcare", "clinical"},
			FilePath:    "templates/cv/medical.json",
			LastUpdated: date("2024-02-20"),
		},
	}
}
