package generation

import (
	"fmt"
	"strings"

	"docmagic/internal/templates"
)

var contentShapes = map[templates.Type]string{
	templates.TypeResume: `"content": {"personalInfo": {"name": "", "email": "", "phone": "", "location": ""},
  "sections": [{"title": "", "items": []}]}  (at least 3 sections)`,
	templates.TypeCV: `"content": {"personalInfo": {"name": "", "email": "", "title": ""},
  "sections": [{"title": "", "items": []}]}  (at least 5 sections: education, research, publications, teaching, awards)`,
	templates.TypePresentation: `"content": {"title": "", "slides": [{"heading": "", "bullets": []}]}  (at least 5 slides)`,
	templates.TypeLetter: `"content": {"recipient": {"name": "", "organization": ""},
  "content": {"greeting": "", "body": [""], "closing": "", "signature": ""}}`,
}

// BuildPrompt describes the JSON document the model must return for t.
func BuildPrompt(t templates.Type, userPrompt string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You write professional %s templates for DocMagic.\n", t)
	sb.WriteString("Return a single JSON object with this shape and no other text:\n")
	sb.WriteString(`{"title": "", "description": "", "type": "` + string(t) + `",` + "\n  ")
	sb.WriteString(contentShapes[t])
	sb.WriteString(",\n  \"metadata\": {\"industry\": \"\", \"difficulty\": \"beginner|intermediate|advanced\", \"tags\": [\"\"]}}\n")
	sb.WriteString("Rules: title of at least 10 characters, description of at least 50 characters, ")
	sb.WriteString("at least two tags, realistic sample text with no placeholders or lorem ipsum, ")
	sb.WriteString("and a formal tone without hype words.\n\n")
	fmt.Fprintf(&sb, "Request: %s\n", strings.TrimSpace(userPrompt))
	return sb.String()
}
