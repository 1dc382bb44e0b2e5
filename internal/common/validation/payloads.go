package validation

// templateDefinition only pins down the envelope shape. Field lengths and
// the type enum are left to the template validator, which reports them as
// findings rather than rejecting the payload.
const templateDefinition = `{
  "type": "object",
  "properties": {
    "id":          {"type": "string"},
    "title":       {"type": "string"},
    "description": {"type": "string"},
    "type":        {"type": "string"},
    "metadata": {
      "type": ["object", "null"],
      "properties": {
        "industry":    {"type": "string"},
        "difficulty":  {"type": "string"},
        "tags":        {"type": "array", "items": {"type": "string"}},
        "lastUpdated": {"type": "string"}
      }
    }
  }
}`

var TemplateEnvelope = MustCompile("template-envelope", `{
  "type": "object",
  "required": ["template"],
  "properties": {
    "template": `+templateDefinition+`,
    "notifyEmail": {"type": "string", "format": "email"}
  }
}`)

var TemplateBatch = MustCompile("template-batch", `{
  "type": "object",
  "required": ["templates"],
  "properties": {
    "templates": {"type": "array", "items": `+templateDefinition+`}
  }
}`)

var CatalogQuery = MustCompile("catalog-query", `{
  "type": "object",
  "properties": {
    "templateId": {"type": "string"},
    "category":   {"type": "string", "enum": ["", "resume", "presentation", "letter", "cv"]},
    "industry":   {"type": "string"},
    "difficulty": {"type": "string", "enum": ["", "beginner", "intermediate", "advanced"]},
    "query":      {"type": "string"},
    "fuzzy":      {"type": "boolean"},
    "ranked":     {"type": "boolean"}
  }
}`)

var GenerateRequest = MustCompile("generate-request", `{
  "type": "object",
  "required": ["documentType", "prompt"],
  "properties": {
    "documentType": {"type": "string", "enum": ["resume", "presentation", "letter", "cv"]},
    "prompt":       {"type": "string", "minLength": 1},
    "templateId":   {"type": "string"}
  }
}`)
