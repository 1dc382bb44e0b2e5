package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"docmagic/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumeYAML = `id: eng-resume
title: Modern Software Engineer Resume
description: A clean single-page resume for engineers with five or more years of experience.
type: resume
content:
  personalInfo:
    name: Alex Doe
  sections: [experience, education, skills]
metadata:
  industry: Technology
  difficulty: intermediate
  tags: [engineering, modern]
  lastUpdated: "2024-01-15"
`

const memoJSON = `{"id": "m1", "title": "Memo", "description": "Quarterly memo", "type": "memo", "content": {}}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// ==========================
// validate / report
// ==========================

func TestValidate_YAMLTemplate(t *testing.T) {
	path := writeFile(t, "resume.yaml", resumeYAML)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "VALID")
	assert.Contains(t, out, "id=eng-resume score=95")
}

func TestValidate_JSONOutputAndFailure(t *testing.T) {
	good := writeFile(t, "resume.yaml", resumeYAML)
	bad := writeFile(t, "memo.json", memoJSON)

	out, err := execute(t, "validate", "--json", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 templates failed validation")

	var results []fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Result.IsValid)
	assert.False(t, results[1].Result.IsValid)
	assert.Contains(t, results[1].Result.Errors, "Invalid template type")
}

func TestValidate_MinScore(t *testing.T) {
	path := writeFile(t, "resume.yaml", resumeYAML)

	_, err := execute(t, "validate", "--min-score", "100", path)
	assert.Error(t, err)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	path := writeFile(t, "resume.yaml", resumeYAML)

	out, err := execute(t, "report", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Template Quality Report: Modern Software Engineer Resume")
	assert.Contains(t, out, "Score: 95/100")
}

// ==========================
// catalog
// ==========================

func TestCatalog_ListAndGet(t *testing.T) {
	out, err := execute(t, "catalog", "list", "--category", "cv")
	require.NoError(t, err)
	assert.Contains(t, out, "academic-cv")
	assert.Contains(t, out, "medical-cv")
	assert.NotContains(t, out, "professional-resume")

	out, err = execute(t, "catalog", "get", "formal-cover-letter")
	require.NoError(t, err)
	assert.Contains(t, out, "id:          formal-cover-letter")

	_, err = execute(t, "catalog", "get", "missing")
	assert.Error(t, err)
}

func TestCatalog_AddThenCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, catalog.SaveFile(path, &catalog.File{Version: "1", Templates: catalog.Default().All()}))

	_, err := execute(t, "catalog", "add", path,
		"--id", "sales-letter", "--title", "Sales Letter",
		"--category", "letter", "--difficulty", "beginner", "--tags", "sales, outreach")
	require.NoError(t, err)

	f, err := catalog.LoadFile(path)
	require.NoError(t, err)
	added := f.Templates[len(f.Templates)-1]
	assert.Equal(t, "sales-letter", added.ID)
	assert.Equal(t, []string{"sales", "outreach"}, added.Tags)
	assert.False(t, added.LastUpdated.IsZero())

	out, err := execute(t, "catalog", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	_, err = execute(t, "catalog", "add", path, "--id", "sales-letter", "--title", "Again",
		"--category", "letter", "--difficulty", "beginner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}
