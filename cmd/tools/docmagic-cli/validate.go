package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docmagic/internal/templates"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadTemplate reads a single template from a JSON or YAML file.
func loadTemplate(path string) (templates.TemplateContent, error) {
	var t templates.TemplateContent
	data, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	default:
		err = json.Unmarshal(data, &t)
	}
	if err != nil {
		return t, fmt.Errorf("decode template %s: %w", path, err)
	}
	return t, nil
}

func newValidateCmd() *cobra.Command {
	var (
		asJSON   bool
		minScore int
	)
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate one or more template files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args, asJSON, minScore)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "Fail when any template scores below this value")
	return cmd
}

type fileResult struct {
	File   string                     `json:"file"`
	ID     string                     `json:"id"`
	Result templates.ValidationResult `json:"validationResult"`
}

func runValidate(out io.Writer, files []string, asJSON bool, minScore int) error {
	validator := templates.NewValidator()
	results := make([]fileResult, 0, len(files))
	failed := 0

	for _, f := range files {
		t, err := loadTemplate(f)
		if err != nil {
			return err
		}
		r := validator.Validate(t)
		if !r.IsValid || r.Score < minScore {
			failed++
		}
		results = append(results, fileResult{File: f, ID: t.ID, Result: r})
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, fr := range results {
			printResult(out, fr)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed validation", failed, len(files))
	}
	return nil
}

func printResult(out io.Writer, fr fileResult) {
	fmt.Fprintf(out, "%s %s %s\n",
		statusLabel(fr.Result.IsValid),
		headingStyle.Render(fr.File),
		mutedStyle.Render(fmt.Sprintf("(id=%s score=%d)", fr.ID, fr.Result.Score)))
	for _, e := range fr.Result.Errors {
		fmt.Fprintf(out, "  %s %s\n", errorStyle.Render("error:"), e)
	}
	for _, w := range fr.Result.Warnings {
		fmt.Fprintf(out, "  %s %s\n", warnStyle.Render("warning:"), w)
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report FILE",
		Short: "Print the quality report for a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTemplate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), templates.GenerateQualityReport(t))
			return nil
		},
	}
}
