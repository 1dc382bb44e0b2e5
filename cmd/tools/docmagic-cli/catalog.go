package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"docmagic/pkg/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and edit the template catalog",
	}
	cmd.PersistentFlags().StringVar(&path, "file", "", "Catalog file (JSON or YAML); the built-in catalog when empty")

	load := func() (*catalog.Catalog, error) {
		if path == "" {
			return catalog.Default(), nil
		}
		return catalog.Load(path)
	}

	var (
		category   string
		industry   string
		difficulty string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load()
			if err != nil {
				return err
			}
			entries := filterEntries(c.All(), catalog.Category(category), industry, catalog.Difficulty(difficulty))
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", "", "Filter by category")
	list.Flags().StringVar(&industry, "industry", "", "Filter by industry")
	list.Flags().StringVar(&difficulty, "difficulty", "", "Filter by difficulty")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a single catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load()
			if err != nil {
				return err
			}
			e, ok := c.GetTemplateByID(args[0])
			if !ok {
				return fmt.Errorf("catalog entry %q not found", args[0])
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}

	var fuzzy bool
	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search titles, descriptions, tags and industries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load()
			if err != nil {
				return err
			}
			var entries []catalog.TemplateMetadata
			if fuzzy {
				entries = c.FuzzySearch(args[0])
			} else {
				entries = c.SearchTemplates(args[0])
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	search.Flags().BoolVar(&fuzzy, "fuzzy", false, "Rank by fuzzy match instead of substring match")

	check := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			problems := catalog.Validate(f.Templates)
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "%s %s\n", errorStyle.Render("problem:"), p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems in %s", len(problems), args[0])
			}
			fmt.Fprintf(out, "%s %d entries\n", validStyle.Render("OK"), len(f.Templates))
			return nil
		},
	}

	var entry catalog.TemplateMetadata
	var tags string
	add := &cobra.Command{
		Use:   "add FILE",
		Short: "Append an entry to a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			e := entry
			e.Category = catalog.Category(category)
			e.Difficulty = catalog.Difficulty(difficulty)
			e.Industry = industry
			if tags != "" {
				e.Tags = splitTags(tags)
			}
			if e.LastUpdated.IsZero() {
				e.LastUpdated = time.Now().UTC().Truncate(24 * time.Hour)
			}

			candidate := append(append([]catalog.TemplateMetadata{}, f.Templates...), e)
			if problems := catalog.Validate(candidate); len(problems) > 0 {
				return fmt.Errorf("entry rejected: %s", strings.Join(problems, "; "))
			}
			f.Templates = candidate
			if err := catalog.SaveFile(args[0], f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added catalog entry: %s\n", e.ID)
			return nil
		},
	}
	add.Flags().StringVar(&entry.ID, "id", "", "Entry id")
	add.Flags().StringVar(&entry.Title, "title", "", "Entry title")
	add.Flags().StringVar(&entry.Description, "description", "", "Entry description")
	add.Flags().StringVar(&entry.FilePath, "path", "", "Template file path")
	add.Flags().StringVar(&category, "category", "", "Category")
	add.Flags().StringVar(&industry, "industry", "", "Industry")
	add.Flags().StringVar(&difficulty, "difficulty", "", "Difficulty")
	add.Flags().StringVar(&tags, "tags", "", "Comma separated tags")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("title")

	cmd.AddCommand(list, get, search, check, add)
	return cmd
}

func filterEntries(in []catalog.TemplateMetadata, c catalog.Category, industry string, d catalog.Difficulty) []catalog.TemplateMetadata {
	out := make([]catalog.TemplateMetadata, 0, len(in))
	for _, e := range in {
		if c != "" && e.Category != c {
			continue
		}
		if industry != "" && !strings.EqualFold(e.Industry, industry) {
			continue
		}
		if d != "" && e.Difficulty != d {
			continue
		}
		out = append(out, e)
	}
	return out
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func printEntries(out io.Writer, entries []catalog.TemplateMetadata) {
	if len(entries) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no matching templates"))
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tDIFFICULTY\tINDUSTRY\tTITLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Category, e.Difficulty, e.Industry, e.Title)
	}
	w.Flush()
}

func printEntry(out io.Writer, e catalog.TemplateMetadata) {
	fmt.Fprintln(out, headingStyle.Render(e.Title))
	fmt.Fprintf(out, "id:          %s\n", e.ID)
	fmt.Fprintf(out, "category:    %s\n", e.Category)
	fmt.Fprintf(out, "industry:    %s\n", e.Industry)
	fmt.Fprintf(out, "difficulty:  %s\n", e.Difficulty)
	fmt.Fprintf(out, "tags:        %s\n", strings.Join(e.Tags, ", "))
	fmt.Fprintf(out, "file:        %s\n", e.FilePath)
	fmt.Fprintf(out, "updated:     %s\n", e.LastUpdated.Format("2006-01-02"))
	if e.Description != "" {
		fmt.Fprintln(out, mutedStyle.Render(e.Description))
	}
}
