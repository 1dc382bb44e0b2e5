package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docmagic-cli",
		Short: "Validate DocMagic templates and maintain the template catalog",
		Long: `docmagic-cli runs the template validator locally and edits catalog files.

Examples:
  docmagic-cli validate resume.json letter.yaml
  docmagic-cli report resume.json
  docmagic-cli catalog list --category resume
  docmagic-cli catalog search "market analysis" --fuzzy
  docmagic-cli catalog check configs/catalog.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newReportCmd(), newCatalogCmd())
	return root
}
