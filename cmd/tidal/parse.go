package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tidal/internal/diagfmt"
	"tidal/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.td",
	Short: "Parse a tidal source file",
	Long:  `Parse builds and dumps the syntax tree of a tidal source file`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("parse failed with %d diagnostics", result.Bag.Len())
	}

	return diagfmt.FormatASTPretty(os.Stdout, result.Module)
}
