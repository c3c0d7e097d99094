package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tidal/internal/buildpipeline"
	"tidal/internal/diagfmt"
	"tidal/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Build a tidal project",
	Long:  "Build compiles every source listed in tidal.toml into one JavaScript module.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Int("jobs", 0, "parallel front-end workers (0 = all CPUs)")
	buildCmd.Flags().Bool("emit-meta", false, "write per-function artifact cache records")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	buildCmd.Flags().Bool("timings", false, "print stage timings")
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	m, err := driver.LoadManifest(dir)
	if err != nil {
		return err
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	emitMeta, _ := cmd.Flags().GetBool("emit-meta")
	uiValue, _ := cmd.Flags().GetString("ui")
	timings, _ := cmd.Flags().GetBool("timings")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	opts := driver.BuildOptions{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		EmitMeta:       emitMeta,
	}

	var res *driver.BuildResult
	if shouldUseTUI(uiValue, quiet) {
		res, err = buildWithUI(cmd.Context(), m, opts)
	} else {
		res, err = driver.Build(cmd.Context(), m, opts)
	}

	if res != nil && res.HasErrors() {
		popts := diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			ShowNotes: true,
		}
		for _, bag := range res.Bags {
			if bag == nil || bag.Len() == 0 {
				continue
			}
			bag.Sort()
			diagfmt.Pretty(os.Stderr, bag, res.FileSet, popts)
		}
	}
	if err != nil {
		if errors.Is(err, driver.ErrBuildFailed) {
			return fmt.Errorf("build failed")
		}
		return err
	}

	if !quiet {
		fmt.Fprintf(os.Stdout, "wrote %s (%d functions)\n", res.OutPath, len(res.Units))
		if timings {
			for _, stage := range []buildpipeline.Stage{
				buildpipeline.StageParse, buildpipeline.StageCompile, buildpipeline.StageWrite,
			} {
				fmt.Fprintf(os.Stdout, "  %-8s %s\n", stage, res.Timings.Duration(stage))
			}
		}
	}
	return nil
}

func shouldUseTUI(mode string, quiet bool) bool {
	if quiet {
		return false
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type buildOutcome struct {
	result *driver.BuildResult
	err    error
}

func buildWithUI(ctx context.Context, m *driver.Manifest, opts driver.BuildOptions) (*driver.BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Build(ctx, m, opts)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := tidalUI(m, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
