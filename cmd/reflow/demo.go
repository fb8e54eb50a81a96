package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reflow/internal/demo"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		showOps bool
		asJSON  bool
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "demo [name]",
		Short: "Run a demo script and print every frame",
		Long: `Run one of the bundled demos on an in-memory host tree.

The component is mounted, then each scripted step is applied and the
turn is ended, so all writes of a step are flushed as one batch. After
every frame the rendered HTML and, with --ops, the host operations the
reconciler performed are printed.

Examples:
  reflow demo --list
  reflow demo todos --ops
  reflow demo counter --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, d := range demo.All() {
					info("%-10s %s", d.Name, d.Description)
				}
				return nil
			}
			name := "counter"
			if len(args) == 1 {
				name = args[0]
			}
			return runDemo(flags, name, showOps, asJSON)
		},
	}

	cmd.Flags().BoolVar(&showOps, "ops", false, "Print host operations for every frame")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print frames as JSON")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available demos")

	return cmd
}

func runDemo(flags *globalFlags, name string, showOps, asJSON bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	d, err := lookupDemo(name)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	player := demo.Player{
		Runtime:   runtimeOptions(cfg, logger),
		Component: componentOptions(cfg, logger),
	}
	if !asJSON {
		player.OnFrame = func(f demo.Frame, _ *demo.Session) {
			printFrame(f, showOps)
		}
	}

	s, err := player.Play(d)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s.Frames)
	}
	success("%s: %d frames, %d renders", d.Name, len(s.Frames), s.Inst.Renders())
	return nil
}

func printFrame(f demo.Frame, showOps bool) {
	fmt.Fprintf(stdout, "%s %s\n", paint(green, "●"), f.Step)
	info("%s", f.HTML)
	info("%s", paint(dim, fmt.Sprintf("created=%d moved=%d removed=%d replaced=%d ops=%d",
		f.Stats.Created, f.Stats.Moved, f.Stats.Removed, f.Stats.Replaced, len(f.Ops))))
	if showOps {
		for _, op := range f.Ops {
			info("  %s", paint(dim, op.String()))
		}
	}
	fmt.Fprintln(stdout)
}
