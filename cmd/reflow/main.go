package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┬  ┌─┐┬ ┬
  ├┬┘├┤ ├┤ │  │ ││││
  ┴└─└─┘└  ┴─┘└─┘└┴┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorMsg("%s", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "reflow",
		Short: "Reactive view runtime playground",
		Long: `Reflow is a reactive view runtime for Go.

Observed state is tracked by computations, writes are batched by a
scheduler and flushed once per turn, and a keyed reconciler patches
the host tree with the minimum number of operations.

The CLI runs the bundled demos, serves them live over WebSocket and
exports rendered snapshots to a directory or an S3 bucket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setColor(cmd.OutOrStdout(), flags.noColor)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Config file or directory (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		demoCmd(&flags),
		serveCmd(&flags),
		exportCmd(&flags),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Fprint(stdout, banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(stdout, "%s %s\n", paint(green, "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(stdout, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Fprintf(stdout, "%s %s\n", paint(yellow, "⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", paint(red, "✗"), fmt.Sprintf(format, args...))
}
