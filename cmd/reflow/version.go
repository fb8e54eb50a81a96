package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildInfo is the version report printed by `reflow version`.
type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Module    string `json:"module,omitempty"`
}

func currentBuild() buildInfo {
	b := buildInfo{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		b.Module = bi.Main.Path
	}
	return b
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the reflow CLI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			switch {
			case short:
				fmt.Fprintln(stdout, b.Version)
				return nil
			case asJSON:
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}

			printBanner()
			fmt.Fprintln(stdout)
			fmt.Fprintf(stdout, "  Version:    %s\n", b.Version)
			fmt.Fprintf(stdout, "  Commit:     %s\n", b.Commit)
			fmt.Fprintf(stdout, "  Built:      %s\n", b.Date)
			fmt.Fprintf(stdout, "  Go version: %s\n", b.GoVersion)
			fmt.Fprintf(stdout, "  OS/Arch:    %s\n", b.Platform)
			if b.Module != "" {
				fmt.Fprintf(stdout, "  Module:     %s\n", b.Module)
			}
			fmt.Fprintln(stdout)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")

	return cmd
}
