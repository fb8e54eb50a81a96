package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reflow/internal/config"
	"github.com/vango-dev/reflow/internal/demo"
	"github.com/vango-dev/reflow/pkg/export"
)

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		all    bool
		dir    string
		bucket string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "export [demo]",
		Short: "Export rendered snapshots of a demo",
		Long: `Play a demo and export snapshots of the rendered tree.

Each snapshot is written as <name>.html and <name>.json; the JSON holds
the component state and the host operations of that frame. Snapshots go
to an S3 bucket when export.bucket is configured (or --bucket is given)
and to a local directory otherwise.

Examples:
  reflow export todos
  reflow export counter --all --dir=out
  reflow export profile --bucket=my-snapshots --prefix=dev/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "counter"
			if len(args) == 1 {
				name = args[0]
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Export.Dir = dir
			}
			if bucket != "" {
				cfg.Export.Bucket = bucket
			}
			if prefix != "" {
				cfg.Export.Prefix = prefix
			}
			return runExport(cmd.Context(), cfg, name, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Export every frame, not just the last")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "S3 key prefix (default from config)")

	return cmd
}

func newStore(cfg *config.Config) (export.Store, string, error) {
	if cfg.Export.Bucket != "" {
		client := export.NewS3Client(export.S3Config{
			Region:   cfg.Export.Region,
			Endpoint: cfg.Export.Endpoint,
		})
		return export.NewS3Store(client, cfg.Export.Bucket, cfg.Export.Prefix),
			"s3://" + cfg.Export.Bucket + "/" + cfg.Export.Prefix, nil
	}
	store, err := export.NewDirStore(cfg.ExportDir())
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

func runExport(ctx context.Context, cfg *config.Config, name string, all bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := lookupDemo(name)
	if err != nil {
		return err
	}
	store, where, err := newStore(cfg)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	var (
		frame    int
		written  []string
		writeErr error
	)
	player := demo.Player{
		Runtime:   runtimeOptions(cfg, logger),
		Component: componentOptions(cfg, logger),
		OnFrame: func(f demo.Frame, s *demo.Session) {
			defer func() { frame++ }()
			if writeErr != nil || (!all && frame != len(d.Steps)) {
				return
			}
			snap := export.Capture(snapshotName(d.Name, frame, f.Step), s.Inst, s.Doc)
			paths, err := export.Write(ctx, store, snap)
			if err != nil {
				writeErr = err
				return
			}
			written = append(written, paths...)
		},
	}
	if _, err := player.Play(d); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	for _, p := range written {
		info("%s", p)
	}
	success("Exported %d files to %s", len(written), where)
	return nil
}

// snapshotName builds names like "todos-02-move-last-to-front".
func snapshotName(demoName string, frame int, step string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(step) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return fmt.Sprintf("%s-%02d-%s", demoName, frame, strings.TrimSuffix(b.String(), "-"))
}
