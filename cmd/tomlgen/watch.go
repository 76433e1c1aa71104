package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever the schema or value file changes",
		Long: `Render once, then re-render the output file each time the schema or the value
file is written. Stops on interrupt.

Example:
  tomlgen watch --schema config.schema.json --value defaults.yaml --output config.toml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Output == "" {
				return errors.New("watch: --output is required")
			}
			if isRemote(cfg.Schema) && cfg.Value == "" {
				return errors.New("watch: the schema is remote and no value file was given")
			}

			ctx := cmd.Context()
			rebuild := func() error {
				out, err := a.renderDocument(ctx, cfg)
				if err != nil {
					return err
				}
				if err := writeOutput(cfg.Output, out); err != nil {
					return err
				}
				a.logger.Info("wrote scaffold", zap.String("path", cfg.Output), zap.Int("bytes", len(out)))
				return nil
			}

			if err := rebuild(); err != nil {
				a.logger.Error("render failed", zap.Error(err))
			}

			var targets []string
			if !isRemote(cfg.Schema) {
				targets = append(targets, cfg.Schema)
			}
			if cfg.Value != "" {
				targets = append(targets, cfg.Value)
			}
			return a.watchFiles(ctx, targets, rebuild)
		},
	}

	addInputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Output file")
	return cmd
}

// watchFiles calls rebuild after writes to any of files until ctx is done.
// Parent directories are watched so that editors replacing a file by rename
// are still noticed.
func (a *app) watchFiles(ctx context.Context, files []string, rebuild func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("watch: resolve %s: %w", file, err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch: watch directory %s: %w", dir, err)
		}
		dirs[dir] = true
		a.logger.Debug("watching directory", zap.String("dir", dir))
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}
			a.logger.Debug("file changed", zap.String("path", abs))
			timer.Reset(watchDebounce)

		case <-timer.C:
			if err := rebuild(); err != nil {
				a.logger.Error("render failed", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}
