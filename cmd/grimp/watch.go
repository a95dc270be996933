package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/wippyai/treeir/grimp"
)

// watch runs once, then again after every write to the input file, until
// ctx is cancelled. Translation errors are reported and watching continues.
func watch(ctx context.Context, cfg config, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	target, err := filepath.Abs(cfg.input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	once := func() {
		if err := run(ctx, cfg, w); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	once()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			grimp.Logger().Debug("input changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			fmt.Fprintf(w, "\n--- %s changed ---\n\n", cfg.input)
			once()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
