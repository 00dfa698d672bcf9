package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"nx-dart/internal/app"
	"nx-dart/internal/shared"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"build":        true,
	".pub-cache":   true,
	".idea":        true,
	".vscode":      true,
	".fvm":         true,
	".symlinks":    true,
}

// graphInputFiles are the non-Dart files whose changes affect the graph.
var graphInputFiles = map[string]bool{
	shared.PubspecFile:         true,
	shared.PackageConfigFile:   true,
	shared.FlutterMetadataFile: true,
}

type watchOptions struct {
	Mode   string
	Output string
}

func newWatchCommand() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the project graph whenever workspace sources change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, opts)
		},
	}
	addModeFlag(cmd, &opts.Mode)
	cmd.Flags().StringVar(&opts.Output, "output", "", "Graph JSON file (default stdout)")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts watchOptions) error {
	service := newAppService()
	req := app.GraphRequest{
		Workspace: workspaceRoot(),
		Mode:      resolveMode(cmd, opts.Mode),
		Output:    opts.Output,
	}
	rebuild := serializedRebuild(ctx, service, req, cmd.OutOrStdout())
	rebuild()
	return watchAndRebuild(ctx, req.Workspace, rebuild)
}

// serializedRebuild recomputes the whole graph. Debounced rebuilds run on
// timer goroutines, so runs are serialized.
func serializedRebuild(ctx context.Context, service app.Service, req app.GraphRequest, stdout io.Writer) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if err := computeGraph(ctx, service, req, stdout); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("graph rebuild failed")
		}
	}
}

func watchAndRebuild(ctx context.Context, root string, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create file watcher").
			WithCause(err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to watch " + root).
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("workspace", root).Msg("watching for changes")

	pending := newDebouncer(debounceInterval, rebuild)
	defer pending.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !isRelevantChange(event) {
				continue
			}
			log.Ctx(ctx).Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			pending.trigger()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Ctx(ctx).Warn().Err(err).Msg("watcher error")
		}
	}
}

// debouncer runs fn once changes have been quiet for interval. stop cancels a
// pending run and waits for a run that has already started.
type debouncer struct {
	interval time.Duration
	fn       func()
	timer    *time.Timer
	inflight sync.WaitGroup
}

func newDebouncer(interval time.Duration, fn func()) *debouncer {
	return &debouncer{interval: interval, fn: fn}
}

func (d *debouncer) trigger() {
	d.cancel()
	d.inflight.Add(1)
	d.timer = time.AfterFunc(d.interval, func() {
		defer d.inflight.Done()
		d.fn()
	})
}

func (d *debouncer) cancel() {
	if d.timer != nil && d.timer.Stop() {
		d.inflight.Done()
	}
	d.timer = nil
}

func (d *debouncer) stop() {
	d.cancel()
	d.inflight.Wait()
}

func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Ext(event.Name) == ".dart" || graphInputFiles[filepath.Base(event.Name)]
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers every directory below root. A .dart_tool
// directory is watched for package_config.json but not descended into.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if d.Name() == shared.DartToolDir {
			return filepath.SkipDir
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
