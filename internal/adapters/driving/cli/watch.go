package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/folio-labs/folio-cli/internal/logger"
)

var watchCollection string

// watchSettleDelay lets editors finish writing before a file is ingested.
// Saving a file typically fires several write events in quick succession.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new or changed documents",
	Long: `Watches a directory and automatically ingests supported files as
they are created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCollection, "collection", "c", "", "target collection (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if extractor == nil {
		return errors.New("text extractor not configured")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	collection := watchCollection
	if collection == "" {
		collection = appConfig.Retrieval.Collection
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (collection %q). Press Ctrl+C to stop.\n", dir, collection)
	return watchLoop(cmd, watcher, collection)
}

// watchLoop processes watcher events until the context ends. Writes are
// debounced per file so a burst of editor saves ingests once.
func watchLoop(cmd *cobra.Command, watcher *fsnotify.Watcher, collection string) error {
	ctx := cmd.Context()

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := pending[path]; ok {
			timer.Stop()
		}
		pending[path] = time.AfterFunc(watchSettleDelay, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			ingestWatched(ctx, cmd, path, collection)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !extractor.Supports(filepath.Base(event.Name)) {
				logger.Debug("ignoring unsupported file: %s", event.Name)
				continue
			}
			schedule(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", err)
		}
	}
}

// ingestWatched extracts and ingests one file, reporting failure without
// stopping the watch.
func ingestWatched(ctx context.Context, cmd *cobra.Command, path, collection string) {
	if ctx.Err() != nil {
		return
	}

	filename := filepath.Base(path)
	text, err := extractor.Extract(ctx, path)
	if err != nil {
		cmd.PrintErrf("extracting %s: %v\n", filename, err)
		return
	}

	result, err := ingestService.Ingest(ctx, text, filename, collection)
	if err != nil {
		cmd.PrintErrf("ingesting %s: %v\n", filename, err)
		return
	}
	cmd.Printf("Ingested %s: %d segments (document %s)\n",
		result.Filename, result.SegmentCount, result.DocumentID)
}
