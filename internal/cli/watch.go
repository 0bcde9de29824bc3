package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/config"
	"github.com/voiceprint/voiceprint/internal/ingest"
)

func newWatchCmd() *cobra.Command {
	var (
		userID     string
		debounceMs int
		schedule   string
		noExport   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Learn transcripts as they change and export on a schedule",
		Long: `Start a long-running watcher on the configured transcript directories.
When transcript files are created or modified they are learned, after a
debounce so that a burst of writes becomes a single pass.

Profiles are also exported on the cron schedule in watch.export_schedule
(for example "@hourly" or "*/15 * * * *").

Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			if debounceMs <= 0 {
				debounceMs = ws.cfg.Watch.DebounceMS
			}
			if schedule == "" {
				schedule = ws.cfg.Watch.ExportSchedule
			}
			if noExport {
				schedule = ""
			}
			user := ws.user(userID)
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			opts := ingestOptions(ws.env)
			var roots []watchRoot
			for _, p := range ws.cfg.Ingest.Paths {
				dir := config.Resolve(ws.root, p)
				if info, err := os.Stat(dir); err != nil || !info.IsDir() {
					fmt.Fprintf(errOut, "  warn: skipping %s: not a directory\n", p)
					continue
				}
				r := watchRoot{dir: dir, ignore: ingest.NewIgnoreMatcher(dir, opts.Exclude...)}
				if err := addWatchDirs(watcher, r); err != nil {
					return fmt.Errorf("add watch directories: %w", err)
				}
				roots = append(roots, r)
			}
			if len(roots) == 0 {
				return fmt.Errorf("no transcript directories to watch; check ingest.paths in config")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Catch up on anything written while nobody was watching.
			dirs := make([]string, len(roots))
			for i, r := range roots {
				dirs[i] = r.dir
			}
			if results, err := learnPaths(ctx, ws, user, dirs, errOut); err != nil {
				fmt.Fprintf(errOut, "  warn: initial learn: %v\n", err)
			} else {
				printLearnSummary(out, results)
			}

			if schedule != "" {
				c := cron.New()
				if _, err := c.AddFunc(schedule, func() {
					autoExport(ws.root, ws.cfg, ws.store, user, errOut)
				}); err != nil {
					return fmt.Errorf("%w: export schedule %q: %v", errInvalidFlag, schedule, err)
				}
				c.Start()
				defer func() { <-c.Stop().Done() }()
			}

			debounce := time.Duration(debounceMs) * time.Millisecond
			fmt.Fprintf(out, "Watching %s (debounce %s", strings.Join(dirs, ", "), debounce)
			if schedule != "" {
				fmt.Fprintf(out, ", export %s", schedule)
			}
			fmt.Fprintln(out, "). Press Ctrl-C to stop.")

			pending := make(map[string]bool)
			timer := time.NewTimer(debounce)
			timer.Stop()

			for {
				select {
				case <-ctx.Done():
					fmt.Fprintln(out, "\nStopping watcher.")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					r, rel, ok := rootFor(roots, event.Name)
					if !ok || shouldIgnoreEvent(rel, r.ignore) {
						continue
					}

					// Start watching new directories.
					if event.Has(fsnotify.Create) {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							_ = watcher.Add(event.Name)
							continue
						}
					}
					if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
						continue
					}
					if !opts.Accepts(event.Name) {
						continue
					}

					pending[event.Name] = true
					timer.Reset(debounce)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(errOut, "  watch error: %v\n", err)

				case <-timer.C:
					if len(pending) == 0 {
						continue
					}
					batch := pending
					pending = make(map[string]bool)
					processChanges(ws, user, batch, opts, out)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to learn for (default: configured user)")
	cmd.Flags().IntVar(&debounceMs, "debounce", 0, "debounce interval in milliseconds (default: watch.debounce_ms)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule for exports (default: watch.export_schedule)")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Disable scheduled exports")

	return cmd
}

// watchRoot is one watched transcript directory.
type watchRoot struct {
	dir    string
	ignore *ingest.IgnoreMatcher
}

// rootFor returns the root that contains path and path relative to it.
func rootFor(roots []watchRoot, path string) (watchRoot, string, bool) {
	for _, r := range roots {
		rel, err := filepath.Rel(r.dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return r, rel, true
	}
	return watchRoot{}, "", false
}

// addWatchDirs recursively adds the directories under r, skipping ignored ones.
func addWatchDirs(watcher *fsnotify.Watcher, r watchRoot) error {
	return filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(r.dir, path)
		if rel != "." && (ingest.HardIgnore(d.Name()) || r.ignore.Match(rel+"/")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldIgnoreEvent checks whether a path relative to its root is ignored.
func shouldIgnoreEvent(rel string, ignore *ingest.IgnoreMatcher) bool {
	parts := strings.Split(rel, string(filepath.Separator))
	for _, p := range parts[:len(parts)-1] {
		if ingest.HardIgnore(p) {
			return true
		}
	}
	return ingest.HardIgnore(parts[len(parts)-1]) || ignore.Match(rel)
}

// processChanges learns a batch of changed transcripts in path order.
func processChanges(ws *workspace, userID string, batch map[string]bool, opts ingest.Options, out io.Writer) {
	paths := make([]string, 0, len(batch))
	for p := range batch {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	transcripts, err := ingest.Load(context.Background(), paths, opts)
	if err != nil {
		ws.log.Warn("load changed transcripts", zap.Error(err))
		return
	}

	var learned, skipped int
	version := 0
	for _, t := range transcripts {
		res, err := ws.learner.Transcript(userID, t)
		if err != nil {
			ws.log.Warn("learn transcript", zap.String("path", t.Path), zap.Error(err))
			continue
		}
		if res.Skipped {
			skipped++
			continue
		}
		learned++
		version = res.Outcome.Delta.VersionAfter
	}
	if learned+skipped == 0 {
		return
	}

	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(out, "[%s] learned %d, unchanged %d", ts, learned, skipped)
	if version > 0 {
		fmt.Fprintf(out, " (profile v%d)", version)
	}
	fmt.Fprintln(out)
}
