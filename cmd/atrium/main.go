package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"atrium/cmd/atrium/page"
	"atrium/cmd/atrium/ui"
	"atrium/internal/clock"
	"atrium/internal/config"
	"atrium/internal/content"
	"atrium/internal/logging"
	"atrium/internal/perf"
	"atrium/internal/snapshot"
)

var (
	// Global flags
	contentPath  string
	configPath   string
	reduceMotion bool
	noMouse      bool
	verbose      bool

	// Command flags
	exportWidth   int
	snapshotDir   string
	snapshotWatch bool

	// Shared state built by PersistentPreRunE
	cfg     *config.Config
	logger  *zap.Logger
	tracker *perf.Tracker
)

// Build-time version information, set via -ldflags.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// rootCmd opens the page. Subcommands render, validate, or cache it without
// a TTY.
var rootCmd = &cobra.Command{
	Use:   "atrium",
	Short: "Atrium Digital — the studio's page, in your terminal",
	Long: `Atrium is the studio's marketing page, rebuilt for the terminal.

The page scrolls like any pager but behaves like the web one: sections
reveal as they enter the view, counters climb to their targets, the partner
strip drifts, and the contact form masks and validates as you type.

Run without arguments to open the page. Use the subcommands to render,
validate, or cache the page without a TTY.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version must work even with a broken config on disk.
		if cmd.Name() == "version" {
			return nil
		}

		tracker = perf.NewTracker(clock.NewSystem())

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		tracker.Mark(perf.MarkConfigLoaded)

		// The interactive page owns the terminal, so its logger goes to the
		// configured file or nowhere; subcommands log to stderr.
		if cmd.Parent() == nil {
			logger, err = logging.ForPage(cfg.Logging, verbose)
		} else {
			logger, err = logging.ForCLI(cfg.Logging, verbose)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPage,
}

// exportCmd renders the final page state to stdout.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the full page once to stdout",
	Long: `Renders the page in its final state: every section revealed, counters on
their targets, lazy panels loaded, the partner strip at rest. No TTY is
needed; pipe the output anywhere.`,
	RunE: runExport,
}

// checkCmd validates a content document.
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a content document",
	Long: `Parses a content document and reports the first structural problem:
unknown section kinds or reveal styles, duplicate ids, dangling nav links,
bad marker values. Exits zero when the document is sound.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// snapshotCmd maintains the offline cache.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write or refresh the offline snapshot cache",
	Long: `Renders the page and stores it in the cache directory, so the last seen
page stays readable even when the content document is gone. With --watch
the cache refreshes whenever the content document changes, after changes
settle for the configured debounce window.`,
	RunE: runSnapshot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "atrium %s (commit %s, built %s)\n", version, gitCommit, buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&contentPath, "content", "c", "", "Content document (default: the embedded page)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: the per-user config dir)")
	rootCmd.PersistentFlags().BoolVar(&reduceMotion, "reduce-motion", false, "Skip animation; everything renders at rest")
	rootCmd.PersistentFlags().BoolVar(&noMouse, "no-mouse", false, "Ignore the mouse entirely")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	exportCmd.Flags().IntVar(&exportWidth, "width", 100, "Render width in columns")

	snapshotCmd.Flags().StringVar(&snapshotDir, "dir", "", "Cache directory (default: snapshot.cache_dir, else the user cache dir)")
	snapshotCmd.Flags().BoolVar(&snapshotWatch, "watch", false, "Keep refreshing while the content document changes")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file and layers the flag overrides on top.
// The flags only tighten: --reduce-motion and --no-mouse can switch a
// capability off, never force one on.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if reduceMotion {
		c.Motion.Reduce = true
	}
	if noMouse {
		c.Input.Mouse = false
	}
	return c, nil
}

// loadSite returns the content document: --content when given, the embedded
// default otherwise.
func loadSite() (*content.Site, error) {
	if contentPath == "" {
		return content.MustDefault(), nil
	}
	return content.Load(contentPath)
}

// runPage opens the interactive page.
func runPage(cmd *cobra.Command, args []string) error {
	site, err := loadSite()
	if err != nil {
		return err
	}
	tracker.Mark(perf.MarkContentLoaded)

	styles := ui.NewStyles(ui.DetectTheme(string(cfg.Theme)))
	model := page.New(page.Options{
		Site:   site,
		Config: cfg,
		Styles: &styles,
		Log:    logger,
		Perf:   tracker,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Input.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, opts...)
	_, err = p.Run()
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	site, err := loadSite()
	if err != nil {
		return err
	}
	tracker.Mark(perf.MarkContentLoaded)

	styles := ui.NewStyles(ui.DetectTheme(string(cfg.Theme)))
	out := page.Export(page.Options{
		Site:   site,
		Config: cfg,
		Styles: &styles,
		Log:    logger,
		Perf:   tracker,
	}, exportWidth)

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	site, err := content.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d sections, %d nav links)\n",
		args[0], len(site.Sections), len(site.Nav))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	dir := snapshotDir
	if dir == "" {
		dir = cfg.Snapshot.CacheDir
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("no cache directory available: %w", err)
		}
		dir = filepath.Join(base, "atrium")
	}

	styles := ui.NewStyles(ui.DetectTheme(string(cfg.Theme)))
	render := func() ([]byte, error) {
		site, err := loadSite()
		if err != nil {
			return nil, err
		}
		return []byte(page.Export(page.Options{
			Site:   site,
			Config: cfg,
			Styles: &styles,
			Log:    logger,
		}, 0)), nil
	}

	mgr := snapshot.NewManager(dir, cfg.Snapshot.RefreshDebounce(), logger)

	if snapshotWatch {
		if contentPath == "" {
			return errors.New("snapshot --watch needs --content pointing at the file to watch")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			logger.Info("Received shutdown signal")
			cancel()
		}()

		return mgr.Watch(ctx, contentPath, render)
	}

	data, err := render()
	if err != nil {
		return err
	}
	if err := mgr.Write(data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "snapshot written to %s\n", mgr.Path())
	return nil
}
