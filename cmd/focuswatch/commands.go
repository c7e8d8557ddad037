package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"focuswatch/internal/bus"
	"focuswatch/internal/config"
	"focuswatch/internal/daemon"
	"focuswatch/internal/database"
	"focuswatch/internal/logging"
	"focuswatch/internal/reporter"
	"focuswatch/internal/sound"
	"focuswatch/internal/tracker"
	"focuswatch/internal/web"
	"focuswatch/pkg/detector"
	"focuswatch/pkg/focus"
)

const daemonChildEnv = "FOCUSWATCH_DAEMON_CHILD"

// app holds what every command needs after flag parsing.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	log    zerolog.Logger
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (.toml, .yaml, .yml)")
	return fs, configPath
}

// parseArgs parses flags anywhere among args and returns the positionals.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func setup(configPath string, detached bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	opts := []logging.Option{logging.WithLevelName(cfg.Log.Level)}
	logFile := cfg.Log.File
	if detached {
		logFile = detachedLogFile(cfg)
	}
	if logFile != "" {
		if !detached {
			opts = append(opts, logging.WithConsole(os.Stderr))
		}
		opts = append(opts, logging.WithFile(logFile))
	}

	logger, err := logging.New(opts...)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, log: logger.Zerolog()}, nil
}

func detachedLogFile(cfg *config.Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(os.TempDir(), appName+".log")
}

func (a *app) close() {
	a.logger.Close()
}

func (a *app) openRepository() (*database.Repository, func(), error) {
	db, err := database.Connect(a.cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return database.NewRepository(db), func() { db.Close() }, nil
}

func (a *app) backend() (focus.Backend, func()) {
	b := detector.New(a.logger.Component("detector"))
	return b, func() {
		if c, ok := b.(io.Closer); ok {
			c.Close()
		}
	}
}

func watchCommand(args []string, out io.Writer, withWeb bool) error {
	name := "watch"
	if withWeb {
		name = "serve"
	}
	fs, configPath := newFlagSet(name)
	chime := fs.Bool("chime", false, "play tones when watching starts and stops")
	detach := fs.Bool("detach", false, "run in the background")
	port := fs.Int("port", 0, "web API port (serve only)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	child := os.Getenv(daemonChildEnv) == "1"
	a, err := setup(*configPath, child)
	if err != nil {
		return err
	}
	defer a.close()

	dm := daemon.New(a.cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("%w (PID: %d)", daemon.ErrAlreadyRunning, pid)
	}

	if *detach && !child {
		return daemonize(out, detachedLogFile(a.cfg))
	}

	repo, closeDB, err := a.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	backend, closeBackend := a.backend()
	defer closeBackend()

	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer dm.RemovePID()

	b := bus.New(a.logger.Component("bus"))
	defer b.Close()

	svc := tracker.NewService(a.cfg, repo, backend, b, a.log)
	if *chime || a.cfg.Watcher.Chime {
		player := sound.NewPlayer(a.log)
		svc.SetChime(player)
		defer player.Wait()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if withWeb {
		server := web.NewServer(a.cfg, repo, backend, a.log, *port)
		go func() {
			if err := server.Start(); err != nil {
				a.log.Error().Err(err).Msg("Web server error")
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.log.Error().Err(err).Msg("Error shutting down web server")
			}
		}()
		fmt.Fprintf(out, "Web API available at: http://%s\n", server.GetAddress())
	}

	a.log.Info().Str("display_server", detector.DetectDisplayServer()).Msg("Focus backend initialized")
	a.log.Debug().Msgf("Configuration:\n%s", a.cfg.String())

	if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("tracker error: %w", err)
	}
	return nil
}

func currentCommand(args []string, out io.Writer) error {
	fs, configPath := newFlagSet("current")
	asJSON := fs.Bool("json", false, "print the snapshot as JSON")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := setup(*configPath, false)
	if err != nil {
		return err
	}
	defer a.close()

	backend, closeBackend := a.backend()
	defer closeBackend()

	snap := focus.SafeQuery(backend)
	if *asJSON {
		return writeJSON(out, snap)
	}
	printSnapshot(out, snap)
	return nil
}

func capabilitiesCommand(args []string, out io.Writer) error {
	fs, configPath := newFlagSet("capabilities")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := setup(*configPath, false)
	if err != nil {
		return err
	}
	defer a.close()

	backend, closeBackend := a.backend()
	defer closeBackend()

	return writeJSON(out, backend.Capabilities())
}

func stopCommand(args []string, out io.Writer) error {
	fs, configPath := newFlagSet("stop")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := setup(*configPath, false)
	if err != nil {
		return err
	}
	defer a.close()

	dm := daemon.New(a.cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Fprintln(out, "Watcher is not running")
		return nil
	}

	fmt.Fprintf(out, "Stopping watcher (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}

	fmt.Fprintln(out, "Watcher stopped successfully")
	return nil
}

func statusCommand(args []string, out io.Writer) error {
	fs, configPath := newFlagSet("status")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	a, err := setup(*configPath, false)
	if err != nil {
		return err
	}
	defer a.close()

	dm := daemon.New(a.cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		fmt.Fprintf(out, "Status: Running (PID: %d)\n", pid)
	} else {
		fmt.Fprintln(out, "Status: Not running")
	}
	fmt.Fprintf(out, "Poll Interval: %v\n", a.cfg.Watcher.PollInterval)
	fmt.Fprintf(out, "Debounce Window: %v\n", a.cfg.Watcher.DebounceWindow)
	fmt.Fprintf(out, "Display Server: %s\n", detector.DetectDisplayServer())

	repo, closeDB, err := a.openRepository()
	if err == nil {
		defer closeDB()
		if latest, err := repo.GetLatest(); err == nil && latest != nil {
			fmt.Fprintf(out, "\nLast Recorded Change (%s):\n", latest.Timestamp.Local().Format(time.DateTime))
			printSnapshot(out, latest.Snapshot())
		}
	}

	backend, closeBackend := a.backend()
	defer closeBackend()

	fmt.Fprintln(out, "\nCurrent Focus:")
	printSnapshot(out, focus.SafeQuery(backend))
	return nil
}

func reportCommand(args []string, out io.Writer) error {
	fs, configPath := newFlagSet("report")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	periodType := "day"
	if len(positional) > 0 {
		periodType = positional[0]
	}

	a, err := setup(*configPath, false)
	if err != nil {
		return err
	}
	defer a.close()

	repo, closeDB, err := a.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	rep := reporter.New(a.cfg, repo)
	report, err := rep.GenerateReport(periodType)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if *asJSON {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, jsonStr)
		return nil
	}

	fmt.Fprintln(out, rep.FormatReportText(report))
	return nil
}

func clearCommand(args []string, out io.Writer, in io.Reader) error {
	fs, configPath := newFlagSet("clear")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	if !*yes {
		fmt.Fprint(out, "This will delete all recorded focus changes. Are you sure? (yes/no): ")
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "yes" && response != "y" {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
	}

	a, err := setup(*configPath, false)
	if err != nil {
		return err
	}
	defer a.close()

	repo, closeDB, err := a.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Clear(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}

	fmt.Fprintln(out, "Database cleared successfully")
	return nil
}

func printSnapshot(out io.Writer, s focus.Snapshot) {
	if s.Application == nil && s.Window == nil {
		fmt.Fprintln(out, "  Nothing focused")
		return
	}
	if s.Application != nil {
		fmt.Fprintf(out, "  App: %s\n", s.Application.DisplayName)
		if s.Application.BundleID != nil {
			fmt.Fprintf(out, "  Bundle: %s\n", *s.Application.BundleID)
		}
	}
	if s.Window != nil {
		fmt.Fprintf(out, "  Title: %s\n", s.Window.Title)
	}
	if s.BrowserTab != nil {
		fmt.Fprintf(out, "  Tab: %s (%s)\n", focus.Deref(s.BrowserTab.Title), focus.Deref(s.BrowserTab.Browser))
	}
	fmt.Fprintf(out, "  Confidence: %s\n", s.ConfidenceLevel)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
