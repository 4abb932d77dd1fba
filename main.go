// Command waterdash shows simulated water-quality readings, either as a
// full-screen terminal dashboard or as a browser dashboard served over HTTP.
// The readings are a per-tick random walk; nothing here talks to hardware.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nati/waterdash/internal/alert"
	"github.com/nati/waterdash/internal/config"
	"github.com/nati/waterdash/internal/export"
	"github.com/nati/waterdash/internal/history"
	"github.com/nati/waterdash/internal/i18n"
	"github.com/nati/waterdash/internal/monitor"
	"github.com/nati/waterdash/internal/prefs"
	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/sim"
	"github.com/nati/waterdash/internal/web"
)

func main() {
	cfg := config.Load()

	mode := ""
	args := os.Args[1:]
	if len(args) > 0 {
		mode = args[0]
	}

	switch mode {
	case "", "dash":
		runDashboard(cfg)
	case "serve":
		runServe(cfg)
	case "export":
		runExport(cfg, args[1:])
	case "lang":
		runLang(cfg, args[1:])
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "waterdash: unknown command %q\n\n", mode)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`waterdash — simulated water-quality dashboard

Usage:
  waterdash              live terminal dashboard
  waterdash serve        browser dashboard on WATERDASH_HTTP_ADDR (default :8080)
  waterdash export [f]   write the readings table as CSV (default timestamped name)
  waterdash lang [en|om] show or set the persisted UI language
  waterdash help         this text

Settings come from the environment (optionally via .env); see internal/config.`)
}

func runDashboard(cfg config.Config) {
	// Stdout belongs to the TUI, so logs go to the file sink or nowhere.
	logger, closeLog := newLogger(cfg.LogFile, false)
	defer closeLog()
	slog.SetDefault(logger)

	store := openPrefs(cfg, logger)
	engine := newEngine(cfg)
	if err := monitor.Run(engine, cfg, store, resolveLang(cfg, store)); err != nil {
		fmt.Fprintln(os.Stderr, "waterdash:", err)
		os.Exit(1)
	}
}

func runServe(cfg config.Config) {
	logger, closeLog := newLogger(cfg.LogFile, true)
	defer closeLog()
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	store := openPrefs(cfg, logger)
	engine := newEngine(cfg)
	engine.SetLanguage(resolveLang(cfg, store))

	if err := web.NewServer(engine, cfg, store, logger).Run(); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runExport(cfg config.Config, args []string) {
	now := time.Now()
	path := export.DefaultFilename(now)
	if len(args) > 0 {
		path = args[0]
	}

	engine := newEngine(cfg)
	readings := engine.Readings()
	rows := engine.Table(cfg.TableRows, cfg.TableStep, now)

	if path == "-" {
		if err := export.Write(os.Stdout, readings, rows); err != nil {
			fmt.Fprintln(os.Stderr, "waterdash:", err)
			os.Exit(1)
		}
		return
	}
	if err := export.WriteFile(path, readings, rows); err != nil {
		fmt.Fprintln(os.Stderr, "waterdash:", err)
		os.Exit(1)
	}
	fmt.Println("exported to", path)
}

func runLang(cfg config.Config, args []string) {
	store := openPrefs(cfg, slog.Default())

	if len(args) == 0 {
		fmt.Println(resolveLang(cfg, store))
		return
	}
	lang, ok := i18n.Parse(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "waterdash: unknown language %q (want en or om)\n", args[0])
		os.Exit(1)
	}
	if err := store.Set(prefs.LanguageKey, string(lang)); err != nil {
		fmt.Fprintln(os.Stderr, "waterdash:", err)
		os.Exit(1)
	}
	fmt.Println("language set to", lang)
}

// newEngine builds the station from the fixed catalog and wires the tick
// cycle around it.
func newEngine(cfg config.Config) *sim.Engine {
	station, err := sim.NewStation(sensor.Catalog(), sim.NewSource(cfg.Seed))
	if err != nil {
		// Only reachable with a nil source, which NewSource never returns.
		fmt.Fprintln(os.Stderr, "waterdash:", err)
		os.Exit(1)
	}
	dispatcher := alert.NewDispatcher(cfg.NotifyTTL, nil)
	return sim.NewEngine(station, dispatcher, history.NewStore(cfg.HistorySize))
}

// newLogger builds the slog sink: the log file when configured, optionally
// teed to stdout for the non-TUI modes.
func newLogger(path string, toStdout bool) (*slog.Logger, func()) {
	var sinks []io.Writer
	closeLog := func() {}

	if path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			sinks = append(sinks, f)
			closeLog = func() { f.Close() }
		} else {
			fmt.Fprintln(os.Stderr, "waterdash: cannot open log file:", err)
		}
	}
	if toStdout {
		sinks = append(sinks, os.Stdout)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, io.Discard)
	}

	h := slog.NewTextHandler(io.MultiWriter(sinks...), nil)
	return slog.New(h), closeLog
}

// openPrefs loads the preference file, falling back to an in-memory store
// when the file cannot be used. Preferences are a convenience, never fatal.
func openPrefs(cfg config.Config, logger *slog.Logger) prefs.Store {
	path := cfg.PrefsPath
	if path == "" {
		p, err := prefs.DefaultPath()
		if err != nil {
			logger.Warn("preferences disabled", slog.String("error", err.Error()))
			return prefs.Memory{}
		}
		path = p
	}
	store, err := prefs.Open(path)
	if err != nil {
		logger.Warn("preferences disabled", slog.String("error", err.Error()))
		return prefs.Memory{}
	}
	return store
}

// resolveLang picks the UI language: the environment override wins, then
// the stored preference, then English.
func resolveLang(cfg config.Config, store prefs.Store) i18n.Lang {
	if cfg.Language != "" {
		if lang, ok := i18n.Parse(cfg.Language); ok {
			return lang
		}
	}
	if v, ok := store.Get(prefs.LanguageKey); ok {
		if lang, ok := i18n.Parse(v); ok {
			return lang
		}
	}
	return i18n.English
}
