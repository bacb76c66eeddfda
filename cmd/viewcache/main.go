package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/wilbur182/viewcache/internal/config"
	"github.com/wilbur182/viewcache/internal/directory"
	"github.com/wilbur182/viewcache/internal/errors"
	"github.com/wilbur182/viewcache/internal/features"
	"github.com/wilbur182/viewcache/internal/host"
	"github.com/wilbur182/viewcache/internal/keymap"
	"github.com/wilbur182/viewcache/internal/state"
	"github.com/wilbur182/viewcache/internal/styles"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file (.json, .yaml)")
	strategyFlag = flag.String("strategy", "", "state strategy: owned, injected, shared, arena, functional")
	policyFlag   = flag.String("policy", "", "invalidation policy: diff, graph")
	debugFlag    = flag.Bool("debug", false, "enable debug logging and invariant assertions")
	headlessFlag = flag.Bool("headless", false, "replay a script and print frames instead of running the TUI")
	scriptFlag   = flag.String("script", "", "headless script: comma-separated clicks or a .yaml file")
	logPath      = flag.String("log", "", "write logs to this file")
	versionFlag  = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("viewcache version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	interactive := !*headlessFlag && term.IsTerminal(int(os.Stdout.Fd()))

	logger, closeLog, err := setupLogger(*logPath, *debugFlag, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: *debugFlag})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	features.Init(cfg)
	if *debugFlag {
		features.SetOverride(features.StrictInvariants.Name, true)
	}
	if features.IsEnabled(features.StrictInvariants.Name) {
		errors.SetAssertions(true)
	}

	strategy, err := state.ParseStrategy(cfg.Engine.Strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine.strategy: %v\n", err)
		os.Exit(2)
	}
	policy, err := directory.ParsePolicy(cfg.Engine.Policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine.policy: %v\n", err)
		os.Exit(2)
	}
	h := host.New(host.Options{
		Containers: cfg.Host.Containers,
		Strategy:   strategy,
		Policy:     policy,
		Logger:     logger,
	})
	root, err := h.Mount(cfg.Host.Mount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to mount: %v\n", err)
		os.Exit(1)
	}

	if !interactive {
		script, err := host.ResolveScript(*scriptFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid script: %v\n", err)
			os.Exit(2)
		}
		if err := host.RunHeadless(os.Stdout, h, root, script); err != nil {
			fmt.Fprintf(os.Stderr, "Headless run failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	styles.ApplyThemeWithOverrides(cfg.UI.Theme.Name, cfg.UI.Theme.Overrides)

	km := keymap.NewRegistry(keymap.DefaultBindings())
	if err := km.ApplyOverrides(cfg.Keymap.Overrides); err != nil {
		logger.Warn("keymap override", "err", err)
	}

	watchPath := *configPath
	if watchPath == "" {
		watchPath = config.ConfigPath()
	}
	watcher, err := config.Watch(watchPath)
	if err != nil {
		logger.Warn("config watch disabled", "path", watchPath, "err", err)
		watcher = nil
	}

	persist := config.SaveTheme
	if *configPath != "" {
		persist = nil
	}
	model := host.NewModel(h, root, host.ModelOptions{
		Config:       cfg,
		Keymap:       km,
		Watcher:      watcher,
		PersistTheme: persist,
		Logger:       logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// applyFlags lets -strategy and -policy override the config file.
func applyFlags(cfg *config.Config) {
	if *strategyFlag != "" {
		cfg.Engine.Strategy = *strategyFlag
	}
	if *policyFlag != "" {
		cfg.Engine.Policy = *policyFlag
	}
}

// setupLogger logs to path when set. Without a file, the TUI discards logs
// so they do not corrupt the screen; headless runs log to stderr.
func setupLogger(path string, debugOn, interactive bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debugOn {
		level = slog.LevelDebug
	}
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case interactive:
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + revision
	if len(ver) > 20 {
		ver = ver[:20]
	}
	if dirty {
		ver += "+dirty"
	}
	return ver
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: viewcache [options]\n\n")
		fmt.Fprintf(os.Stderr, "Demonstrates render-cache invalidation over shared state.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
