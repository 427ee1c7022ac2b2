// Command ls-galaxy renders a stellar catalog as a rotating 3D Milky Way star
// field in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-galaxy/internal/catalog"
	"github.com/litescript/ls-galaxy/internal/config"
	"github.com/litescript/ls-galaxy/internal/engine"
	"github.com/litescript/ls-galaxy/internal/lod"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/render"
	"github.com/litescript/ls-galaxy/internal/starfield"
	"github.com/litescript/ls-galaxy/internal/state"
	"github.com/litescript/ls-galaxy/internal/ui"
	"github.com/litescript/ls-galaxy/internal/version"
)

// defaultConfigPath is read when -config is not given. A missing file there
// is not an error.
const defaultConfigPath = "ls-galaxy.yaml"

// Headless frame size when stdout is not a terminal
const (
	defaultFrameWidth  = 80
	defaultFrameHeight = 24
)

// CLI flags
var (
	catalogSource string
	configPath    string
	logLevel      string
	logFile       string
	watchCatalog  bool
	summaryMode   bool
	summaryTop    int
	snapshotPath  string
	snapshotLimit int
	frameMode     bool
	frameWidth    int
	frameHeight   int
	lodPolicy     string
	density       float64
	speed         float64
	printConfig   bool
	showVersion   bool
)

func main() {
	flag.StringVar(&catalogSource, "catalog", "", "Catalog CSV: file path, http(s) URL, - for stdin (default: built-in bright stars)")
	flag.StringVar(&configPath, "config", "", "YAML config file (default: "+defaultConfigPath+" if present)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to file (the TUI discards logs otherwise)")
	flag.BoolVar(&watchCatalog, "watch", false, "Reload the catalog file when it changes")
	flag.BoolVar(&summaryMode, "summary", false, "Print field statistics instead of TUI")
	flag.IntVar(&summaryTop, "top", 10, "Brightest stars listed by -summary")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.IntVar(&snapshotLimit, "snapshot-limit", 0, "Maximum stars in the JSON snapshot (0 = all)")
	flag.BoolVar(&frameMode, "frame", false, "Print one rendered frame instead of TUI")
	flag.IntVar(&frameWidth, "width", 0, "Frame width in cells for -frame (default: terminal width)")
	flag.IntVar(&frameHeight, "height", 0, "Frame height in cells for -frame (default: terminal height)")
	flag.StringVar(&lodPolicy, "lod", "", "Level of detail policy (distance, full)")
	flag.Float64Var(&density, "density", 0, "Fraction of stars drawn, 0 to 1")
	flag.Float64Var(&speed, "speed", 0, "Initial simulation speed in years per second")
	flag.BoolVar(&printConfig, "print-config", false, "Print the effective configuration as YAML and exit")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-galaxy %s\n", version.Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if printConfig {
		if err := cfg.WriteYAML(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	headless := summaryMode || snapshotPath != "" || frameMode

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.Log.Level))
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else if !headless {
		// The TUI owns the terminal
		logger.SetOutput(io.Discard)
	}

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize components
	stateMgr := state.NewManager(cfg.StateConfig())
	stateLog := logger.Named("state")
	stateMgr.Subscribe(func(ev state.Event) {
		logEvent(stateLog, ev)
	})

	params := cfg.StarfieldParams()
	eng := engine.New(stateMgr,
		engine.WithLogger(logger.Named("engine")),
		engine.WithLODOptions(cfg.LODOptions()...),
		engine.WithPhotometry(cfg.Render.ReferenceRadiusPc, cfg.Render.BrightnessScale),
		engine.WithParams(params),
	)

	loader := catalog.NewLoader(
		catalog.WithTimeout(cfg.CatalogTimeout),
		catalog.WithLogger(logger.Named("catalog")),
	)
	source := cfg.Catalog
	if source == "" {
		source = catalog.SourceBuiltin
	}
	load := func(ctx context.Context) (*starfield.Field, *catalog.Result, error) {
		return loadField(ctx, loader, source, params, logger)
	}

	// Headless mode: no TUI
	if headless {
		if err := runHeadless(ctx, cfg, stateMgr, eng, load); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	focus := ui.FocusSun
	if cfg.Camera.Focus == config.FocusCenter {
		focus = ui.FocusCenter
	}
	model := ui.New(ctx, stateMgr, eng, load, ui.Options{
		Source:   source,
		Focus:    focus,
		Distance: cfg.Camera.Distance,
		FOV:      cfg.Camera.FOV,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if source == catalog.SourceStdin {
		// Keys come from the terminal while the catalog streams on stdin
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, opts...)

	if watchCatalog {
		stop, err := watchFile(ctx, source, logger.Named("watch"), func(reason string) {
			p.Send(ui.ReloadMsg{Reason: reason})
		})
		if err != nil {
			logger.Warn("Watch disabled: %v", err)
		} else {
			defer stop()
		}
	}

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var cfg config.Config
	var err error
	switch {
	case set["config"]:
		cfg, err = config.Load(configPath)
	default:
		cfg, err = config.Load(defaultConfigPath)
		if errors.Is(err, os.ErrNotExist) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return config.Config{}, err
	}

	if set["catalog"] {
		cfg.Catalog = catalogSource
	}
	if set["log-level"] {
		cfg.Log.Level = logLevel
	}
	if set["log-file"] {
		cfg.Log.File = logFile
	}
	if set["lod"] {
		cfg.LOD.Policy = lodPolicy
	}
	if set["density"] {
		cfg.Render.Density = density
	}
	if set["speed"] {
		cfg.Simulation.InitialSlider = state.SliderFromSpeed(speed, cfg.Simulation.MinSpeed, cfg.Simulation.MaxSpeed)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// loadField reads the catalog and builds the star field.
func loadField(ctx context.Context, loader *catalog.Loader, source string, params starfield.Params, logger *logging.Logger) (*starfield.Field, *catalog.Result, error) {
	res, err := loader.Load(ctx, source)
	if err != nil {
		logger.Error("Load failed: %v", err)
		return nil, nil, err
	}

	field, err := starfield.Build(res.Records, params)
	if err != nil {
		err = fmt.Errorf("build field from %s: %w", source, err)
		logger.Error("%v", err)
		return nil, res, err
	}

	logger.Info("Loaded %s: %d stars (%d rows skipped) in %v",
		source, field.Len(), res.Skipped, res.Duration)
	return field, res, nil
}

// runHeadless handles the summary, snapshot and frame modes without a TUI.
func runHeadless(ctx context.Context, cfg config.Config, stateMgr *state.Manager, eng *engine.Engine, load ui.LoadFunc) error {
	field, res, err := load(ctx)
	if err != nil {
		source := cfg.Catalog
		if res != nil {
			source = res.Source
		}
		stateMgr.RecordLoad(source, 0, 0, err)
		return err
	}
	stateMgr.RecordLoad(res.Source, field.Len(), res.Duration, nil)
	eng.SetField(field)

	// Export JSON if requested
	if snapshotPath != "" {
		export := starfield.ExportSnapshot(field, res.Source, res.LoadedAt, snapshotLimit)
		if snapshotPath == "-" {
			if err := export.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// Print summary table if requested
	if summaryMode {
		starfield.WriteSummaryTable(os.Stdout, field, res.Source, summaryTop)
	}

	// Single rendered frame
	if frameMode {
		if summaryMode {
			fmt.Println()
		}
		return printFrame(ctx, cfg, eng)
	}
	return nil
}

func printFrame(ctx context.Context, cfg config.Config, eng *engine.Engine) error {
	cols, rows := frameWidth, frameHeight
	if term.IsTerminal(int(os.Stdout.Fd())) {
		w, h, err := term.GetSize(int(os.Stdout.Fd()))
		if err == nil {
			if cols <= 0 {
				cols = w
			}
			if rows <= 0 {
				// leave room for the prompt
				rows = h - 1
			}
		}
	}
	if cols <= 0 {
		cols = defaultFrameWidth
	}
	if rows <= 0 {
		rows = defaultFrameHeight
	}

	target := eng.SunPosition(0)
	if cfg.Camera.Focus == config.FocusCenter {
		target = eng.Markers(0)[0].Position
	}
	cam := render.NewOrbitCamera(target, cfg.Camera.Distance)
	cam.FOV = cfg.Camera.FOV

	fb := render.NewFramebuffer(cols, rows)
	cam.SetAspect(fb.Width, fb.Height)

	if _, err := eng.Frame(ctx, 0, cam, fb); err != nil {
		return err
	}
	fmt.Println(fb.Render())
	return nil
}

func logEvent(log *logging.Logger, ev state.Event) {
	switch ev.Type {
	case state.EventCatalogLoaded:
		log.Debug("catalog %s loaded (%.0f stars)", ev.Source, ev.New)
	case state.EventCatalogFailed:
		log.Warn("catalog %s failed: %s", ev.Source, ev.Message)
	default:
		if ev.Field == "lod" {
			log.Info("%s: %s -> %s", ev.Field, lodName(ev.Old), lodName(ev.New))
			return
		}
		log.Info("%s: %g -> %g", ev.Field, ev.Old, ev.New)
	}
}

func lodName(v float64) string {
	if v >= float64(lod.PolicyFull) {
		return lod.PolicyFull.String()
	}
	return lod.PolicyDistance.String()
}
