// ferretd - gaming peripheral configuration daemon
//
// ferretd sits between configuration tools and HID gaming hardware: it
// probes attached mice through their vendor protocols, mirrors the
// on-board settings into an object model and publishes that model on
// the D-Bus system bus under org.ferretd.Ferret1. Clients edit the
// model and call Commit; ferretd writes the result back to the device.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ferretd/ferret-core/internal/bus"
	"github.com/ferretd/ferret-core/internal/daemon"
	"github.com/ferretd/ferret-core/internal/hidraw"
	"github.com/ferretd/ferret-core/internal/hotplug"
	"github.com/ferretd/ferret-core/internal/infrastructure/config"
	"github.com/ferretd/ferret-core/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path. A missing file is fine; the daemon
// runs on defaults.
const defaultConfigPath = "/etc/ferretd/config.yaml"

// exitUsage is returned for unrecognised command line arguments,
// matching EINVAL so init systems report a configuration problem.
const exitUsage = 22

// options holds the parsed command line.
type options struct {
	showVersion bool

	// level overrides the configured log level when non-empty.
	level string

	// raw enables hex dumps of all HID traffic.
	raw bool
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ferretd: %v\n", err)
		usage(os.Stderr)
		os.Exit(exitUsage)
	}
	if opts.showVersion {
		fmt.Printf("ferretd %s (%s, built %s)\n", version, commit, date)
		return
	}

	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs decodes the command line. The daemon takes no positional
// arguments.
func parseArgs(args []string) (options, error) {
	var opts options
	for _, arg := range args {
		switch {
		case arg == "--version":
			opts.showVersion = true
		case arg == "--quiet":
			opts.level = "error"
		case arg == "--verbose", arg == "--verbose=debug":
			opts.level = "debug"
		case arg == "--verbose=raw":
			opts.level = "debug"
			opts.raw = true
		case strings.HasPrefix(arg, "--verbose="):
			return options{}, fmt.Errorf("unknown verbosity %q", strings.TrimPrefix(arg, "--verbose="))
		default:
			return options{}, fmt.Errorf("unknown argument %q", arg)
		}
	}
	return opts, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ferretd [--version] [--quiet] [--verbose[=raw|debug]]")
}

// run is the actual daemon logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Parsed command line
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, opts options) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting ferretd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.level != "" {
		cfg.Logging.Level = opts.level
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)
	if cfg.Developer.Enabled {
		log.Warn("developer mode enabled, the bus accepts synthetic devices")
	}

	// Initialise the HID library
	if err := hidraw.Init(); err != nil {
		return fmt.Errorf("initialising hidraw: %w", err)
	}
	defer func() {
		if exitErr := hidraw.Exit(); exitErr != nil {
			log.Error("error shutting down hidraw", "error", exitErr)
		}
	}()

	// Create the reactor
	d, err := daemon.New(daemon.Options{
		Developer: cfg.Developer.Enabled,
		RawOutput: opts.raw,
		Logger:    log.With("component", "daemon"),
	})
	if err != nil {
		return fmt.Errorf("creating daemon: %w", err)
	}

	// Claim the bus name and export the object tree
	svc := bus.New(d)
	svc.SetLogger(log.With("component", "bus"))
	if err := svc.Connect(); err != nil {
		if errors.Is(err, bus.ErrNameTaken) {
			return errors.New("another instance of ferretd is already running")
		}
		return fmt.Errorf("connecting to bus: %w", err)
	}
	defer func() {
		log.Info("closing bus connection")
		if closeErr := svc.Close(); closeErr != nil {
			log.Error("error closing bus connection", "error", closeErr)
		}
	}()
	log.Info("bus name acquired", "name", bus.BusName)

	// Watch udev for hidraw devices
	var events <-chan hotplug.Event
	if cfg.Hotplug.Enabled {
		mon := hotplug.NewMonitor()
		mon.SetLogger(log.With("component", "hotplug"))
		events, err = mon.Start(ctx)
		if err != nil {
			return fmt.Errorf("starting hotplug monitor: %w", err)
		}
		log.Info("hotplug monitor started")
	} else {
		log.Info("hotplug disabled")
	}

	// Run the reactor until the context cancels
	if err := d.Run(ctx, events); err != nil {
		return fmt.Errorf("running daemon: %w", err)
	}

	log.Info("ferretd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FERRETD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FERRETD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
