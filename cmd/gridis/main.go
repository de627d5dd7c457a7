package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/gridis/internal/config"
	"github.com/1broseidon/gridis/internal/hotkeys"
	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/platform"
	"github.com/1broseidon/gridis/internal/tiling"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "arrange":
		os.Exit(runOperation("arrange", "Tile the managed windows into the two-row grid.", os.Args[2:], (*ipc.Client).Arrange))
	case "swap":
		os.Exit(runOperation("swap", "Move every managed window to the other monitor.", os.Args[2:], (*ipc.Client).SwapMonitors))
	case "undo":
		os.Exit(runOperation("undo", "Restore the geometry saved by the last arrange or swap.", os.Args[2:], (*ipc.Client).Undo))
	case "toggle":
		os.Exit(runToggle(os.Args[2:]))
	case "refresh":
		os.Exit(runRefresh(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "plan":
		os.Exit(runPlan(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gridis <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the gridis daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrange             Tile windows into a two-row grid")
	fmt.Fprintln(w, "  swap                Move windows to the other monitor")
	fmt.Fprintln(w, "  undo                Restore geometry from before the last arrange/swap")
	fmt.Fprintln(w, "  toggle              Flip the visible flag")
	fmt.Fprintln(w, "  refresh             Rediscover application windows")
	fmt.Fprintln(w, "  layout select       Record a layout index")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List managed windows")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "  plan                Preview the grid without moving windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive control panel")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'gridis <command> --help' for command-specific options.")
}

// openBackend connects to the window system selected by cfg.
func openBackend(cfg *config.Config) (platform.Native, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		b := platform.NewMemoryBackend()
		width, height := cfg.Desktop.Width, cfg.Desktop.Height
		if cfg.Desktop.Auto() {
			width, height = 2560, 1440
		}
		b.SetMonitors(platform.Monitor{ID: 0, Name: "memory", Width: width, Height: height, Primary: true})
		return b, nil
	default:
		return platform.OpenNative(cfg.Display)
	}
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/gridis/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridis daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the daemon in the foreground: global hotkeys, IPC socket and config watching.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	configPath := *path
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}

	// Load configuration
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	log.Printf("Configuration loaded (backend: %s, desktop: %dx%d)", cfg.Backend, cfg.Desktop.Width, cfg.Desktop.Height)

	// Connect to the window system
	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to window system: %v", err)
	}
	defer backend.Disconnect()

	log.Printf("gridis daemon started (%s backend)", backend.Name())

	logger := cfg.NewLogger(os.Stderr)
	tiler := tiling.NewTiler(backend, cfg, logger)
	log.Printf("Tiler initialized with %d windows", tiler.Refresh())

	// Hotkeys are bound once; changes need a restart.
	hotkeyHandler, err := hotkeys.NewHandler(backend, tiler)
	switch {
	case errors.Is(err, hotkeys.ErrNoX11):
		log.Printf("Warning: %v; hotkeys disabled, use the CLI or IPC", err)
	case err != nil:
		log.Fatalf("Failed to create hotkey handler: %v", err)
	default:
		if err := hotkeyHandler.RegisterAll(cfg.HotkeyBindings()); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	reloadChan := make(chan *config.Config, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(cfg, configPath, tiler, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	watcher, err := config.NewWatcher(configPath, logger, ipcServer.Apply)
	if err != nil {
		log.Printf("Warning: config watching disabled: %v", err)
	} else if err := watcher.Start(); err != nil {
		log.Printf("Warning: config watching disabled: %v", err)
	} else {
		defer watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		running := cfg
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					res, err := config.LoadFromPath(configPath)
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					ipcServer.Apply(res.Config)

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down gridis daemon...")
					if watcher != nil {
						watcher.Stop()
					}
					ipcServer.Stop()
					backend.Disconnect()
					os.Exit(0)
				}

			case newCfg := <-reloadChan:
				log.Println("Config reloaded successfully")
				if newCfg.Logging != running.Logging {
					logger := newCfg.NewLogger(os.Stderr)
					tiler.SetLogger(logger)
					if watcher != nil {
						watcher.SetLogger(logger)
					}
				}
				// Startup-only settings are compared with what the daemon
				// was started with, not with the previous reload.
				for _, key := range config.RestartRequired(cfg, newCfg) {
					log.Printf("Warning: %s changes take effect after a daemon restart", key)
				}
				running = newCfg
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	backend.EventLoop()
	return 0
}
