package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"argus/cmd/argus/ui"
	"argus/internal/config"
	"argus/internal/floating"
	"argus/internal/logging"
	"argus/internal/orchestrator"
	"argus/internal/stream"
	"argus/internal/workspace"
)

var (
	// Global flags
	verbose      bool
	workspaceDir string
	timeout      time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "argus",
	Short: "Argus - adaptive workspace for AI-driven testing",
	Long: `Argus is a terminal workspace for AI-driven test sessions.

It tails a conversation transcript, turns completed tool calls into
workspace panels, and adapts the layout as panels come and go. Panels
can be pinned, popped out into a floating layer, and docked back.

Run without arguments to start the interactive workspace.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip zap init for interactive mode (it has its own UI and
		// the categorized file logger)
		if cmd.Use == "argus" && cmd.CalledAs() == "argus" {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
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
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkspace()
	},
}

// replayCmd feeds a transcript through the orchestrator headlessly
var replayCmd = &cobra.Command{
	Use:   "replay [transcript]",
	Short: "Replay a transcript through the panel orchestrator",
	Long: `Reads a JSON-lines transcript and reports which panels each
completed tool call would open, without starting the UI.

Useful for inspecting what a recorded session does to the workspace.

Example:
  argus replay .argus/transcript.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

// initCmd writes a default configuration into the workspace
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Argus in the current workspace",
	Long: `Creates the .argus/ directory with a default config.yaml.

Run this once when starting to use Argus with a new project.`,
	RunE: runInit,
}

// statusCmd shows workspace status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Argus workspace status",
	RunE:  showStatus,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveWorkspace() string {
	if workspaceDir != "" {
		return workspaceDir
	}
	cwd, _ := os.Getwd()
	return cwd
}

// runWorkspace starts the interactive TUI fed by the transcript watcher.
func runWorkspace() error {
	ws := resolveWorkspace()
	cfg, err := config.Load(ws)
	if err != nil {
		return err
	}

	if err := logging.Initialize(ws); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer logging.CloseAll()
	logging.Boot("starting workspace in %s", ws)

	var store floating.Store
	if cfg.Workspace.PersistFloating {
		fs, err := floating.NewFileStore(cfg.StateDirPath(ws))
		if err != nil {
			return fmt.Errorf("open state dir: %w", err)
		}
		store = fs
	} else {
		store = floating.NewMemoryStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := stream.NewTranscriptWatcher(cfg.TranscriptPath(ws), false)
	if err != nil {
		return fmt.Errorf("create transcript watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start transcript watcher: %w", err)
	}
	defer watcher.Stop()

	p := tea.NewProgram(ui.New(cfg, store, watcher.Messages()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("workspace exited: %w", err)
	}
	return nil
}

// runReplay processes a recorded transcript without the UI.
func runReplay(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	ws := resolveWorkspace()
	cfg, err := config.Load(ws)
	if err != nil {
		return err
	}

	path := cfg.TranscriptPath(ws)
	if len(args) == 1 {
		path = args[0]
	}
	logger.Info("Replaying transcript", zap.String("path", path))

	msgs, err := stream.ReadTranscript(path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	if len(msgs) == 0 {
		logger.Warn("Transcript empty or missing", zap.String("path", path))
		return nil
	}

	engine := workspace.NewEngine()
	orch := orchestrator.New(engine)

	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		orch.Process([]stream.Message{m})
	}

	st := engine.State()
	logger.Info("Replay complete",
		zap.Int("messages", len(msgs)),
		zap.Int("tool_calls", orch.ProcessedCount()),
		zap.Int("panels", len(st.Panels)),
		zap.String("mode", string(st.Mode)))

	for _, p := range engine.Panels() {
		logger.Info("Panel",
			zap.String("id", p.ID),
			zap.String("type", string(p.Type)),
			zap.String("title", p.Title))
	}
	return nil
}

// runInit writes the default configuration
func runInit(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()

	if _, err := os.Stat(filepath.Join(ws, ".argus", "config.yaml")); err == nil {
		fmt.Println("Workspace already initialized. Use 'argus status' to view it.")
		fmt.Println("To reinitialize, delete the .argus/ directory first.")
		return nil
	}

	cfg := config.Default()
	if err := cfg.Save(ws); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := os.MkdirAll(cfg.StateDirPath(ws), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	logger.Info("Workspace initialized", zap.String("path", ws))
	fmt.Printf("Initialized Argus workspace in %s/.argus\n", ws)
	return nil
}

// showStatus displays workspace status
func showStatus(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()

	fmt.Println("Argus Workspace Status")
	fmt.Println("======================")

	cfg, err := config.Load(ws)
	if err != nil {
		fmt.Printf("✗ Config: %v\n", err)
		return nil
	}
	fmt.Printf("✓ Workspace: %s\n", ws)
	fmt.Printf("  Version:   %s\n", cfg.Version)

	path := cfg.TranscriptPath(ws)
	if msgs, err := stream.ReadTranscript(path); err == nil && msgs != nil {
		fmt.Printf("✓ Transcript: %s (%d messages)\n", path, len(msgs))
	} else {
		fmt.Printf("✗ Transcript: %s (not found)\n", path)
	}

	if cfg.Workspace.PersistFloating {
		fmt.Printf("✓ Floating panel state: %s\n", cfg.StateDirPath(ws))
	} else {
		fmt.Println("  Floating panel state: in-memory only")
	}
	return nil
}
