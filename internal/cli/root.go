// Package cli provides the command-line interface for storyflow.
//
// The CLI is built on Cobra. [App] carries every dependency the commands
// need, which keeps commands testable: tests build an [App] around a
// temporary story file and a buffer instead of the real terminal.
//
// Commands:
//   - execute creates a story and runs the action chain for it
//   - review applies a pull request decision and resumes the chain
//   - resume continues a story's chain after a named action
//   - actions lists the configured chain
//   - stories lists or shows stored stories
//   - graph prints the chain as a Graphviz DOT document
//   - serve runs the HTTP API
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"storyflow/internal/action"
	"storyflow/internal/config"
	"storyflow/internal/logging"
	"storyflow/internal/manifest"
	"storyflow/internal/metrics"
	"storyflow/internal/output"
	"storyflow/internal/store"
	"storyflow/internal/story"
	"storyflow/internal/workflow"
)

// App holds the dependencies shared by all commands.
type App struct {
	Config   *config.Config
	Workflow *workflow.Service
	Store    *store.Store
	Chain    *action.Chain
	Printer  *output.Printer
	Logger   *slog.Logger
	Metrics  *metrics.StepMetrics

	// progress gates the per-step progress lines. serve turns it off.
	progress atomic.Bool
}

// NewApp wires an [App] from cfg. Styled output goes to out; a nil out means stdout.
func NewApp(cfg *config.Config, out io.Writer) (*App, error) {
	if out == nil {
		out = os.Stdout
	}
	logger := logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})

	chain, err := loadChain(cfg.Workflow)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Workflow.Policy()
	if err != nil {
		return nil, err
	}
	registry, err := story.NewRegistry(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to register actions: %w", err)
	}
	for _, n := range chain.Names() {
		if _, ok := registry.Lookup(n); !ok {
			logger.Warn("chain references an unregistered action", "action", n)
		}
	}

	app := &App{
		Config:  cfg,
		Chain:   chain,
		Printer: output.NewPrinterWithWriter(out),
		Logger:  logger,
		Metrics: metrics.New(nil),
		Store:   store.New(cfg.Store.Path),
	}
	app.progress.Store(cfg.Output.Progress)

	executor := action.NewExecutor(registry, chain,
		action.WithLogger(logger),
		action.WithFailurePolicy(policy),
		action.WithMaxSteps(cfg.Workflow.MaxSteps),
		action.WithObserver(app.Metrics),
		action.WithObserver(action.ObserverFunc(app.observeProgress)),
	)
	app.Workflow = workflow.NewService(app.Store, executor, action.Name(cfg.Workflow.StartAction))

	return app, nil
}

func (a *App) observeProgress(name action.Name, status action.Status, d time.Duration) {
	if a.progress.Load() {
		a.Printer.StepDone(name, status, d)
	}
}

// loadChain reads the chain from the manifest file when one is configured,
// otherwise from the configured name list.
func loadChain(w config.WorkflowConfig) (*action.Chain, error) {
	if w.ManifestPath != "" {
		m, err := manifest.ReadFromFile(w.ManifestPath)
		if err != nil {
			return nil, err
		}
		return m.Chain()
	}
	chain, err := action.NewChain(w.ChainNames()...)
	if err != nil {
		return nil, fmt.Errorf("invalid workflow.chain: %w", err)
	}
	return chain, nil
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "storyflow",
		Short: "Drive stories through a chain of workflow actions",
		Long: `storyflow runs stories through a linear chain of actions:
assign, implement, open a pull request, and complete once the
pull request is accepted.

Each run reports the ordered history of the actions it executed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newExecuteCommand(app),
		newReviewCommand(app),
		newResumeCommand(app),
		newActionsCommand(app),
		newStoriesCommand(app),
		newGraphCommand(app),
		newServeCommand(app),
	)

	return rootCmd
}

// ExecuteResult is the outcome of running the CLI.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig builds the application from cfg and runs the command line args.
func RunWithConfig(cfg *config.Config, args []string) ExecuteResult {
	logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})

	app, err := NewApp(cfg, nil)
	if err != nil {
		return ExecuteResult{ExitCode: 1, Err: err}
	}

	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		app.Printer.Error("%v", err)
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{ExitCode: 0}
}

// Execute loads configuration, runs the CLI with the process arguments and
// exits with the resulting code.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result := RunWithConfig(cfg, os.Args[1:])
	os.Exit(result.ExitCode)
}
