// fabula assembles narrative context bundles for serialized story
// generation. The build subcommand prints the formatted context for one
// chapter; serve runs the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fabula/internal/config"
	"fabula/internal/contextbuilder"
	"fabula/internal/logging"
	"fabula/internal/observability"
	"fabula/internal/server"
	"fabula/internal/storage/file"
)

var (
	flagConfig  string
	flagProject string
	flagBudget  int
)

var (
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	fail    = color.New(color.FgRed).SprintFunc()
)

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	root := &cobra.Command{
		Use:   "fabula",
		Short: "Story context assembly for serialized generation",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to fabula.yaml")
	root.PersistentFlags().StringVar(&flagProject, "project", "", "story project directory")

	buildCmd := &cobra.Command{
		Use:   "build <chapter-id>",
		Short: "Assemble and print the context for one chapter",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}
	buildCmd.Flags().IntVar(&flagBudget, "budget", 0, "override the total token ceiling")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the context assembly HTTP API",
		RunE:  runServe,
	}

	root.AddCommand(buildCmd, serveCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, fail("error: ")+err.Error())
		os.Exit(1)
	}
}

func newBuilder() (*contextbuilder.Builder, *config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	applyLogLevel(cfg.Logging.Level)

	project := flagProject
	if project == "" {
		project = cfg.Project
	}
	if project == "" {
		return nil, nil, fmt.Errorf("no story project directory: pass --project or set project in fabula.yaml")
	}

	store, err := file.Load(project)
	if err != nil {
		return nil, nil, fmt.Errorf("load project %s: %w", project, err)
	}

	builderCfg := cfg.BuilderConfig()
	if flagBudget > 0 {
		builderCfg.TotalBudget = flagBudget
	}

	builder := contextbuilder.NewBuilder(store.Repositories(), builderCfg, logging.NewComponentLogger("builder"))
	return builder, cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	builder, _, err := newBuilder()
	if err != nil {
		return err
	}

	built, err := builder.Build(cmd.Context(), args[0], nil)
	if err != nil {
		return err
	}

	if isTTY() {
		fmt.Println(heading(fmt.Sprintf("context for chapter %s", args[0])))
		fmt.Printf("items: %d   tokens: %d\n", len(built.Items), built.TotalTokens)
		if built.Truncated {
			fmt.Println(warn("truncated: some candidates were dropped to fit the budget"))
		}
		fmt.Println()
	}
	fmt.Println(contextbuilder.FormatContext(built.Items))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	builder, cfg, err := newBuilder()
	if err != nil {
		return err
	}
	builder.WithMetrics(observability.NewBuildMetrics())

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Server.Host
	srvCfg.Port = cfg.Server.Port
	srv := server.New(builder, srvCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		logging.SetLevel(logging.LevelDebug)
	case "warn":
		logging.SetLevel(logging.LevelWarn)
	case "error":
		logging.SetLevel(logging.LevelError)
	default:
		logging.SetLevel(logging.LevelInfo)
	}
}
