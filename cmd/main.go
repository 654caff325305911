package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketroast/internal/app"
	"marketroast/internal/config"
	"marketroast/internal/domain"
	"marketroast/internal/observability"
	"marketroast/internal/observability/types"
)

func main() {
	os.Exit(execute())
}

// execute loads the ambient settings, runs the root command and returns the
// process exit status.
func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marketroast: %v\n", err)
		return domain.ExitConfigError
	}

	code := domain.ExitOK
	cmd := newRootCommand(settings, &code)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "marketroast: %v\n", err)
		return domain.ExitConfigError
	}
	return code
}

// newRootCommand builds the marketroast command. The run's exit status is
// stored in exitCode.
func newRootCommand(settings *config.Settings, exitCode *int) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "marketroast",
		Short: "Retrieve a report from Amazon MWS and print a summary",
		Long: `marketroast reads a properties file, requests a single report with the
MWS GetReport action, streams it to the configured output file and prints a
summary of the response to standard output.

Exit status:
  0  success
  1  unexpected error
  2  configuration error
  3  report service error
  4  output file error
  5  archive error`,
		Version:       settings.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*exitCode = run(cmd.Context(), settings, configPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultFile, "path to the properties file")

	return cmd
}

// run wires the dependencies and executes a single report retrieval.
func run(ctx context.Context, settings *config.Settings, configPath string) int {
	provider := initializeObservability(settings)
	defer provider.Close()

	ctx = types.WithRunID(ctx, uuid.NewString())
	logStartup(ctx, provider, settings, configPath)

	application := app.New(app.Options{
		ConfigPath: configPath,
		Settings:   settings,
		Provider:   provider,
	})
	return application.Run(ctx)
}

// initializeObservability sets up logging and metrics infrastructure
func initializeObservability(settings *config.Settings) observability.Provider {
	return observability.NewProvider(&observability.Config{
		ServiceName: settings.ServiceName,
		Environment: settings.Environment,
		LogLevel:    settings.LogLevel,
		LogFormat:   settings.EffectiveLogFormat(),
		AdditionalFields: observability.Fields{
			"version": settings.Version,
		},
	})
}

// logStartup logs application startup information
func logStartup(ctx context.Context, provider observability.Provider, settings *config.Settings, configPath string) {
	provider.Logger("main").Info(ctx, "Starting marketroast", observability.Fields{
		"service":     settings.ServiceName,
		"version":     settings.Version,
		"environment": settings.Environment,
		"config_path": configPath,
	})
}
