// Package app drives a single marketroast run: load the configuration,
// fetch the report, print the summary and optionally archive it.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"

	"marketroast/internal/adapters/mws"
	"marketroast/internal/adapters/s3"
	"marketroast/internal/config"
	"marketroast/internal/domain"
	"marketroast/internal/observability/metrics"
	"marketroast/internal/observability/types"
	"marketroast/internal/printer"
	"marketroast/internal/service"
)

// ApplicationName is sent to the marketplace service in the User-Agent.
const ApplicationName = "MarketRoast"

const (
	operationRun = "run"
	pushTimeout  = 10 * time.Second
)

// State is the position of a run in its lifecycle.
type State int

const (
	// StateUnconfigured is the state before the configuration file loaded.
	StateUnconfigured State = iota
	// StateConfigured means the configuration is valid.
	StateConfigured
	// StateCompleted means the report was fetched and printed.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ArchiverFactory builds the archiver used when a bucket is configured.
type ArchiverFactory func(ctx context.Context, cfg config.ArchiveConfig) (domain.ReportArchiver, error)

// Options configures an App. ConfigPath, Settings and Provider are
// required; the rest have defaults.
type Options struct {
	ConfigPath      string
	Settings        *config.Settings
	Provider        types.Provider
	Stdout          io.Writer
	ClientFactory   domain.ClientFactory
	ArchiverFactory ArchiverFactory
}

// App runs the report retrieval workflow once.
type App struct {
	configPath      string
	settings        *config.Settings
	provider        types.Provider
	printer         *printer.Printer
	clientFactory   domain.ClientFactory
	archiverFactory ArchiverFactory
	logger          types.Logger
	metrics         types.Metrics
	state           State
}

// New creates an App from opts.
func New(opts Options) *App {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.ClientFactory == nil {
		opts.ClientFactory = NewMarketplaceClient
	}
	if opts.ArchiverFactory == nil {
		provider := opts.Provider
		opts.ArchiverFactory = func(ctx context.Context, cfg config.ArchiveConfig) (domain.ReportArchiver, error) {
			return s3.NewArchiver(ctx, cfg, provider.Logger("archiver"), provider.Metrics("archiver"))
		}
	}

	return &App{
		configPath:      opts.ConfigPath,
		settings:        opts.Settings,
		provider:        opts.Provider,
		printer:         printer.New(opts.Stdout),
		clientFactory:   opts.ClientFactory,
		archiverFactory: opts.ArchiverFactory,
		logger:          opts.Provider.Logger("app"),
		metrics:         opts.Provider.Metrics("app"),
		state:           StateUnconfigured,
	}
}

// NewMarketplaceClient is the default ClientFactory. It signs requests with
// the static keys from the configuration file.
func NewMarketplaceClient(settings domain.ClientSettings) (domain.MarketplaceService, error) {
	cfg := mws.DefaultConfig(settings.ServiceURL)
	if settings.ApplicationName != "" {
		cfg.ApplicationName = settings.ApplicationName
	}
	if settings.ApplicationVersion != "" {
		cfg.ApplicationVersion = settings.ApplicationVersion
	}
	cfg.Timeout = settings.Timeout

	client, err := mws.NewClient(cfg, credentials.NewStaticCredentialsProvider(
		settings.Credentials.AccessKeyID,
		settings.Credentials.SecretAccessKey,
		"",
	))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// State returns how far the last Run got.
func (a *App) State() State {
	return a.state
}

// Run executes the workflow and returns the process exit status.
func (a *App) Run(ctx context.Context) int {
	a.metrics.StartOperation(operationRun)
	start := time.Now()

	err := a.run(ctx)

	a.metrics.RecordDuration(operationRun, time.Since(start).Seconds())
	a.metrics.EndOperation(operationRun)
	if err != nil {
		a.metrics.RecordError(operationRun, domain.ErrorKind(err))
	} else {
		a.metrics.RecordSuccess(operationRun)
	}

	a.pushMetrics(ctx)

	code := domain.ExitCode(err)
	a.logger.Info(ctx, "Run finished", types.Fields{
		"state":     a.state.String(),
		"exit_code": code,
		"duration":  time.Since(start).String(),
	})
	return code
}

func (a *App) run(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		a.logger.Error(ctx, "Failed to load configuration", err, types.Fields{
			"config_path": a.configPath,
		})
		a.print(ctx, a.printer.PrintConfigError(a.configPath, err))
		return err
	}
	a.state = StateConfigured

	ctx = types.WithReportID(ctx, cfg.ReportID)
	a.logger.Info(ctx, "Configuration loaded", types.Fields{
		"config_path":   cfg.Path,
		"service_url":   cfg.ServiceURL,
		"merchant":      cfg.SellerID,
		"access_key_id": cfg.MaskedAccessKeyID(),
		"output_file":   cfg.ReportOutputFile,
		"archive":       cfg.Archive.Enabled(),
	})
	if cfg.UsedAccessKeyAlias {
		a.logger.Warn(ctx, "Access key read from fallback property", types.Fields{
			"property": config.KeyAccessKeyIDAlias,
			"expected": config.KeyAccessKeyID,
		})
	}

	client, err := a.clientFactory(domain.ClientSettings{
		ServiceURL: cfg.ServiceURL,
		Credentials: domain.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		},
		ApplicationName:    ApplicationName,
		ApplicationVersion: a.settings.Version,
		Timeout:            cfg.HTTPTimeout,
	})
	if err != nil {
		err = fmt.Errorf("failed to create marketplace client: %w", err)
		a.logger.Error(ctx, "Failed to create marketplace client", err, nil)
		a.print(ctx, a.printer.PrintError(err))
		return err
	}

	fetcher := service.NewReportFetcher(client, a.provider.Logger("fetcher"), a.provider.Metrics("fetcher"))
	result, err := fetcher.Fetch(ctx, service.FetchParams{
		MerchantID:   cfg.SellerID,
		ReportID:     cfg.ReportID,
		MWSAuthToken: cfg.MWSAuthToken,
		OutputPath:   cfg.ReportOutputFile,
	})
	if err != nil {
		a.print(ctx, a.printer.PrintError(err))
		return err
	}

	a.print(ctx, a.printer.PrintReport(result))
	a.state = StateCompleted

	if !cfg.Archive.Enabled() {
		return nil
	}
	return a.archive(ctx, cfg, result)
}

func (a *App) archive(ctx context.Context, cfg *config.ReportConfig, result *domain.FetchResult) error {
	archiver, err := a.archiverFactory(ctx, cfg.Archive)
	if err != nil {
		err = &domain.ArchiveError{Bucket: cfg.Archive.Bucket, Key: cfg.ArchiveKey(), Err: err}
		a.logger.Error(ctx, "Failed to create archiver", err, nil)
		a.print(ctx, a.printer.PrintError(err))
		return err
	}

	location, err := archiver.Archive(ctx, result.OutputPath, cfg.ReportID)
	if err != nil {
		a.print(ctx, a.printer.PrintError(err))
		return err
	}

	a.print(ctx, a.printer.PrintArchived(location))
	return nil
}

// print logs a failed summary write. The run outcome does not depend on it.
func (a *App) print(ctx context.Context, err error) {
	if err != nil {
		a.logger.Warn(ctx, "Failed to write summary", types.Fields{"error": err.Error()})
	}
}

func (a *App) pushMetrics(ctx context.Context) {
	if a.settings.PushgatewayURL == "" {
		return
	}

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	err := metrics.Push(pushCtx, a.settings.PushgatewayURL, metrics.SanitizeName(a.settings.ServiceName),
		a.provider.Gatherer(), map[string]string{"environment": a.settings.Environment})
	if err != nil {
		a.logger.Error(ctx, "Failed to push metrics", err, types.Fields{
			"pushgateway_url": a.settings.PushgatewayURL,
		})
		return
	}

	a.logger.Debug(ctx, "Metrics pushed", types.Fields{
		"pushgateway_url": a.settings.PushgatewayURL,
	})
}
