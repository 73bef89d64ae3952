// Package cmd holds the cobra commands of the sliderule tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aalemi-dev/sliderule-go/cmr"
	"github.com/aalemi-dev/sliderule-go/config"
	"github.com/aalemi-dev/sliderule-go/icesat2"
	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/metrics"
	"github.com/aalemi-dev/sliderule-go/observability"
	"github.com/aalemi-dev/sliderule-go/sliderule"
	"github.com/aalemi-dev/sliderule-go/tracer"
)

const startTimeout = 15 * time.Second

var (
	cfgFile      string
	serviceURL   string
	organization string
	verbose      bool
	outputFormat string
)

// services is what the subcommands run against; setup fills it.
var services struct {
	app     *fx.App
	client  *sliderule.Client
	catalog *cmr.Client
	icesat2 *icesat2.API
	log     *logger.LoggerClient
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sliderule",
	Short: "SlideRule Earth command line client",
	Long: `sliderule issues processing requests to a SlideRule deployment and
prints the decoded record streams.

Configuration is read from --config (YAML) and SLIDERULE_* environment
variables; flags override both.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	teardown()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "url", "", "service domain (default slideruleearth.io)")
	rootCmd.PersistentFlags().StringVar(&organization, "org", "", "organization (cluster) name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", formatJSONL, "row output format: jsonl or csv")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Client.URL = serviceURL
	}
	if flags.Changed("org") {
		cfg.Client.Organization = organization
	}
	if verbose {
		cfg.Logger.Level = logger.Debug
	}
	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg.Logger, cfg.Client, cfg.CMR, cfg.ICESat2, cfg.Metrics, cfg.Tracer),
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		sliderule.FXModule,
		fx.Provide(newCatalog, newICESat2API),
		fx.Populate(&services.client, &services.catalog, &services.icesat2, &services.log),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), startTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}
	services.app = app
	return nil
}

func teardown() {
	if services.app == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	_ = services.app.Stop(ctx)
	services.app = nil
}

func newCatalog(cfg cmr.Config, observer observability.Observer, log *logger.LoggerClient) (*cmr.Client, error) {
	client, err := cmr.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client.WithObserver(observer).WithLogger(log), nil
}

func newICESat2API(cfg icesat2.Config, client *sliderule.Client, catalog *cmr.Client, log *logger.LoggerClient) *icesat2.API {
	return icesat2.NewAPI(client, cfg).WithSearcher(catalog).WithLogger(log)
}
