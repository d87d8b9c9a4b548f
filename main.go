package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"chatkit/api"
	"chatkit/backend"
	"chatkit/config"
	"chatkit/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

type loader func(configFile string) (*config.Config, error)

// app is what every subcommand needs once flags and config are resolved.
type app struct {
	cfg      *config.Config
	api      *api.Client
	registry *prometheus.Registry
	tracer   *sdktrace.TracerProvider
	log      *logrus.Logger
}

func main() {
	if err := newRootCmd(config.LoadConfig).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(load loader) *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "chatkit",
		Short: "Post JSON to the chat server and send notifications",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			return a.init(load, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		postCmd(a),
		notifyCmd(a),
		registerCmd(a),
		loginCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// skipsConfig reports whether cmd runs without config: version, help and
// shell completion.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func (a *app) init(load loader, traceOut io.Writer) error {
	cfg, err := load(config.CliArgs.ConfigFile)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if config.CliArgs.Debug {
		level = logrus.DebugLevel
	}
	a.log = logging.InitLogger(level)

	a.registry = prometheus.NewRegistry()
	opts := []backend.Option{backend.WithMetrics(a.registry)}
	if config.CliArgs.Trace {
		tp, err := newTracerProvider(traceOut)
		if err != nil {
			return err
		}
		a.tracer = tp
		opts = append(opts, backend.WithTracerProvider(tp))
	}
	b, err := backend.NewClient(cfg.APIRoot, opts...)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.api = api.NewClient(b)
	a.log.Debugf("Using API root %s", cfg.APIRoot)
	return nil
}

func (a *app) shutdown() error {
	if a.tracer == nil {
		return nil
	}
	return a.tracer.Shutdown(context.Background())
}

// logMetrics writes the transport counters at debug level.
func (a *app) logMetrics() {
	if !a.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	families, err := a.registry.Gather()
	if err != nil {
		a.log.Debugf("Gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := logrus.Fields{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				a.log.WithFields(labels).Debugf("%s = %v", mf.GetName(), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				a.log.WithFields(labels).Debugf("%s count=%d sum=%.3fs", mf.GetName(),
					m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
}
