package config

import "github.com/spf13/pflag"

var CliArgs *CliConfig

type CliConfig struct {
	ConfigFile string
	Debug      bool
	Trace      bool
}

// BindFlags registers the global flags on fs and points CliArgs at the values.
func BindFlags(fs *pflag.FlagSet) {
	CliArgs = &CliConfig{}
	fs.StringVar(&CliArgs.ConfigFile, "config", "", "Path to the config file")
	fs.BoolVarP(&CliArgs.Debug, "debug", "d", false, "Enable debug mode")
	fs.BoolVar(&CliArgs.Trace, "trace", false, "Print transport spans to stderr")
}
