package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/focusflow/internal/app"
	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/sandeepkv93/focusflow/internal/logger"
)

type rootOptions struct {
	configPath string
	dataDir    string
	backend    string
	logFormat  string
	logLevel   string
}

func (o *rootOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", config.DefaultConfigPath(), "Config file (YAML)")
	flags.StringVar(&o.dataDir, "data-dir", "", "Directory holding state and logs")
	flags.StringVar(&o.backend, "backend", "", "Storage backend (sqlite or file)")
	flags.StringVar(&o.logFormat, "log-format", "", "Log format (text or json)")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// resolve layers defaults, the config file, the environment and finally any
// flags set on the command line.
func (o *rootOptions) resolve(cmd *cobra.Command) (config.RuntimeConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

// open resolves the config, points the loggers at w and opens the app.
func (o *rootOptions) open(cmd *cobra.Command, w io.Writer) (*app.App, error) {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	logger.Init(cfg.LogFormat, cfg.LogLevel, w)
	return app.Open(commandContext(cmd), cfg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
