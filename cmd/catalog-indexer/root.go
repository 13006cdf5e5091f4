package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	logpkg "github.com/kailas-cloud/catalogsearch/internal/logger"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

type rootOptions struct {
	env        string
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "catalog-indexer",
		Short:         "Build and query the catalogsearch product index",
		Version:       fmt.Sprintf("%s (%s)", version.Version, version.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.env, "env", "e", config.GetEnv(), "environment (selects config/<env>.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (overrides --env)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	cmd.AddCommand(
		newCreateIndexCmd(opts),
		newIndexCmd(opts),
		newSearchCmd(opts),
	)
	return cmd
}

// load reads configuration and builds the logger.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(o.configFile)
	} else {
		cfg, err = config.Load(o.env)
	}
	if err != nil {
		return config.Config{}, nil, err //nolint:wrapcheck // already descriptive
	}

	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger, err := logpkg.NewLogger(loggerEnv(o.env), level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// loggerEnv maps unknown environments to console output.
func loggerEnv(env string) string {
	switch env {
	case "prod", "local", "dev", "docker", "test":
		return env
	}
	return "local"
}
