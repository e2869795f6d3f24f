package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/config"
	logpkg "github.com/OmarAli141/resumes-comparison/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "resmatch",
	Short: "Match resumes to job descriptions with vector search",
	Long: `resmatch ranks resumes against a job description. It embeds the job
description and its query variants, runs k-NN over the resume index, fuses the
hits and boosts resumes filed under the same job title.

Run "resmatch ingest" to load data, "resmatch serve" to start the HTTP API and
"resmatch match" for one-off matching from the shell.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().String("env", "", "environment: local, dev, prod (default: $RESMATCH_ENV, $ENV or local)")
	rootCmd.PersistentFlags().String("config", "", "config file (default: config/<env>.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override: debug, info, warn, error")

	for _, name := range []string{"env", "config", "log-level"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func initViper() {
	viper.SetEnvPrefix("RESMATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadRuntime resolves the environment, reads the config and builds the logger.
func loadRuntime() (config.Config, *zap.Logger, string, error) {
	env := viper.GetString("env")
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if path := viper.GetString("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("load config: %w", err)
	}

	level := viper.GetString("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, env, nil
}

// withApp loads the runtime, wires the app and runs fn. Resources are released afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	cfg, logger, _, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start", zap.Error(err))
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
