// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the inquire CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/daviddl9/inquire/internal/logging"
	"github.com/daviddl9/inquire/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from the persistent flags before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the inquire CLI.
var rootCmd = &cobra.Command{
	Use:   "inquire",
	Short: "Research a topic and extract a typed record from the findings",
	Long: `inquire runs a research backend over free-form instructions, then hands the
research text to an extraction function declared in the schema directory
(default ./baml_schemas). The extracted record is checked against the
function's return class before it is printed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		level, _ := cmd.Flags().GetString("log-level")
		file, _ := cmd.Flags().GetString("log-file")
		log, err := logging.New(logging.Config{Level: level, File: file}, os.Stderr)
		if err != nil {
			return err
		}
		logger = log

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("Using config file")
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		set, err := secrets.Export(s, secrets.EnvBindings)
		if err != nil {
			return err
		}
		if len(set) > 0 {
			sort.Strings(set)
			logger.Debug().Strs("env", set).Msg("Loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./inquire.yaml or ~/.config/inquire/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "write JSON logs to this file (rotated) instead of stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("inquire")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "inquire"))
		}
	}

	viper.SetEnvPrefix("INQUIRE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
