package main

import (
	"fmt"
	"os"

	"github.com/agromanage/agromanage/internal/config"
	"github.com/agromanage/agromanage/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "agromanage",
	Short: "AgroManage API server",
	Long: `AgroManage serves the marketplace API for farmers and administrators:
accounts, products, orders, loans and weather alerts backed by MySQL.

Running the binary without a subcommand starts the server.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and seed the default admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, *zap.Logger, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}
