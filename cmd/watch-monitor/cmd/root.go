// Package cmd implements the watch-monitor CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/sfeuerstein/watch-monitor/internal/api/client"
	"github.com/sfeuerstein/watch-monitor/internal/config"
	"github.com/sfeuerstein/watch-monitor/internal/store"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "watch-monitor",
		Short: "Vintage watch listing monitor",
		Long: "watch-monitor polls watch-dealer listing pages, detects listings\n" +
			"it has not seen before, and announces each new one on Discord.\n" +
			"The run command starts the monitor daemon; the other commands talk\n" +
			"to a running instance over its API.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "monitor API URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(
		runCmd(),
		triggerCmd(),
		stateCmd(),
		sourcesCmd(),
		seenCmd(),
		cyclesCmd(),
		migrateCmd(),
		resetCmd(),
		versionCommand(),
	)
}

func initConfig() {
	// A .env file in the working directory feeds ${VAR} substitution in
	// the YAML config, most importantly DISCORD_WEBHOOK_URL.
	_ = godotenv.Load()

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".watch-monitor")
	}

	viper.SetEnvPrefix("WM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the file named by --config, or falls back to the
// built-in defaults: SQLite in the working directory, all sources
// enabled, no webhook.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

// openStore constructs the configured storage backend. Callers own the
// returned store and must Close it.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg := &cfg.Storage.Postgres
		return store.NewPostgres(ctx, pg.DSN(), pg.PoolSize)
	default:
		return store.NewSQLite(cfg.Storage.SQLite.Path)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
