// Package cli provides the console front end: a Cobra root command that
// wires configuration, logging and the SQLite store, then drops into the
// interactive warehouse menu.
package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stmary/warehouse/internal/adapter/storage"
	"github.com/stmary/warehouse/internal/core/service"
)

var rootCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "St Mary's warehouse management system",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg := viper.GetString("config"); cfg != "" {
			viper.SetConfigFile(cfg)
			if err := viper.ReadInConfig(); err != nil {
				return err
			}
		}
		configureLogging(viper.GetString("log-level"))

		ctx := cmd.Context()
		store, err := storage.Open(ctx, viper.GetString("db"))
		if err != nil {
			return err
		}
		defer store.Close()

		workers := viper.GetInt("workers")
		queueSize := viper.GetInt("queue-size")

		inventory := service.NewInventoryService(storage.NewInventoryRepo(store), workers, queueSize)
		orders := service.NewOrderService(storage.NewOrderRepo(store), workers, queueSize)
		shipments := service.NewShipmentService(storage.NewShipmentRepo(store), workers, queueSize)
		defer inventory.Close()
		defer orders.Close()
		defer shipments.Close()

		return newApp(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), inventory, orders, shipments).run()
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "stmary_warehouse.db", "database file path")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().Int("workers", service.DefaultWorkers, "worker pool size per service")
	rootCmd.PersistentFlags().Int("queue-size", service.DefaultQueueSize, "async queue size per service")

	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("queue-size", rootCmd.PersistentFlags().Lookup("queue-size"))
	viper.SetEnvPrefix("WAREHOUSE")
	viper.AutomaticEnv()
}

func configureLogging(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
	))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
