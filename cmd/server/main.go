package main

import (
	"log/slog"
	"os"

	"github.com/leca/arexplorer-images/internal/logging"
	"github.com/spf13/cobra"
)

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:          "arexplorer",
	Short:        "Stores geotagged AR photos and serves filtered listings",
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	slog.SetDefault(logging.CreateLogger(os.Stdout, slog.LevelInfo))
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a YAML or JSON config file")
}
