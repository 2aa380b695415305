// Package app assembles the txflow CLI: a cobra root command with an
// interactive analyze flow (spec.md §6) plus flag-driven alternatives
// for scripted use, grounded on the teacher's cmd/broadcaster-cli/app
// package layout.
package app

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd is the txflow entry point.
var RootCmd = &cobra.Command{
	Use:   "txflow",
	Short: "enumerate set-partition and subset mappings between a transaction's inputs and outputs",
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().String("config", "", "path to a YAML config file")
	RootCmd.PersistentFlags().String("log-level", "INFO", "DEBUG, INFO, WARN, or ERROR")
	RootCmd.PersistentFlags().String("log-format", "tint", "json, text, or tint")

	for _, name := range []string{"config", "log-level", "log-format"} {
		if err := viper.BindPFlag(name, RootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("txflow: binding --%s: %v", name, err)
		}
	}

	RootCmd.AddCommand(analyzeCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func initConfig() {
	path := viper.GetString("config")
	if path == "" {
		return
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "txflow: failed to read config file %s: %v\n", path, err)
	}
}
