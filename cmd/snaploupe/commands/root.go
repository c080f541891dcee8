package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// exitCode is the process status a command records for Execute to
	// exit with once all deferred teardown has run.
	exitCode int

	rootCmd = &cobra.Command{
		Use:   "snaploupe",
		Short: "snaploupe - Screen region and color picker",
		Long: `snaploupe is an interactive screen picker. It tracks the cursor across
monitors with a live color readout and loupe magnifier, freezes the
screen under the cursor on click, and reports the selected region or
window as a single JSON line on stdout.

Features:
  • Live per-pixel color sampling with hex readout
  • Pixel loupe magnifier while holding Alt
  • Freeze-frame region selection across monitors
  • Window picking via X11
  • Machine-readable selection outcomes for scripting`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/snaploupe/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty", false, "human-readable log output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("pretty", rootCmd.PersistentFlags().Lookup("pretty"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}
