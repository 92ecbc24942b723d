// Package cmd implements the conductor CLI commands.
//
// The root command carries the flags shared by every subcommand; each
// subcommand registers itself from an init function.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-drift/conductor/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "conductor",
	Short: "Drive screen lifecycles from scripts or the terminal",
	Long: `conductor activates, deactivates and closes screens through the
single, one-active and all-active conductors.

Use "conductor <command> --help" for more information about a command.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

// RegisterCommand adds a subcommand to the CLI.
func RegisterCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads --config and applies --log-level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadManifest reads the manifest at path and checks it against Version.
func loadManifest(path string) (*config.Manifest, error) {
	m, err := config.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := m.CheckVersion(Version); err != nil {
		return nil, err
	}
	return m, nil
}
