package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/mDC/foundation/core/config"
	"github.com/msto63/mDC/foundation/core/log"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mdc",
	Short: "meinDEVICECONTROL - Interaktive Shell für Gerätebäume",
	Long: `meinDEVICECONTROL ist eine interaktive Shell zum Navigieren und
Steuern eines entfernten Gerätebaums: Objekte werden über Rollenpfade
oder numerische Handles angesprochen, Eigenschaften gelesen und
geschrieben, Änderungen abonniert.

Befehle:
  shell    - Interaktive Sitzung oder Batch-Ausführung
  version  - Versionsinformationen`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (TOML oder YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log-Level (trace|debug|info|warn|error)")
}

// loadConfig reads the optional config file; flags override file values
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.LoadFromString("", config.FormatTOML)
	}
	return config.Load(cfgFile)
}

// setupLogger configures the default logger from flag or config
func setupLogger(cfg *config.Config) error {
	levelName := logLevel
	if levelName == "" {
		levelName = cfg.GetString("log.level", "info")
	}

	level, err := log.ParseLevel(levelName)
	if err != nil {
		return err
	}

	logger := log.New()
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(log.NewConsoleFormatter())
	log.SetDefault(logger)
	return nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
