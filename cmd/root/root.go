// Package root contains the root command for the application
package root

import (
	"tesouro/season-xlsx/internal/config"
	"tesouro/season-xlsx/internal/export"
	"tesouro/season-xlsx/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Season   int
	Mappings string
	NoSave   bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the loaded application configuration
	AppConfig *config.Config

	// SharedFlags are the common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "season-xlsx",
		Short: "A CLI tool to turn a club treasurer's season workbook into normalized transaction drafts.",
		Long: `season-xlsx reads the xlsx workbook a sports-club treasurer keeps per
season (one sheet per expense month plus a sectioned income sheet),
classifies and extracts its rows, groups them by concept for bulk
categorization, and writes normalized transaction drafts to CSV.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to season-xlsx!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Warnf("Failed to load configuration, using defaults: %v", err)
				return
			}
			AppConfig = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			if cfg.CSV.Delimiter != "" {
				export.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input xlsx workbook")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file")
	Cmd.PersistentFlags().IntVar(&SharedFlags.Season, "season", 0, "Season start year override (e.g. 2024 for season 2024/25)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Mappings, "mappings", "", "Concept mappings YAML file")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.NoSave, "no-save", false, "Do not save learned concept mappings back to disk")
}

// Logger adapts the shared logrus instance to the pipeline's logger interface.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
