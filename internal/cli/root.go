// internal/cli/root.go
package synod

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/synod/internal/appconfig"
	"github.com/mwiater/synod/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "synod",
	Short: "synod — a council of language models that answers by deliberation",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		// Flags override the config file.
		if cmd.Flags().Changed("debug") {
			cfg.Debug = viper.GetBool("debug")
		}
		if cmd.Flags().Changed("logFile") {
			cfg.LogFile = viper.GetString("logFile")
		}
		if cmd.Flags().Changed("dataDir") {
			cfg.DataDir = viper.GetString("dataDir")
		}
		if cmd.Flags().Changed("listenAddr") {
			cfg.ListenAddr = viper.GetString("listenAddr")
		}
		if cmd.Flags().Changed("timeout") {
			cfg.TimeoutSeconds = viper.GetInt("timeout")
		}

		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (defaults to config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("dataDir", "", "directory for conversation records")
	rootCmd.PersistentFlags().String("listenAddr", "", "bind address for the web API server")
	rootCmd.PersistentFlags().Int("timeout", 0, "per-model request timeout in seconds (0 = default)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("dataDir", rootCmd.PersistentFlags().Lookup("dataDir"))
	_ = viper.BindPFlag("listenAddr", rootCmd.PersistentFlags().Lookup("listenAddr"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

// ensureConfigLoaded reads the config file, tolerating its absence so that
// commands which do not need a council still run with defaults.
func ensureConfigLoaded() (appconfig.Config, error) {
	cfg, err := appconfig.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if cfgFile == "" && strings.Contains(err.Error(), "no configuration file found") {
		return appconfig.Config{}, nil
	}
	return appconfig.Config{}, err
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool {
	if currentConfig != nil {
		return currentConfig.Debug
	}
	return viper.GetBool("debug")
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
