// Package main provides the console command: the admin web server plus
// maintenance and listing subcommands.
package main

import (
	"fmt"
	"os"

	"go-admin-console/internal/config"
	"go-admin-console/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// configFile is set by the --config flag.
	configFile string

	cfg *config.Config
	log logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Admin console for users and posts",
	Long: `console serves the management pages for users and posts and offers
maintenance commands against the same database.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: config.yml in ., ./configs, /etc/admin-console or ~/.admin-console)")
	flags.String("db-driver", "", "database driver: sqlite3 or mysql")
	flags.String("db-dsn", "", "database data source name")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	// Flags win over file and environment values once bound.
	_ = viper.BindPFlag("db.driver", flags.Lookup("db-driver"))
	_ = viper.BindPFlag("db.dsn", flags.Lookup("db-dsn"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(listCmd)
}

// loadConfig reads the configuration and sets up the logger for every
// subcommand.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}
	c, err := config.LoadConfig(nil)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	log = logger.New(cfg.Log, cmd.ErrOrStderr())
	return nil
}
