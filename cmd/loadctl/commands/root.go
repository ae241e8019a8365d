// Package commands implements the loadctl CLI commands.
package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/loadkit/loadstate/internal/logger"
	"github.com/loadkit/loadstate/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "loadctl",
	Short: "loadctl - Drive a paginated loadable from the command line",
	Long: `loadctl pages through a remote record source using the loadstate
engine: every fetch runs through the same loadable state machine, task
registry, and pagination merge logic an embedding application would use,
so the tool doubles as a demonstration of the library and a smoke test
against a real endpoint.

Use "loadctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		PrintErr("Error: %v", err)
	}
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("loadctl %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/loadstate/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(fetchCmd)

	// Hide the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfigAndLogger loads the configuration and initializes the
// structured logger from it.
func loadConfigAndLogger() (*config.Config, error) {
	cfg, err := config.MustLoad(cfgFile)
	if err != nil {
		return nil, err
	}

	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return cfg, nil
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
