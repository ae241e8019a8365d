package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loadkit/loadstate/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Write a configuration file populated with defaults.

The file is written to the --config path if given, otherwise to the
default location at $XDG_CONFIG_HOME/loadstate/config.yaml. Existing
files are left untouched unless --force is passed.

Examples:
  # Initialize config at the default location
  loadctl init

  # Initialize config at a custom path
  loadctl init --config ./loadstate.yaml

  # Overwrite an existing config
  loadctl init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), path); err != nil {
		return err
	}

	fmt.Printf("Configuration file created at: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Point source.endpoint at a paginated record source")
	fmt.Println("  2. Fetch the first page: loadctl fetch")
	fmt.Println("  3. Or walk every page:   loadctl fetch --all")
	return nil
}
