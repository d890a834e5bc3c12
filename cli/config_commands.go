package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"perfstat/config"
)

func newConfigCommand(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   CmdConfig,
		Short: "Manage the perfstat configuration",
		// The configuration file may not exist yet or may be invalid.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   CmdConfigInit + " [path]",
		Short: "Write the default layouts to a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if !force && fileExists(path) {
				return fmt.Errorf("%s already exists (use --%s to overwrite)", path, FlagForce)
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "wrote "+path)
		},
	}
	initCmd.Flags().BoolVar(&force, FlagForce, false, "Overwrite an existing file")
	configCmd.AddCommand(initCmd)
	return configCmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
