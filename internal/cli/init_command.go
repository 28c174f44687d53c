package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/apisidebar/internal/config"
	"github.com/temirov/apisidebar/internal/types"
)

const (
	initUse              = types.CommandInit
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write config.yaml with default values into the working directory,
or into ~/.apisidebar with --global. Existing files are kept unless --force is given.`
	globalFlagName          = "global"
	globalFlagDescription   = "write the global configuration under the home directory"
	forceFlagName           = "force"
	forceFlagDescription    = "overwrite an existing configuration file"
	configurationWrittenFmt = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(environment *commandEnvironment) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destination, initErr := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force, WorkingDirectory: environment.workingDirectory})
			if initErr != nil {
				return initErr
			}
			_, writeErr := fmt.Fprintf(command.OutOrStdout(), configurationWrittenFmt, destination)
			return writeErr
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
