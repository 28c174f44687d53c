// Package cli provides the command line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/apisidebar/internal/config"
	"github.com/temirov/apisidebar/internal/services/clipboard"
	"github.com/temirov/apisidebar/internal/utils"
)

const (
	versionTemplate      = "apisidebar version: {{.Version}}\n"
	rootUse              = utils.ApplicationName
	rootShortDescription = "apisidebar command line interface"
	rootLongDescription  = `apisidebar turns API documentation page descriptors into a navigation sidebar.
Descriptors are read from JSON or YAML files, or derived from a directory of OpenAPI documents.
Operations are grouped by tag within each source document, and documents are nested by folder.
Use --format to select json, yaml, xml, or raw output, and --version to print the application version.`

	configFlagName         = "config"
	configFlagDescription  = "path to a configuration file (defaults to ./config.yaml)"
	verboseFlagName        = "verbose"
	verboseFlagDescription = "enable debug logging"
)

// commandEnvironment carries the collaborators shared by every subcommand.
type commandEnvironment struct {
	logger           *zap.Logger
	level            zap.AtomicLevel
	copier           clipboard.Copier
	workingDirectory string
	configPath       string
	verbose          bool
}

func (environment *commandEnvironment) loadConfiguration() (config.ApplicationConfiguration, error) {
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: environment.workingDirectory,
		ExplicitFilePath: environment.configPath,
	})
}

// Execute runs the apisidebar application. level controls the verbosity of logger.
func Execute(ctx context.Context, logger *zap.Logger, level zap.AtomicLevel) error {
	environment := &commandEnvironment{
		logger: logger,
		level:  level,
		copier: clipboard.NewService(),
	}
	rootCommand := createRootCommand(environment)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(environment *commandEnvironment) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if environment.verbose {
				environment.level.SetLevel(zapcore.DebugLevel)
			}
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&environment.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &environment.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(environment),
		createServeCommand(environment),
		createCategoryCommand(environment),
		createInitCommand(environment),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// writeLine writes text followed by a newline unless text already ends with one.
func writeLine(writer io.Writer, text string) error {
	if len(text) > 0 && text[len(text)-1] == '\n' {
		_, err := io.WriteString(writer, text)
		return err
	}
	_, err := io.WriteString(writer, text+"\n")
	return err
}
