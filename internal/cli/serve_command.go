package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/temirov/apisidebar/internal/config"
	"github.com/temirov/apisidebar/internal/services/server"
	"github.com/temirov/apisidebar/internal/types"
)

const (
	serveUse              = "serve"
	serveShortDescription = "serve sidebar generation over HTTP"
	serveLongDescription  = `Start an HTTP server that generates sidebars on request.
POST a JSON body {"descriptors": [...], "options": {...}, "format": "json"} to /commands/generate.
GET /capabilities lists the available commands. The server stops on interrupt.`
	serveUsageExample = `  # Serve on the configured address
  apisidebar serve

  # Serve on an ephemeral port
  apisidebar serve --address 127.0.0.1:0`

	addressFlagName             = "address"
	addressFlagDescription      = "listen address"
	serverListeningFormat       = "apisidebar server listening on http://%s\n"
	errorRunServerFormat        = "run server: %w"
	errorLoadServerConfigFormat = "resolve server configuration: %w"
)

// createServeCommand returns the serve subcommand.
func createServeCommand(environment *commandEnvironment) *cobra.Command {
	var listenAddress string

	serveCommand := &cobra.Command{
		Use:     serveUse,
		Short:   serveShortDescription,
		Long:    serveLongDescription,
		Example: serveUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, configurationErr := environment.loadConfiguration()
			if configurationErr != nil {
				return fmt.Errorf(errorLoadServerConfigFormat, configurationErr)
			}
			if command.Flags().Changed(addressFlagName) {
				configuration.Server.Address = listenAddress
			}
			return startServer(command.Context(), environment, configuration, command.OutOrStdout())
		},
	}
	serveCommand.Flags().StringVar(&listenAddress, addressFlagName, config.DefaultServerAddress, addressFlagDescription)
	return serveCommand
}

// serverCapabilities lists the commands exposed over HTTP.
func serverCapabilities() []server.Capability {
	return []server.Capability{
		{Name: types.CommandGenerate, Description: server.GenerateCapabilityDescription},
	}
}

func startServer(ctx context.Context, environment *commandEnvironment, configuration config.ApplicationConfiguration, writer io.Writer) error {
	commandServer := server.NewServer(server.Config{
		Address:      configuration.Server.AddressOrDefault(),
		Capabilities: serverCapabilities(),
		Executors: map[string]server.CommandExecutor{
			types.CommandGenerate: server.NewGenerateExecutor(server.GenerateDefaults{
				Options: configuration.Sidebar.Options(),
				Format:  configuration.Output.FormatOrDefault(),
			}),
		},
		Logger: environment.logger,
	})
	runErr := commandServer.Run(ctx, func(address string) {
		fmt.Fprintf(writer, serverListeningFormat, address)
	})
	if runErr != nil {
		return fmt.Errorf(errorRunServerFormat, runErr)
	}
	return nil
}
