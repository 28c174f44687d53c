package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/apisidebar/internal/category"
	"github.com/temirov/apisidebar/internal/types"
)

const (
	categoryUse              = "category <directory>"
	categoryShortDescription = "show the category metadata of a directory"
	categoryLongDescription  = `Decode the _category_.json, _category_.yml, or _category_.yaml file of a directory.
The first existing file in that order is used. Use --format to select json or yaml output.`
	categoryUsageExample = `  # Inspect the metadata applied to the api/users folder category
  apisidebar category api/users --format yaml`

	errorMetadataNotFoundFormat = "no category metadata file in %s"
	errorCategoryFormatFormat   = "unsupported category format %q"
	errorEncodeMetadataFormat   = "encode category metadata: %w"
	categoryJSONIndent          = "  "
)

// createCategoryCommand returns the category subcommand.
func createCategoryCommand(environment *commandEnvironment) *cobra.Command {
	var outputFormat string

	categoryCommand := &cobra.Command{
		Use:     categoryUse,
		Short:   categoryShortDescription,
		Long:    categoryLongDescription,
		Example: categoryUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			directory := arguments[0]
			metadata, readErr := category.ReadMetadataFile(directory)
			if readErr != nil {
				var invalidMetadataError *category.InvalidMetadataError
				if errors.As(readErr, &invalidMetadataError) {
					environment.logger.Error(logMessageInvalidCategory,
						zap.String(logFieldPath, invalidMetadataError.Path),
						zap.Error(invalidMetadataError.Err))
				}
				return readErr
			}
			if metadata == nil {
				return fmt.Errorf(errorMetadataNotFoundFormat, directory)
			}
			encoded, encodeErr := encodeMetadata(metadata, outputFormat)
			if encodeErr != nil {
				return encodeErr
			}
			return writeLine(command.OutOrStdout(), encoded)
		},
	}
	categoryCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatJSON, formatFlagDescription)
	return categoryCommand
}

func encodeMetadata(metadata *category.Metadata, format string) (string, error) {
	switch format {
	case types.FormatJSON:
		encoded, err := json.MarshalIndent(metadata, "", categoryJSONIndent)
		if err != nil {
			return "", fmt.Errorf(errorEncodeMetadataFormat, err)
		}
		return string(encoded), nil
	case types.FormatYAML:
		encoded, err := yaml.Marshal(metadata)
		if err != nil {
			return "", fmt.Errorf(errorEncodeMetadataFormat, err)
		}
		return string(encoded), nil
	default:
		return "", fmt.Errorf(errorCategoryFormatFormat, format)
	}
}
