package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/apisidebar/internal/category"
	"github.com/temirov/apisidebar/internal/config"
	"github.com/temirov/apisidebar/internal/descriptors"
	"github.com/temirov/apisidebar/internal/openapi"
	"github.com/temirov/apisidebar/internal/output"
	"github.com/temirov/apisidebar/internal/services/watch"
	"github.com/temirov/apisidebar/internal/sidebar"
	"github.com/temirov/apisidebar/internal/types"
	"github.com/temirov/apisidebar/internal/utils"
)

const (
	generateUse              = "generate [descriptor files...]"
	generateAlias            = "g"
	generateShortDescription = "generate a sidebar from page descriptors (" + generateAlias + ")"
	generateLongDescription  = `Generate a sidebar tree from page descriptor files or OpenAPI documents.
Descriptor files hold a JSON or YAML array of descriptors, or an object with an "items" array.
Use --openapi to derive descriptors from every OpenAPI document below a directory.`
	generateUsageExample = `  # Generate a JSON sidebar from descriptor files
  apisidebar generate petstore.json users.yaml

  # Derive descriptors from OpenAPI documents and print a tree
  apisidebar generate --openapi ./api --format raw --summary

  # Regenerate on every change, expanding categories
  apisidebar generate --openapi ./api --collapsed false --watch`

	openAPIFlagName                 = "openapi"
	openAPIFlagDescription          = "directory of OpenAPI documents to derive descriptors from"
	formatFlagName                  = "format"
	formatFlagDescription           = "output format: json, yaml, xml, or raw"
	collapsibleFlagName             = "collapsible"
	collapsibleFlagDescription      = "make generated categories collapsible"
	collapsedFlagName               = "collapsed"
	collapsedFlagDescription        = "start generated categories collapsed"
	categoryMetadataFlagName        = "category-metadata"
	categoryMetadataFlagDescription = "apply _category_ metadata files to folder categories"
	metadataRootFlagName            = "metadata-root"
	metadataRootFlagDescription     = "directory folder categories are resolved against"
	routeBasePathFlagName           = "route-base-path"
	routeBasePathFlagDescription    = "route prefix of permalinks derived from OpenAPI documents"
	summaryFlagName                 = "summary"
	summaryFlagDescription          = "include a summary line in raw output"
	copyFlagName                    = "copy"
	copyFlagDescription             = "copy the rendered sidebar to the clipboard"
	watchFlagName                   = "watch"
	watchFlagDescription            = "regenerate whenever an input changes"
	errorNoInputs                   = "provide descriptor files or --openapi"
	invalidFormatMessage            = "Invalid format value '%s'"
	errorLoadDescriptorsFormat      = "load descriptors: %w"
	errorLoadOpenAPIFormat          = "load OpenAPI documents from %s: %w"
	errorApplyMetadataFormat        = "apply category metadata: %w"
	errorWriteOutputFormat          = "write sidebar: %w"
	logMessageInvalidCategory       = "The docs sidebar category metadata file looks invalid!"
	logMessageGenerated             = "sidebar generated"
	logMessageClipboardFailed       = "copy to clipboard failed"
	logMessageClipboardCopied       = "sidebar copied to clipboard"
	logFieldPath                    = "path"
	logFieldDescriptors             = "descriptors"
	logFieldCategories              = "categories"
	logFieldLinks                   = "links"
	logFieldDepth                   = "depth"
)

// generateFlags holds the raw flag values of the generate command.
type generateFlags struct {
	openAPIDirectory string
	format           string
	collapsible      bool
	collapsed        bool
	categoryMetadata bool
	metadataRoot     string
	routeBasePath    string
	summary          bool
	copy             bool
	watch            bool
}

// generateSettings are the effective settings after applying flags over configuration.
type generateSettings struct {
	descriptorFiles  []string
	openAPIDirectory string
	format           string
	sidebarOptions   sidebar.Options
	categoryMetadata bool
	metadataRoot     string
	openAPIOptions   openapi.Options
	summary          bool
	copy             bool
	watch            bool
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(environment *commandEnvironment) *cobra.Command {
	var flags generateFlags

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, configurationErr := environment.loadConfiguration()
			if configurationErr != nil {
				return configurationErr
			}
			settings, settingsErr := resolveGenerateSettings(command.Flags(), flags, configuration, arguments)
			if settingsErr != nil {
				return settingsErr
			}
			return runGenerate(command, environment, settings)
		},
	}

	flagSet := generateCommand.Flags()
	flagSet.StringVar(&flags.openAPIDirectory, openAPIFlagName, "", openAPIFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, types.FormatJSON, formatFlagDescription)
	registerBooleanFlag(flagSet, &flags.collapsible, collapsibleFlagName, true, collapsibleFlagDescription)
	registerBooleanFlag(flagSet, &flags.collapsed, collapsedFlagName, true, collapsedFlagDescription)
	registerBooleanFlag(flagSet, &flags.categoryMetadata, categoryMetadataFlagName, false, categoryMetadataFlagDescription)
	flagSet.StringVar(&flags.metadataRoot, metadataRootFlagName, "", metadataRootFlagDescription)
	flagSet.StringVar(&flags.routeBasePath, routeBasePathFlagName, openapi.DefaultRouteBasePath, routeBasePathFlagDescription)
	registerBooleanFlag(flagSet, &flags.summary, summaryFlagName, false, summaryFlagDescription)
	registerBooleanFlag(flagSet, &flags.copy, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &flags.watch, watchFlagName, false, watchFlagDescription)
	return generateCommand
}

// resolveGenerateSettings applies explicitly set flags over configuration over defaults.
func resolveGenerateSettings(flagSet *pflag.FlagSet, flags generateFlags, configuration config.ApplicationConfiguration, arguments []string) (generateSettings, error) {
	settings := generateSettings{
		descriptorFiles:  utils.DeduplicateStrings(arguments),
		openAPIDirectory: flags.openAPIDirectory,
		format:           configuration.Output.FormatOrDefault(),
		sidebarOptions:   configuration.Sidebar.Options(),
		categoryMetadata: config.BoolValue(configuration.CategoryMetadata.Enabled, false),
		metadataRoot:     configuration.CategoryMetadata.Root,
		openAPIOptions:   configuration.OpenAPI.OpenAPIOptions(),
		summary:          config.BoolValue(configuration.Output.Summary, false),
		copy:             config.BoolValue(configuration.Output.Copy, false),
		watch:            flags.watch,
	}

	if flagSet.Changed(formatFlagName) {
		settings.format = strings.ToLower(flags.format)
	}
	if flagSet.Changed(collapsibleFlagName) {
		settings.sidebarOptions.SidebarCollapsible = flags.collapsible
	}
	if flagSet.Changed(collapsedFlagName) {
		settings.sidebarOptions.SidebarCollapsed = flags.collapsed
	}
	if flagSet.Changed(categoryMetadataFlagName) {
		settings.categoryMetadata = flags.categoryMetadata
	}
	if flagSet.Changed(metadataRootFlagName) {
		settings.metadataRoot = flags.metadataRoot
	}
	if flagSet.Changed(routeBasePathFlagName) {
		settings.openAPIOptions.RouteBasePath = flags.routeBasePath
	}
	if flagSet.Changed(summaryFlagName) {
		settings.summary = flags.summary
	}
	if flagSet.Changed(copyFlagName) {
		settings.copy = flags.copy
	}

	if settings.metadataRoot == "" {
		if settings.openAPIDirectory != "" {
			settings.metadataRoot = settings.openAPIDirectory
		} else {
			settings.metadataRoot = config.DefaultMetadataRoot
		}
	}
	if !output.IsSupportedFormat(settings.format) {
		return generateSettings{}, fmt.Errorf(invalidFormatMessage, settings.format)
	}
	if len(settings.descriptorFiles) == 0 && settings.openAPIDirectory == "" {
		return generateSettings{}, errors.New(errorNoInputs)
	}
	return settings, nil
}

func runGenerate(command *cobra.Command, environment *commandEnvironment, settings generateSettings) error {
	generateOnce := func(ctx context.Context) error {
		rendered, renderErr := renderSidebar(ctx, environment, settings)
		if renderErr != nil {
			return renderErr
		}
		if writeErr := writeLine(command.OutOrStdout(), rendered); writeErr != nil {
			return fmt.Errorf(errorWriteOutputFormat, writeErr)
		}
		if settings.copy {
			if copyErr := environment.copier.Copy(rendered); copyErr != nil {
				environment.logger.Warn(logMessageClipboardFailed, zap.Error(copyErr))
			} else {
				environment.logger.Info(logMessageClipboardCopied)
			}
		}
		return nil
	}

	if generateErr := generateOnce(command.Context()); generateErr != nil {
		return generateErr
	}
	if !settings.watch {
		return nil
	}

	watcher := watch.NewWatcher(watch.Config{Paths: settings.watchedPaths(), Logger: environment.logger})
	return watcher.Run(command.Context(), generateOnce)
}

// watchedPaths lists every input whose edits change the generated sidebar.
func (settings generateSettings) watchedPaths() []string {
	paths := append([]string{}, settings.descriptorFiles...)
	if settings.openAPIDirectory != "" {
		paths = append(paths, settings.openAPIDirectory)
	}
	if settings.categoryMetadata {
		paths = append(paths, settings.metadataRoot)
	}
	return utils.DeduplicateStrings(paths)
}

// renderSidebar loads every input, generates the sidebar, and renders it.
func renderSidebar(ctx context.Context, environment *commandEnvironment, settings generateSettings) (string, error) {
	loaded, loadErr := loadInputs(ctx, settings)
	if loadErr != nil {
		return "", loadErr
	}

	generated := sidebar.GenerateSidebars(loaded, settings.sidebarOptions)
	if settings.categoryMetadata {
		if metadataErr := sidebar.ApplyCategoryMetadata(generated, settings.metadataRoot, nil); metadataErr != nil {
			var invalidMetadataError *category.InvalidMetadataError
			if errors.As(metadataErr, &invalidMetadataError) {
				environment.logger.Error(logMessageInvalidCategory,
					zap.String(logFieldPath, invalidMetadataError.Path),
					zap.Error(invalidMetadataError.Err))
			}
			return "", fmt.Errorf(errorApplyMetadataFormat, metadataErr)
		}
	}

	summary := sidebar.Summarize(generated)
	environment.logger.Debug(logMessageGenerated,
		zap.Int(logFieldDescriptors, len(loaded)),
		zap.Int(logFieldCategories, summary.Categories),
		zap.Int(logFieldLinks, summary.Links),
		zap.Int(logFieldDepth, summary.MaxDepth))

	return output.RenderString(settings.format, generated, settings.summary)
}

func loadInputs(ctx context.Context, settings generateSettings) ([]types.PageDescriptor, error) {
	var loaded []types.PageDescriptor
	if len(settings.descriptorFiles) > 0 {
		fromFiles, filesErr := descriptors.LoadFiles(ctx, settings.descriptorFiles)
		if filesErr != nil {
			return nil, fmt.Errorf(errorLoadDescriptorsFormat, filesErr)
		}
		loaded = append(loaded, fromFiles...)
	}
	if settings.openAPIDirectory != "" {
		fromDocuments, documentsErr := openapi.LoadDescriptors(ctx, settings.openAPIDirectory, settings.openAPIOptions)
		if documentsErr != nil {
			return nil, fmt.Errorf(errorLoadOpenAPIFormat, settings.openAPIDirectory, documentsErr)
		}
		loaded = append(loaded, fromDocuments...)
	}
	return loaded, nil
}
