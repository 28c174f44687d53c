// Package config loads layered apisidebar configuration from global, local, and environment sources.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/apisidebar/internal/openapi"
	"github.com/temirov/apisidebar/internal/sidebar"
	"github.com/temirov/apisidebar/internal/types"
	"github.com/temirov/apisidebar/internal/utils"
)

const (
	// DefaultServerAddress is the listen address of the serve command.
	DefaultServerAddress = "127.0.0.1:8787"
	// DefaultMetadataRoot resolves folder category directories when no root is configured.
	DefaultMetadataRoot = "."

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolvePathFormat      = "resolve configuration path %s: %w"
	errorStatFormat             = "stat configuration %s: %w"
	errorDirectoryFormat        = "configuration path %s is a directory"
	errorReadFormat             = "read configuration from %s: %w"
	errorDecodeFormat           = "decode configuration from %s: %w"
	errorBindEnvironmentFormat  = "bind environment for %s: %w"
	errorDecodeEnvironment      = "decode environment configuration: %w"
)

// environmentKeys lists every configuration key that may be overridden from the environment.
var environmentKeys = []string{
	"sidebar.collapsible",
	"sidebar.collapsed",
	"output.format",
	"output.copy",
	"output.summary",
	"category_metadata.enabled",
	"category_metadata.root",
	"openapi.route_base_path",
	"openapi.source_prefix",
	"server.address",
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// IgnoreEnvironment skips APISIDEBAR_* overrides.
	IgnoreEnvironment bool
}

// ApplicationConfiguration holds the configured defaults of every command.
type ApplicationConfiguration struct {
	Sidebar          SidebarConfiguration          `mapstructure:"sidebar"`
	Output           OutputConfiguration           `mapstructure:"output"`
	CategoryMetadata CategoryMetadataConfiguration `mapstructure:"category_metadata"`
	OpenAPI          OpenAPIConfiguration          `mapstructure:"openapi"`
	Server           ServerConfiguration           `mapstructure:"server"`
}

// SidebarConfiguration mirrors sidebar.Options with optional values.
type SidebarConfiguration struct {
	Collapsible *bool `mapstructure:"collapsible"`
	Collapsed   *bool `mapstructure:"collapsed"`
}

// OutputConfiguration controls rendering of the generated sidebar.
type OutputConfiguration struct {
	Format  string `mapstructure:"format"`
	Copy    *bool  `mapstructure:"copy"`
	Summary *bool  `mapstructure:"summary"`
}

// CategoryMetadataConfiguration controls the _category_ metadata overlay.
type CategoryMetadataConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Root    string `mapstructure:"root"`
}

// OpenAPIConfiguration controls descriptor derivation from OpenAPI documents.
type OpenAPIConfiguration struct {
	RouteBasePath string `mapstructure:"route_base_path"`
	SourcePrefix  string `mapstructure:"source_prefix"`
}

// ServerConfiguration controls the serve command.
type ServerConfiguration struct {
	Address string `mapstructure:"address"`
}

// LoadApplicationConfiguration loads configuration from the global file, the local (or
// explicit) file, and the environment, each layer overriding the previous one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	if !options.IgnoreEnvironment {
		environmentConfig, environmentErr := loadEnvironmentConfiguration()
		if environmentErr != nil {
			return ApplicationConfiguration{}, environmentErr
		}
		merged = merged.Merge(environmentConfig)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(errorResolvePathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeFormat, path, decodeErr)
	}
	return config, nil
}

func loadEnvironmentConfiguration() (ApplicationConfiguration, error) {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range environmentKeys {
		if bindErr := reader.BindEnv(key); bindErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorBindEnvironmentFormat, key, bindErr)
		}
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeEnvironment, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Sidebar = result.Sidebar.merge(override.Sidebar)
	result.Output = result.Output.merge(override.Output)
	result.CategoryMetadata = result.CategoryMetadata.merge(override.CategoryMetadata)
	if override.OpenAPI.RouteBasePath != "" {
		result.OpenAPI.RouteBasePath = override.OpenAPI.RouteBasePath
	}
	if override.OpenAPI.SourcePrefix != "" {
		result.OpenAPI.SourcePrefix = override.OpenAPI.SourcePrefix
	}
	if override.Server.Address != "" {
		result.Server.Address = override.Server.Address
	}
	return result
}

func (config SidebarConfiguration) merge(override SidebarConfiguration) SidebarConfiguration {
	result := config
	if override.Collapsible != nil {
		result.Collapsible = cloneBool(override.Collapsible)
	}
	if override.Collapsed != nil {
		result.Collapsed = cloneBool(override.Collapsed)
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	return result
}

func (config CategoryMetadataConfiguration) merge(override CategoryMetadataConfiguration) CategoryMetadataConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Root != "" {
		result.Root = override.Root
	}
	return result
}

// Options returns the sidebar options with unset values taken from sidebar.DefaultOptions.
func (config SidebarConfiguration) Options() sidebar.Options {
	options := sidebar.DefaultOptions()
	if config.Collapsible != nil {
		options.SidebarCollapsible = *config.Collapsible
	}
	if config.Collapsed != nil {
		options.SidebarCollapsed = *config.Collapsed
	}
	return options
}

// FormatOrDefault returns the configured format, or JSON when none is configured.
func (config OutputConfiguration) FormatOrDefault() string {
	if config.Format == "" {
		return types.FormatJSON
	}
	return strings.ToLower(config.Format)
}

// OpenAPIOptions converts the configuration into openapi.Options.
func (config OpenAPIConfiguration) OpenAPIOptions() openapi.Options {
	return openapi.Options{
		RouteBasePath: config.RouteBasePath,
		SourcePrefix:  config.SourcePrefix,
	}
}

// AddressOrDefault returns the configured listen address, or DefaultServerAddress.
func (config ServerConfiguration) AddressOrDefault() string {
	if config.Address == "" {
		return DefaultServerAddress
	}
	return config.Address
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
