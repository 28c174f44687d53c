package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/apisidebar/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	errorWorkingDirectoryForInitFormat = "determine working directory for configuration: %w"
	errorHomeDirectoryFormat           = "resolve home directory for configuration: %w"
	errorCreateDirectoryFormat         = "create configuration directory %s: %w"
	errorUnsupportedTargetFormat       = "unsupported init target %q"
	errorAlreadyExistsFormat           = "configuration file already exists at %s"
	errorInspectPathFormat             = "inspect configuration path %s: %w"
	errorWriteFormat                   = "write configuration to %s: %w"

	defaultConfigurationTemplate = `sidebar:
  collapsible: true
  collapsed: true
output:
  format: json
  copy: false
  summary: false
category_metadata:
  enabled: false
  root: .
openapi:
  route_base_path: /api
  source_prefix: "@site"
server:
  address: 127.0.0.1:8787
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(errorWorkingDirectoryForInitFormat, err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf(errorHomeDirectoryFormat, err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf(errorCreateDirectoryFormat, configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf(errorUnsupportedTargetFormat, target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(errorAlreadyExistsFormat, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(errorInspectPathFormat, destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf(errorWriteFormat, destinationPath, err)
	}

	return destinationPath, nil
}
