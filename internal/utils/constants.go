package utils

const (
	// ApplicationName is the binary name and configuration namespace.
	ApplicationName = "apisidebar"
	// ConfigFileName is the configuration file looked up locally and globally.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName holds the global configuration under the home directory.
	GlobalConfigDirectoryName = ".apisidebar"
	// EnvironmentPrefix prefixes environment overrides, e.g. APISIDEBAR_SIDEBAR_COLLAPSED.
	EnvironmentPrefix = "APISIDEBAR"

	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command failures.
	ApplicationExecutionFailedMessage = "apisidebar failed"
)
