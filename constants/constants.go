package constants

const (
	// ApplicationName is the name of the application
	ApplicationName = "tstore"

	// ApplicationBinaryName is the name of the executable
	ApplicationBinaryName = ApplicationName + "d"

	// ViperEnvPrefix is the prefix of the environment variables read by the binary, eg: TSTORE_LOG_LEVEL
	ViperEnvPrefix = "TSTORE"

	// DefaultConfigFileName is looked up in the working directory when --config is not provided
	DefaultConfigFileName = "tstore.toml"
)
