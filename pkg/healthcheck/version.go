package healthcheck

// Version information for the healthcheck module.
const (
	// Version is the current version of the healthcheck module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
