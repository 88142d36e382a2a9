package sgschemasync

// version is set via ldflags during release builds.
// Development builds report "dev".
var version = "dev"

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}
