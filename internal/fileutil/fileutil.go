// Package fileutil holds file permission constants shared by the bundle
// writer and the CLI.
package fileutil

import "os"

// ReadableByAll is the file permission mode for generated source files
// intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the directory permission mode for generated output
// directories.
const DirReadableByAll os.FileMode = 0o755
