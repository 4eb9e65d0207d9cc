package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedSpec is returned when an environment specification cannot be
	// constructed from its input. A specification is never partially built.
	ErrMalformedSpec = zerr.New("malformed environment specification")

	// ErrLockRequired is returned when an application specification carries no
	// lock contents.
	ErrLockRequired = zerr.New("application specification requires lock contents")

	// ErrStaleApplicationVersion is returned when a requested application
	// version is older than the version recorded in the catalogue.
	ErrStaleApplicationVersion = zerr.New("requested application version is older than the catalogued version")

	// ErrLockMismatch is returned when lock contents changed for a released
	// application version without a version increase.
	ErrLockMismatch = zerr.New("lock contents changed for a released application version")

	// ErrCatalogueLocked is returned when the catalogue lock cannot be
	// acquired within the configured timeout.
	ErrCatalogueLocked = zerr.New("catalogue is locked by another process")

	// ErrBuildFailure is returned when the environment builder fails.
	ErrBuildFailure = zerr.New("environment build failed")

	// ErrEntryNotFound is returned when a named environment is not in the catalogue.
	ErrEntryNotFound = zerr.New("environment not found in catalogue")

	// ErrInvalidVersion is returned when a version string is not a valid
	// semantic version.
	ErrInvalidVersion = zerr.New("invalid semantic version")

	// ErrCatalogueReadFailed is returned when the catalogue file cannot be read.
	ErrCatalogueReadFailed = zerr.New("failed to read catalogue file")

	// ErrCatalogueWriteFailed is returned when the catalogue file cannot be written.
	ErrCatalogueWriteFailed = zerr.New("failed to write catalogue file")

	// ErrCatalogueMarshalFailed is returned when the catalogue document cannot be marshaled.
	ErrCatalogueMarshalFailed = zerr.New("failed to marshal catalogue document")

	// ErrScriptReadFailed is returned when a script file cannot be read.
	ErrScriptReadFailed = zerr.New("failed to read script file")

	// ErrMetadataNotFound is returned when a script has no inline metadata block.
	ErrMetadataNotFound = zerr.New("no inline metadata block found in script")

	// ErrSpecCacheReadFailed is returned when reading the parsed-spec cache fails.
	ErrSpecCacheReadFailed = zerr.New("failed to read spec cache")

	// ErrSpecCacheWriteFailed is returned when writing the parsed-spec cache fails.
	ErrSpecCacheWriteFailed = zerr.New("failed to write spec cache")

	// ErrLockFileReadFailed is returned when a script lock file cannot be read.
	ErrLockFileReadFailed = zerr.New("failed to read lock file")

	// ErrLockFileWriteFailed is returned when a script lock file cannot be written.
	ErrLockFileWriteFailed = zerr.New("failed to write lock file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrHomeDirUnavailable is returned when the user home directory cannot be
	// determined and no override is set.
	ErrHomeDirUnavailable = zerr.New("could not determine user home directory")

	// ErrExecutionFailed is returned when an external command fails.
	ErrExecutionFailed = zerr.New("command execution failed")

	// ErrInterpreterMissing is returned when an environment directory exists
	// but its interpreter binary is gone.
	ErrInterpreterMissing = zerr.New("environment interpreter is missing")

	// ErrScriptFailed is returned when the executed script exits with an
	// error. The chain carries the exit code as metadata.
	ErrScriptFailed = zerr.New("script exited with an error")

	// ErrWatchFailed is returned when the script watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch script file")
)
