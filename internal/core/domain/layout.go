package domain

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

const (
	// KeepDirName is the directory name used under XDG roots.
	KeepDirName = "keep"

	// EnvDirName is the name of the environments directory under the data root.
	EnvDirName = "envs"

	// CatalogueFileName is the name of the persisted registry document.
	CatalogueFileName = "catalogue.json"

	// CatalogueLockName is the name of the cross-process lock file.
	CatalogueLockName = "catalogue.lock"

	// SpecCacheDirName is the name of the parsed-spec cache directory.
	SpecCacheDirName = "speccache"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "keep.yaml"

	// LockFileSuffix is appended to a script path to name its lock file.
	LockFileSuffix = ".lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DataRoot returns the root directory for keep state. KEEP_HOME overrides,
// then XDG_DATA_HOME, then ~/.local/share.
func DataRoot() (string, error) {
	if root := os.Getenv("KEEP_HOME"); root != "" {
		return root, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, KeepDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, ErrHomeDirUnavailable.Error())
	}
	return filepath.Join(home, ".local", "share", KeepDirName), nil
}

// CataloguePath returns the registry document path under root.
func CataloguePath(root string) string {
	return filepath.Join(root, CatalogueFileName)
}

// CatalogueLockPath returns the cross-process lock file path under root.
func CatalogueLockPath(root string) string {
	return filepath.Join(root, CatalogueLockName)
}

// EnvsPath returns the environments directory under root.
func EnvsPath(root string) string {
	return filepath.Join(root, EnvDirName)
}

// SpecCachePath returns the parsed-spec cache directory under root.
func SpecCachePath(root string) string {
	return filepath.Join(root, SpecCacheDirName)
}

// ConfigPath returns the configuration file path. XDG_CONFIG_HOME overrides,
// then ~/.config.
func ConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, KeepDirName, ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, ErrHomeDirUnavailable.Error())
	}
	return filepath.Join(home, ".config", KeepDirName, ConfigFileName), nil
}

// ScriptLockPath returns the lock file path adjacent to a script.
func ScriptLockPath(scriptPath string) string {
	return scriptPath + LockFileSuffix
}
