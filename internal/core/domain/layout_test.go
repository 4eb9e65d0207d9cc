package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/keep/internal/core/domain"
)

func TestDataRoot_KeepHomeOverride(t *testing.T) {
	t.Setenv("KEEP_HOME", "/opt/keep")
	t.Setenv("XDG_DATA_HOME", "/ignored")

	root, err := domain.DataRoot()
	if err != nil {
		t.Fatalf("DataRoot() failed: %v", err)
	}
	if root != "/opt/keep" {
		t.Errorf("DataRoot() = %q, want /opt/keep", root)
	}
}

func TestDataRoot_XDG(t *testing.T) {
	t.Setenv("KEEP_HOME", "")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	root, err := domain.DataRoot()
	if err != nil {
		t.Fatalf("DataRoot() failed: %v", err)
	}
	if root != filepath.Join("/xdg/data", "keep") {
		t.Errorf("DataRoot() = %q", root)
	}
}

func TestDataRoot_HomeFallback(t *testing.T) {
	t.Setenv("KEEP_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/tester")

	root, err := domain.DataRoot()
	if err != nil {
		t.Fatalf("DataRoot() failed: %v", err)
	}
	if root != filepath.Join("/home/tester", ".local", "share", "keep") {
		t.Errorf("DataRoot() = %q", root)
	}
}

func TestLayoutPaths(t *testing.T) {
	root := "/data/keep"
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "CataloguePath",
			got:      domain.CataloguePath(root),
			expected: filepath.Join(root, "catalogue.json"),
		},
		{
			name:     "CatalogueLockPath",
			got:      domain.CatalogueLockPath(root),
			expected: filepath.Join(root, "catalogue.lock"),
		},
		{
			name:     "EnvsPath",
			got:      domain.EnvsPath(root),
			expected: filepath.Join(root, "envs"),
		},
		{
			name:     "SpecCachePath",
			got:      domain.SpecCachePath(root),
			expected: filepath.Join(root, "speccache"),
		},
		{
			name:     "ScriptLockPath",
			got:      domain.ScriptLockPath("/tmp/script.py"),
			expected: "/tmp/script.py.lock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	path, err := domain.ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() failed: %v", err)
	}
	if path != filepath.Join("/xdg/config", "keep", "keep.yaml") {
		t.Errorf("ConfigPath() = %q", path)
	}
}
