// Package testutil provides common test utilities.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestHome creates an isolated $HOME directory for tests so config
// and credential files never touch the real user directory. BrandCloud
// environment variables are cleared as well.
func SetupTestHome(t *testing.T) string {
	t.Helper()

	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpHome, ".config"))
	// TMPDIR for macOS
	t.Setenv("TMPDIR", tmpHome)

	for _, key := range []string{
		"BRANDCLOUD_API_KEY",
		"BRANDCLOUD_DOMAIN",
		"BRANDCLOUD_API_HOST",
		"BRANDCLOUD_REQUEST_TIMEOUT",
		"BRANDCLOUD_OMIT_ZERO_FIELDS",
		"BRANDCLOUD_READ_ONLY",
		"BRANDCLOUD_CREDENTIAL_STORE",
		"BRANDCLOUD_S3_BUCKET",
		"BRANDCLOUD_S3_PREFIX",
		"AWS_REGION",
		"BRANDCLOUD_S3_ENDPOINT",
		"LOG_LEVEL",
		"PORT",
	} {
		t.Setenv(key, "")
	}

	configDir := filepath.Join(tmpHome, ".config", "brandcloud-mcp")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("create test config dir: %v", err)
	}

	return tmpHome
}

// WriteTestConfig writes a config file into the isolated $HOME.
func WriteTestConfig(t *testing.T, configJSON string) string {
	t.Helper()

	home := os.Getenv("HOME")
	if home == "" {
		t.Fatal("HOME not set - call SetupTestHome first")
	}

	configPath := filepath.Join(home, ".config", "brandcloud-mcp", "config.json")
	if err := os.WriteFile(configPath, []byte(configJSON), 0600); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	return configPath
}
