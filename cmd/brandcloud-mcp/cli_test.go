package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigsy/brandcloud-mcp/internal/config"
	"github.com/Bigsy/brandcloud-mcp/internal/testutil"
)

// buildBinary builds the brandcloud-mcp binary for testing.
func buildBinary(t *testing.T) string {
	t.Helper()

	binary := filepath.Join(t.TempDir(), "brandcloud-mcp")
	cmd := exec.Command("go", "build", "-o", binary, ".")
	cmd.Dir = filepath.Join(getModuleRoot(t), "cmd", "brandcloud-mcp")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return binary
}

// getModuleRoot returns the root of the Go module.
func getModuleRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find module root")
		}
		dir = parent
	}
}

type cliEnv struct {
	binary     string
	home       string
	configPath string
}

func newCLIEnv(t *testing.T, binary string) *cliEnv {
	t.Helper()
	home := t.TempDir()
	return &cliEnv{
		binary:     binary,
		home:       home,
		configPath: filepath.Join(home, "config.json"),
	}
}

// run executes the binary in an isolated home with the file credential store.
func (e *cliEnv) run(args ...string) (string, string, error) {
	fullArgs := append([]string{"--config", e.configPath, "--env-dir", e.home}, args...)
	cmd := exec.Command(e.binary, fullArgs...)
	cmd.Env = append(os.Environ(),
		"HOME="+e.home,
		"XDG_CONFIG_HOME="+filepath.Join(e.home, ".config"),
		"BRANDCLOUD_CREDENTIAL_STORE=file",
		"BRANDCLOUD_API_KEY=",
		"BRANDCLOUD_DOMAIN=",
		"BRANDCLOUD_READ_ONLY=",
		"NO_COLOR=1",
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)

	t.Run("tools json", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		stdout, stderr, err := env.run("tools", "--json")
		require.NoError(t, err, stderr)

		var tools []toolView
		require.NoError(t, json.Unmarshal([]byte(stdout), &tools))
		require.Len(t, tools, 16)
		assert.Equal(t, "create-document", tools[0].Name)
		for _, tool := range tools {
			assert.Positive(t, tool.Tokens, tool.Name)
		}
	})

	t.Run("tools read-only", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		stdout, stderr, err := env.run("tools", "--read-only")
		require.NoError(t, err, stderr)

		plain := testutil.StripANSI(stdout)
		assert.Contains(t, plain, "get-file-image")
		assert.NotContains(t, plain, "delete-folders")
		assert.Contains(t, plain, "6 tools")
	})

	t.Run("tools honours disabled list", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		require.NoError(t, os.WriteFile(env.configPath, []byte(`{"schemaVersion":1,"disabledTools":["search-brandcloud"]}`), 0600))

		stdout, stderr, err := env.run("tools", "--json")
		require.NoError(t, err, stderr)
		assert.NotContains(t, stdout, "search-brandcloud")
	})

	t.Run("login status logout", func(t *testing.T) {
		env := newCLIEnv(t, binary)

		stdout, stderr, err := env.run("auth", "login", "--domain", "Acme", "--api-key", "secretkey1234", "--set-default")
		require.NoError(t, err, stderr)
		assert.Contains(t, stdout, "Saved API key *********1234 for acme")
		assert.NotContains(t, stdout, "secretkey")

		cfg, err := config.LoadFrom(env.configPath)
		require.NoError(t, err)
		assert.Equal(t, "acme", cfg.Domain)

		stdout, stderr, err = env.run("auth", "status")
		require.NoError(t, err, stderr)
		plain := testutil.StripANSI(stdout)
		assert.Contains(t, plain, "acme")
		assert.Contains(t, plain, "store")
		assert.Contains(t, plain, "*********1234")
		assert.NotContains(t, plain, "secretkey")

		stdout, stderr, err = env.run("auth", "logout")
		require.NoError(t, err, stderr)
		assert.Contains(t, stdout, "Removed API key for acme")

		stdout, _, err = env.run("auth", "logout")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No saved API key for acme")

		stdout, stderr, err = env.run("auth", "status")
		require.NoError(t, err, stderr)
		assert.Contains(t, stdout, "No saved credentials")
	})

	t.Run("login without terminal needs flags", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		_, stderr, err := env.run("auth", "login", "--domain", "acme")
		assert.Error(t, err)
		assert.Contains(t, stderr, "--domain and --api-key are required")
	})

	t.Run("login rejects a domain that is not a subdomain", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		_, stderr, err := env.run("auth", "login", "--domain", "evil.com/x?", "--api-key", "secretkey1234")
		assert.Error(t, err)
		assert.Contains(t, stderr, "invalid domain")
	})

	t.Run("serve rejects a malformed domain", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		require.NoError(t, os.WriteFile(env.configPath, []byte(`{"domain":"evil.com/x?"}`), 0600))
		_, stderr, err := env.run("serve", "--stdio")
		assert.Error(t, err)
		assert.Contains(t, stderr, "invalid domain")
	})

	t.Run("logout needs a domain", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		_, stderr, err := env.run("auth", "logout")
		assert.Error(t, err)
		assert.Contains(t, stderr, "--domain is required")
	})

	t.Run("serve rejects invalid config", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		require.NoError(t, os.WriteFile(env.configPath, []byte(`{not json`), 0600))

		_, stderr, err := env.run("serve", "--stdio")
		assert.Error(t, err)
		assert.Contains(t, stderr, "failed to load config")
	})

	t.Run("serve rejects both transports", func(t *testing.T) {
		env := newCLIEnv(t, binary)
		_, stderr, err := env.run("serve", "--stdio", "--http")
		assert.Error(t, err)
		assert.Contains(t, stderr, "none of the others can be")
	})
}

func TestHints(t *testing.T) {
	assert.Equal(t, "read-only", hints(toolView{ReadOnly: true, Idempotent: true}))
	assert.Equal(t, "destructive", hints(toolView{Destructive: true, Idempotent: true}))
	assert.Equal(t, "idempotent", hints(toolView{Idempotent: true}))
	assert.Equal(t, "-", hints(toolView{}))
}
