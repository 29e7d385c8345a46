package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
	"github.com/Bigsy/brandcloud-mcp/internal/credential"
	"github.com/Bigsy/brandcloud-mcp/internal/testutil"
)

func fileStore(path string) func(credential.StoreMode) (credential.Store, error) {
	return func(credential.StoreMode) (credential.Store, error) {
		return credential.NewFileStoreAt(path), nil
	}
}

func TestLoadFrom_NonExistentFile(t *testing.T) {
	testutil.SetupTestHome(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, DefaultPort, cfg.ListenPort())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, brandcloud.PresencePolicy, cfg.Policy())
	assert.Equal(t, credential.StoreModeAuto, cfg.StoreMode())
	assert.False(t, cfg.MirrorEnabled())
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	testutil.SetupTestHome(t)
	path := testutil.WriteTestConfig(t, `{
		"schemaVersion": 1,
		"domain": "acme",
		"port": 8080,
		"requestTimeout": "5s",
		"credentialStore": "file",
		"omitZeroFields": true,
		"downloads": {"s3Bucket": "assets", "s3Prefix": "bc/"}
	}`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Domain)
	assert.Equal(t, 8080, cfg.ListenPort())
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, credential.StoreModeFile, cfg.StoreMode())
	assert.Equal(t, brandcloud.TruthyPolicy, cfg.Policy())
	assert.True(t, cfg.MirrorEnabled())
	assert.Equal(t, "assets", cfg.S3().Bucket)
	assert.Equal(t, "bc/", cfg.S3().Prefix)
}

func TestLoadFrom_TimeoutAsSeconds(t *testing.T) {
	testutil.SetupTestHome(t)
	path := testutil.WriteTestConfig(t, `{"requestTimeout": 12}`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.Timeout())
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	testutil.SetupTestHome(t)
	path := testutil.WriteTestConfig(t, `{not json`)

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestSaveTo_RoundTripsWithoutAPIKey(t *testing.T) {
	home := testutil.SetupTestHome(t)
	path := filepath.Join(home, ".config", "brandcloud-mcp", "config.json")

	cfg := NewConfig()
	cfg.Domain = "acme"
	cfg.APIKey = "SECRET"
	cfg.RequestTimeout = Duration(10 * time.Second)
	require.NoError(t, SaveTo(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "SECRET")
	assert.Contains(t, string(data), `"requestTimeout": "10s"`)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", loaded.Domain)
	assert.Empty(t, loaded.APIKey)
	assert.Equal(t, 10*time.Second, loaded.Timeout())
}

func TestSaveTo_ExpandsHome(t *testing.T) {
	home := testutil.SetupTestHome(t)

	require.NoError(t, SaveTo(NewConfig(), "~/custom/config.json"))
	_, err := os.Stat(filepath.Join(home, "custom", "config.json"))
	assert.NoError(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	testutil.SetupTestHome(t)
	path := testutil.WriteTestConfig(t, `{"domain": "fromfile", "port": 4000}`)
	t.Setenv(EnvDomain, "acme")
	t.Setenv(EnvAPIKey, "KEY123")
	t.Setenv(EnvPort, "5000")
	t.Setenv(EnvRequestTimeout, "2s")
	t.Setenv(EnvOmitZeroFields, "true")
	t.Setenv(EnvS3Bucket, "assets")
	t.Setenv(EnvAWSRegion, "eu-west-1")

	cfg, err := Load(LoadOptions{Path: path, EnvDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Domain)
	assert.Equal(t, "KEY123", cfg.APIKey)
	assert.Equal(t, "env", cfg.APIKeySource)
	assert.Equal(t, 5000, cfg.ListenPort())
	assert.Equal(t, 2*time.Second, cfg.Timeout())
	assert.Equal(t, brandcloud.TruthyPolicy, cfg.Policy())
	assert.Equal(t, "eu-west-1", cfg.S3().Region)
}

func TestLoad_ReadOnlyAndDisabledTools(t *testing.T) {
	testutil.SetupTestHome(t)
	path := testutil.WriteTestConfig(t, `{"disabledTools": ["delete-folders"]}`)
	t.Setenv(EnvReadOnly, "1")

	cfg, err := Load(LoadOptions{Path: path, EnvDir: t.TempDir()})
	require.NoError(t, err)
	assert.True(t, cfg.ReadOnly)
	assert.True(t, cfg.ToolDisabled("delete-folders"))
	assert.False(t, cfg.ToolDisabled("list-folders"))
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := map[string]string{
		EnvPort:            "abc",
		EnvRequestTimeout:  "soon",
		EnvOmitZeroFields:  "maybe",
		EnvReadOnly:        "sometimes",
		EnvCredentialStore: "vault",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			testutil.SetupTestHome(t)
			t.Setenv(key, value)

			_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "none.json"), EnvDir: t.TempDir()})
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnvFiles(t *testing.T) {
	testutil.SetupTestHome(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BRANDCLOUD_DOMAIN=fromenvfile\nBRANDCLOUD_API_KEY=base\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("BRANDCLOUD_API_KEY=local\n"), 0600))

	// godotenv.Load keeps variables that already exist, even when empty.
	for _, key := range []string{EnvDomain, EnvAPIKey} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(LoadOptions{Path: filepath.Join(dir, "none.json"), EnvDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "fromenvfile", cfg.Domain)
	assert.Equal(t, "local", cfg.APIKey)
}

func TestLoad_StoredCredentialFallback(t *testing.T) {
	home := testutil.SetupTestHome(t)
	storePath := filepath.Join(home, ".credentials.json")
	require.NoError(t, credential.NewFileStoreAt(storePath).Put(&credential.Entry{Domain: "acme", APIKey: "STORED"}))
	t.Setenv(EnvDomain, "acme")

	cfg, err := Load(LoadOptions{Path: filepath.Join(home, "none.json"), EnvDir: t.TempDir(), OpenStore: fileStore(storePath)})
	require.NoError(t, err)
	assert.Equal(t, "STORED", cfg.APIKey)
	assert.Equal(t, "store", cfg.APIKeySource)

	t.Setenv(EnvAPIKey, "ENV")
	cfg, err = Load(LoadOptions{Path: filepath.Join(home, "none.json"), EnvDir: t.TempDir(), OpenStore: fileStore(storePath)})
	require.NoError(t, err)
	assert.Equal(t, "ENV", cfg.APIKey)
	assert.Equal(t, "env", cfg.APIKeySource)
}

func TestLoad_StoreFailureIsNotFatal(t *testing.T) {
	testutil.SetupTestHome(t)
	t.Setenv(EnvDomain, "acme")

	cfg, err := Load(LoadOptions{
		Path:   filepath.Join(t.TempDir(), "none.json"),
		EnvDir: t.TempDir(),
		OpenStore: func(credential.StoreMode) (credential.Store, error) {
			return nil, errors.New("no keychain")
		},
	})
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "no keychain")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Config{}},
		{name: "domain", cfg: Config{Domain: "acme"}},
		{name: "domain with host", cfg: Config{Domain: "evil.com/x?"}, wantErr: "invalid domain"},
		{name: "domain with userinfo", cfg: Config{Domain: "me@evil"}, wantErr: "invalid domain"},
		{name: "port", cfg: Config{Port: 70000}, wantErr: "out of range"},
		{name: "timeout", cfg: Config{RequestTimeout: -1}, wantErr: "negative"},
		{name: "store", cfg: Config{CredentialStore: "vault"}, wantErr: "credential store"},
		{name: "s3 without bucket", cfg: Config{Downloads: DownloadsConfig{S3Prefix: "x/"}}, wantErr: "s3Bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
