package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Bigsy/brandcloud-mcp/internal/credential"
)

// Environment variables read by Load.
const (
	EnvDomain          = "BRANDCLOUD_DOMAIN"
	EnvAPIKey          = "BRANDCLOUD_API_KEY"
	EnvAPIHost         = "BRANDCLOUD_API_HOST"
	EnvPort            = "PORT"
	EnvRequestTimeout  = "BRANDCLOUD_REQUEST_TIMEOUT"
	EnvCredentialStore = "BRANDCLOUD_CREDENTIAL_STORE"
	EnvOmitZeroFields  = "BRANDCLOUD_OMIT_ZERO_FIELDS"
	EnvReadOnly        = "BRANDCLOUD_READ_ONLY"
	EnvS3Bucket        = "BRANDCLOUD_S3_BUCKET"
	EnvS3Prefix        = "BRANDCLOUD_S3_PREFIX"
	EnvS3Endpoint      = "BRANDCLOUD_S3_ENDPOINT"
	EnvAWSRegion       = "AWS_REGION"
)

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// Path is the config file; empty uses ConfigPath().
	Path string
	// EnvDir holds .env and .env.local; empty uses the working directory.
	EnvDir string
	// OpenStore opens the credential store used when BRANDCLOUD_API_KEY is
	// unset. Nil uses credential.NewStore.
	OpenStore func(credential.StoreMode) (credential.Store, error)
}

// Load builds the process configuration: .env files, then the config file,
// then environment overrides, then the stored credential fallback.
func Load(opts LoadOptions) (*Config, error) {
	if err := LoadEnvFiles(opts.EnvDir); err != nil {
		return nil, err
	}

	path := opts.Path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.APIKey != "" {
		cfg.APIKeySource = "env"
		return cfg, nil
	}
	if cfg.Domain == "" {
		return cfg, nil
	}

	open := opts.OpenStore
	if open == nil {
		open = credential.NewStore
	}
	store, err := open(cfg.StoreMode())
	if err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("credential store unavailable: %v", err))
		return cfg, nil
	}
	entry, err := store.Get(cfg.Domain)
	if err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("read stored credential: %v", err))
		return cfg, nil
	}
	if entry != nil {
		cfg.APIKey = entry.APIKey
		cfg.APIKeySource = "store"
	}
	return cfg, nil
}

// LoadEnvFiles loads dir/.env without overriding the existing environment,
// then dir/.env.local with override. Missing files are ignored.
func LoadEnvFiles(dir string) error {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	localFile := filepath.Join(dir, ".env.local")
	if _, err := os.Stat(localFile); err == nil {
		if err := godotenv.Overload(localFile); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	setString(EnvDomain, &cfg.Domain)
	setString(EnvAPIKey, &cfg.APIKey)
	setString(EnvAPIHost, &cfg.APIHost)
	setString(EnvCredentialStore, &cfg.CredentialStore)
	setString(EnvS3Bucket, &cfg.Downloads.S3Bucket)
	setString(EnvS3Prefix, &cfg.Downloads.S3Prefix)
	setString(EnvS3Endpoint, &cfg.Downloads.S3Endpoint)
	setString(EnvAWSRegion, &cfg.Downloads.S3Region)

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = Duration(d)
	}
	if v := os.Getenv(EnvOmitZeroFields); v != "" {
		omit, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvOmitZeroFields, v, err)
		}
		cfg.OmitZeroFields = omit
	}
	if v := os.Getenv(EnvReadOnly); v != "" {
		ro, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvReadOnly, v, err)
		}
		cfg.ReadOnly = ro
	}
	return nil
}
