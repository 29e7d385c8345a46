// Package config provides the configuration schema and loading for the
// BrandCloud MCP server.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
	"github.com/Bigsy/brandcloud-mcp/internal/credential"
	"github.com/Bigsy/brandcloud-mcp/internal/storage"
)

// SchemaVersion is the current config schema version.
const SchemaVersion = 1

const (
	DefaultPort            = 3001
	DefaultRequestTimeout  = brandcloud.DefaultTimeout
	DefaultCredentialStore = credential.StoreModeAuto
)

// Duration is a time.Duration that reads "30s" or a number of seconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var secs float64
		if err := json.Unmarshal(data, &secs); err != nil {
			return fmt.Errorf("duration must be a string like \"30s\" or a number of seconds")
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// DownloadsConfig configures the optional object-storage mirror.
type DownloadsConfig struct {
	S3Bucket   string `json:"s3Bucket,omitempty"`
	S3Prefix   string `json:"s3Prefix,omitempty"`
	S3Endpoint string `json:"s3Endpoint,omitempty"`
	S3Region   string `json:"s3Region,omitempty"`
}

// Config is the process configuration. It is built once at startup and
// never mutated while serving.
type Config struct {
	SchemaVersion   int             `json:"schemaVersion"`
	Domain          string          `json:"domain,omitempty"`
	APIHost         string          `json:"apiHost,omitempty"`
	Port            int             `json:"port,omitempty"`
	RequestTimeout  Duration        `json:"requestTimeout,omitempty"`
	CredentialStore string          `json:"credentialStore,omitempty"`
	OmitZeroFields  bool            `json:"omitZeroFields,omitempty"`
	ReadOnly        bool            `json:"readOnly,omitempty"`
	DisabledTools   []string        `json:"disabledTools,omitempty"`
	Downloads       DownloadsConfig `json:"downloads"`
	LastModified    time.Time       `json:"lastModified"`

	// APIKey is the standalone-mode credential. It is never written to
	// the config file.
	APIKey string `json:"-"`
	// APIKeySource is "env", "store" or "" when no key was found.
	APIKeySource string `json:"-"`
	// Warnings collects non-fatal problems found while loading.
	Warnings []string `json:"-"`
}

// NewConfig creates a configuration with default values.
func NewConfig() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		LastModified:  time.Now(),
	}
}

// ListenPort returns the HTTP port, applying the default.
func (c *Config) ListenPort() int {
	if c.Port == 0 {
		return DefaultPort
	}
	return c.Port
}

// Timeout returns the per-request timeout, applying the default.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeout)
}

// StoreMode returns the credential store mode, applying the default.
func (c *Config) StoreMode() credential.StoreMode {
	mode, err := credential.ParseStoreMode(c.CredentialStore)
	if err != nil {
		return DefaultCredentialStore
	}
	return mode
}

// Policy returns the zero-value policy for request bodies.
func (c *Config) Policy() brandcloud.FieldPolicy {
	if c.OmitZeroFields {
		return brandcloud.TruthyPolicy
	}
	return brandcloud.PresencePolicy
}

// ToolDisabled reports whether name is listed in DisabledTools.
func (c *Config) ToolDisabled(name string) bool {
	for _, t := range c.DisabledTools {
		if t == name {
			return true
		}
	}
	return false
}

// MirrorEnabled reports whether downloads are copied to S3.
func (c *Config) MirrorEnabled() bool {
	return c.Downloads.S3Bucket != ""
}

// S3 returns the mirror configuration.
func (c *Config) S3() storage.S3Config {
	return storage.S3Config{
		Bucket:   c.Downloads.S3Bucket,
		Prefix:   c.Downloads.S3Prefix,
		Region:   c.Downloads.S3Region,
		Endpoint: c.Downloads.S3Endpoint,
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Domain != "" {
		if err := brandcloud.ValidateDomain(c.Domain); err != nil {
			return err
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeout must not be negative")
	}
	if _, err := credential.ParseStoreMode(c.CredentialStore); err != nil {
		return err
	}
	if c.Downloads.S3Bucket == "" && (c.Downloads.S3Prefix != "" || c.Downloads.S3Endpoint != "") {
		return fmt.Errorf("downloads.s3Bucket is required when other s3 settings are set")
	}
	return nil
}
