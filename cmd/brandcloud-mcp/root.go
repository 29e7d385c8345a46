package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
	"github.com/Bigsy/brandcloud-mcp/internal/config"
	"github.com/Bigsy/brandcloud-mcp/internal/credential"
)

// Version information (set at build time via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath string
	envDir     string
)

var rootCmd = &cobra.Command{
	Use:   "brandcloud-mcp",
	Short: "MCP server for the BrandCloud API",
	Long: `brandcloud-mcp exposes BrandCloud folders, documents, elements and files
as MCP tools.

Use 'brandcloud-mcp serve' to run over stdio (spawned by an MCP client) or
'brandcloud-mcp serve --http' to listen for streamable HTTP clients.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Suppress errors from being printed twice
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ~/.config/brandcloud-mcp/config.json)")
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", "", "Directory holding .env and .env.local (default: working directory)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: configPath, EnvDir: envDir})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (credential.Store, error) {
	store, err := credential.NewStore(cfg.StoreMode())
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, nil
}

func newEntry(domain, apiKey string) (*credential.Entry, error) {
	entry, err := credential.NewEntry(domain, apiKey)
	if err != nil {
		return nil, fmt.Errorf("invalid credential: %w", err)
	}
	if err := brandcloud.ValidateDomain(entry.Domain); err != nil {
		return nil, err
	}
	return entry, nil
}
