package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
	"github.com/Bigsy/brandcloud-mcp/internal/config"
)

var (
	loginDomain     string
	loginAPIKey     string
	loginSetDefault bool
	logoutDomain    string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage saved BrandCloud API keys",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a BrandCloud API key",
	Long: `Save the API key for a BrandCloud domain in the credential store
(system keychain, or ~/.config/brandcloud-mcp/.credentials.json).

The stored key is used over stdio when BRANDCLOUD_API_KEY is unset.
Missing values are prompted for when running in a terminal.

Examples:
  brandcloud-mcp auth login --domain acme --api-key $KEY --set-default
  brandcloud-mcp auth login`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove a saved BrandCloud API key",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the effective configuration and saved credentials",
	RunE:  runStatus,
}

func init() {
	loginCmd.Flags().StringVarP(&loginDomain, "domain", "d", "", "BrandCloud domain (the subdomain of brandcloud.pro)")
	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "BrandCloud API key")
	loginCmd.Flags().BoolVar(&loginSetDefault, "set-default", false, "Also make this domain the default in the config file")

	logoutCmd.Flags().StringVarP(&logoutDomain, "domain", "d", "", "Domain to remove (default: configured domain)")

	authCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
	rootCmd.AddCommand(authCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if loginDomain == "" || loginAPIKey == "" {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return errors.New("--domain and --api-key are required when not running in a terminal")
		}
		if loginDomain == "" {
			loginDomain = cfg.Domain
		}
		if err := promptLogin(); err != nil {
			return err
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	entry, err := newEntry(loginDomain, loginAPIKey)
	if err != nil {
		return err
	}
	if err := store.Put(entry); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	if loginSetDefault {
		if err := setDefaultDomain(entry.Domain); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Saved API key %s for %s\n", okStyle.Render("✓"), entry.Masked(), entry.Domain)
	return nil
}

func promptLogin() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Domain").
				Description("Your BrandCloud subdomain, e.g. acme for acme.brandcloud.pro").
				Value(&loginDomain).
				Validate(func(s string) error { return brandcloud.ValidateDomain(strings.TrimSpace(s)) }),
			huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Value(&loginAPIKey).
				Validate(huh.ValidateNotEmpty()),
		),
	).WithTheme(huh.ThemeBase16()).Run()
}

func setDefaultDomain(domain string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.Domain = domain
	if err := config.SaveTo(fileCfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	domain := strings.ToLower(strings.TrimSpace(logoutDomain))
	if domain == "" {
		domain = cfg.Domain
	}
	if domain == "" {
		return errors.New("--domain is required when no default domain is configured")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	existing, err := store.Get(domain)
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}
	if existing == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No saved API key for %s\n", domain)
		return nil
	}
	if err := store.Delete(domain); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed API key for %s\n", okStyle.Render("✓"), domain)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	keySource := cfg.APIKeySource
	if keySource == "" {
		keySource = "none"
	}
	mirror := "off"
	if cfg.MirrorEnabled() {
		mirror = "s3://" + cfg.Downloads.S3Bucket + "/" + cfg.Downloads.S3Prefix
	}

	settings := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		Row("Config", path).
		Row("Domain", valueOr(cfg.Domain, "(not set)")).
		Row("API key", keySource).
		Row("Credential store", string(cfg.StoreMode())).
		Row("Timeout", cfg.Timeout().String()).
		Row("Read-only", fmt.Sprintf("%t", cfg.ReadOnly)).
		Row("Mirror", mirror)
	fmt.Fprintln(out, settings.Render())

	for _, w := range cfg.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No saved credentials")
		return nil
	}

	creds := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("DOMAIN", "API KEY", "SAVED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, e := range entries {
		saved := time.UnixMilli(e.CreatedAt).Format(time.DateTime)
		creds.Row(e.Domain, e.Masked(), saved)
	}
	fmt.Fprintln(out, creds.Render())
	return nil
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.ConfigPath()
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
