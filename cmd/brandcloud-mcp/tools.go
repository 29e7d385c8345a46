package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Bigsy/brandcloud-mcp/internal/server"
)

var (
	toolsJSON     bool
	toolsReadOnly bool
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	Long: `List the MCP tools the server would register with the current config,
with their behaviour hints and an estimate of the context tokens each
definition costs a client.

Examples:
  brandcloud-mcp tools
  brandcloud-mcp tools --read-only --json`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Output as JSON")
	toolsCmd.Flags().BoolVar(&toolsReadOnly, "read-only", false, "Show the tools exposed in read-only mode")

	rootCmd.AddCommand(toolsCmd)
}

type toolView struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	ReadOnly    bool   `json:"readOnly"`
	Destructive bool   `json:"destructive"`
	Idempotent  bool   `json:"idempotent"`
	Tokens      int    `json:"tokens"`
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if toolsReadOnly {
		cfg.ReadOnly = true
	}

	specs := server.AllowedTools(cfg)
	views := make([]toolView, len(specs))
	for i, spec := range specs {
		views[i] = toolView{
			Name:        spec.Name,
			Title:       spec.Title,
			ReadOnly:    spec.ReadOnly,
			Destructive: spec.Destructive,
			Idempotent:  spec.Idempotent,
			Tokens:      server.ToolTokens(spec, cfg.Domain),
		}
	}

	out := cmd.OutOrStdout()
	if toolsJSON {
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(views) == 0 {
		fmt.Fprintln(out, "No tools enabled")
		return nil
	}

	total := 0
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("NAME", "HINTS", "TOKENS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, v := range views {
		total += v.Tokens
		t.Row(v.Name, hints(v), strconv.Itoa(v.Tokens))
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "%d tools, ~%d tokens\n", len(views), total)
	return nil
}

func hints(v toolView) string {
	switch {
	case v.ReadOnly:
		return "read-only"
	case v.Destructive:
		return "destructive"
	case v.Idempotent:
		return "idempotent"
	default:
		return "-"
	}
}
