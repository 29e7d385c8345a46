package server

import (
	"github.com/Bigsy/brandcloud-mcp/internal/config"
)

// PermissionResult is the outcome of a registration check.
type PermissionResult int

const (
	// PermissionAllow registers the tool.
	PermissionAllow PermissionResult = iota
	// PermissionDeny hides the tool.
	PermissionDeny
)

func (p PermissionResult) String() string {
	if p == PermissionAllow {
		return "allow"
	}
	return "deny"
}

// CheckPermission decides whether spec is exposed under cfg.
//
// Evaluation order:
// 1. Listed in disabledTools → deny
// 2. Read-only mode and the tool is not ReadOnly → deny
// 3. Otherwise → allow
func CheckPermission(cfg *config.Config, spec ToolSpec) (PermissionResult, string) {
	if cfg == nil {
		return PermissionAllow, ""
	}
	if cfg.ToolDisabled(spec.Name) {
		return PermissionDeny, "tool is listed in disabledTools"
	}
	if cfg.ReadOnly && !spec.ReadOnly {
		return PermissionDeny, "server is in read-only mode"
	}
	return PermissionAllow, ""
}

// AllowedTools returns the catalog entries cfg exposes, in catalog order.
func AllowedTools(cfg *config.Config) []ToolSpec {
	var out []ToolSpec
	for _, spec := range Catalog() {
		if res, _ := CheckPermission(cfg, spec); res == PermissionAllow {
			out = append(out, spec)
		}
	}
	return out
}
