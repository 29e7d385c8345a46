package server

import (
	"fmt"
	"strings"
)

// ToolClassification is the safety class implied by a tool's name.
type ToolClassification int

const (
	// ToolSafe indicates a read-only operation.
	ToolSafe ToolClassification = iota
	// ToolUnsafe indicates a mutating operation.
	ToolUnsafe
	// ToolUnknown indicates the classification couldn't be determined.
	ToolUnknown
)

func (c ToolClassification) String() string {
	switch c {
	case ToolSafe:
		return "safe"
	case ToolUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

var safeVerbs = map[string]bool{
	"get": true, "list": true, "search": true, "view": true, "read": true,
	"fetch": true, "find": true, "describe": true, "show": true,
}

var unsafeVerbs = map[string]bool{
	"create": true, "update": true, "delete": true, "publish": true,
	"remove": true, "move": true, "rename": true, "set": true,
	"add": true, "restore": true, "upload": true,
}

// ClassifyTool classifies a tool by the verbs in its hyphenated name.
// "publish-document-revision" is unsafe, "get-file-image" is safe.
// Any unsafe word wins over a safe one.
func ClassifyTool(name string) ToolClassification {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})

	class := ToolUnknown
	for _, w := range words {
		if unsafeVerbs[w] {
			return ToolUnsafe
		}
		if safeVerbs[w] {
			class = ToolSafe
		}
	}
	return class
}

// checkClassification rejects a catalog entry whose ReadOnly hint
// contradicts its name.
func checkClassification(spec ToolSpec) error {
	switch ClassifyTool(spec.Name) {
	case ToolSafe:
		if !spec.ReadOnly {
			return fmt.Errorf("tool %s looks read-only but is not marked ReadOnly", spec.Name)
		}
	case ToolUnsafe:
		if spec.ReadOnly {
			return fmt.Errorf("tool %s mutates state but is marked ReadOnly", spec.Name)
		}
	}
	return nil
}
