package world

import (
	"fmt"
	"strings"
)

// LoadReport lists the recoverable problems met while loading a document.
type LoadReport struct {
	Nodes      int
	Components int
	// Unresolved names component types loaded as placeholders.
	Unresolved []string
	// Dangling counts references dropped because their target was absent.
	Dangling int
	// AssetErrors holds per-asset failures; the referencing entries stay empty.
	AssetErrors []string
	Warnings    []string
}

func (r *LoadReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// OK reports whether the load met no problems at all.
func (r *LoadReport) OK() bool {
	return len(r.Unresolved) == 0 && r.Dangling == 0 && len(r.AssetErrors) == 0 && len(r.Warnings) == 0
}

// Summary is the single user-facing line describing the load.
func (r *LoadReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d nodes, %d components", r.Nodes, r.Components)
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(&b, ", %d unresolved types (%s)", len(r.Unresolved), strings.Join(r.Unresolved, ", "))
	}
	if r.Dangling > 0 {
		fmt.Fprintf(&b, ", %d dangling references cleared", r.Dangling)
	}
	if len(r.AssetErrors) > 0 {
		fmt.Fprintf(&b, ", %d asset errors", len(r.AssetErrors))
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, ", %d warnings", len(r.Warnings))
	}
	return b.String()
}
