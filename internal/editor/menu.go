package editor

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

// ComponentMenu is the "Add Component" popup listing registered types.
type ComponentMenu struct {
	Open   bool
	Filter string

	registry *engine.Registry
	scroll   int32
}

func NewComponentMenu(registry *engine.Registry) *ComponentMenu {
	return &ComponentMenu{registry: registry}
}

func (m *ComponentMenu) Toggle() {
	m.Open = !m.Open
	m.scroll = 0
	m.Filter = ""
}

// Items returns the registered type names matching Filter, sorted.
func (m *ComponentMenu) Items() []string {
	names := m.registry.Names()
	if m.Filter == "" {
		return names
	}
	filter := strings.ToLower(m.Filter)
	out := names[:0]
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), filter) {
			out = append(out, n)
		}
	}
	return out
}

// Draw shows the menu above btnY and returns the clicked type name.
func (m *ComponentMenu) Draw(x, btnY, w int32) (string, bool) {
	if !m.Open {
		return "", false
	}
	itemH := int32(26)
	maxVisibleItems := int32(12)

	items := m.Items()
	contentH := int32(len(items)) * itemH
	menuH := contentH
	if int32(len(items)) > maxVisibleItems {
		menuH = maxVisibleItems * itemH
	}
	menuY := btnY - menuH - 4

	if hovering(x, menuY, w, menuH) {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			m.scroll -= int32(wheel * float32(itemH) * 2)
			m.scroll = max(0, min(m.scroll, contentH-menuH))
		}
	}

	rl.DrawRectangleRounded(rect(x, menuY, w, menuH), 0.1, 4, colorBgPanel)
	rl.DrawRectangleRoundedLinesEx(rect(x, menuY, w, menuH), 0.1, 4, 1, colorBorder)

	rl.BeginScissorMode(x, menuY, w, menuH)
	defer rl.EndScissorMode()

	for i, name := range items {
		itemY := menuY + int32(i)*itemH - m.scroll
		if itemY+itemH < menuY || itemY > menuY+menuH {
			continue
		}
		hovered := hovering(x, itemY, w, itemH-1) && hovering(x, menuY, w, menuH)
		txt := colorTextSecondary
		if hovered {
			rl.DrawRectangle(x+2, itemY, w-4, itemH, colorAccent)
			txt = colorTextPrimary
		}
		rl.DrawText(name, x+12, itemY+5, 16, txt)
		if hovered && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			m.Open = false
			return name, true
		}
	}
	return "", false
}
