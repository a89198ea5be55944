package editor

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
	"mirgo/internal/world"
)

// Row is one visible line of the hierarchy panel.
type Row struct {
	ID    engine.ID
	Name  string
	Depth int
}

// Rows flattens the scene graph in traversal order with nesting depth.
func Rows(s *engine.Scene) []Row {
	var rows []Row
	var visit func(g *engine.GameObject, depth int)
	visit = func(g *engine.GameObject, depth int) {
		rows = append(rows, Row{ID: g.UID(), Name: g.Name, Depth: depth})
		for _, c := range g.Children() {
			visit(c, depth+1)
		}
	}
	for _, r := range s.Roots() {
		visit(r, 0)
	}
	return rows
}

// UniqueName returns base, or base with a counter suffix if a node already uses it.
func UniqueName(s *engine.Scene, base string) string {
	name := base
	for i := 1; s.FindByName(name) != nil; i++ {
		name = fmt.Sprintf("%s (%d)", base, i)
	}
	return name
}

// IsDescendant reports whether node lies below ancestor.
func IsDescendant(s *engine.Scene, node, ancestor engine.ID) bool {
	g := s.FindByUID(node)
	for g != nil {
		p := g.Parent()
		if p == nil {
			return false
		}
		if p.UID() == ancestor {
			return true
		}
		g = p
	}
	return false
}

// Hierarchy draws the node tree on the left edge. Selecting a row sets the
// inspector selection; dragging a row onto another reparents it.
type Hierarchy struct {
	Width int32

	w         *world.World
	history   *History
	inspector *Inspector
	scroll    int32

	dragging   engine.ID
	dropTarget engine.ID
	unparent   bool
}

func NewHierarchy(w *world.World, history *History, inspector *Inspector) *Hierarchy {
	return &Hierarchy{Width: 220, w: w, history: history, inspector: inspector}
}

// Dragging returns the node being dragged, or NoID.
func (h *Hierarchy) Dragging() engine.ID { return h.dragging }

func (h *Hierarchy) Draw() {
	panelX := int32(0)
	panelY := int32(36)
	panelW := h.Width
	panelH := int32(rl.GetScreenHeight()) - panelY

	rl.DrawRectangle(panelX, panelY, panelW, panelH, colorBgPanel)
	rl.DrawRectangle(panelX+panelW-2, panelY, 2, panelH, colorBorder)
	rl.DrawText("Hierarchy", panelX+12, panelY+8, 18, colorTextSecondary)

	btnX, btnY, btnW, btnH := panelX+panelW-62, panelY+6, int32(54), int32(22)
	btnHovered := hovering(btnX, btnY, btnW, btnH)
	btnColor, textColor := colorBgElement, colorTextSecondary
	if btnHovered {
		btnColor, textColor = colorAccent, colorTextPrimary
	}
	rl.DrawRectangleRounded(rect(btnX, btnY, btnW, btnH), 0.5, 6, btnColor)
	rl.DrawText("+ New", btnX+8, btnY+4, 14, textColor)
	clickedNew := false
	if btnHovered && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		h.CreateNode()
		clickedNew = true
	}

	inPanel := hovering(panelX, panelY, panelW, panelH)
	if inPanel {
		h.scroll -= int32(rl.GetMouseWheelMove() * 20)
		if h.scroll < 0 {
			h.scroll = 0
		}
	}

	rows := Rows(h.w.Scene)
	itemH := int32(22)
	if maxScroll := int32(len(rows))*itemH - panelH + 30; h.scroll > maxScroll {
		h.scroll = max(maxScroll, 0)
	}

	h.dropTarget = engine.NoID
	h.unparent = false
	mouse := rl.GetMousePosition()
	top := panelY + 32

	rl.BeginScissorMode(panelX, top, panelW, panelH-32)
	for i, row := range rows {
		itemY := top + int32(i)*itemH - h.scroll
		if itemY+itemH < top || itemY > panelY+panelH {
			continue
		}
		hovered := inPanel && mouse.Y >= float32(itemY) && mouse.Y < float32(itemY+itemH)
		selected := h.inspector.Selected == row.ID
		dropTarget := h.dragging != engine.NoID && hovered && h.dragging != row.ID &&
			!IsDescendant(h.w.Scene, row.ID, h.dragging)

		switch {
		case dropTarget:
			rl.DrawRectangle(panelX, itemY, panelW, itemH, rl.NewColor(108, 99, 255, 60))
			h.dropTarget = row.ID
		case selected:
			rl.DrawRectangle(panelX, itemY, panelW, itemH, colorBgActive)
			rl.DrawRectangle(panelX, itemY, 3, itemH, colorAccent)
		case hovered:
			rl.DrawRectangle(panelX, itemY, panelW, itemH, colorBgHover)
		}

		if hovered && !clickedNew && h.dragging == engine.NoID && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			h.inspector.Selected = row.ID
			h.dragging = row.ID
		}

		color := colorTextSecondary
		if selected || h.dragging == row.ID {
			color = colorAccent
		}
		rl.DrawText(row.Name, panelX+12+int32(row.Depth)*16, itemY+4, 14, color)
	}
	rl.EndScissorMode()

	if h.dragging != engine.NoID {
		if g := h.w.Scene.FindByUID(h.dragging); g != nil && g.Parent() != nil {
			zoneY := panelY + panelH - itemH - 4
			bg := rl.NewColor(80, 50, 50, 180)
			if inPanel && mouse.Y >= float32(zoneY) {
				bg = rl.NewColor(180, 80, 80, 200)
				h.unparent = true
				h.dropTarget = engine.NoID
			}
			rl.DrawRectangle(panelX, zoneY, panelW, itemH, bg)
			rl.DrawText("Unparent", panelX+80, zoneY+4, 14, colorTextSecondary)
		}
		if g := h.w.Scene.FindByUID(h.dragging); g != nil {
			rl.DrawText(g.Name, int32(mouse.X)+10, int32(mouse.Y)-8, 14, colorTextMuted)
		}
	}
	h.inspector.DropNode = h.dragging

	if h.dragging != engine.NoID && rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		switch {
		case h.unparent:
			h.history.Do(NewReparent(h.w, h.dragging, engine.NoID, -1, true))
		case h.dropTarget != engine.NoID:
			h.history.Do(NewReparent(h.w, h.dragging, h.dropTarget, -1, true))
		}
		h.dragging = engine.NoID
	}
}

// CreateNode adds an empty node under the selection, or at the root, and selects it.
func (h *Hierarchy) CreateNode() {
	parent := engine.NoID
	if h.w.Scene.FindByUID(h.inspector.Selected) != nil {
		parent = h.inspector.Selected
	}
	cmd := NewCreateNode(h.w, UniqueName(h.w.Scene, "GameObject"), parent)
	h.history.Do(cmd)
	h.inspector.Selected = cmd.ID()
}

// DeleteSelected destroys the selected node through the history.
func (h *Hierarchy) DeleteSelected() {
	if h.w.Scene.FindByUID(h.inspector.Selected) == nil {
		return
	}
	h.history.Do(NewDeleteNode(h.w, h.inspector.Selected))
	h.inspector.Selected = engine.NoID
}
