package editor

import (
	"math"
	"strconv"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
	"mirgo/internal/world"
)

const (
	rowHeight   = int32(24)
	labelWidth  = int32(96)
	indentWidth = int32(12)
)

// Inspector draws the selected node's entries with raygui and records every
// edit in the history as a PropertyCommand.
type Inspector struct {
	Selected engine.ID
	Width    int32
	// DropNode is set by the hierarchy while a node is being dragged; releasing
	// it over a node field assigns it.
	DropNode engine.ID

	w       *world.World
	history *History
	menu    *ComponentMenu
	scroll  int32

	activeInput string
	inputText   string

	dragID       string
	dragStartX   float32
	dragStartVal float64

	pending   *PropertyCommand
	pendingID string
}

func NewInspector(w *world.World, history *History) *Inspector {
	return &Inspector{
		Width:   340,
		w:       w,
		history: history,
		menu:    NewComponentMenu(w.Registry()),
	}
}

// Draw renders the inspector panel on the right edge of the screen.
func (in *Inspector) Draw() {
	g := in.w.Scene.FindByUID(in.Selected)
	if g == nil {
		return
	}
	panelX := int32(rl.GetScreenWidth()) - in.Width
	panelY := int32(36)
	panelH := int32(rl.GetScreenHeight()) - panelY
	btnAreaH := int32(46)
	scrollableH := panelH - btnAreaH

	rl.DrawRectangle(panelX, panelY, in.Width, panelH, colorBgPanel)
	rl.DrawRectangle(panelX, panelY, 2, panelH, colorBorder)

	if hovering(panelX, panelY, in.Width, scrollableH) && !in.menu.Open {
		in.scroll -= int32(rl.GetMouseWheelMove() * 20)
		if in.scroll < 0 {
			in.scroll = 0
		}
	}

	rl.BeginScissorMode(panelX, panelY, in.Width, scrollableH)
	x := panelX + 12
	w := in.Width - 24
	y := panelY + 8 - in.scroll

	y = in.drawSection("GameObject", NodeTarget(g.UID()), g.Describe(), x, y, w)
	y = in.drawSection("Transform", TransformTarget(g.UID()), g.Transform.Describe(), x, y, w)

	var remove engine.ID
	for _, c := range g.Components() {
		title := c.TypeName()
		if _, placeholder := c.(*world.MissingComponent); placeholder {
			title += " (missing)"
		}
		if gui.Button(rect(x+w-22, y, 22, 20), "x") {
			remove = c.UID()
		}
		y = in.drawSection(title, ComponentTarget(c.UID()), c.Describe(), x, y, w-26)
	}
	rl.EndScissorMode()

	if remove != engine.NoID {
		in.history.Do(NewRemoveComponent(in.w, remove))
	}

	btnY := panelY + scrollableH + 10
	rl.DrawRectangle(panelX, panelY+scrollableH, in.Width, btnAreaH, colorBgPanel)
	if gui.Button(rect(panelX+20, btnY, in.Width-40, 26), "Add Component") {
		in.menu.Toggle()
	}
	if typeName, picked := in.menu.Draw(panelX+20, btnY, in.Width-40); picked {
		in.history.Do(NewAddComponent(in.w, g.UID(), typeName))
	}

	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		in.dragID = ""
		in.pending = nil
		in.pendingID = ""
	}
}

func (in *Inspector) drawSection(title string, target Target, entries []engine.Entry, x, y, w int32) int32 {
	rl.DrawText(title, x, y+4, 16, colorTextPrimary)
	y += rowHeight + 2
	for _, e := range entries {
		y = in.drawEntry(target, e.Name, e.Name, e, x, y, w)
	}
	rl.DrawLine(x, y+2, x+w, y+2, colorBgActive)
	return y + 10
}

// drawEntry draws one entry and returns the y of the next row. field is the
// top-level entry name edits are recorded against; id is the unique widget path.
func (in *Inspector) drawEntry(target Target, field, id string, e engine.Entry, x, y, w int32) int32 {
	widget := WidgetFor(e)
	if widget == WidgetHidden {
		return y
	}
	scene := in.w.Scene
	rl.DrawText(e.Name, x, y+5, 14, colorTextSecondary)
	vx, vw := x+labelWidth, w-labelWidth

	switch widget {
	case WidgetLabel:
		rl.DrawText(FormatValue(e, scene), vx, y+5, 14, colorTextMuted)

	case WidgetCheckBox:
		r := e.Ref.(*engine.ScalarRef)
		cur := r.Value().(bool)
		if next := gui.CheckBox(rect(vx, y+4, 16, 16), "", cur); next != cur {
			in.edit(target, field, id, func() { _ = r.SetValue(next); e.Changed() })
		}

	case WidgetSlider:
		r := e.Ref.(*engine.ScalarRef)
		cur := asFloat(r.Value())
		next := float64(gui.Slider(rect(vx, y+4, vw-40, 16), "", FormatValue(e, scene), float32(cur), float32(e.Meta.Min), float32(e.Meta.Max)))
		if isInteger(e.Tag) {
			next = math.Round(next)
		}
		if next != cur {
			in.dragID = id
			in.edit(target, field, id, func() { _ = r.SetValue(next); e.Changed() })
		}

	case WidgetNumber:
		r := e.Ref.(*engine.ScalarRef)
		cur := asFloat(r.Value())
		if next, ok := in.numberField(vx, y, vw, id, cur, isInteger(e.Tag)); ok {
			in.edit(target, field, id, func() { _ = r.SetValue(next); e.Changed() })
		}

	case WidgetVector3:
		r := e.Ref.(*engine.ScalarRef)
		v := r.Value().(rl.Vector3)
		cw := (vw - 8) / 3
		comps := []*float32{&v.X, &v.Y, &v.Z}
		for i, c := range comps {
			if next, ok := in.numberField(vx+int32(i)*(cw+4), y, cw, id+"."+strconv.Itoa(i), float64(*c), false); ok {
				*c = float32(next)
				in.edit(target, field, id, func() { _ = r.SetValue(v); e.Changed() })
			}
		}

	case WidgetColor:
		r := e.Ref.(*engine.ScalarRef)
		c := r.Value().(rl.Color)
		rl.DrawRectangle(vx, y+4, 16, 16, c)
		cw := (vw - 24) / 3
		channels := []*uint8{&c.R, &c.G, &c.B}
		for i, ch := range channels {
			next := uint8(gui.Slider(rect(vx+20+int32(i)*(cw+2), y+4, cw, 16), "", "", float32(*ch), 0, 255))
			if next != *ch {
				*ch = next
				in.dragID = id
				in.edit(target, field, id, func() { _ = r.SetValue(c); e.Changed() })
			}
		}

	case WidgetComboBox:
		r := e.Ref.(*engine.ScalarRef)
		cur := int32(r.Value().(int64))
		if next := gui.ComboBox(rect(vx, y+2, vw, 20), strings.Join(e.Meta.EnumNames, ";"), cur); next != cur {
			in.edit(target, field, id, func() { _ = r.SetValue(int64(next)); e.Changed() })
		}

	case WidgetTextBox:
		r := e.Ref.(*engine.TextRef)
		if next, ok := in.textField(vx, y, vw, id, r.Get()); ok {
			in.edit(target, field, id, func() { r.Set(next); e.Changed() })
		}

	case WidgetNodePicker:
		r := e.Ref.(*engine.NodeLink)
		in.refField(vx, y, vw, e, true, r.Get() != engine.NoID, func(picked engine.ID) {
			in.edit(target, field, id, func() { r.Set(picked); e.Changed() })
		})

	case WidgetComponentPicker:
		r := e.Ref.(*engine.ComponentLink)
		in.refField(vx, y, vw, e, false, r.Get() != engine.NoID, func(picked engine.ID) {
			in.edit(target, field, id, func() { r.Set(picked); e.Changed() })
		})

	case WidgetAssetPicker:
		r := e.Ref.(*engine.AssetLink)
		rl.DrawText(FormatValue(e, scene), vx, y+5, 14, colorTextSecondary)
		if r.Get() != engine.NoID && gui.Button(rect(vx+vw-20, y+2, 20, 20), "x") {
			in.edit(target, field, id, func() { r.Set(engine.NoID); e.Changed() })
		}

	case WidgetGroup:
		y += rowHeight
		for _, child := range e.Ref.(*engine.ObjectRef).Object().Describe() {
			y = in.drawEntry(target, field, id+"."+child.Name, child, x+indentWidth, y, w-indentWidth)
		}
		return y

	case WidgetList:
		r := e.Ref.(*engine.ListRef)
		rl.DrawText(FormatValue(e, scene), vx, y+5, 14, colorTextMuted)
		n := r.Len()
		if gui.Button(rect(vx+vw-44, y+2, 20, 20), "+") {
			in.edit(target, field, id, func() { r.Resize(n + 1); e.Changed() })
		}
		if n > 0 && gui.Button(rect(vx+vw-20, y+2, 20, 20), "-") {
			in.edit(target, field, id, func() { r.Resize(n - 1); e.Changed() })
		}
		y += rowHeight
		for i := 0; i < r.Len(); i++ {
			y = in.drawEntry(target, field, id+"."+strconv.Itoa(i), r.Elem(i), x+indentWidth, y, w-indentWidth)
		}
		return y
	}
	return y + rowHeight
}

// refField shows a reference and handles clearing and node drops.
func (in *Inspector) refField(x, y, w int32, e engine.Entry, acceptsDrop, clearable bool, assign func(engine.ID)) {
	hovered := hovering(x, y, w, rowHeight)
	dropping := acceptsDrop && hovered && in.DropNode != engine.NoID
	bg := colorBgElement
	if dropping {
		bg = colorBgHover
	}
	rl.DrawRectangleRounded(rect(x, y+2, w, 20), 0.2, 4, bg)
	rl.DrawText(FormatValue(e, in.w.Scene), x+6, y+5, 14, colorTextSecondary)
	if dropping && rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		assign(in.DropNode)
		in.DropNode = engine.NoID
		return
	}
	if clearable && gui.Button(rect(x+w-20, y+2, 20, 20), "x") {
		assign(engine.NoID)
	}
}

// edit applies write as an undoable change. While a widget keeps dragging,
// successive writes update the same command instead of recording new ones.
func (in *Inspector) edit(target Target, field, id string, write func()) {
	if in.pending != nil && in.pendingID == id {
		write()
		in.pending.Commit()
		return
	}
	cmd, ok := BeginEdit(in.w, target, field)
	if !ok {
		return
	}
	write()
	if !cmd.Commit() {
		return
	}
	in.history.Push(cmd)
	if in.dragID == id {
		in.pending, in.pendingID = cmd, id
	}
}

// numberField is a drag-to-scrub number box; a click without dragging
// switches it to typed input.
func (in *Inspector) numberField(x, y, w int32, id string, value float64, integer bool) (float64, bool) {
	h := int32(20)
	y += 2
	hovered := hovering(x, y, w, h)
	editMode := in.activeInput == id
	dragging := in.dragID == id

	bg := colorBgElement
	if editMode {
		bg = colorBgActive
	} else if hovered || dragging {
		bg = colorBgHover
	}
	rl.DrawRectangleRounded(rect(x, y, w, h), 0.2, 4, bg)

	format := func(v float64) string {
		if integer {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	if editMode {
		rl.DrawRectangleRoundedLinesEx(rect(x, y, w, h), 0.2, 4, 1, colorAccent)
		rl.DrawText(in.inputText+"_", x+6, y+4, 14, colorTextPrimary)
		for key := rl.GetCharPressed(); key != 0; key = rl.GetCharPressed() {
			ch := rune(key)
			if (ch >= '0' && ch <= '9') || ch == '-' || (ch == '.' && !integer) {
				in.inputText += string(ch)
			}
		}
		if rl.IsKeyPressed(rl.KeyBackspace) && len(in.inputText) > 0 {
			in.inputText = in.inputText[:len(in.inputText)-1]
		}
		if rl.IsKeyPressed(rl.KeyEscape) {
			in.activeInput, in.inputText = "", ""
			return value, false
		}
		clickedOutside := rl.IsMouseButtonPressed(rl.MouseLeftButton) && !hovered
		if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) || rl.IsKeyPressed(rl.KeyTab) || clickedOutside {
			text := in.inputText
			in.activeInput, in.inputText = "", ""
			if parsed, err := strconv.ParseFloat(text, 64); err == nil && parsed != value {
				if integer {
					parsed = math.Trunc(parsed)
				}
				return parsed, true
			}
		}
		return value, false
	}

	rl.DrawText(format(value), x+6, y+4, 14, colorTextSecondary)
	if hovered && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		in.dragID = id
		in.dragStartX = rl.GetMousePosition().X
		in.dragStartVal = value
		return value, false
	}
	if !dragging {
		return value, false
	}
	mouseX := rl.GetMousePosition().X
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		sensitivity := 0.01
		if rl.IsKeyDown(rl.KeyLeftShift) {
			sensitivity = 0.001
		}
		next := in.dragStartVal + float64(mouseX-in.dragStartX)*sensitivity
		if integer {
			next = math.Round(in.dragStartVal + float64(mouseX-in.dragStartX)*0.1)
		}
		return next, next != value
	}
	if d := mouseX - in.dragStartX; d > -2 && d < 2 {
		in.activeInput = id
		in.inputText = format(value)
	}
	in.dragID = ""
	return value, false
}

// textField is a single-line text input committed on Enter or focus loss.
func (in *Inspector) textField(x, y, w int32, id, value string) (string, bool) {
	h := int32(20)
	y += 2
	hovered := hovering(x, y, w, h)
	editMode := in.activeInput == id

	bg := colorBgElement
	if editMode {
		bg = colorBgActive
	} else if hovered {
		bg = colorBgHover
	}
	rl.DrawRectangleRounded(rect(x, y, w, h), 0.2, 4, bg)

	if !editMode {
		rl.DrawText(value, x+6, y+4, 14, colorTextSecondary)
		if hovered && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			in.activeInput = id
			in.inputText = value
		}
		return value, false
	}

	rl.DrawRectangleRoundedLinesEx(rect(x, y, w, h), 0.2, 4, 1, colorAccent)
	rl.DrawText(in.inputText+"_", x+6, y+4, 14, colorTextPrimary)
	for key := rl.GetCharPressed(); key != 0; key = rl.GetCharPressed() {
		in.inputText += string(rune(key))
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(in.inputText) > 0 {
		_, size := lastRune(in.inputText)
		in.inputText = in.inputText[:len(in.inputText)-size]
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		in.activeInput, in.inputText = "", ""
		return value, false
	}
	clickedOutside := rl.IsMouseButtonPressed(rl.MouseLeftButton) && !hovered
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) || clickedOutside {
		text := in.inputText
		in.activeInput, in.inputText = "", ""
		return text, text != value
	}
	return value, false
}

func lastRune(s string) (rune, int) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i]&0xC0 != 0x80 {
			return rune(s[i]), len(s) - i
		}
	}
	return 0, len(s)
}
