package editor

import (
	"mirgo/internal/engine"
)

// Widget is the control the inspector draws for an entry.
type Widget uint8

const (
	WidgetHidden Widget = iota
	WidgetLabel
	WidgetCheckBox
	WidgetSlider
	WidgetNumber
	WidgetVector3
	WidgetColor
	WidgetComboBox
	WidgetTextBox
	WidgetNodePicker
	WidgetComponentPicker
	WidgetAssetPicker
	WidgetGroup
	WidgetList
)

func (w Widget) String() string {
	switch w {
	case WidgetHidden:
		return "hidden"
	case WidgetLabel:
		return "label"
	case WidgetCheckBox:
		return "checkbox"
	case WidgetSlider:
		return "slider"
	case WidgetNumber:
		return "number"
	case WidgetVector3:
		return "vector3"
	case WidgetColor:
		return "color"
	case WidgetComboBox:
		return "combobox"
	case WidgetTextBox:
		return "textbox"
	case WidgetNodePicker:
		return "node"
	case WidgetComponentPicker:
		return "component"
	case WidgetAssetPicker:
		return "asset"
	case WidgetGroup:
		return "group"
	case WidgetList:
		return "list"
	}
	return "unknown"
}

// WidgetFor picks the control for an entry. Hidden entries get none and
// read-only or opaque ones are shown as labels.
func WidgetFor(e engine.Entry) Widget {
	if e.Meta.Hidden {
		return WidgetHidden
	}
	switch e.Ref.(type) {
	case *engine.ScalarRef:
		if e.Meta.ReadOnly {
			return WidgetLabel
		}
		switch e.Tag {
		case engine.TagBool:
			return WidgetCheckBox
		case engine.TagEnum:
			return WidgetComboBox
		case engine.TagVector3:
			return WidgetVector3
		case engine.TagColor:
			return WidgetColor
		}
		if e.Meta.HasRange {
			return WidgetSlider
		}
		return WidgetNumber
	case *engine.TextRef:
		if e.Meta.ReadOnly {
			return WidgetLabel
		}
		return WidgetTextBox
	case *engine.DocumentRef:
		return WidgetLabel
	case *engine.ObjectRef:
		return WidgetGroup
	case *engine.NodeLink:
		return WidgetNodePicker
	case *engine.ComponentLink:
		return WidgetComponentPicker
	case *engine.AssetLink:
		return WidgetAssetPicker
	case *engine.ListRef:
		return WidgetList
	}
	return WidgetHidden
}
