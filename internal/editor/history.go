package editor

import (
	"go.uber.org/zap"

	"mirgo/internal/engine"
)

// DefaultMaxUndo bounds the history when no limit is configured.
const DefaultMaxUndo = 50

// Command is an undoable edit. Commands hold ids rather than pointers, so
// they stay valid across deletes and reloads; a command whose target is gone
// does nothing.
type Command interface {
	Execute()
	Undo()
	Name() string
}

type record struct {
	cmd       Command
	transient bool
}

// History is a bounded undo/redo list. Entries before the cursor are applied;
// entries after it can be redone until a new command is pushed.
type History struct {
	max       int
	records   []record
	cursor    int
	transient bool
	log       *zap.Logger

	// OnChange fires after every modification.
	OnChange engine.Event
}

func NewHistory(max int, log *zap.Logger) *History {
	if max <= 0 {
		max = DefaultMaxUndo
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &History{max: max, log: log}
}

// Push records an already applied command. The redo tail is discarded and
// the oldest entry dropped once the bound is exceeded.
func (h *History) Push(cmd Command) {
	for i := h.cursor; i < len(h.records); i++ {
		h.records[i] = record{}
	}
	h.records = append(h.records[:h.cursor], record{cmd: cmd, transient: h.transient})
	if len(h.records) > h.max {
		drop := len(h.records) - h.max
		copy(h.records, h.records[drop:])
		for i := len(h.records) - drop; i < len(h.records); i++ {
			h.records[i] = record{}
		}
		h.records = h.records[:h.max]
	}
	h.cursor = len(h.records)
	h.log.Debug("command recorded", zap.String("command", cmd.Name()), zap.Bool("transient", h.transient))
	h.changed()
}

// Do executes cmd and records it.
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.Push(cmd)
}

// Undo reverts the command before the cursor.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	cmd := h.records[h.cursor].cmd
	cmd.Undo()
	h.log.Debug("undo", zap.String("command", cmd.Name()))
	h.changed()
	return true
}

// Redo re-applies the command at the cursor.
func (h *History) Redo() bool {
	if h.cursor >= len(h.records) {
		return false
	}
	cmd := h.records[h.cursor].cmd
	h.cursor++
	cmd.Execute()
	h.log.Debug("redo", zap.String("command", cmd.Name()))
	h.changed()
	return true
}

// SetTransient flags every command pushed from now on as transient.
// Play mode uses it so edits made while playing can be dropped on stop.
func (h *History) SetTransient(on bool) {
	h.transient = on
}

func (h *History) Transient() bool { return h.transient }

// ClearTransient removes every transient command without running it.
func (h *History) ClearTransient() {
	kept := h.records[:0]
	cursor := h.cursor
	for i, r := range h.records {
		if r.transient {
			if i < h.cursor {
				cursor--
			}
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(h.records); i++ {
		h.records[i] = record{}
	}
	removed := len(h.records) - len(kept)
	h.records = kept
	h.cursor = cursor
	if removed > 0 {
		h.log.Debug("transient commands dropped", zap.Int("count", removed))
		h.changed()
	}
}

// Len returns the number of recorded commands, undone ones included.
func (h *History) Len() int { return len(h.records) }

// Cursor returns the number of applied commands.
func (h *History) Cursor() int { return h.cursor }

// Current returns the last applied command, or nil.
func (h *History) Current() Command {
	if h.cursor == 0 {
		return nil
	}
	return h.records[h.cursor-1].cmd
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.records) }

func (h *History) Clear() {
	clear(h.records)
	h.records = h.records[:0]
	h.cursor = 0
	h.changed()
}

func (h *History) changed() {
	h.OnChange.Invoke()
}
