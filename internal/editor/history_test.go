package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPushAfterUndoDiscardsRedoTail(t *testing.T) {
	h := NewHistory(10, nil)
	a, b, c := &countCmd{name: "a"}, &countCmd{name: "b"}, &countCmd{name: "c"}
	h.Push(a)
	h.Push(b)
	h.Push(c)

	require.True(t, h.Undo())
	require.True(t, h.Undo())
	assert.Equal(t, 1, c.undone)
	assert.Equal(t, 1, b.undone)

	d := &countCmd{name: "d"}
	h.Push(d)

	assert.Equal(t, (3-2)+1, h.Len())
	assert.Same(t, d, h.Current())
	assert.False(t, h.CanRedo())

	h.Undo()
	h.Undo()
	assert.False(t, h.CanUndo())
	assert.Equal(t, 1, a.undone)
	assert.Equal(t, 0, c.executed, "discarded commands are never re-run")
}

func TestHistoryBound(t *testing.T) {
	h := NewHistory(3, nil)
	cmds := make([]*countCmd, 5)
	for i := range cmds {
		cmds[i] = &countCmd{name: string(rune('a' + i))}
		h.Push(cmds[i])
	}
	assert.Equal(t, 3, h.Len())

	for h.Undo() {
	}
	assert.Equal(t, 0, cmds[0].undone)
	assert.Equal(t, 0, cmds[1].undone)
	assert.Equal(t, 1, cmds[2].undone)
	assert.Equal(t, 1, cmds[4].undone)
}

func TestHistoryDefaultBound(t *testing.T) {
	h := NewHistory(0, nil)
	for i := 0; i < DefaultMaxUndo+5; i++ {
		h.Push(&countCmd{})
	}
	assert.Equal(t, DefaultMaxUndo, h.Len())
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(10, nil)
	cmd := &countCmd{name: "x"}
	h.Do(cmd)
	assert.Equal(t, 1, cmd.executed)

	assert.True(t, h.Undo())
	assert.False(t, h.Undo())
	assert.True(t, h.Redo())
	assert.False(t, h.Redo())
	assert.Equal(t, 2, cmd.executed)
	assert.Equal(t, 1, cmd.undone)
	assert.Equal(t, 1, h.Cursor())
}

func TestHistoryClearTransient(t *testing.T) {
	h := NewHistory(10, nil)
	keep := &countCmd{name: "keep"}
	h.Push(keep)

	h.SetTransient(true)
	h.Push(&countCmd{name: "t1"})
	h.Push(&countCmd{name: "t2"})
	h.Undo()
	h.SetTransient(false)

	changes := 0
	h.OnChange.AddListener(func() { changes++ })
	h.ClearTransient()

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 1, h.Cursor())
	assert.Same(t, keep, h.Current())
	assert.Equal(t, 1, changes)
}

func TestHistoryClearTransientKeepsPersistentRedo(t *testing.T) {
	h := NewHistory(10, nil)
	first := &countCmd{name: "first"}
	second := &countCmd{name: "second"}
	h.Push(first)
	h.SetTransient(true)
	h.Push(&countCmd{name: "t1"})
	h.SetTransient(false)
	h.Push(second)
	h.Undo()
	h.Undo()

	h.ClearTransient()

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Cursor())
	assert.Same(t, first, h.Current())
	assert.True(t, h.Redo())
	assert.Equal(t, 1, second.executed)
	assert.Equal(t, 2, h.Cursor())
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(10, nil)
	h.Push(&countCmd{})
	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Current())
}
