package binfmt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMagic = [4]byte{'T', 'E', 'S', 'T'}

func TestSealOpen(t *testing.T) {
	w := NewWriter()
	w.U8(7)
	w.U16(0xBEEF)
	w.I64(-42)
	w.F32(1.5)
	w.Bool(true)
	w.Text("héllo")
	off := w.Reserve32()
	w.Bytes([]byte{1, 2, 3})
	w.Patch32(off, 99)

	r, version, err := Open(w.Seal(testMagic, 3), testMagic)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), version)

	assert.Equal(t, uint8(7), r.U8())
	assert.Equal(t, uint16(0xBEEF), r.U16())
	assert.Equal(t, int64(-42), r.I64())
	assert.Equal(t, float32(1.5), r.F32())
	assert.True(t, r.Bool())
	assert.Equal(t, "héllo", r.Text())
	assert.Equal(t, uint32(99), r.U32())
	assert.Equal(t, []byte{1, 2, 3}, r.Bytes())
	assert.Equal(t, 0, r.Remaining())
	assert.NoError(t, r.Err())
}

func TestOpenDetectsCorruption(t *testing.T) {
	w := NewWriter()
	w.Text("payload")
	blob := w.Seal(testMagic, 1)
	blob[8] ^= 0xFF

	_, _, err := Open(blob, testMagic)
	assert.True(t, errors.Is(err, ErrChecksum))

	_, _, err = Open(w.Seal(testMagic, 1), [4]byte{'N', 'O', 'P', 'E'})
	assert.True(t, errors.Is(err, ErrMagic))

	_, _, err = Open([]byte{1, 2}, testMagic)
	assert.True(t, errors.Is(err, ErrShortBuffer))
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader([]byte{1, 0})

	assert.Equal(t, uint32(0), r.U32())
	require.Error(t, r.Err())
	assert.True(t, errors.Is(r.Err(), ErrShortBuffer))
	assert.Equal(t, uint8(0), r.U8(), "reads after an error return zero")
}

func TestSubReader(t *testing.T) {
	w := NewWriter()
	w.U16(5)
	w.U32(6)
	w.U8(9)

	r := NewReader(w.Payload())
	sub := r.Sub(6)
	assert.Equal(t, uint16(5), sub.U16())
	assert.Equal(t, uint32(6), sub.U32())
	assert.Equal(t, uint8(9), r.U8())
}
