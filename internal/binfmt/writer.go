package binfmt

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Writer builds a binary blob. All multi-byte writes are little-endian.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) U16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) U64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) I64(v int64) {
	w.U64(uint64(v))
}

func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

func (w *Writer) F64(v float64) {
	w.U64(math.Float64bits(v))
}

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

// Text writes a u32 length followed by the raw UTF-8 bytes.
func (w *Writer) Text(s string) {
	w.U32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Bytes writes a u32 length followed by b.
func (w *Writer) Bytes(b []byte) {
	w.U32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// Raw appends b without a length prefix.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Reserve32 writes a placeholder u32 and returns its offset for Patch32.
func (w *Writer) Reserve32() int {
	off := len(w.buf)
	w.U32(0)
	return off
}

// Patch32 overwrites the u32 at off.
func (w *Writer) Patch32(off int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[off:], v)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Payload returns the bytes written so far without a trailer.
func (w *Writer) Payload() []byte {
	return w.buf
}

// Seal returns magic | version | payload | xxhash64(everything before it).
func (w *Writer) Seal(magic [4]byte, version uint16) []byte {
	out := make([]byte, 0, len(w.buf)+headerSize+trailerSize)
	out = append(out, magic[:]...)
	out = binary.LittleEndian.AppendUint16(out, version)
	out = append(out, w.buf...)
	return binary.LittleEndian.AppendUint64(out, xxhash.Sum64(out))
}
