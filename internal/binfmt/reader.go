package binfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrShortBuffer = errors.New("binfmt: unexpected end of data")
	ErrChecksum    = errors.New("binfmt: checksum mismatch")
	ErrMagic       = errors.New("binfmt: bad magic")
)

const (
	headerSize  = 6
	trailerSize = 8
)

// Reader reads fields written by Writer. The first short read sets a sticky
// error; every later read returns zero values, so callers check Err once.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Open verifies magic and checksum of a sealed blob and returns a reader
// over its payload plus the stored version.
func Open(data []byte, magic [4]byte) (*Reader, uint16, error) {
	if len(data) < headerSize+trailerSize {
		return nil, 0, ErrShortBuffer
	}
	body := data[:len(data)-trailerSize]
	want := binary.LittleEndian.Uint64(data[len(data)-trailerSize:])
	if xxhash.Sum64(body) != want {
		return nil, 0, ErrChecksum
	}
	if [4]byte(body[:4]) != magic {
		return nil, 0, fmt.Errorf("%w: %q", ErrMagic, body[:4])
	}
	version := binary.LittleEndian.Uint16(body[4:6])
	return NewReader(body[headerSize:]), version, nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, r.off, len(r.data)-r.off)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) I64() int64 { return int64(r.U64()) }

func (r *Reader) F32() float32 { return math.Float32frombits(r.U32()) }

func (r *Reader) F64() float64 { return math.Float64frombits(r.U64()) }

func (r *Reader) Bool() bool { return r.U8() != 0 }

func (r *Reader) Text() string {
	n := r.U32()
	return string(r.take(int(n)))
}

// Bytes reads a length-prefixed byte slice. The result aliases the input.
func (r *Reader) Bytes() []byte {
	n := r.U32()
	return r.take(int(n))
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Sub returns a reader over the next n bytes and advances past them.
func (r *Reader) Sub(n int) *Reader {
	return NewReader(r.take(n))
}

func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

func (r *Reader) Err() error {
	return r.err
}

// Rest returns every unread byte and advances to the end.
func (r *Reader) Rest() []byte {
	return r.take(r.Remaining())
}
