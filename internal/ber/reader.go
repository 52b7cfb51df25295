package ber

import (
	"bufio"
	"errors"
	"io"
	"math"
)

// readChunk bounds each allocation of ReadFull, so a length taken from the
// input is not trusted before the octets have arrived.
const readChunk = 32 << 10

// Reader is a forward-only byte stream that knows how many octets have been
// consumed. It is the source for the streaming CRL parser.
type Reader struct {
	r   *bufio.Reader
	off int64
}

// NewReader wraps r. Passing a *Reader returns it unchanged.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*Reader); ok {
		return br
	}
	return &Reader{r: bufio.NewReader(r)}
}

// Tell returns the number of octets consumed so far.
func (r *Reader) Tell() int64 {
	return r.off
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err == nil {
		r.off++
	}
	return b, err
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.off += int64(n)
	return n, err
}

// ReadTagLength reads the next header from the stream.
func (r *Reader) ReadTagLength() (TagInfo, error) {
	return ReadTagLength(r)
}

// ReadFull reads exactly n octets.
func (r *Reader) ReadFull(n uint64) ([]byte, error) {
	start := r.off
	if n > math.MaxInt32 {
		return nil, NewDecodeError(int(start), "value too large", ErrTooLarge)
	}

	buf := make([]byte, 0, min(n, readChunk))
	for uint64(len(buf)) < n {
		off := len(buf)
		buf = append(buf, make([]byte, min(n-uint64(off), readChunk))...)
		if _, err := io.ReadFull(r, buf[off:]); err != nil {
			return nil, NewDecodeError(int(start), "cannot read value", streamErr(err))
		}
	}
	return buf, nil
}

// Skip discards exactly n octets.
func (r *Reader) Skip(n uint64) error {
	start := r.off
	if n > math.MaxInt64 {
		return NewDecodeError(int(start), "value too large", ErrTooLarge)
	}
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return NewDecodeError(int(start), "cannot skip value", streamErr(err))
	}
	return nil
}

func streamErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

// ReadOrSkip reads one complete TLV. When keep is set the value is returned,
// otherwise it is discarded without being buffered. A non-zero limit caps the
// size of a kept value. Indefinite lengths cannot be handled here.
func ReadOrSkip(r *Reader, keep bool, limit uint64) (TagInfo, []byte, error) {
	start := r.Tell()
	ti, err := r.ReadTagLength()
	if err != nil {
		return ti, nil, err
	}
	if ti.Indefinite {
		return ti, nil, NewDecodeError(int(start), "indefinite length", ErrUnsupportedEncoding)
	}

	if !keep {
		return ti, nil, r.Skip(ti.Length)
	}
	if limit > 0 && ti.Length > limit {
		return ti, nil, NewDecodeError(int(start), "value exceeds size limit", ErrTooLarge)
	}
	value, err := r.ReadFull(ti.Length)
	if err != nil {
		return ti, nil, err
	}
	return ti, value, nil
}
