package ber

import (
	"errors"
	"io"
)

// TagInfo describes one decoded BER header. The raw header octets are kept
// so that callers can feed them to a digest verbatim.
type TagInfo struct {
	Class       int
	Tag         uint32
	Constructed bool
	Length      uint64
	Indefinite  bool
	Header      []byte
}

// HeaderLen returns the number of octets the header occupied.
func (ti TagInfo) HeaderLen() int {
	return len(ti.Header)
}

// TotalLen returns header plus content length. It is meaningless for
// indefinite lengths.
func (ti TagInfo) TotalLen() uint64 {
	return uint64(len(ti.Header)) + ti.Length
}

// Is reports whether the header carries the given identifier octet fields.
func (ti TagInfo) Is(class int, tag uint32, constructed bool) bool {
	return ti.Class == class && ti.Tag == tag && ti.Constructed == constructed
}

// IsEndOfContents reports whether the header is the two-octet marker that
// closes an indefinite-length encoding.
func (ti TagInfo) IsEndOfContents() bool {
	return ti.Class == ClassUniversal && ti.Tag == TagEndOfContents && !ti.Constructed
}

type offsetter interface {
	Tell() int64
}

// ReadTagLength reads one header from r. A clean end of input before the
// first octet returns io.EOF; an end of input inside the header returns
// ErrTruncated.
func ReadTagLength(r io.ByteReader) (TagInfo, error) {
	offset := 0
	if o, ok := r.(offsetter); ok {
		offset = int(o.Tell())
	}

	first, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return TagInfo{}, io.EOF
		}
		return TagInfo{}, NewDecodeError(offset, "cannot read tag", err)
	}

	return decodeHeader(first, func() (byte, error) {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return 0, ErrTruncated
		}
		return b, err
	}, offset)
}

// ParseTagLength decodes one header from the start of buf.
func ParseTagLength(buf []byte) (TagInfo, error) {
	return parseHeaderAt(buf, 0)
}

func parseHeaderAt(buf []byte, offset int) (TagInfo, error) {
	if offset >= len(buf) {
		return TagInfo{}, NewDecodeError(offset, "cannot read tag", ErrTruncated)
	}
	pos := offset + 1
	return decodeHeader(buf[offset], func() (byte, error) {
		if pos >= len(buf) {
			return 0, ErrTruncated
		}
		b := buf[pos]
		pos++
		return b, nil
	}, offset)
}

// decodeHeader decodes the identifier and length octets. first is the
// identifier octet; next yields the following octets.
func decodeHeader(first byte, next func() (byte, error), offset int) (TagInfo, error) {
	ti := TagInfo{Header: make([]byte, 1, 4)}
	ti.Header[0] = first

	// Extract class (bits 7-8), constructed flag (bit 6) and tag number (bits 1-5)
	ti.Class = int(first & 0xC0)
	ti.Constructed = first&TypeConstructed != 0
	number := first & 0x1F
	if number == highTagNumber {
		return ti, NewDecodeError(offset, "high tag number form not supported", ErrMalformed)
	}
	ti.Tag = uint32(number)

	c, err := next()
	if err != nil {
		return ti, NewDecodeError(offset+len(ti.Header), "cannot read length", err)
	}
	ti.Header = append(ti.Header, c)

	switch {
	case c&LengthLongFormBit == 0:
		// Short form: bits 1-7 contain the length
		ti.Length = uint64(c)
	case c == LengthLongFormBit:
		if !ti.Constructed {
			return ti, NewDecodeError(offset, "indefinite length on primitive encoding", ErrMalformed)
		}
		ti.Indefinite = true
	case c == 0xFF:
		return ti, NewDecodeError(offset, "reserved length octet 0xff", ErrMalformed)
	default:
		// Long form: bits 1-7 contain the number of subsequent length bytes
		numBytes := int(c & 0x7F)
		if numBytes > MaxLengthOctets {
			return ti, NewDecodeError(offset, "too many length octets", ErrMalformed)
		}
		var length uint64
		for i := 0; i < numBytes; i++ {
			c, err = next()
			if err != nil {
				return ti, NewDecodeError(offset+len(ti.Header), "truncated length encoding", err)
			}
			ti.Header = append(ti.Header, c)
			length = (length << 8) | uint64(c)
		}
		ti.Length = length
	}

	// End-of-contents never carries a value, whatever the length octet says.
	if ti.Class == ClassUniversal && ti.Tag == TagEndOfContents {
		ti.Length = 0
	}

	return ti, nil
}
