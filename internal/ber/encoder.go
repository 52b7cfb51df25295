package ber

import (
	"errors"
)

// Errors returned by the encoder
var (
	ErrInvalidTagClass  = errors.New("ber: invalid tag class")
	ErrInvalidTagNumber = errors.New("ber: invalid tag number")
	ErrNegativeLength   = errors.New("ber: negative length not allowed")
)

// BEREncoder writes DER headers and raw content into a growing buffer.
type BEREncoder struct {
	buf []byte
}

// NewBEREncoder creates a new encoder with an optional initial capacity.
func NewBEREncoder(capacity int) *BEREncoder {
	if capacity <= 0 {
		capacity = 64
	}
	return &BEREncoder{
		buf: make([]byte, 0, capacity),
	}
}

// Bytes returns the encoded bytes.
func (e *BEREncoder) Bytes() []byte {
	return e.buf
}

// Len returns the current length of encoded data.
func (e *BEREncoder) Len() int {
	return len(e.buf)
}

// WriteTag writes a single identifier octet. Only tag numbers 0-30 are
// supported.
func (e *BEREncoder) WriteTag(class int, constructed bool, number int) error {
	// Validate class
	if class != ClassUniversal && class != ClassApplication &&
		class != ClassContextSpecific && class != ClassPrivate {
		return ErrInvalidTagClass
	}

	if number < 0 || number >= highTagNumber {
		return ErrInvalidTagNumber
	}

	tag := byte(class) | byte(number)
	if constructed {
		tag |= TypeConstructed
	}
	e.buf = append(e.buf, tag)
	return nil
}

// WriteLength writes a definite length in the shortest form.
func (e *BEREncoder) WriteLength(length int) error {
	if length < 0 {
		return ErrNegativeLength
	}

	// Short form: length fits in 7 bits (0-127)
	if length <= MaxShortFormLength {
		e.buf = append(e.buf, byte(length))
		return nil
	}

	numBytes := lengthOctets(length)

	// Write first byte: 0x80 | number of length bytes
	e.buf = append(e.buf, byte(LengthLongFormBit|numBytes))

	// Write length bytes in big-endian order
	for i := numBytes - 1; i >= 0; i-- {
		e.buf = append(e.buf, byte(length>>(i*8)))
	}

	return nil
}

// WriteHeader writes identifier and length octets.
func (e *BEREncoder) WriteHeader(class int, constructed bool, number, length int) error {
	if err := e.WriteTag(class, constructed, number); err != nil {
		return err
	}
	return e.WriteLength(length)
}

// WriteRaw writes raw bytes directly to the buffer.
func (e *BEREncoder) WriteRaw(data []byte) {
	e.buf = append(e.buf, data...)
}

// HeaderLen returns the size of a header with a single identifier octet
// and the given definite length.
func HeaderLen(length int) int {
	if length <= MaxShortFormLength {
		return 2
	}
	return 2 + lengthOctets(length)
}

func lengthOctets(length int) int {
	n := 0
	for length > 0 {
		n++
		length >>= 8
	}
	return n
}

// EncodeInteger encodes an int64 as a minimal two's complement byte slice.
func EncodeInteger(v int64) []byte {
	// Special case for zero
	if v == 0 {
		return []byte{0x00}
	}

	var bytes []byte
	uv := uint64(v)

	if v < 0 {
		for i := 7; i >= 0; i-- {
			b := byte(uv >> (i * 8))
			if len(bytes) > 0 || b != 0xFF || (i > 0 && (uv>>((i-1)*8))&0x80 == 0) {
				bytes = append(bytes, b)
			}
		}
		if len(bytes) == 0 {
			bytes = []byte{0xFF}
		}
		// Ensure sign bit is set (for negative numbers)
		if bytes[0]&0x80 == 0 {
			bytes = append([]byte{0xFF}, bytes...)
		}
	} else {
		// Positive number: find first non-zero byte
		for i := 7; i >= 0; i-- {
			b := byte(uv >> (i * 8))
			if len(bytes) > 0 || b != 0 {
				bytes = append(bytes, b)
			}
		}
		// If high bit is set, prepend 0x00
		if len(bytes) > 0 && bytes[0]&0x80 != 0 {
			bytes = append([]byte{0x00}, bytes...)
		}
	}

	return bytes
}
