package ber

import (
	"github.com/KilimcininKorOglu/crlkit/internal/oid"
)

// BERDecoder decodes ASN.1 values from an in-memory buffer. It is used for
// fields that were first read completely from a stream, such as extensions.
type BERDecoder struct {
	data   []byte
	offset int
}

// NewBERDecoder creates a new BER decoder for the given data.
func NewBERDecoder(data []byte) *BERDecoder {
	return &BERDecoder{
		data:   data,
		offset: 0,
	}
}

// Offset returns the current read position in the data.
func (d *BERDecoder) Offset() int {
	return d.offset
}

// Remaining returns the number of bytes remaining to be read.
func (d *BERDecoder) Remaining() int {
	return len(d.data) - d.offset
}

// ReadTagLength reads a header from the current position.
func (d *BERDecoder) ReadTagLength() (TagInfo, error) {
	ti, err := parseHeaderAt(d.data, d.offset)
	if err != nil {
		return ti, err
	}
	d.offset += ti.HeaderLen()
	return ti, nil
}

// PeekTagLength reads a header without advancing the offset.
func (d *BERDecoder) PeekTagLength() (TagInfo, error) {
	return parseHeaderAt(d.data, d.offset)
}

// expect reads a header and checks class, tag and constructed flag. For
// definite lengths the content must fit into the remaining data.
func (d *BERDecoder) expect(class int, number uint32, constructed bool) (TagInfo, error) {
	startOffset := d.offset

	ti, err := d.ReadTagLength()
	if err != nil {
		return ti, err
	}

	if !ti.Is(class, number, constructed) {
		d.offset = startOffset
		return ti, &TagMismatchError{
			Offset:            startOffset,
			ExpectedClass:     class,
			ExpectedNumber:    int(number),
			ActualClass:       ti.Class,
			ActualNumber:      int(ti.Tag),
			ActualConstructed: ti.Constructed,
		}
	}

	if !ti.Indefinite && ti.Length > uint64(d.Remaining()) {
		return ti, NewDecodeError(startOffset, "length exceeds enclosing data", ErrBadEncoding)
	}

	return ti, nil
}

// contents copies the next n octets.
func (d *BERDecoder) contents(n uint64) []byte {
	value := make([]byte, n)
	copy(value, d.data[d.offset:d.offset+int(n)])
	d.offset += int(n)
	return value
}

// ExpectSequence reads and validates a SEQUENCE header. The caller reads the
// content afterwards.
func (d *BERDecoder) ExpectSequence() (TagInfo, error) {
	return d.expect(ClassUniversal, TagSequence, true)
}

// ExpectContextTag reads a context-specific header with the given number.
func (d *BERDecoder) ExpectContextTag(number int, constructed bool) (TagInfo, error) {
	return d.expect(ClassContextSpecific, uint32(number), constructed)
}

// ExpectInteger reads an INTEGER and returns its two's complement octets.
func (d *BERDecoder) ExpectInteger() ([]byte, error) {
	startOffset := d.offset

	ti, err := d.expect(ClassUniversal, TagInteger, false)
	if err != nil {
		return nil, err
	}

	// Integer must have at least 1 byte
	if ti.Length == 0 {
		return nil, NewDecodeError(startOffset, "integer must have at least 1 byte", ErrTooShort)
	}

	return d.contents(ti.Length), nil
}

// ExpectOctetString reads a primitive, non-empty OCTET STRING.
func (d *BERDecoder) ExpectOctetString() ([]byte, error) {
	startOffset := d.offset

	ti, err := d.expect(ClassUniversal, TagOctetString, false)
	if err != nil {
		return nil, err
	}

	if ti.Length == 0 {
		return nil, NewDecodeError(startOffset, "octet string must have at least 1 byte", ErrTooShort)
	}

	return d.contents(ti.Length), nil
}

// ExpectEnumerated reads an ENUMERATED value. A non-zero maxLen caps the
// number of content octets.
func (d *BERDecoder) ExpectEnumerated(maxLen int) ([]byte, error) {
	startOffset := d.offset

	ti, err := d.expect(ClassUniversal, TagEnumerated, false)
	if err != nil {
		return nil, err
	}

	if ti.Length == 0 {
		return nil, NewDecodeError(startOffset, "enumerated must have at least 1 byte", ErrTooShort)
	}
	if maxLen > 0 && ti.Length > uint64(maxLen) {
		return nil, NewDecodeError(startOffset, "enumerated too long", ErrTooLarge)
	}

	return d.contents(ti.Length), nil
}

// ExpectObjectIdentifier reads an OBJECT IDENTIFIER in dotted notation.
func (d *BERDecoder) ExpectObjectIdentifier() (string, error) {
	startOffset := d.offset

	ti, err := d.expect(ClassUniversal, TagOID, false)
	if err != nil {
		return "", err
	}

	if ti.Length == 0 {
		return "", NewDecodeError(startOffset, "object identifier must have at least 1 byte", ErrTooShort)
	}

	s, err := oid.String(d.contents(ti.Length))
	if err != nil {
		return "", NewDecodeError(startOffset, "invalid object identifier", ErrInvalidObject)
	}
	return s, nil
}

// ReadBoolean reads a BOOLEAN value.
func (d *BERDecoder) ReadBoolean() (bool, error) {
	startOffset := d.offset

	ti, err := d.expect(ClassUniversal, TagBoolean, false)
	if err != nil {
		return false, err
	}

	// Boolean must have length 1
	if ti.Length != 1 {
		return false, NewDecodeError(startOffset, "boolean must have length 1", ErrBadEncoding)
	}

	value := d.data[d.offset]
	d.offset++

	// Per X.690, FALSE is 0x00, TRUE is any non-zero value
	return value != 0x00, nil
}

// ReadContents returns a copy of the content of a header already read with
// ReadTagLength.
func (d *BERDecoder) ReadContents(ti TagInfo) ([]byte, error) {
	if ti.Indefinite {
		return nil, NewDecodeError(d.offset, "indefinite length", ErrNotDER)
	}
	if ti.Length > uint64(d.Remaining()) {
		return nil, NewDecodeError(d.offset, "truncated value", ErrBadEncoding)
	}
	return d.contents(ti.Length), nil
}

// Skip skips the current TLV (Tag-Length-Value) element.
func (d *BERDecoder) Skip() error {
	startOffset := d.offset

	ti, err := d.ReadTagLength()
	if err != nil {
		return err
	}
	if ti.Indefinite {
		return NewDecodeError(startOffset, "cannot skip indefinite length", ErrUnsupportedEncoding)
	}

	// Check if we have enough data
	if ti.Length > uint64(d.Remaining()) {
		return NewDecodeError(startOffset, "truncated value", ErrBadEncoding)
	}

	d.offset += int(ti.Length)
	return nil
}
