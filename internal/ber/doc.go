// Package ber implements ASN.1 BER (Basic Encoding Rules) decoding and DER
// header encoding as specified in ITU-T X.690.
//
// The package serves two kinds of callers. Streaming parsers read one header
// at a time from a Reader and decide themselves whether to buffer or skip
// the value. Buffer parsers use BERDecoder on a value that was already read
// completely.
//
// # Headers
//
// Every header is returned as a TagInfo which keeps the raw identifier and
// length octets:
//
//	r := ber.NewReader(f)
//	ti, err := r.ReadTagLength()
//	if err != nil {
//	    // handle error
//	}
//	digest.Write(ti.Header)
//
// Only the low tag number form (0-30) is accepted. Lengths may use the short
// form, the long form with up to eight octets, or the indefinite form for
// constructed encodings.
//
// # Typed values
//
// BERDecoder provides Expect* methods that check class, tag and constructed
// flag before returning content:
//
//	dec := ber.NewBERDecoder(ext)
//	if _, err := dec.ExpectSequence(); err != nil {
//	    // handle error
//	}
//	id, err := dec.ExpectObjectIdentifier()
//
// # Errors
//
// All failures wrap one of the sentinel errors (ErrTruncated, ErrMalformed,
// ErrBadEncoding, ErrInvalidObject, ErrTooShort, ErrTooLarge,
// ErrUnsupportedEncoding, ErrNotDER) and can be tested with errors.Is.
// DecodeError adds the offset of the failing header.
//
// # Encoding
//
// BEREncoder writes DER headers and raw content. It is the output stage of
// the der package.
//
// # References
//
//   - ITU-T X.690: ASN.1 encoding rules
//   - RFC 5280: Internet X.509 Public Key Infrastructure Certificate and CRL Profile
package ber
