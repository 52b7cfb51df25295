package crl

import (
	"github.com/KilimcininKorOglu/crlkit/internal/ber"
)

// Extension is one CRL extension. Value is the content of the extnValue
// OCTET STRING.
type Extension struct {
	OID      string
	Critical bool
	Value    []byte
}

// parseExtension decodes
//
//	Extension ::= SEQUENCE {
//	    extnID     OBJECT IDENTIFIER,
//	    critical   BOOLEAN DEFAULT FALSE,
//	    extnValue  OCTET STRING }
func parseExtension(image []byte) (Extension, error) {
	dec := ber.NewBERDecoder(image)

	ti, err := dec.ExpectSequence()
	if err != nil {
		return Extension{}, err
	}
	if ti.Indefinite {
		return Extension{}, ber.NewDecodeError(0, "extension: indefinite length", ber.ErrUnsupportedEncoding)
	}

	var ext Extension
	if ext.OID, err = dec.ExpectObjectIdentifier(); err != nil {
		return Extension{}, err
	}

	if next, err := dec.PeekTagLength(); err == nil && next.Is(ber.ClassUniversal, ber.TagBoolean, false) {
		if ext.Critical, err = dec.ReadBoolean(); err != nil {
			return Extension{}, err
		}
	}

	if ext.Value, err = dec.ExpectOctetString(); err != nil {
		return Extension{}, err
	}
	return ext, nil
}

// storeExtension appends a crlExtension in parse order.
func (c *CRL) storeExtension(image []byte) error {
	ext, err := parseExtension(image)
	if err != nil {
		return err
	}
	c.extensions = append(c.extensions, ext)
	return nil
}

// findUnique returns the only extension with the given OID.
func (c *CRL) findUnique(oid string) (Extension, error) {
	var found *Extension
	for i := range c.extensions {
		if c.extensions[i].OID != oid {
			continue
		}
		if found != nil {
			return Extension{}, ErrDuplicateValue
		}
		found = &c.extensions[i]
	}
	if found == nil {
		return Extension{}, ErrNoData
	}
	return *found, nil
}

// parseTrailer reads crlExtensions, closes TBSCertList and reads the
// signature.
func (c *CRL) parseTrailer() error {
	ti := c.st.ti

	if c.inTBS() && ti.Is(ber.ClassContextSpecific, 0, true) {
		if ti.Indefinite {
			return c.errorf(ber.ErrUnsupportedEncoding, "crlExtensions: indefinite length")
		}
		c.hash.feed(ti.Header)
		if err := c.takeTBS(ti.TotalLen(), "crlExtensions"); err != nil {
			return err
		}
		wrapped := ti.Length

		ti, err := c.readTL()
		if err != nil {
			return err
		}
		if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "crlExtensions"); err != nil {
			return err
		}
		if ti.Indefinite {
			return c.errorf(ber.ErrUnsupportedEncoding, "crlExtensions: indefinite length")
		}
		if ti.TotalLen() != wrapped {
			return c.errorf(ber.ErrBadEncoding, "crlExtensions: length mismatch")
		}
		c.hash.feed(ti.Header)

		if err := c.readExtensions(ti.Length, "crlExtension", c.storeExtension); err != nil {
			return err
		}

		if c.st.ti, err = c.readTL(); err != nil {
			return err
		}
	}

	ti = c.st.ti
	if c.st.tbsNdef {
		if !ti.IsEndOfContents() {
			return c.errorf(ber.ErrInvalidObject, "TBSCertList: missing end-of-contents")
		}
		c.hash.feed(ti.Header)
		c.st.tbsNdef = false
		next, err := c.readTL()
		if err != nil {
			return err
		}
		ti = next
	} else if c.st.tbsLen != 0 {
		return c.errorf(ber.ErrBadEncoding, "TBSCertList: %d unparsed octets", c.st.tbsLen)
	}

	c.hash.flush()
	return c.parseSignature(ti)
}

// parseSignature reads signatureAlgorithm and signatureValue. ti is the
// already read header of signatureAlgorithm.
func (c *CRL) parseSignature(ti ber.TagInfo) error {
	if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "signatureAlgorithm"); err != nil {
		return err
	}
	if ti.Indefinite {
		return c.errorf(ber.ErrUnsupportedEncoding, "signatureAlgorithm: indefinite length")
	}
	if err := c.takeOuter(ti.Length, "signatureAlgorithm"); err != nil {
		return err
	}
	algImage, err := c.readImage(ti, "signatureAlgorithm")
	if err != nil {
		return err
	}

	ti, err = c.readTL()
	if err != nil {
		return err
	}
	if err := c.expect(ti, ber.ClassUniversal, ber.TagBitString, false, "signatureValue"); err != nil {
		return err
	}
	if uint64(len(algImage))+ti.TotalLen() > c.maxField {
		return c.errorf(ber.ErrTooLarge, "signature: %d octets", uint64(len(algImage))+ti.TotalLen())
	}
	if err := c.takeOuter(ti.Length, "signatureValue"); err != nil {
		return err
	}
	bits, err := c.readValue(ti, "signatureValue")
	if err != nil {
		return err
	}
	if !c.st.outerNdef && c.r.Tell() != c.st.outerEnd {
		return c.errorf(ber.ErrBadEncoding, "CertificateList: %d trailing octets", c.st.outerEnd-c.r.Tell())
	}

	algo, err := parseAlgorithmIdentifier(algImage)
	if err != nil {
		return err
	}
	c.sigVal, err = newSignatureValue(algo, bits)
	return err
}
