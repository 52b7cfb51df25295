package crl

import (
	"github.com/KilimcininKorOglu/crlkit/internal/ber"
)

// Entry extension identifiers.
const (
	oidCRLReason         = "2.5.29.21"
	oidCertificateIssuer = "2.5.29.29"
)

// parseEntry reads one revoked certificate or detects the end of the list.
//
//	SEQUENCE {
//	    userCertificate     CertificateSerialNumber,
//	    revocationDate      Time,
//	    crlEntryExtensions  Extensions OPTIONAL }
func (c *CRL) parseEntry() (StopReason, error) {
	// An item not taken before this step is gone.
	c.item = item{}

	if !c.st.haveSeqSeq {
		return StopEndItems, nil
	}

	ti := c.st.ti
	if c.st.seqSeqNdef {
		if ti.IsEndOfContents() {
			c.hash.feed(ti.Header)
			if err := c.takeTBS(uint64(ti.HeaderLen()), "revokedCertificates end"); err != nil {
				return StopRunning, err
			}
			c.st.haveSeqSeq = false
			next, err := c.readTL()
			if err != nil {
				return StopRunning, err
			}
			c.st.ti = next
			return StopEndItems, nil
		}
	} else if c.st.seqSeqLen == 0 {
		c.st.haveSeqSeq = false
		return StopEndItems, nil
	}

	if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "revoked certificate"); err != nil {
		return StopRunning, err
	}
	if ti.Indefinite {
		return StopRunning, c.errorf(ber.ErrUnsupportedEncoding, "revoked certificate: indefinite length")
	}
	c.hash.feed(ti.Header)
	if err := c.takeEntries(ti.TotalLen(), "revoked certificate"); err != nil {
		return StopRunning, err
	}
	remaining := ti.Length

	// userCertificate
	ti, err := c.readTL()
	if err != nil {
		return StopRunning, err
	}
	if err := c.expect(ti, ber.ClassUniversal, ber.TagInteger, false, "serial number"); err != nil {
		return StopRunning, err
	}
	if ti.Length == 0 {
		return StopRunning, c.errorf(ber.ErrTooShort, "serial number: empty")
	}
	if err := c.take(&remaining, false, ti.TotalLen(), "serial number"); err != nil {
		return StopRunning, err
	}
	serial, err := c.readValue(ti, "serial number")
	if err != nil {
		return StopRunning, err
	}
	c.hash.feed(ti.Header)
	c.hash.feed(serial)
	c.item = item{serial: serial}

	// revocationDate
	ti, err = c.readTL()
	if err != nil {
		return StopRunning, err
	}
	if !isTime(ti) {
		return StopRunning, c.errorf(ber.ErrInvalidObject, "revocationDate: not a time")
	}
	if err := c.take(&remaining, false, ti.TotalLen(), "revocationDate"); err != nil {
		return StopRunning, err
	}
	value, err := c.readValue(ti, "revocationDate")
	if err != nil {
		return StopRunning, err
	}
	c.hash.feed(ti.Header)
	c.hash.feed(value)
	if c.item.revocationDate, err = c.convertTime(ti, value, "revocationDate"); err != nil {
		return StopRunning, err
	}

	// crlEntryExtensions
	if remaining > 0 {
		ti, err = c.readTL()
		if err != nil {
			return StopRunning, err
		}
		if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "crlEntryExtensions"); err != nil {
			return StopRunning, err
		}
		if ti.Indefinite {
			return StopRunning, c.errorf(ber.ErrUnsupportedEncoding, "crlEntryExtensions: indefinite length")
		}
		c.hash.feed(ti.Header)
		if err := c.take(&remaining, false, ti.TotalLen(), "crlEntryExtensions"); err != nil {
			return StopRunning, err
		}
		if remaining != 0 {
			return StopRunning, c.errorf(ber.ErrBadEncoding, "revoked certificate: %d trailing octets", remaining)
		}

		err = c.readExtensions(ti.Length, "crlEntryExtension", c.storeEntryExtension)
		if err != nil {
			return StopRunning, err
		}
	}

	if c.st.ti, err = c.readTL(); err != nil {
		return StopRunning, err
	}
	return StopGotItem, nil
}

// readExtensions reads the Extension elements of an Extensions sequence with
// the given content length, hashing each and passing its DER image to store.
func (c *CRL) readExtensions(length uint64, what string, store func([]byte) error) error {
	for length > 0 {
		ti, err := c.readTL()
		if err != nil {
			return err
		}
		if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, what); err != nil {
			return err
		}
		if ti.Indefinite {
			return c.errorf(ber.ErrUnsupportedEncoding, "%s: indefinite length", what)
		}
		if err := c.take(&length, false, ti.TotalLen(), what); err != nil {
			return err
		}
		image, err := c.readImage(ti, what)
		if err != nil {
			return err
		}
		c.hash.feed(image)
		if err := store(image); err != nil {
			return err
		}
	}
	return nil
}

// storeEntryExtension interprets one crlEntryExtension. Only crlReason is
// used; certificateIssuer is accepted and ignored.
func (c *CRL) storeEntryExtension(image []byte) error {
	ext, err := parseExtension(image)
	if err != nil {
		return err
	}

	switch ext.OID {
	case oidCRLReason:
		dec := ber.NewBERDecoder(ext.Value)
		code, err := dec.ExpectEnumerated(1)
		if err != nil {
			return err
		}
		c.item.reason |= reasonFromCode(code[0])
	case oidCertificateIssuer:
		// Indirect CRLs are not supported; the entry keeps its serial.
	default:
		if ext.Critical {
			return c.errorf(ErrUnknownCriticalExtension, "crlEntryExtension %s", ext.OID)
		}
	}
	return nil
}
