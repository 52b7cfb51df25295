package crl

import (
	"errors"
	"math"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
	"github.com/KilimcininKorOglu/crlkit/internal/isotime"
)

// minContainerLen is the smallest plausible definite length of the
// CertificateList and TBSCertList sequences.
const minContainerLen = 10

// parseHeader reads everything up to and including nextUpdate and locates
// the revokedCertificates list.
//
//	CertificateList ::= SEQUENCE {
//	    tbsCertList          TBSCertList,
//	    signatureAlgorithm   AlgorithmIdentifier,
//	    signatureValue       BIT STRING }
//
//	TBSCertList ::= SEQUENCE {
//	    version              Version OPTIONAL,
//	    signature            AlgorithmIdentifier,
//	    issuer               Name,
//	    thisUpdate           Time,
//	    nextUpdate           Time OPTIONAL,
//	    revokedCertificates  SEQUENCE OF SEQUENCE {...} OPTIONAL,
//	    crlExtensions        [0] EXPLICIT Extensions OPTIONAL }
func (c *CRL) parseHeader() error {
	// CertificateList; not part of the signed data
	ti, err := c.readTL()
	if err != nil {
		return err
	}
	if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "CertificateList"); err != nil {
		return err
	}
	c.st.outerNdef = ti.Indefinite
	if !ti.Indefinite {
		if ti.Length < minContainerLen {
			return c.errorf(ber.ErrTooShort, "CertificateList: %d octets", ti.Length)
		}
		if ti.Length > uint64(math.MaxInt64-c.r.Tell()) {
			return c.errorf(ber.ErrTooLarge, "CertificateList: %d octets", ti.Length)
		}
		c.st.outerEnd = c.r.Tell() + int64(ti.Length)
	}

	// TBSCertList
	ti, err = c.readTL()
	if err != nil {
		return err
	}
	if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "TBSCertList"); err != nil {
		return err
	}
	c.hash.feed(ti.Header)
	if !ti.Indefinite {
		if err := c.takeOuter(ti.Length, "TBSCertList"); err != nil {
			return err
		}
	}
	c.st.tbsLen, c.st.tbsNdef = ti.Length, ti.Indefinite
	if !c.st.tbsNdef && c.st.tbsLen < minContainerLen {
		return c.errorf(ber.ErrTooShort, "TBSCertList: %d octets", c.st.tbsLen)
	}

	ti, err = c.readTL()
	if err != nil {
		return err
	}

	// version, absent for v1
	c.version = 1
	if ti.Class == ber.ClassUniversal && ti.Tag == ber.TagInteger {
		if ti.Constructed || ti.Length == 0 {
			return c.errorf(ber.ErrInvalidObject, "version: bad encoding")
		}
		if ti.Length != 1 {
			return c.errorf(ErrUnsupportedCRLVersion, "version: %d octets", ti.Length)
		}
		c.hash.feed(ti.Header)
		if err := c.takeTBS(ti.TotalLen(), "version"); err != nil {
			return err
		}
		value, err := c.r.ReadFull(1)
		if err != nil {
			return err
		}
		if value[0] != 0 && value[0] != 1 {
			return c.errorf(ErrUnsupportedCRLVersion, "version: %d", value[0])
		}
		c.hash.feed(value)
		c.version = int(value[0]) + 1

		ti, err = c.readTL()
		if err != nil {
			return err
		}
	}

	// signature
	if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "signature"); err != nil {
		return err
	}
	image, err := c.readImage(ti, "signature")
	if err != nil {
		return err
	}
	c.hash.feed(image)
	if err := c.takeTBS(ti.TotalLen(), "signature"); err != nil {
		return err
	}
	if c.algo, err = parseAlgorithmIdentifier(image); err != nil {
		return err
	}

	// issuer
	ti, err = c.readTL()
	if err != nil {
		return err
	}
	if err := c.expect(ti, ber.ClassUniversal, ber.TagSequence, true, "issuer"); err != nil {
		return err
	}
	if image, err = c.readImage(ti, "issuer"); err != nil {
		return err
	}
	c.hash.feed(image)
	if err := c.takeTBS(ti.TotalLen(), "issuer"); err != nil {
		return err
	}
	if c.issuer, err = parseName(image); err != nil {
		return err
	}

	// thisUpdate
	ti, err = c.readTL()
	if err != nil {
		return err
	}
	if !isTime(ti) {
		return c.errorf(ber.ErrInvalidObject, "thisUpdate: not a time")
	}
	if c.thisUpdate, err = c.readTime(ti, "thisUpdate"); err != nil {
		return err
	}

	// nextUpdate, or whatever follows. Something always follows: at the
	// latest the outer signatureAlgorithm.
	ti, err = c.readTL()
	if err != nil {
		return err
	}
	if c.inTBS() && isTime(ti) {
		if c.nextUpdate, err = c.readTime(ti, "nextUpdate"); err != nil {
			return err
		}
		if ti, err = c.readTL(); err != nil {
			return err
		}
	}

	// revokedCertificates
	if c.inTBS() && ti.Is(ber.ClassUniversal, ber.TagSequence, true) {
		c.st.haveSeqSeq = true
		c.st.seqSeqLen, c.st.seqSeqNdef = ti.Length, ti.Indefinite
		c.hash.feed(ti.Header)
		if err := c.takeTBS(uint64(ti.HeaderLen()), "revokedCertificates header"); err != nil {
			return err
		}
		if !ti.Indefinite {
			if err := c.takeTBS(ti.Length, "revokedCertificates"); err != nil {
				return err
			}
		}
		if ti, err = c.readTL(); err != nil {
			return err
		}
	}

	c.st.ti = ti
	c.headerDone = true
	return nil
}

// inTBS reports whether unread octets of TBSCertList remain.
func (c *CRL) inTBS() bool {
	return c.st.tbsNdef || c.st.tbsLen > 0
}

func isTime(ti ber.TagInfo) bool {
	return ti.Class == ber.ClassUniversal && !ti.Constructed &&
		(ti.Tag == ber.TagUTCTime || ti.Tag == ber.TagGeneralizedTime)
}

// readTime reads, hashes and converts a Time inside TBSCertList.
func (c *CRL) readTime(ti ber.TagInfo, what string) (isotime.Time, error) {
	value, err := c.readValue(ti, what)
	if err != nil {
		return "", err
	}
	c.hash.feed(ti.Header)
	c.hash.feed(value)
	if err := c.takeTBS(ti.TotalLen(), what); err != nil {
		return "", err
	}
	return c.convertTime(ti, value, what)
}

func (c *CRL) convertTime(ti ber.TagInfo, value []byte, what string) (isotime.Time, error) {
	var t isotime.Time
	var err error
	if ti.Tag == ber.TagUTCTime {
		t, err = isotime.FromUTCTime(value)
	} else {
		t, err = isotime.FromGeneralizedTime(value)
	}
	if errors.Is(err, isotime.ErrInvalid) {
		return "", c.errorf(ber.ErrMalformed, "%s: invalid time %q", what, value)
	}
	return t, err
}
