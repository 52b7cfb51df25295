package crl

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
	"github.com/KilimcininKorOglu/crlkit/internal/isotime"
	"github.com/KilimcininKorOglu/crlkit/internal/sexp"
)

// CRL extension identifiers.
const (
	oidCRLNumber      = "2.5.29.20"
	oidAuthorityKeyID = "2.5.29.35"
)

// Item is one revoked certificate.
type Item struct {
	Serial         []byte
	RevocationDate isotime.Time
	Reason         Reason
}

// SerialSExp returns the serial number as a canonical S-expression.
func (it Item) SerialSExp() []byte {
	return sexp.Number(it.Serial)
}

// Version returns the CRL version, 1 or 2.
func (c *CRL) Version() (int, error) {
	if !c.headerDone {
		return 0, ErrNoData
	}
	return c.version, nil
}

// DigestAlgorithm returns the signature algorithm named inside TBSCertList.
func (c *CRL) DigestAlgorithm() (Algorithm, error) {
	if !c.headerDone {
		return Algorithm{}, ErrNoData
	}
	return c.algo, nil
}

// Issuer returns the issuer name.
func (c *CRL) Issuer() (Name, error) {
	if !c.headerDone {
		return Name{}, ErrNoData
	}
	return c.issuer, nil
}

// UpdateTimes returns thisUpdate and nextUpdate. nextUpdate is empty when
// the CRL does not carry one.
func (c *CRL) UpdateTimes() (thisUpdate, nextUpdate isotime.Time, err error) {
	if !c.thisUpdate.IsSet() {
		return "", "", ErrNoData
	}
	return c.thisUpdate, c.nextUpdate, nil
}

// Item returns the revoked certificate of the last StopGotItem. The serial
// is handed over to the caller, so a second call returns ErrNoData.
func (c *CRL) Item() (Item, error) {
	if c.item.serial == nil {
		return Item{}, ErrNoData
	}
	it := Item{
		Serial:         c.item.serial,
		RevocationDate: c.item.revocationDate,
		Reason:         c.item.reason,
	}
	c.item.serial = nil
	return it, nil
}

// Extension returns the crlExtension at idx in parse order.
func (c *CRL) Extension(idx int) (Extension, error) {
	if idx < 0 {
		return Extension{}, fmt.Errorf("%w: index %d", ber.ErrInvalidValue, idx)
	}
	if idx >= len(c.extensions) {
		return Extension{}, ErrEndOfList
	}
	return c.extensions[idx], nil
}

// Extensions returns all crlExtensions in parse order.
func (c *CRL) Extensions() []Extension {
	out := make([]Extension, len(c.extensions))
	copy(out, c.extensions)
	return out
}

// CRLNumber returns the content octets of the cRLNumber INTEGER.
func (c *CRL) CRLNumber() ([]byte, error) {
	ext, err := c.findUnique(oidCRLNumber)
	if err != nil {
		return nil, err
	}
	return ber.NewBERDecoder(ext.Value).ExpectInteger()
}

// SignatureValue returns the signature once StopReady was reached. It is
// handed over to the caller, so a second call returns ErrNoData.
func (c *CRL) SignatureValue() (*SignatureValue, error) {
	if c.sigVal == nil {
		return nil, ErrNoData
	}
	sv := c.sigVal
	c.sigVal = nil
	return sv, nil
}

// GeneralName is one element of GeneralNames. Tag is the context tag
// number of the CHOICE alternative.
type GeneralName struct {
	Tag   int
	Value []byte
}

// String renders the common alternatives readably.
func (g GeneralName) String() string {
	switch g.Tag {
	case 1:
		return "<" + string(g.Value) + ">"
	case 2, 6:
		return string(g.Value)
	case 4:
		if name, err := parseName(g.Value); err == nil {
			return name.DN
		}
	}
	return fmt.Sprintf("[%d]%x", g.Tag, g.Value)
}

// AuthorityKeyID is the decoded authorityKeyIdentifier extension.
type AuthorityKeyID struct {
	KeyID  []byte
	Issuer []GeneralName
	Serial []byte
}

// SerialSExp returns the authorityCertSerialNumber as a canonical
// S-expression, or nil when it is absent.
func (a *AuthorityKeyID) SerialSExp() []byte {
	if a.Serial == nil {
		return nil
	}
	return sexp.Number(a.Serial)
}

// AuthorityKeyID decodes
//
//	AuthorityKeyIdentifier ::= SEQUENCE {
//	    keyIdentifier              [0] KeyIdentifier OPTIONAL,
//	    authorityCertIssuer        [1] GeneralNames OPTIONAL,
//	    authorityCertSerialNumber  [2] CertificateSerialNumber OPTIONAL }
//
// authorityCertIssuer and authorityCertSerialNumber must appear together.
func (c *CRL) AuthorityKeyID() (*AuthorityKeyID, error) {
	ext, err := c.findUnique(oidAuthorityKeyID)
	if err != nil {
		return nil, err
	}

	dec := ber.NewBERDecoder(ext.Value)
	ti, err := dec.ExpectSequence()
	if err != nil {
		return nil, err
	}
	if ti.Indefinite {
		return nil, ber.NewDecodeError(0, "authorityKeyIdentifier: indefinite length", ber.ErrNotDER)
	}
	if ti.Length != uint64(dec.Remaining()) {
		return nil, ber.NewDecodeError(0, "authorityKeyIdentifier: length mismatch", ber.ErrBadEncoding)
	}

	aki := &AuthorityKeyID{}
	for number := 0; number <= 2 && dec.Remaining() > 0; number++ {
		next, err := dec.PeekTagLength()
		if err != nil {
			return nil, err
		}
		if next.Class != ber.ClassContextSpecific || next.Tag != uint32(number) {
			continue
		}

		// Only authorityCertIssuer is constructed.
		ti, err := dec.ExpectContextTag(number, number == 1)
		if err != nil {
			return nil, err
		}
		value, err := dec.ReadContents(ti)
		if err != nil {
			return nil, err
		}
		switch number {
		case 0:
			aki.KeyID = value
		case 1:
			if aki.Issuer, err = parseGeneralNames(value); err != nil {
				return nil, err
			}
		case 2:
			if len(value) == 0 {
				return nil, ber.NewDecodeError(dec.Offset(), "authorityCertSerialNumber: empty", ber.ErrTooShort)
			}
			aki.Serial = value
		}
	}

	if dec.Remaining() > 0 {
		return nil, ber.NewDecodeError(dec.Offset(), "authorityKeyIdentifier: unexpected element", ber.ErrInvalidObject)
	}
	if (aki.Issuer == nil) != (aki.Serial == nil) {
		return nil, ber.NewDecodeError(0, "authorityKeyIdentifier: issuer and serial must appear together", ber.ErrInvalidObject)
	}
	if aki.KeyID == nil && aki.Issuer == nil {
		return nil, ErrNoData
	}
	return aki, nil
}

func parseGeneralNames(content []byte) ([]GeneralName, error) {
	input := cryptobyte.String(content)
	names := []GeneralName{}
	for !input.Empty() {
		var value cryptobyte.String
		var tag asn1.Tag
		if !input.ReadAnyASN1(&value, &tag) {
			return nil, ber.NewDecodeError(len(content)-len(input), "GeneralNames: bad element", ber.ErrInvalidObject)
		}
		if tag&0xc0 != 0x80 {
			return nil, ber.NewDecodeError(len(content)-len(input), "GeneralNames: not context-specific", ber.ErrInvalidObject)
		}
		names = append(names, GeneralName{Tag: int(tag & 0x1f), Value: []byte(value)})
	}
	if len(names) == 0 {
		return nil, ber.NewDecodeError(0, "GeneralNames: empty", ber.ErrTooShort)
	}
	return names, nil
}
