package crl

import (
	"crypto/x509/pkix"
	encasn1 "encoding/asn1"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/KilimcininKorOglu/crlkit/internal/oid"
)

const (
	oidDSAWithSHA1     = "1.2.840.10040.4.3"
	oidECDSAWithSHA256 = "1.2.840.10045.4.3.2"
	oidRSAWithSHA256   = "1.2.840.113549.1.1.11"
	oidRSAWithMD2      = "1.2.840.113549.1.1.2"
)

type testEntry struct {
	serial     []byte
	date       string
	extensions [][]byte
}

// testCRL describes a CRL for buildCRL. Times are UTCTime content octets.
type testCRL struct {
	version     int // negative for v1 without version field
	tbsAlg      string
	issuer      string
	thisUpdate  string
	nextUpdate  string
	entries     []testEntry
	emptyList   bool
	extensions  [][]byte
	sigAlg      string
	sigAlgParam []byte
	sigValue    []byte
}

func defaultCRL() testCRL {
	return testCRL{
		version:    -1,
		tbsAlg:     oidDSAWithSHA1,
		issuer:     "Test CA",
		thisUpdate: "110101000000Z",
		sigAlg:     oidDSAWithSHA1,
		sigValue:   rsSignature(big.NewInt(0x1234), big.NewInt(0x5678)),
	}
}

func mustOID(s string) encasn1.ObjectIdentifier {
	id, err := oid.Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func nameDER(cn string) []byte {
	der, err := encasn1.Marshal(pkix.Name{CommonName: cn}.ToRDNSequence())
	if err != nil {
		panic(err)
	}
	return der
}

func addAlgorithm(b *cryptobyte.Builder, id string, param []byte) {
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(mustOID(id))
		if param != nil {
			b.AddBytes(param)
		} else {
			b.AddASN1NULL()
		}
	})
}

func rsSignature(r, s *big.Int) []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.BytesOrPanic()
}

func extension(id string, critical bool, value []byte) []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(mustOID(id))
		if critical {
			b.AddASN1Boolean(true)
		}
		b.AddASN1OctetString(value)
	})
	return b.BytesOrPanic()
}

func reasonExtension(code int64) []byte {
	var b cryptobyte.Builder
	b.AddASN1Enum(code)
	return extension(oidCRLReason, false, b.BytesOrPanic())
}

func crlNumberExtension(n int64) []byte {
	var b cryptobyte.Builder
	b.AddASN1Int64(n)
	return extension(oidCRLNumber, false, b.BytesOrPanic())
}

func akiExtension(keyID []byte, issuer string, serial []byte) []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		if keyID != nil {
			b.AddASN1(asn1.Tag(0).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes(keyID)
			})
		}
		if issuer != "" {
			b.AddASN1(asn1.Tag(1).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddASN1(asn1.Tag(4).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
					b.AddBytes(nameDER(issuer))
				})
			})
		}
		if serial != nil {
			b.AddASN1(asn1.Tag(2).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes(serial)
			})
		}
	})
	return extension(oidAuthorityKeyID, false, b.BytesOrPanic())
}

func entryDER(e testEntry) []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.INTEGER, func(b *cryptobyte.Builder) {
			b.AddBytes(e.serial)
		})
		b.AddASN1(asn1.UTCTime, func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(e.date))
		})
		if len(e.extensions) > 0 {
			b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				for _, ext := range e.extensions {
					b.AddBytes(ext)
				}
			})
		}
	})
	return b.BytesOrPanic()
}

// buildTBS returns the DER of TBSCertList.
func (c testCRL) buildTBS() []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		if c.version >= 0 {
			b.AddASN1Int64(int64(c.version))
		}
		addAlgorithm(b, c.tbsAlg, nil)
		b.AddBytes(nameDER(c.issuer))
		b.AddASN1(asn1.UTCTime, func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(c.thisUpdate))
		})
		if c.nextUpdate != "" {
			b.AddASN1(asn1.UTCTime, func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(c.nextUpdate))
			})
		}
		if len(c.entries) > 0 || c.emptyList {
			b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				for _, e := range c.entries {
					b.AddBytes(entryDER(e))
				}
			})
		}
		if len(c.extensions) > 0 {
			b.AddASN1(asn1.Tag(0).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
					for _, ext := range c.extensions {
						b.AddBytes(ext)
					}
				})
			})
		}
	})
	return b.BytesOrPanic()
}

// wrap builds the CertificateList around a TBSCertList image.
func (c testCRL) wrap(tbs []byte) []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddBytes(tbs)
		addAlgorithm(b, c.sigAlg, c.sigAlgParam)
		b.AddASN1BitString(c.sigValue)
	})
	return b.BytesOrPanic()
}

// build returns the complete CRL and its TBSCertList.
func (c testCRL) build() (full, tbs []byte) {
	tbs = c.buildTBS()
	return c.wrap(tbs), tbs
}
