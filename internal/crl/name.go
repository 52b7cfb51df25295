package crl

import (
	"crypto/x509/pkix"
	"encoding/asn1"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
)

// Name is a distinguished name. Raw is the DER image as it appeared in the
// CRL; DN is its RFC 4514 string form.
type Name struct {
	Raw []byte
	DN  string
}

// String returns the RFC 4514 form.
func (n Name) String() string {
	return n.DN
}

func parseName(image []byte) (Name, error) {
	var rdns pkix.RDNSequence
	rest, err := asn1.Unmarshal(image, &rdns)
	if err != nil {
		return Name{}, ber.NewDecodeError(0, "name: "+err.Error(), ber.ErrInvalidObject)
	}
	if len(rest) > 0 {
		return Name{}, ber.NewDecodeError(len(image)-len(rest), "name: trailing octets", ber.ErrBadEncoding)
	}

	return Name{Raw: image, DN: rdns.String()}, nil
}
