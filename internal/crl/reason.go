package crl

import (
	"strings"
)

// Reason is a set of revocation reasons. Several crlReason extensions in one
// entry accumulate.
type Reason uint32

const (
	ReasonUnspecified          Reason = 1
	ReasonKeyCompromise        Reason = 2
	ReasonCACompromise         Reason = 4
	ReasonAffiliationChanged   Reason = 8
	ReasonSuperseded           Reason = 16
	ReasonCessationOfOperation Reason = 32
	ReasonCertificateHold      Reason = 64
	ReasonRemoveFromCRL        Reason = 256
	ReasonPrivilegeWithdrawn   Reason = 512
	ReasonAACompromise         Reason = 1024
	ReasonOther                Reason = 32768
)

var reasonNames = []struct {
	bit  Reason
	name string
}{
	{ReasonUnspecified, "unspecified"},
	{ReasonKeyCompromise, "keyCompromise"},
	{ReasonCACompromise, "cACompromise"},
	{ReasonAffiliationChanged, "affiliationChanged"},
	{ReasonSuperseded, "superseded"},
	{ReasonCessationOfOperation, "cessationOfOperation"},
	{ReasonCertificateHold, "certificateHold"},
	{ReasonRemoveFromCRL, "removeFromCRL"},
	{ReasonPrivilegeWithdrawn, "privilegeWithdrawn"},
	{ReasonAACompromise, "aACompromise"},
	{ReasonOther, "other"},
}

// reasonFromCode maps a CRLReason ENUMERATED value to its bit. Value 7 is
// unassigned.
func reasonFromCode(code byte) Reason {
	switch code {
	case 0:
		return ReasonUnspecified
	case 1:
		return ReasonKeyCompromise
	case 2:
		return ReasonCACompromise
	case 3:
		return ReasonAffiliationChanged
	case 4:
		return ReasonSuperseded
	case 5:
		return ReasonCessationOfOperation
	case 6:
		return ReasonCertificateHold
	case 8:
		return ReasonRemoveFromCRL
	case 9:
		return ReasonPrivilegeWithdrawn
	case 10:
		return ReasonAACompromise
	default:
		return ReasonOther
	}
}

// Has reports whether all bits of r2 are set in r.
func (r Reason) Has(r2 Reason) bool {
	return r&r2 == r2
}

// String lists the set reasons separated by commas.
func (r Reason) String() string {
	if r == 0 {
		return "none"
	}
	var names []string
	for _, rn := range reasonNames {
		if r&rn.bit != 0 {
			names = append(names, rn.name)
		}
	}
	return strings.Join(names, ",")
}
