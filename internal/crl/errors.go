package crl

import (
	"errors"
)

// Parser errors. Encoding level failures wrap the sentinels of package ber.
var (
	// ErrUnsupportedCRLVersion is returned for a version other than v1 or v2.
	ErrUnsupportedCRLVersion = errors.New("crl: unsupported CRL version")

	// ErrUnknownCriticalExtension is returned for a critical entry
	// extension this package does not understand.
	ErrUnknownCriticalExtension = errors.New("crl: unknown critical extension")

	// ErrDuplicateValue is returned when a singleton extension occurs twice.
	ErrDuplicateValue = errors.New("crl: duplicate value")

	// ErrNoData is returned when the requested value is not available, either
	// because it is absent or because parsing has not reached it yet.
	ErrNoData = errors.New("crl: no data")

	// ErrInvalidState is returned when Parse is resumed from the wrong stop
	// reason or after a failure.
	ErrInvalidState = errors.New("crl: invalid state")

	// ErrEndOfList is returned when an extension index is past the end.
	ErrEndOfList = errors.New("crl: end of list")

	// ErrUnknownAlgorithm is returned for a signature algorithm not in the
	// algorithm table.
	ErrUnknownAlgorithm = errors.New("crl: unknown algorithm")

	// ErrUnsupportedAlgorithm is returned for algorithms that are known but
	// deliberately not handled, such as md2.
	ErrUnsupportedAlgorithm = errors.New("crl: unsupported algorithm")

	// ErrBadSignature is returned by SignatureValue.Verify.
	ErrBadSignature = errors.New("crl: bad signature")
)
