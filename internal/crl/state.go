package crl

import (
	"fmt"
)

// StopReason tells the caller why Parse returned and what to do next.
type StopReason int

const (
	// StopNone is the state of a fresh context.
	StopNone StopReason = iota
	// StopRunning is reported while a call is in progress or after a failure.
	StopRunning
	// StopBeginItems means issuer, algorithm and update times are available.
	StopBeginItems
	// StopGotItem means one revoked certificate is available through Item.
	StopGotItem
	// StopEndItems means the revoked certificates are exhausted.
	StopEndItems
	// StopReady means the signature value is available.
	StopReady
)

// String returns the name of the stop reason.
func (s StopReason) String() string {
	switch s {
	case StopNone:
		return "none"
	case StopRunning:
		return "running"
	case StopBeginItems:
		return "begin-items"
	case StopGotItem:
		return "got-item"
	case StopEndItems:
		return "end-items"
	case StopReady:
		return "ready"
	default:
		return fmt.Sprintf("stop(%d)", int(s))
	}
}

type phase int

const (
	phaseHeader phase = iota
	phaseEntry
	phaseTrailer
)

// nextPhase maps the stop reason a call resumes from to the work it does.
func nextPhase(last StopReason) (phase, error) {
	switch last {
	case StopNone:
		return phaseHeader, nil
	case StopBeginItems, StopGotItem:
		return phaseEntry, nil
	case StopEndItems:
		return phaseTrailer, nil
	default:
		return 0, fmt.Errorf("%w: cannot resume from %s", ErrInvalidState, last)
	}
}

// Parse advances the parser by one step. last must be the stop reason the
// previous call returned, or StopNone for the first call. A failed call
// leaves the context unusable.
func (c *CRL) Parse(last StopReason) (StopReason, error) {
	if last != c.stop {
		return StopRunning, fmt.Errorf("%w: resumed from %s, context is at %s", ErrInvalidState, last, c.stop)
	}
	ph, err := nextPhase(last)
	if err != nil {
		return StopRunning, err
	}

	c.stop = StopRunning
	var next StopReason
	switch ph {
	case phaseHeader:
		err = c.parseHeader()
		next = StopBeginItems
	case phaseEntry:
		next, err = c.parseEntry()
	case phaseTrailer:
		err = c.parseTrailer()
		next = StopReady
	}
	if err == nil && c.hash.err != nil {
		err = fmt.Errorf("crl: hash sink: %w", c.hash.err)
	}
	if err != nil {
		c.logger.Debug("crl parse failed", "from", last.String(), "offset", c.r.Tell(), "error", err.Error())
		return StopRunning, err
	}

	c.stop = next
	c.logger.Debug("crl state change", "from", last.String(), "to", next.String(), "offset", c.r.Tell())
	return next, nil
}

// Next resumes from the context's own stop reason.
func (c *CRL) Next() (StopReason, error) {
	return c.Parse(c.stop)
}

// State returns the stop reason of the last call.
func (c *CRL) State() StopReason {
	return c.stop
}
