// Package isotime handles the compact ISO time form YYYYMMDDTHHMMSS and its
// conversion from and to the ASN.1 UTCTime and GeneralizedTime types.
package isotime

import (
	"errors"
	"time"
)

// ErrInvalid is returned for malformed times.
var ErrInvalid = errors.New("isotime: invalid time")

// Time is a UTC time in the form YYYYMMDDTHHMMSS. The zero value means the
// time is not set.
type Time string

const (
	layout = "20060102T150405"

	// utcTimeLimit is the first instant that UTCTime cannot express.
	utcTimeLimit Time = "20500101T000000"
)

// IsSet reports whether t holds a time.
func (t Time) IsSet() bool {
	return t != ""
}

// Valid reports whether t is well formed.
func (t Time) Valid() bool {
	if len(t) != len(layout) || t[8] != 'T' {
		return false
	}
	for i := 0; i < len(t); i++ {
		if i != 8 && !isDigit(t[i]) {
			return false
		}
	}
	return true
}

// Std converts t to a time.Time in UTC.
func (t Time) Std() (time.Time, error) {
	if !t.Valid() {
		return time.Time{}, ErrInvalid
	}
	return time.ParseInLocation(layout, string(t), time.UTC)
}

// FromStd converts a time.Time.
func FromStd(tm time.Time) Time {
	return Time(tm.UTC().Format(layout))
}

// Before reports whether t sorts before u. Both must be valid.
func (t Time) Before(u Time) bool {
	return t < u
}

// FromUTCTime converts the content octets of a UTCTime. Two digit years
// below 50 are in the 21st century.
func FromUTCTime(value []byte) (Time, error) {
	return fromASN(value, true)
}

// FromGeneralizedTime converts the content octets of a GeneralizedTime.
func FromGeneralizedTime(value []byte) (Time, error) {
	return fromASN(value, false)
}

// fromASN accepts YYMMDDHHMM[SS]Z or YYYYMMDDHHMM[SS]Z. Missing seconds are
// taken as zero; anything after the Z is ignored.
func fromASN(value []byte, utc bool) (Time, error) {
	n := 0
	for n < len(value) && isDigit(value[n]) {
		n++
	}

	if utc {
		if n != 10 && n != 12 {
			return "", ErrInvalid
		}
	} else if n != 12 && n != 14 {
		return "", ErrInvalid
	}
	if n == len(value) || value[n] != 'Z' {
		return "", ErrInvalid
	}

	out := make([]byte, 0, len(layout))
	s := value
	if utc {
		if s[0] < '5' {
			out = append(out, '2', '0')
		} else {
			out = append(out, '1', '9')
		}
		out = append(out, s[:2]...)
		s = s[2:]
		n -= 2
	} else {
		out = append(out, s[:4]...)
		s = s[4:]
		n -= 4
	}

	// MMDD, then HHMM
	out = append(out, s[:4]...)
	out = append(out, 'T')
	out = append(out, s[4:8]...)
	if n == 10 {
		out = append(out, s[8:10]...)
	} else {
		out = append(out, '0', '0')
	}

	return Time(out), nil
}

// ASN returns the content octets for t and whether they are a
// GeneralizedTime. Times from 2050 on need the GeneralizedTime form.
func (t Time) ASN() (value []byte, generalized bool, err error) {
	if !t.Valid() {
		return nil, false, ErrInvalid
	}

	generalized = !t.Before(utcTimeLimit)
	value = make([]byte, 0, 15)
	if generalized {
		value = append(value, t[:8]...)
	} else {
		value = append(value, t[2:8]...)
	}
	value = append(value, t[9:]...)
	value = append(value, 'Z')
	return value, generalized, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
