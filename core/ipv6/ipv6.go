// Package ipv6 parses and canonicalizes textual IPv6 addresses.
// Canonical form follows RFC 5952: lowercase hex, no leading zeros per
// group, and the single longest run of two or more zero groups compressed
// to "::" (leftmost run on a tie).
package ipv6

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAddress indicates text that cannot be parsed as an IPv6 address.
var ErrInvalidAddress = errors.New("invalid IPv6 address")

// Segments is the eight 16-bit groups of an IPv6 address, in order.
type Segments [8]uint16

// Parse parses any well-formed textual IPv6 address into its segments.
// It accepts mixed-case hex, leading zeros, and at most one "::" run.
// Dotted-quad (IPv4-in-IPv6) notation is not supported.
func Parse(text string) (Segments, error) {
	var segs Segments

	s := strings.TrimSpace(text)
	if s == "" {
		return segs, fmt.Errorf("%w: empty input", ErrInvalidAddress)
	}
	if strings.Contains(s, ".") {
		return segs, fmt.Errorf("%w: dotted-quad notation not supported: %s", ErrInvalidAddress, text)
	}

	var groups []string
	switch strings.Count(s, "::") {
	case 0:
		groups = strings.Split(s, ":")
		if len(groups) != 8 {
			return segs, fmt.Errorf("%w: expected 8 groups, got %d: %s", ErrInvalidAddress, len(groups), text)
		}
	case 1:
		halves := strings.SplitN(s, "::", 2)
		var left, right []string
		if halves[0] != "" {
			left = strings.Split(halves[0], ":")
		}
		if halves[1] != "" {
			right = strings.Split(halves[1], ":")
		}
		missing := 8 - len(left) - len(right)
		if missing < 1 {
			return segs, fmt.Errorf("%w: \"::\" must replace at least one group: %s", ErrInvalidAddress, text)
		}
		groups = append(groups, left...)
		for i := 0; i < missing; i++ {
			groups = append(groups, "0")
		}
		groups = append(groups, right...)
	default:
		return segs, fmt.Errorf("%w: multiple \"::\" runs: %s", ErrInvalidAddress, text)
	}

	for i, g := range groups {
		if g == "" {
			return segs, fmt.Errorf("%w: empty group: %s", ErrInvalidAddress, text)
		}
		if len(g) > 4 {
			return segs, fmt.Errorf("%w: group %q exceeds 4 hex digits", ErrInvalidAddress, g)
		}
		v, err := strconv.ParseUint(g, 16, 16)
		if err != nil {
			return segs, fmt.Errorf("%w: group %q is not 16-bit hex", ErrInvalidAddress, g)
		}
		segs[i] = uint16(v)
	}
	return segs, nil
}

// Normalize parses text and re-renders it in canonical RFC 5952 form.
func Normalize(text string) (string, error) {
	segs, err := Parse(text)
	if err != nil {
		return "", err
	}
	return segs.String(), nil
}

// Expand returns the eight segments of a textual address. It is Parse with
// a name matching what callers do with the result: turning canonical text
// into the fixed segment tuple the codec and checksum operate on.
func Expand(text string) (Segments, error) {
	return Parse(text)
}

// String renders the segments in canonical form: lowercase, no leading
// zeros, and the longest zero run of length >= 2 compressed to "::".
func (s Segments) String() string {
	start, length := s.zeroRun()

	var b strings.Builder
	if length < 2 {
		for i, v := range s {
			if i > 0 {
				b.WriteByte(':')
			}
			b.WriteString(strconv.FormatUint(uint64(v), 16))
		}
		return b.String()
	}

	for i := 0; i < start; i++ {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatUint(uint64(s[i]), 16))
	}
	b.WriteString("::")
	for i := start + length; i < 8; i++ {
		if i > start+length {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatUint(uint64(s[i]), 16))
	}
	return b.String()
}

// zeroRun finds the leftmost longest run of consecutive zero segments.
func (s Segments) zeroRun() (start, length int) {
	start, length = -1, 0
	runStart, runLen := -1, 0
	for i, v := range s {
		if v == 0 {
			if runLen == 0 {
				runStart = i
			}
			runLen++
			if runLen > length {
				start, length = runStart, runLen
			}
		} else {
			runLen = 0
		}
	}
	return start, length
}
