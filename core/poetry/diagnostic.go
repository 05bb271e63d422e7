package poetry

import (
	"fmt"

	"github.com/ipv6poetry/poetrytools/core/wordlist"
)

// DiagnosticKind identifies a recoverable decode or load condition.
type DiagnosticKind string

const (
	// DiagUnknownWord reports a token absent from the dictionary; the
	// decoder substitutes segment value 0 for it.
	DiagUnknownWord DiagnosticKind = "unknown_word"

	// DiagChecksumMismatch reports a supplied checksum word that differs
	// from the recomputed one.
	DiagChecksumMismatch DiagnosticKind = "checksum_mismatch"

	// DiagSizeMismatch reports a dictionary whose size deviates from the
	// nominal 65536 entries.
	DiagSizeMismatch DiagnosticKind = "wordlist_size_mismatch"
)

// Diagnostic is a structured warning produced alongside a successful
// result. Diagnostics never change the outcome of an operation.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Position int            `json:"position,omitempty"`
	Word     string         `json:"word,omitempty"`
	Expected string         `json:"expected,omitempty"`
	Got      string         `json:"got,omitempty"`
	Count    int            `json:"count,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagUnknownWord:
		return fmt.Sprintf("word %q at position %d not found in wordlist; substituting segment 0", d.Word, d.Position)
	case DiagChecksumMismatch:
		return fmt.Sprintf("checksum mismatch: expected %q, got %q; the phrase may contain transcription errors", d.Expected, d.Got)
	case DiagSizeMismatch:
		return fmt.Sprintf("wordlist contains %d words, expected %d", d.Count, wordlist.ExpectedSize)
	default:
		return string(d.Kind)
	}
}

// SizeDiagnostic builds the load-time size-mismatch diagnostic for a
// dictionary of count entries, or nothing when the size is nominal.
func SizeDiagnostic(count int) []Diagnostic {
	if count == wordlist.ExpectedSize {
		return nil
	}
	return []Diagnostic{{Kind: DiagSizeMismatch, Count: count}}
}
