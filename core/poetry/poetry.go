// Package poetry converts between IPv6 addresses and memorable word
// phrases. A phrase is nine space-separated words: one per 16-bit address
// segment plus a trailing checksum word for transcription-error detection.
package poetry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ipv6poetry/poetrytools/core/checksum"
	"github.com/ipv6poetry/poetrytools/core/ipv6"
	"github.com/ipv6poetry/poetrytools/core/wordlist"
)

// PhraseWords is the number of words in a full phrase: eight segment words
// plus the checksum word.
const PhraseWords = 9

// ErrInsufficientTokens indicates a phrase with fewer than eight words.
var ErrInsufficientTokens = errors.New("not enough words for IPv6 address")

// Codec performs encode and decode against a shared immutable dictionary.
// A single Codec is safe for concurrent use.
type Codec struct {
	list *wordlist.List
}

// NewCodec returns a codec backed by list.
func NewCodec(list *wordlist.List) *Codec {
	return &Codec{list: list}
}

// List returns the dictionary the codec was built with.
func (c *Codec) List() *wordlist.List {
	return c.list
}

// Encode converts an IPv6 address in any well-formed textual notation to
// its nine-word phrase.
func (c *Codec) Encode(address string) (string, error) {
	segs, err := ipv6.Expand(address)
	if err != nil {
		return "", err
	}

	words := make([]string, 0, PhraseWords)
	for _, seg := range segs {
		words = append(words, c.list.WordAt(seg))
	}
	words = append(words, c.list.WordAt(checksum.Sum(segs)))
	return strings.Join(words, " "), nil
}

// Decode converts a phrase back to the canonical IPv6 address text.
//
// Decoding is best-effort: a word absent from the dictionary becomes
// segment 0 and a ninth word that does not match the recomputed checksum is
// reported, but neither aborts the conversion. Both conditions surface as
// structured diagnostics so callers can flag the operator rather than rely
// on console output.
func (c *Codec) Decode(phrase string) (string, []Diagnostic, error) {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(phrase)))
	if len(tokens) < PhraseWords-1 {
		return "", nil, fmt.Errorf("%w: need at least %d words, got %d",
			ErrInsufficientTokens, PhraseWords-1, len(tokens))
	}

	var diags []Diagnostic
	var segs ipv6.Segments
	groups := make([]string, len(segs))
	for i, tok := range tokens[:PhraseWords-1] {
		idx, ok := c.list.IndexOf(tok)
		if !ok {
			diags = append(diags, Diagnostic{
				Kind:     DiagUnknownWord,
				Position: i,
				Word:     tok,
			})
			idx = 0
		}
		segs[i] = uint16(idx)
		groups[i] = fmt.Sprintf("%04x", idx)
	}

	if len(tokens) >= PhraseWords {
		supplied := tokens[PhraseWords-1]
		expected := c.list.WordAt(checksum.Sum(segs))
		if supplied != expected {
			diags = append(diags, Diagnostic{
				Kind:     DiagChecksumMismatch,
				Expected: expected,
				Got:      supplied,
			})
		}
	}

	addr, err := ipv6.Normalize(strings.Join(groups, ":"))
	if err != nil {
		// Only reachable with a dictionary so oversized that a reverse
		// index no longer fits in four hex digits.
		return "", diags, err
	}
	return addr, diags, nil
}
