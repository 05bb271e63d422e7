package wordlist

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// ManifestFile is the conventional integrity manifest name inside a
// wordlist directory.
const ManifestFile = "wordlist.b3.json"

// ErrDigestMismatch indicates the dictionary does not match its manifest.
var ErrDigestMismatch = errors.New("wordlist digest mismatch")

// Manifest pins a dictionary's word count and BLAKE3 digest so transport
// corruption or accidental editing is caught before the list is trusted.
type Manifest struct {
	Count  int    `json:"count"`
	BLAKE3 string `json:"blake3"`
}

// Digest computes the BLAKE3 digest of the list: each word followed by a
// newline, in index order. This matches hashing the plain text source file.
func (l *List) Digest() string {
	h := blake3.New()
	for _, w := range l.words {
		h.WriteString(w)
		h.WriteString("\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Manifest returns the integrity manifest for the list.
func (l *List) Manifest() Manifest {
	return Manifest{Count: len(l.words), BLAKE3: l.Digest()}
}

// WriteManifest writes the list's manifest as JSON to path.
func (l *List) WriteManifest(path string) error {
	data, err := json.MarshalIndent(l.Manifest(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// VerifyManifest checks the list against the manifest at path. A missing
// manifest is not an error for callers that treat it as optional; they
// should stat the path first.
func (l *List) VerifyManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if m.Count != len(l.words) {
		return fmt.Errorf("%w: manifest count %d, list has %d", ErrDigestMismatch, m.Count, len(l.words))
	}
	if !strings.EqualFold(m.BLAKE3, l.Digest()) {
		return fmt.Errorf("%w: manifest %s, computed %s", ErrDigestMismatch, m.BLAKE3, l.Digest())
	}
	return nil
}
