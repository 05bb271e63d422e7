// Package wordlist loads and queries the 65536-entry dictionary that maps
// 16-bit address segments to memorable words.
//
// A list is built once from an external source and is immutable afterwards,
// so a single *List may be shared by any number of concurrent encode and
// decode calls without locking.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ExpectedSize is the nominal dictionary size: one word per 16-bit value.
const ExpectedSize = 65536

// SentinelWord is the word conventionally reserved at index 0.
const SentinelWord = "zero"

// ErrWordlistNotFound indicates the dictionary source is missing.
var ErrWordlistNotFound = errors.New("wordlist not found")

// ErrEmptyWordlist indicates a source that contained no words at all.
var ErrEmptyWordlist = errors.New("wordlist is empty")

// Conventional source file names inside a wordlist directory, in the order
// they are probed by LoadDir.
const (
	FileTXT    = "wordlist.txt"
	FileXZ     = "wordlist.txt.xz"
	FileSQLite = "wordlist.db"
)

// List is the immutable bidirectional word<->index mapping.
type List struct {
	words []string
	index map[string]int
}

// New builds a List from an ordered word slice. Words are lowercased and
// the first occurrence wins on duplicates, matching line-file semantics.
func New(words []string) (*List, error) {
	if len(words) == 0 {
		return nil, ErrEmptyWordlist
	}
	l := &List{
		words: make([]string, len(words)),
		index: make(map[string]int, len(words)),
	}
	for i, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		l.words[i] = w
		if _, ok := l.index[w]; !ok {
			l.index[w] = i
		}
	}
	return l, nil
}

// Load reads a dictionary from a single source file. The format is chosen
// by suffix: ".xz" sources are decompressed transparently and ".db" or
// ".sqlite" sources are read from the words table (see store.go); anything
// else is treated as plain one-word-per-line text.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWordlistNotFound, path)
		}
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		return readLines(xzr)
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		f.Close()
		return LoadStore(path)
	default:
		return readLines(f)
	}
}

// LoadDir resolves the conventional dictionary file inside dir and loads
// it. Plain text is preferred, then xz-compressed text, then the SQLite
// store. Returns ErrWordlistNotFound when none exists.
func LoadDir(dir string) (*List, error) {
	for _, name := range []string{FileTXT, FileXZ, FileSQLite} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return nil, fmt.Errorf("%w: no %s, %s or %s in %s", ErrWordlistNotFound, FileTXT, FileXZ, FileSQLite, dir)
}

func readLines(r io.Reader) (*List, error) {
	sc := bufio.NewScanner(r)
	words := make([]string, 0, ExpectedSize)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	return New(words)
}

// Len returns the effective dictionary size. Index arithmetic uses this,
// not ExpectedSize, so undersized legacy lists keep working.
func (l *List) Len() int {
	return len(l.words)
}

// SizeMismatch reports whether the list deviates from the nominal 65536
// entries. A mismatch is a warning condition, never a load failure.
func (l *List) SizeMismatch() bool {
	return len(l.words) != ExpectedSize
}

// WordAt returns the word for a 16-bit value. Out-of-range indices wrap
// (index mod size) rather than fail; with a well-formed 65536-entry list
// the wrap is unreachable because the index is already bounded to 16 bits.
func (l *List) WordAt(i uint16) string {
	return l.words[int(i)%len(l.words)]
}

// IndexOf performs the case-insensitive reverse lookup. The boolean is
// false when the word is absent from the dictionary.
func (l *List) IndexOf(word string) (int, bool) {
	i, ok := l.index[strings.ToLower(word)]
	return i, ok
}

// Words returns a copy of the ordered word slice.
func (l *List) Words() []string {
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}
