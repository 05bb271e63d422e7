package wordlist

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"strings"
)

// The generator expands an embedded seed vocabulary into the full 65536
// tokens deterministically: seed words first, then affixed forms, then
// compounds of short seeds, then consonant substitutions. Each strategy
// only runs while more words are needed, so the front of the list stays
// the most memorable.

//go:embed seed_words.txt
var seedWords []byte

const (
	minWordLen = 3
	maxWordLen = 10
)

var (
	genPrefixes = []string{
		"re", "un", "in", "dis", "en", "em", "im",
		"over", "under", "sub", "super", "inter", "pre", "post",
	}
	genSuffixes = []string{
		"ed", "ing", "er", "est", "ize", "ise", "ly",
		"ful", "less", "ness", "ment", "able", "ible",
	}
	// Letter-only substitutions; the dictionary format requires purely
	// alphabetic tokens, so digit lookalikes are out.
	genSubstitutions = [][2]string{
		{"s", "z"}, {"c", "k"}, {"f", "ph"},
	}
)

// Generate produces the full dictionary: exactly ExpectedSize distinct
// lowercase alphabetic tokens with the sentinel word at index 0. Output is
// deterministic; two calls always return identical lists.
func Generate() ([]string, error) {
	return GenerateN(ExpectedSize)
}

// GenerateN is Generate with a configurable target size, used by tests to
// exercise the pipeline without building all 65536 entries.
func GenerateN(target int) ([]string, error) {
	if target < 1 {
		return nil, fmt.Errorf("invalid wordlist size %d", target)
	}

	seeds := readSeeds()
	if len(seeds) == 0 || seeds[0] != SentinelWord {
		return nil, fmt.Errorf("seed list must start with sentinel word %q", SentinelWord)
	}

	seen := make(map[string]bool, target)
	out := make([]string, 0, target)
	add := func(w string) bool {
		if len(out) >= target {
			return false
		}
		if len(w) < minWordLen || len(w) > maxWordLen || seen[w] {
			return true
		}
		seen[w] = true
		out = append(out, w)
		return len(out) < target
	}

	for _, w := range seeds {
		if !add(w) {
			break
		}
	}

	// Affixed forms of each seed.
	for _, w := range seeds {
		if len(out) >= target {
			break
		}
		for _, p := range genPrefixes {
			if !add(p + w) {
				break
			}
		}
		for _, s := range genSuffixes {
			form := w + s
			if strings.HasSuffix(w, "e") && strings.HasPrefix(s, "i") {
				form = w[:len(w)-1] + s
			}
			if !add(form) {
				break
			}
		}
	}

	// Compounds of short seeds.
	if len(out) < target {
		var short []string
		for _, w := range seeds {
			if len(w) <= 5 {
				short = append(short, w)
			}
		}
	compounds:
		for i, w1 := range short {
			for _, w2 := range short[i+1:] {
				if !add(w1 + w2) {
					break compounds
				}
			}
		}
	}

	// Consonant substitutions as a last resort.
	if len(out) < target {
	substitutions:
		for _, w := range seeds {
			for _, sub := range genSubstitutions {
				if !strings.Contains(w, sub[0]) {
					continue
				}
				if !add(strings.ReplaceAll(w, sub[0], sub[1])) {
					break substitutions
				}
			}
		}
	}

	if len(out) < target {
		return nil, fmt.Errorf("seed vocabulary too small: generated %d of %d words", len(out), target)
	}
	return out, nil
}

func readSeeds() []string {
	sc := bufio.NewScanner(bytes.NewReader(seedWords))
	var words []string
	seen := make(map[string]bool)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}
