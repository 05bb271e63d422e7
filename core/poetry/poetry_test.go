package poetry

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ipv6poetry/poetrytools/core/checksum"
	"github.com/ipv6poetry/poetrytools/core/ipv6"
	"github.com/ipv6poetry/poetrytools/core/wordlist"
)

// mustCodec builds a codec over a synthetic full-size dictionary where
// index i maps to "wordi", so expected phrases can be computed directly.
func mustCodec(t *testing.T) *Codec {
	t.Helper()
	words := make([]string, wordlist.ExpectedSize)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	l, err := wordlist.New(words)
	if err != nil {
		t.Fatalf("wordlist.New: %v", err)
	}
	return NewCodec(l)
}

func TestEncodeNineWords(t *testing.T) {
	c := mustCodec(t)
	phrase, err := c.Encode("2001:0db8:85a3:0000:0000:8a2e:0370:7334")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	words := strings.Fields(phrase)
	if len(words) != PhraseWords {
		t.Fatalf("phrase has %d words, want %d: %q", len(words), PhraseWords, phrase)
	}

	wantSegs := []int{0x2001, 0x0db8, 0x85a3, 0, 0, 0x8a2e, 0x0370, 0x7334}
	for i, v := range wantSegs {
		if words[i] != fmt.Sprintf("word%d", v) {
			t.Errorf("word %d = %q, want word%d", i, words[i], v)
		}
	}
	segs := ipv6.Segments{0x2001, 0x0db8, 0x85a3, 0, 0, 0x8a2e, 0x0370, 0x7334}
	if want := fmt.Sprintf("word%d", checksum.Sum(segs)); words[8] != want {
		t.Errorf("checksum word = %q, want %q", words[8], want)
	}
}

func TestEncodeInvalidAddress(t *testing.T) {
	c := mustCodec(t)
	for _, in := range []string{"", "not-an-address", "2001:db8", "1::2::3"} {
		if _, err := c.Encode(in); !errors.Is(err, ipv6.ErrInvalidAddress) {
			t.Errorf("Encode(%q) = %v, want ErrInvalidAddress", in, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	c := mustCodec(t)
	addrs := []string{
		"2001:0db8:85a3:0000:0000:8a2e:0370:7334",
		"2001:db8::1",
		"::1",
		"::",
		"fe80::202:b3ff:fe1e:8329",
		"ff02::1:ff00:0",
		"ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff",
	}
	for _, addr := range addrs {
		phrase, err := c.Encode(addr)
		if err != nil {
			t.Fatalf("Encode(%q): %v", addr, err)
		}
		got, diags, err := c.Decode(phrase)
		if err != nil {
			t.Fatalf("Decode(%q): %v", phrase, err)
		}
		if len(diags) != 0 {
			t.Errorf("Decode(%q) produced diagnostics: %v", phrase, diags)
		}
		want, err := ipv6.Normalize(addr)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", addr, err)
		}
		if got != want {
			t.Errorf("round trip mismatch: %q -> %q, want %q", addr, got, want)
		}
	}
}

func TestDecodeInsufficientTokens(t *testing.T) {
	c := mustCodec(t)
	for _, phrase := range []string{"", "word1", "word1 word2 word3 word4 word5 word6 word7"} {
		if _, _, err := c.Decode(phrase); !errors.Is(err, ErrInsufficientTokens) {
			t.Errorf("Decode(%q) = %v, want ErrInsufficientTokens", phrase, err)
		}
	}
}

func TestDecodeWithoutChecksumWord(t *testing.T) {
	c := mustCodec(t)
	// Exactly 8 words: decoding proceeds with no checksum verification.
	phrase := "word8193 word3512 word34211 word0 word0 word35374 word880 word29492"
	addr, diags, err := c.Decode(phrase)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	want := "2001:db8:85a3::8a2e:370:7334"
	if addr != want {
		t.Errorf("Decode = %q, want %q", addr, want)
	}
}

func TestDecodeChecksumMismatch(t *testing.T) {
	c := mustCodec(t)
	segs := ipv6.Segments{0x2001, 0x0db8, 0x85a3, 0, 0, 0x8a2e, 0x0370, 0x7334}

	// Pick a wrong checksum word.
	wrong := int(checksum.Sum(segs)) + 1
	phrase := fmt.Sprintf(
		"word8193 word3512 word34211 word0 word0 word35374 word880 word29492 word%d", wrong)

	addr, diags, err := c.Decode(phrase)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if addr != "2001:db8:85a3::8a2e:370:7334" {
		t.Errorf("address = %q despite checksum mismatch, want first-8-words decode", addr)
	}
	if len(diags) != 1 || diags[0].Kind != DiagChecksumMismatch {
		t.Fatalf("diagnostics = %v, want one checksum mismatch", diags)
	}
	if diags[0].Got != fmt.Sprintf("word%d", wrong) {
		t.Errorf("diagnostic got = %q, want word%d", diags[0].Got, wrong)
	}
	if diags[0].Expected != fmt.Sprintf("word%d", checksum.Sum(segs)) {
		t.Errorf("diagnostic expected = %q, want recomputed checksum word", diags[0].Expected)
	}
}

func TestDecodeUnknownWord(t *testing.T) {
	c := mustCodec(t)
	phrase := "word8193 gibberish word34211 word0 word0 word35374 word880 word29492"
	addr, diags, err := c.Decode(phrase)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// Unknown word at position 1 becomes segment 0.
	want := "2001:0:85a3::8a2e:370:7334"
	if addr != want {
		t.Errorf("Decode = %q, want %q", addr, want)
	}
	if len(diags) != 1 || diags[0].Kind != DiagUnknownWord {
		t.Fatalf("diagnostics = %v, want one unknown word", diags)
	}
	if diags[0].Word != "gibberish" || diags[0].Position != 1 {
		t.Errorf("diagnostic = %+v, want gibberish at position 1", diags[0])
	}
}

func TestDecodeCaseAndWhitespace(t *testing.T) {
	c := mustCodec(t)
	phrase := "  Word8193\tWORD3512  word34211 word0 word0 word35374\nword880 word29492  "
	addr, diags, err := c.Decode(phrase)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if addr != "2001:db8:85a3::8a2e:370:7334" {
		t.Errorf("Decode = %q", addr)
	}
}

func TestDiagnosticStrings(t *testing.T) {
	d := Diagnostic{Kind: DiagUnknownWord, Word: "blorp", Position: 3}
	if !strings.Contains(d.String(), "blorp") {
		t.Errorf("unknown-word diagnostic missing word: %s", d)
	}
	d = Diagnostic{Kind: DiagChecksumMismatch, Expected: "alpha", Got: "beta"}
	if !strings.Contains(d.String(), "alpha") || !strings.Contains(d.String(), "beta") {
		t.Errorf("mismatch diagnostic missing words: %s", d)
	}
	if got := SizeDiagnostic(100); len(got) != 1 || got[0].Count != 100 {
		t.Errorf("SizeDiagnostic(100) = %v", got)
	}
	if got := SizeDiagnostic(wordlist.ExpectedSize); got != nil {
		t.Errorf("SizeDiagnostic(full) = %v, want nil", got)
	}
}
