package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ipv6poetry/poetrytools/core/poetry"
	"github.com/ipv6poetry/poetrytools/core/wordlist"
)

// newTestServer builds a server over a synthetic full-size dictionary
// without touching the filesystem.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	words := make([]string, wordlist.ExpectedSize)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	list, err := wordlist.New(words)
	if err != nil {
		t.Fatalf("wordlist.New: %v", err)
	}
	return &Server{
		codec: poetry.NewCodec(list),
		hub:   NewHub(),
		jobs:  NewJobStore(),
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestHandleEncode(t *testing.T) {
	s := newTestServer(t)
	rec, resp := doJSON(t, s.Handler(), http.MethodPost, "/v1/encode",
		EncodeRequest{Address: "2001:db8::1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}

	data, _ := json.Marshal(resp.Data)
	var result EncodeResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Words) != poetry.PhraseWords {
		t.Errorf("got %d words, want %d", len(result.Words), poetry.PhraseWords)
	}
	if result.Words[0] != "word8193" { // 0x2001
		t.Errorf("first word = %q, want word8193", result.Words[0])
	}
}

func TestHandleEncodeInvalidAddress(t *testing.T) {
	s := newTestServer(t)
	rec, resp := doJSON(t, s.Handler(), http.MethodPost, "/v1/encode",
		EncodeRequest{Address: "not-an-address"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "invalid_address" {
		t.Errorf("error = %+v, want invalid_address", resp.Error)
	}
}

func TestHandleDecodeWithWarnings(t *testing.T) {
	s := newTestServer(t)
	rec, resp := doJSON(t, s.Handler(), http.MethodPost, "/v1/decode",
		DecodeRequest{Phrase: "word8193 gibberish word0 word0 word0 word0 word0 word1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	data, _ := json.Marshal(resp.Data)
	var result DecodeResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Address != "2001::1" {
		t.Errorf("address = %q, want 2001::1", result.Address)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Kind != poetry.DiagUnknownWord {
		t.Errorf("warnings = %+v, want one unknown word", result.Warnings)
	}
}

func TestHandleDecodeInsufficientTokens(t *testing.T) {
	s := newTestServer(t)
	rec, resp := doJSON(t, s.Handler(), http.MethodPost, "/v1/decode",
		DecodeRequest{Phrase: "word1 word2"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "insufficient_tokens" {
		t.Errorf("error = %+v, want insufficient_tokens", resp.Error)
	}
}

func TestHandleWordlistInfo(t *testing.T) {
	s := newTestServer(t)
	rec, resp := doJSON(t, s.Handler(), http.MethodGet, "/v1/wordlist", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var info WordlistInfo
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.Count != wordlist.ExpectedSize || info.SizeMismatch {
		t.Errorf("info = %+v, want full-size list", info)
	}
	if info.Digest == "" {
		t.Errorf("digest should not be empty")
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodGet, "/v1/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBatchJobLifecycle(t *testing.T) {
	s := newTestServer(t)

	job := s.jobs.Create()
	s.runBatch(job.ID, BatchRequest{
		Addresses: []string{"2001:db8::1", "bogus"},
		Phrases:   []string{"word8193 word0 word0 word0 word0 word0 word0 word1"},
	})

	got, ok := s.jobs.Get(job.ID)
	if !ok {
		t.Fatalf("job %s not found", job.ID)
	}
	if got.Status != JobStatusCompleted || got.Progress != 100 {
		t.Fatalf("job = %+v, want completed at 100%%", got)
	}
	if len(got.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(got.Items))
	}
	if got.Items[0].Error != "" || !strings.Contains(got.Items[0].Output, " ") {
		t.Errorf("item 0 = %+v, want encoded phrase", got.Items[0])
	}
	if got.Items[1].Error == "" {
		t.Errorf("item 1 should fail for a bogus address")
	}
	if got.Items[2].Output != "2001::1" {
		t.Errorf("item 2 output = %q, want 2001::1", got.Items[2].Output)
	}
}

func TestHandleJobGetNotFound(t *testing.T) {
	s := newTestServer(t)
	rec, resp := doJSON(t, s.Handler(), http.MethodGet, "/v1/jobs/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "not_found" {
		t.Errorf("error = %+v, want not_found", resp.Error)
	}
}

func TestNewServerMissingWordlist(t *testing.T) {
	_, err := NewServer(Config{WordlistDir: t.TempDir()})
	if !errors.Is(err, wordlist.ErrWordlistNotFound) {
		t.Errorf("NewServer = %v, want ErrWordlistNotFound", err)
	}
}
