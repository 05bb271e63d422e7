package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ipv6poetry/poetrytools/core/ipv6"
	"github.com/ipv6poetry/poetrytools/core/poetry"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Timestamp string `json:"timestamp"`
}

// EncodeRequest is the body of POST /v1/encode.
type EncodeRequest struct {
	Address string `json:"address"`
}

// EncodeResult is the payload of a successful encode.
type EncodeResult struct {
	Address string   `json:"address"`
	Phrase  string   `json:"phrase"`
	Words   []string `json:"words"`
}

// DecodeRequest is the body of POST /v1/decode.
type DecodeRequest struct {
	Phrase string `json:"phrase"`
}

// DecodeResult is the payload of a successful decode. Warnings carry the
// recoverable diagnostics (unknown word, checksum mismatch); they never
// turn the response into an HTTP error.
type DecodeResult struct {
	Address  string              `json:"address"`
	Warnings []poetry.Diagnostic `json:"warnings,omitempty"`
}

// WordlistInfo is the payload of GET /v1/wordlist.
type WordlistInfo struct {
	Count        int    `json:"count"`
	Digest       string `json:"digest"`
	SizeMismatch bool   `json:"size_mismatch"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: status < http.StatusBadRequest,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	phrase, err := s.codec.Encode(req.Address)
	if err != nil {
		if errors.Is(err, ipv6.ErrInvalidAddress) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_address", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	s.hub.BroadcastEvent("encode", map[string]any{"address": req.Address})
	writeJSON(w, http.StatusOK, EncodeResult{
		Address: req.Address,
		Phrase:  phrase,
		Words:   strings.Fields(phrase),
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	addr, diags, err := s.codec.Decode(req.Phrase)
	if err != nil {
		if errors.Is(err, poetry.ErrInsufficientTokens) {
			writeError(w, http.StatusUnprocessableEntity, "insufficient_tokens", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	s.hub.BroadcastEvent("decode", map[string]any{"address": addr, "warnings": len(diags)})
	writeJSON(w, http.StatusOK, DecodeResult{Address: addr, Warnings: diags})
}

func (s *Server) handleWordlistInfo(w http.ResponseWriter, r *http.Request) {
	list := s.codec.List()
	writeJSON(w, http.StatusOK, WordlistInfo{
		Count:        list.Len(),
		Digest:       list.Digest(),
		SizeMismatch: list.SizeMismatch(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
