package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedRequest is returned when a request document cannot be decoded
// or lacks a required field.
var ErrMalformedRequest = errors.New("malformed request")

// Request is the entry-point document naming the file to obfuscate and the
// fields to mask.
type Request struct {
	FileToObfuscate string   `json:"file_to_obfuscate"`
	PIIFields       []string `json:"pii_fields"`
}

// DecodeRequest parses a request document.
// An empty pii_fields list is valid; a missing one is not.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if req.FileToObfuscate == "" {
		return Request{}, fmt.Errorf("%w: file_to_obfuscate is required", ErrMalformedRequest)
	}
	if req.PIIFields == nil {
		return Request{}, fmt.Errorf("%w: pii_fields is required", ErrMalformedRequest)
	}
	return req, nil
}

// Location parses the file_to_obfuscate field.
func (r Request) Location() Location {
	return ParseLocation(r.FileToObfuscate)
}
