package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a version is missing from the catalog, or a referenced local file is missing
	ErrNotFound = errors.New("not found")
	// ErrParse indicates a malformed descriptor, catalog or asset index document
	ErrParse = errors.New("parse error")
	// ErrChecksumMismatch indicates downloaded bytes failed integrity verification
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrTransport indicates a network failure or an unsuccessful HTTP response
	ErrTransport = errors.New("transport error")
	// ErrExtraction indicates a native archive could not be unpacked
	ErrExtraction = errors.New("extraction error")
	// ErrUnsupportedFeature indicates a feature flag was enabled that launch commands cannot honour
	ErrUnsupportedFeature = errors.New("unsupported feature")
)

// ChecksumError provides details about a checksum verification failure. It wraps ErrChecksumMismatch.
type ChecksumError struct {
	Path     string
	Expected string
	Got      string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("sha1 mismatch for %s (expected %s, got %s)", e.Path, e.Expected, e.Got)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// TransportError is returned when a download fails, either in the transport or with a non-2xx status
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to download %s: invalid response status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// VersionNotFoundError is returned when a requested version is absent from the version catalog.
// It wraps ErrNotFound.
type VersionNotFoundError struct {
	ID string
	// Suggestions holds similarly named catalog versions, best match first
	Suggestions []string
}

func (e *VersionNotFoundError) Error() string {
	msg := fmt.Sprintf("version %s not found", e.ID)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *VersionNotFoundError) Unwrap() error { return ErrNotFound }
