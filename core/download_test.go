package core

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
)

const testURL = "https://example.com/files/lib.jar"

func TestFetchSkipsValidFile(t *testing.T) {
	s := newTestStore()
	client, transport := newMockClient()
	transport.RegisterResponder("GET", testURL, httpmock.NewStringResponder(200, "content"))
	f := NewFetcher(s.FS, client, nil)

	if err := f.Fetch(context.Background(), testURL, "libraries/lib.jar", HashBytes([]byte("content"))); err != nil {
		t.Fatal(err)
	}
	if err := f.Fetch(context.Background(), testURL, "libraries/lib.jar", HashBytes([]byte("content"))); err != nil {
		t.Fatal(err)
	}
	if n := transport.GetTotalCallCount(); n != 1 {
		t.Errorf("expected a single download, got %d", n)
	}
}

func TestFetchWithoutChecksumTrustsExistingFile(t *testing.T) {
	s := newTestStore()
	client, transport := newMockClient()
	writeFile(t, s, "versions/x/x.json", []byte("anything"))

	if err := NewFetcher(s.FS, client, nil).Fetch(context.Background(), testURL, "versions/x/x.json", ""); err != nil {
		t.Fatal(err)
	}
	if n := transport.GetTotalCallCount(); n != 0 {
		t.Errorf("expected no downloads, got %d", n)
	}
}

func TestFetchReplacesCorruptedFile(t *testing.T) {
	s := newTestStore()
	client, transport := newMockClient()
	transport.RegisterResponder("GET", testURL, httpmock.NewStringResponder(200, "good bytes"))
	writeFile(t, s, "libraries/lib.jar", []byte("corrupted"))

	want := HashBytes([]byte("good bytes"))
	if err := NewFetcher(s.FS, client, nil).Fetch(context.Background(), testURL, "libraries/lib.jar", want); err != nil {
		t.Fatal(err)
	}
	got, err := HashFile(s.FS, "libraries/lib.jar")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("file hash is %s, expected %s", got, want)
	}
	if n := transport.GetTotalCallCount(); n != 1 {
		t.Errorf("expected one download, got %d", n)
	}
}

func TestFetchChecksumMismatch(t *testing.T) {
	s := newTestStore()
	client, transport := newMockClient()
	transport.RegisterResponder("GET", testURL, httpmock.NewStringResponder(200, "tampered"))

	err := NewFetcher(s.FS, client, nil).Fetch(context.Background(), testURL, "libraries/lib.jar", HashBytes([]byte("original")))
	var checksumErr *ChecksumError
	if !errors.As(err, &checksumErr) || !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected checksum error, got %v", err)
	}
	if ok, _ := s.Exists("libraries/lib.jar"); ok {
		t.Error("mismatching download must not be left in place")
	}
	entries, err := s.FS.ReadDir("libraries")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no leftover files, found %d", len(entries))
	}
}

func TestFetchChecksumIsCaseInsensitive(t *testing.T) {
	s := newTestStore()
	client, transport := newMockClient()
	transport.RegisterResponder("GET", testURL, httpmock.NewStringResponder(200, "content"))

	upper := strings.ToUpper(HashBytes([]byte("content")))
	if err := NewFetcher(s.FS, client, nil).Fetch(context.Background(), testURL, "a/b", upper); err != nil {
		t.Fatal(err)
	}
}

func TestFetchTransportErrors(t *testing.T) {
	s := newTestStore()
	client, transport := newMockClient()
	transport.RegisterResponder("GET", testURL, httpmock.NewStringResponder(404, "not found"))

	err := NewFetcher(s.FS, client, nil).Fetch(context.Background(), testURL, "a/b", "")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) || transportErr.StatusCode != 404 {
		t.Fatalf("expected transport error with status 404, got %v", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Error("transport error should wrap ErrTransport")
	}

	transport.RegisterResponder("GET", testURL, httpmock.NewErrorResponder(errors.New("connection reset")))
	err = NewFetcher(s.FS, client, nil).Fetch(context.Background(), testURL, "a/b", "")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestGetWithUASendsHeaders(t *testing.T) {
	client, transport := newMockClient()
	transport.RegisterResponder("GET", testURL, func(req *http.Request) (*http.Response, error) {
		if ua := req.Header.Get("User-Agent"); ua != UserAgent {
			t.Errorf("User-Agent is %q, expected %q", ua, UserAgent)
		}
		if accept := req.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept is %q, expected application/json", accept)
		}
		return httpmock.NewStringResponse(200, "body"), nil
	})

	data, err := GetWithUA(context.Background(), client, testURL, "application/json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "body" {
		t.Errorf("body is %q", data)
	}

	transport.RegisterResponder("GET", testURL, httpmock.NewStringResponder(503, "unavailable"))
	_, err = GetWithUA(context.Background(), client, testURL, "")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) || transportErr.StatusCode != 503 {
		t.Errorf("expected transport error with status 503, got %v", err)
	}
}
