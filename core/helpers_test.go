package core

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jarcoal/httpmock"
)

// newTestStore is backed by memfs, which must only be used from one goroutine
func newTestStore() *Store {
	return NewStoreWithFS("/mc", memfs.New())
}

// newDiskStore is safe for concurrent installs
func newDiskStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func newMockClient() (*http.Client, *httpmock.MockTransport) {
	transport := httpmock.NewMockTransport()
	return &http.Client{Transport: transport}, transport
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func writeFile(t *testing.T, s *Store, name string, data []byte) {
	t.Helper()
	if err := util.WriteFile(s.FS, name, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, s *Store, name string) []byte {
	t.Helper()
	data, err := util.ReadFile(s.FS, name)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func writeDescriptor(t *testing.T, s *Store, desc VersionDescriptor) {
	t.Helper()
	writeFile(t, s, s.VersionJSONPath(desc.ID), mustJSON(t, desc))
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
