package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/go-hclog"
)

// UserAgent is sent with every request made by launchwiz
const UserAgent = "packwiz/launchwiz"

// Fetcher downloads files into a filesystem, verifying their SHA-1 digest. A file that is
// already present with a matching digest is never downloaded again.
type Fetcher struct {
	FS     billy.Filesystem
	Client *http.Client
	Logger hclog.Logger
}

// NewFetcher returns a Fetcher writing into fs. A nil client uses http.DefaultClient.
func NewFetcher(fs billy.Filesystem, client *http.Client, logger hclog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Fetcher{FS: fs, Client: client, Logger: logger}
}

// Fetch ensures that dest holds the content at url. If sha1 is non-empty, the content must
// match it; a mismatching download leaves nothing at dest.
func (f *Fetcher) Fetch(ctx context.Context, url string, dest string, sha1 string) error {
	if err := f.FS.MkdirAll(path.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	if f.isCurrent(dest, sha1) {
		return nil
	}

	data, err := GetWithUA(ctx, f.Client, url, "")
	if err != nil {
		return err
	}
	if sha1 != "" {
		got := HashBytes(data)
		if !HashMatches(sha1, got) {
			// A stale file with the wrong content must not survive as installed
			if err := f.FS.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
				f.Logger.Warn("failed to remove stale file", "path", dest, "error", err)
			}
			return &ChecksumError{Path: dest, Expected: sha1, Got: got}
		}
	}
	if err := f.writeAtomic(dest, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	f.Logger.Debug("downloaded file", "url", url, "dest", dest, "size", len(data))
	return nil
}

func (f *Fetcher) isCurrent(dest string, sha1 string) bool {
	info, err := f.FS.Stat(dest)
	if err != nil || info.IsDir() {
		return false
	}
	if sha1 == "" {
		return true
	}
	got, err := HashFile(f.FS, dest)
	if err != nil {
		f.Logger.Warn("failed to hash existing file, downloading again", "path", dest, "error", err)
		return false
	}
	if !HashMatches(sha1, got) {
		f.Logger.Debug("existing file has wrong checksum, downloading again", "path", dest)
		return false
	}
	return true
}

// GetWithUA performs a GET request carrying the launchwiz User-Agent and returns the body.
// An empty accept leaves the Accept header unset. Failures are returned as *TransportError.
func GetWithUA(ctx context.Context, client *http.Client, url string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	return data, nil
}

// writeAtomic writes data next to dest and renames it into place
func (f *Fetcher) writeAtomic(dest string, data []byte) error {
	tmp, err := util.TempFile(f.FS, path.Dir(dest), ".download-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = f.FS.Remove(tmpName)
		return err
	}
	if err := f.FS.Rename(tmpName, dest); err != nil {
		_ = f.FS.Remove(tmpName)
		return err
	}
	return nil
}
