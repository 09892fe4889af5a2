package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sahilm/fuzzy"
)

// DefaultManifestURL is the upstream version catalog
const DefaultManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

// Version aliases accepted wherever a version id is
const (
	AliasLatestRelease  = "latest-release"
	AliasLatestSnapshot = "latest-snapshot"
)

const maxSuggestions = 5

// VersionCatalog is the upstream list of installable versions
type VersionCatalog struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []CatalogEntry `json:"versions"`
}

type CatalogEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	SHA1        string    `json:"sha1,omitempty"`
	Time        time.Time `json:"time"`
	ReleaseTime time.Time `json:"releaseTime"`
}

// FetchCatalog downloads and parses the version catalog at url
func FetchCatalog(ctx context.Context, client *http.Client, url string) (VersionCatalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	data, err := GetWithUA(ctx, client, url, "application/json")
	if err != nil {
		return VersionCatalog{}, err
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a catalog document, sorting versions from newest to oldest
func ParseCatalog(data []byte) (VersionCatalog, error) {
	var out VersionCatalog
	if err := json.Unmarshal(data, &out); err != nil {
		return VersionCatalog{}, fmt.Errorf("failed to parse version catalog: %v: %w", err, ErrParse)
	}
	sort.SliceStable(out.Versions, func(i, j int) bool {
		return out.Versions[i].ReleaseTime.After(out.Versions[j].ReleaseTime)
	})
	return out, nil
}

// IsAlias reports whether id names a moving target rather than a concrete version
func IsAlias(id string) bool {
	return id == AliasLatestRelease || id == AliasLatestSnapshot
}

// ResolveAlias maps the latest-release and latest-snapshot aliases onto concrete ids
func (c VersionCatalog) ResolveAlias(id string) string {
	switch id {
	case AliasLatestRelease:
		if c.Latest.Release != "" {
			return c.Latest.Release
		}
	case AliasLatestSnapshot:
		if c.Latest.Snapshot != "" {
			return c.Latest.Snapshot
		}
	}
	return id
}

// Find returns the catalog entry with the given id
func (c VersionCatalog) Find(id string) (CatalogEntry, bool) {
	for _, v := range c.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return CatalogEntry{}, false
}

// Filter returns the entries of the given type (release, snapshot, old_beta, old_alpha); an empty type matches all
func (c VersionCatalog) Filter(versionType string) []CatalogEntry {
	if versionType == "" {
		return c.Versions
	}
	var out []CatalogEntry
	for _, v := range c.Versions {
		if v.Type == versionType {
			out = append(out, v)
		}
	}
	return out
}

// Suggest returns catalog ids similar to id, best match first
func (c VersionCatalog) Suggest(id string) []string {
	ids := make([]string, len(c.Versions))
	for i, v := range c.Versions {
		ids[i] = v.ID
	}
	matches := fuzzy.Find(id, ids)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
