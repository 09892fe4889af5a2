package core

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// DefaultResourcesURL is the upstream host of asset objects
const DefaultResourcesURL = "https://resources.download.minecraft.net"

// AssetIndex lists the asset objects of a version by logical name
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
	// Virtual and MapToResources are set by legacy indexes
	Virtual        bool `json:"virtual,omitempty"`
	MapToResources bool `json:"map_to_resources,omitempty"`
}

type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// ParseAssetIndex parses an asset index document, validating every object hash
func ParseAssetIndex(data []byte) (AssetIndex, error) {
	var idx AssetIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return AssetIndex{}, fmt.Errorf("failed to parse asset index: %v: %w", err, ErrParse)
	}
	for name, obj := range idx.Objects {
		if !validHash(obj.Hash) {
			return AssetIndex{}, fmt.Errorf("asset %s has invalid hash %q: %w", name, obj.Hash, ErrParse)
		}
	}
	return idx, nil
}

// DistinctObjects returns the index's objects deduplicated by hash, ordered by hash
func (idx AssetIndex) DistinctObjects() []AssetObject {
	seen := make(map[string]AssetObject, len(idx.Objects))
	for _, obj := range idx.Objects {
		seen[obj.Hash] = obj
	}
	out := make([]AssetObject, 0, len(seen))
	for _, obj := range seen {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Hash < out[j].Hash
	})
	return out
}

func validHash(h string) bool {
	if len(h) < 2 {
		return false
	}
	for _, c := range h {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func (s *Store) loadAssetIndex(name string) (AssetIndex, error) {
	f, err := s.FS.Open(s.AssetIndexPath(name))
	if err != nil {
		return AssetIndex{}, fmt.Errorf("failed to open asset index %s: %w", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return AssetIndex{}, fmt.Errorf("failed to read asset index %s: %w", name, err)
	}
	return ParseAssetIndex(data)
}
