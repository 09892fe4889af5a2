package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"
)

// LoadVersion reads and parses the descriptor of id from the store, without resolving its parent
func (s *Store) LoadVersion(id string) (VersionDescriptor, error) {
	f, err := s.FS.Open(s.VersionJSONPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return VersionDescriptor{}, fmt.Errorf("descriptor for version %s: %w", id, ErrNotFound)
		}
		return VersionDescriptor{}, fmt.Errorf("failed to open descriptor for version %s: %w", id, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return VersionDescriptor{}, fmt.Errorf("failed to read descriptor for version %s: %w", id, err)
	}
	return ParseVersion(data)
}

// ParseVersion parses a descriptor document
func ParseVersion(data []byte) (VersionDescriptor, error) {
	var desc VersionDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return VersionDescriptor{}, fmt.Errorf("failed to parse version descriptor: %v: %w", err, ErrParse)
	}
	if desc.ID == "" {
		return VersionDescriptor{}, fmt.Errorf("version descriptor has no id: %w", ErrParse)
	}
	return desc, nil
}

// ResolveVersion loads the descriptor of id and merges in its ancestors, all of which must
// already be present in the store. The result never has InheritsFrom set.
func (s *Store) ResolveVersion(id string) (VersionDescriptor, error) {
	return s.resolveVersion(id, nil)
}

func (s *Store) resolveVersion(id string, chain []string) (VersionDescriptor, error) {
	if slices.Contains(chain, id) {
		return VersionDescriptor{}, fmt.Errorf("inheritance cycle through version %s: %w", id, ErrParse)
	}
	desc, err := s.LoadVersion(id)
	if err != nil {
		return VersionDescriptor{}, err
	}
	if desc.InheritsFrom == "" {
		return desc, nil
	}
	parent, err := s.resolveVersion(desc.InheritsFrom, append(chain, id))
	if err != nil {
		return VersionDescriptor{}, fmt.Errorf("failed to resolve parent of %s: %w", id, err)
	}
	return MergeVersions(parent, desc), nil
}

// MergeVersions overlays child onto parent. Fields set on the child win; libraries and
// argument lists are concatenated with the parent's entries first. Neither input is modified.
func MergeVersions(parent VersionDescriptor, child VersionDescriptor) VersionDescriptor {
	merged := parent
	merged.InheritsFrom = ""
	merged.ID = child.ID
	if child.MainClass != "" {
		merged.MainClass = child.MainClass
	}
	if child.Type != "" {
		merged.Type = child.Type
	}
	if child.Assets != "" {
		merged.Assets = child.Assets
	}
	if child.MinecraftArguments != "" {
		merged.MinecraftArguments = child.MinecraftArguments
	}
	if child.Downloads != nil {
		merged.Downloads = child.Downloads
	}
	if child.AssetIndex != nil {
		merged.AssetIndex = child.AssetIndex
	}
	if child.JavaVersion != nil {
		merged.JavaVersion = child.JavaVersion
	}
	if child.ReleaseTime != "" {
		merged.ReleaseTime = child.ReleaseTime
	}
	if child.Time != "" {
		merged.Time = child.Time
	}

	merged.Libraries = append(slices.Clone(parent.Libraries), child.Libraries...)

	if parent.Arguments != nil || child.Arguments != nil {
		var p, c Arguments
		if parent.Arguments != nil {
			p = *parent.Arguments
		}
		if child.Arguments != nil {
			c = *child.Arguments
		}
		merged.Arguments = &Arguments{
			JVM:  append(append([]ArgumentItem{}, p.JVM...), c.JVM...),
			Game: append(append([]ArgumentItem{}, p.Game...), c.Game...),
		}
	}
	return merged
}
