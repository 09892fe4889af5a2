package core

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Store is an install root: the directory tree holding versions, libraries and assets.
// Paths passed to FS are slash-separated and relative to the root.
type Store struct {
	Root string
	FS   billy.Filesystem
}

// NewStore returns a Store backed by the OS filesystem at root
func NewStore(root string) *Store {
	return &Store{Root: root, FS: osfs.New(root)}
}

// NewStoreWithFS returns a Store over an arbitrary filesystem; root is only used to build
// the absolute paths handed to the launched process
func NewStoreWithFS(root string, fs billy.Filesystem) *Store {
	return &Store{Root: root, FS: fs}
}

func (s *Store) VersionDir(id string) string {
	return path.Join("versions", id)
}

func (s *Store) VersionJSONPath(id string) string {
	return path.Join("versions", id, id+".json")
}

func (s *Store) VersionJarPath(id string) string {
	return path.Join("versions", id, id+".jar")
}

func (s *Store) NativesPath(id string) string {
	return path.Join("versions", id, "natives")
}

// LibraryPath maps a repository-relative artifact path into the libraries directory
func (s *Store) LibraryPath(artifactPath string) string {
	return path.Join("libraries", artifactPath)
}

func (s *Store) LibrariesDir() string {
	return "libraries"
}

func (s *Store) AssetsDir() string {
	return "assets"
}

func (s *Store) AssetIndexPath(name string) string {
	return path.Join("assets", "indexes", name+".json")
}

// AssetObjectPath returns the content-addressed location of an asset object
func (s *Store) AssetObjectPath(hash string) string {
	return path.Join("assets", "objects", hash[:2], hash)
}

// Abs converts a store-relative path into an absolute OS path under Root
func (s *Store) Abs(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// Exists reports whether a regular file exists at the store-relative path
func (s *Store) Exists(rel string) (bool, error) {
	info, err := s.FS.Stat(rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// InstalledVersions lists the ids that have a descriptor under versions/
func (s *Store) InstalledVersions() ([]string, error) {
	entries, err := s.FS.ReadDir("versions")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ok, err := s.Exists(s.VersionJSONPath(e.Name()))
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// Dependents returns the installed versions whose descriptor inherits directly from id
func (s *Store) Dependents(id string) ([]string, error) {
	ids, err := s.InstalledVersions()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, other := range ids {
		if other == id {
			continue
		}
		desc, err := s.LoadVersion(other)
		if err != nil {
			// Unreadable descriptors can't inherit from anything
			continue
		}
		if desc.InheritsFrom == id {
			out = append(out, other)
		}
	}
	return out, nil
}

// RemoveVersion deletes the version directory of id. Libraries and assets are shared between
// versions and are left in place. Versions that other installed versions inherit from are not removed.
func (s *Store) RemoveVersion(id string) error {
	exists, err := s.Exists(s.VersionJSONPath(id))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("version %s: %w", id, ErrNotFound)
	}
	dependents, err := s.Dependents(id)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		return fmt.Errorf("version %s is required by %v", id, dependents)
	}
	if err := util.RemoveAll(s.FS, s.VersionDir(id)); err != nil {
		return fmt.Errorf("failed to remove version %s: %w", id, err)
	}
	return nil
}
