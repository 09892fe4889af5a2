package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ProfileFile is the name of the profile file in an install root
const ProfileFile = "launcher.toml"

// Profile holds launch option overrides persisted in an install root
type Profile struct {
	Launch RuntimeOptions `toml:"launch"`
	store  *Store
}

// LoadProfile reads the profile of the store; a missing file gives an empty profile
func LoadProfile(store *Store) (Profile, error) {
	profile := Profile{store: store}
	f, err := store.FS.Open(ProfileFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return profile, nil
		}
		return Profile{}, err
	}
	defer f.Close()
	if _, err := toml.NewDecoder(f).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse %s: %v: %w", ProfileFile, err, ErrParse)
	}
	return profile, nil
}

// Write saves the profile back to its store
func (p Profile) Write() error {
	if p.store == nil {
		return errors.New("profile has no store")
	}
	f, err := p.store.FS.Create(ProfileFile)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	// Disable indentation
	enc.Indent = ""
	return enc.Encode(p)
}
