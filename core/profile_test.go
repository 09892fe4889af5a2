package core

import (
	"errors"
	"testing"
)

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore()
	profile, err := LoadProfile(s)
	if err != nil {
		t.Fatal(err)
	}
	if profile.Launch.Username != "" {
		t.Error("a missing profile should be empty")
	}

	profile.Launch.Username = "Steve"
	profile.Launch.ResolutionWidth = 1280
	if err := profile.Write(); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadProfile(s)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Launch.Username != "Steve" || loaded.Launch.ResolutionWidth != 1280 {
		t.Errorf("unexpected profile %+v", loaded.Launch)
	}
}

func TestLoadProfileInvalid(t *testing.T) {
	s := newTestStore()
	writeFile(t, s, ProfileFile, []byte("launch = ["))
	if _, err := LoadProfile(s); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
