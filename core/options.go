package core

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Defaults filled in for options that are not overridden
const (
	DefaultUsername         = "Player"
	DefaultUUID             = "00000000-0000-0000-0000-000000000000"
	DefaultAccessToken      = "0"
	DefaultLauncherName     = "launchwiz"
	DefaultLauncherVersion  = "1.0"
	DefaultResolutionWidth  = 854
	DefaultResolutionHeight = 480
	DefaultJavaExecutable   = "java"
)

// FeatureCustomResolution is the feature flag guarding the resolution arguments
const FeatureCustomResolution = "has_custom_resolution"

// RuntimeOptions are the per-launch values substituted into the command line.
// The access token is opaque and passed through unchanged.
type RuntimeOptions struct {
	Username         string       `toml:"username,omitempty" mapstructure:"username"`
	UUID             string       `toml:"uuid,omitempty" mapstructure:"uuid"`
	AccessToken      string       `toml:"access-token,omitempty" mapstructure:"access-token"`
	LauncherName     string       `toml:"launcher-name,omitempty" mapstructure:"launcher-name"`
	LauncherVersion  string       `toml:"launcher-version,omitempty" mapstructure:"launcher-version"`
	GameDir          string       `toml:"game-dir,omitempty" mapstructure:"game-dir"`
	NativesDir       string       `toml:"natives-dir,omitempty" mapstructure:"natives-dir"`
	ResolutionWidth  int          `toml:"resolution-width,omitempty" mapstructure:"resolution-width"`
	ResolutionHeight int          `toml:"resolution-height,omitempty" mapstructure:"resolution-height"`
	JavaExecutable   string       `toml:"java-executable,omitempty" mapstructure:"java-executable"`
	Features         FeatureFlags `toml:"features,omitempty" mapstructure:"features"`
}

// DefaultRuntimeOptions returns the options used for launching id from store when nothing is overridden
func DefaultRuntimeOptions(store *Store, id string) RuntimeOptions {
	return RuntimeOptions{
		Username:         DefaultUsername,
		UUID:             DefaultUUID,
		AccessToken:      DefaultAccessToken,
		LauncherName:     DefaultLauncherName,
		LauncherVersion:  DefaultLauncherVersion,
		GameDir:          store.Root,
		NativesDir:       store.Abs(store.NativesPath(id)),
		ResolutionWidth:  DefaultResolutionWidth,
		ResolutionHeight: DefaultResolutionHeight,
		JavaExecutable:   DefaultJavaExecutable,
		Features:         FeatureFlags{FeatureCustomResolution: true},
	}
}

// WithOverrides returns a copy of o with every non-empty field of over applied.
// Feature flags are merged key by key.
func (o RuntimeOptions) WithOverrides(over RuntimeOptions) RuntimeOptions {
	out := o
	setString(&out.Username, over.Username)
	setString(&out.UUID, over.UUID)
	setString(&out.AccessToken, over.AccessToken)
	setString(&out.LauncherName, over.LauncherName)
	setString(&out.LauncherVersion, over.LauncherVersion)
	setString(&out.GameDir, over.GameDir)
	setString(&out.NativesDir, over.NativesDir)
	setString(&out.JavaExecutable, over.JavaExecutable)
	if over.ResolutionWidth > 0 {
		out.ResolutionWidth = over.ResolutionWidth
	}
	if over.ResolutionHeight > 0 {
		out.ResolutionHeight = over.ResolutionHeight
	}
	if len(over.Features) > 0 {
		merged := make(FeatureFlags, len(o.Features)+len(over.Features))
		for k, v := range o.Features {
			merged[k] = v
		}
		for k, v := range over.Features {
			merged[k] = v
		}
		out.Features = merged
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// OptionsFromMap decodes loosely typed key/value input (configuration trees, query parameters)
// into RuntimeOptions. Unknown keys are ignored.
func OptionsFromMap(m map[string]interface{}) (RuntimeOptions, error) {
	var out RuntimeOptions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return RuntimeOptions{}, err
	}
	if err := dec.Decode(m); err != nil {
		return RuntimeOptions{}, fmt.Errorf("invalid launch options: %w", err)
	}
	return out, nil
}
