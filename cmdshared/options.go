package cmdshared

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/packwiz/launchwiz/core"
	"github.com/spf13/viper"
)

// LaunchOptionKeys are the launch.* configuration keys mapped onto core.RuntimeOptions
var LaunchOptionKeys = []string{
	"username", "uuid", "access-token", "launcher-name", "launcher-version",
	"game-dir", "natives-dir", "resolution-width", "resolution-height", "java-executable",
}

// LaunchOverrides reads launch option overrides from the launch.* keys of the
// configuration file, environment and flags
func LaunchOverrides() (core.RuntimeOptions, error) {
	m := make(map[string]interface{})
	for _, k := range LaunchOptionKeys {
		if viper.IsSet("launch." + k) {
			m[k] = viper.Get("launch." + k)
		}
	}
	if viper.IsSet("launch.features") {
		m["features"] = viper.GetStringMap("launch.features")
	}
	return core.OptionsFromMap(m)
}

// EffectiveOverrides layers configured overrides on top of the install root's profile
func EffectiveOverrides(profile core.Profile) (core.RuntimeOptions, error) {
	configured, err := LaunchOverrides()
	if err != nil {
		return core.RuntimeOptions{}, err
	}
	return profile.Launch.WithOverrides(configured), nil
}

// NewStore opens the configured install root. The root is made absolute so that the
// paths in launch commands do not depend on the working directory.
func NewStore() (*core.Store, error) {
	root, err := filepath.Abs(viper.GetString("install-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve install directory: %w", err)
	}
	return core.NewStore(root), nil
}

// NewInstaller returns an installer for store using the configured endpoints and concurrency
func NewInstaller(store *core.Store, platform core.Platform, logger hclog.Logger) *core.Installer {
	return core.NewInstaller(store, platform,
		core.WithEndpoints(Endpoints()),
		core.WithConcurrency(viper.GetInt("concurrency")),
		core.WithLogger(logger),
	)
}

// Endpoints returns the configured upstream hosts
func Endpoints() core.Endpoints {
	return core.Endpoints{
		ManifestURL:  viper.GetString("manifest-url"),
		LibrariesURL: viper.GetString("libraries-url"),
		ResourcesURL: viper.GetString("resources-url"),
	}
}
