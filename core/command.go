package core

import (
	"fmt"
	"strconv"
	"strings"
)

// UserType is the account type passed to the game
const UserType = "msa"

func placeholderReplacer(desc VersionDescriptor, opts RuntimeOptions, classpath string, store *Store, p Platform) *strings.Replacer {
	return strings.NewReplacer(
		"${natives_directory}", opts.NativesDir,
		"${launcher_name}", opts.LauncherName,
		"${launcher_version}", opts.LauncherVersion,
		"${classpath}", classpath,
		"${auth_player_name}", opts.Username,
		"${version_name}", desc.ID,
		"${game_directory}", opts.GameDir,
		"${assets_root}", store.Abs(store.AssetsDir()),
		"${assets_index_name}", desc.Assets,
		"${auth_uuid}", opts.UUID,
		"${auth_access_token}", opts.AccessToken,
		"${auth_session}", opts.AccessToken,
		"${user_type}", UserType,
		"${version_type}", desc.Type,
		"${user_properties}", "{}",
		"${resolution_width}", strconv.Itoa(opts.ResolutionWidth),
		"${resolution_height}", strconv.Itoa(opts.ResolutionHeight),
		"${library_directory}", store.Abs(store.LibrariesDir()),
		"${classpath_separator}", p.ClasspathSeparator(),
	)
}

// SynthesizeCommand builds the launch command line of a resolved descriptor: the java executable,
// the JVM arguments, the main class and the game arguments. Placeholders are substituted in a single
// pass; unknown placeholders are left as they are.
func SynthesizeCommand(desc VersionDescriptor, opts RuntimeOptions, classpath []string, store *Store, p Platform) []string {
	cp := JoinClasspath(classpath, p)
	r := placeholderReplacer(desc, opts, cp, store, p)

	java := opts.JavaExecutable
	if java == "" {
		java = DefaultJavaExecutable
	}
	cmd := []string{java}

	if desc.Arguments != nil && len(desc.Arguments.JVM) > 0 {
		cmd = append(cmd, expandArguments(desc.Arguments.JVM, r, p, opts.Features)...)
	} else {
		cmd = append(cmd, "-Djava.library.path="+opts.NativesDir, "-cp", cp)
	}

	cmd = append(cmd, desc.MainClass)

	if desc.Arguments != nil && len(desc.Arguments.Game) > 0 {
		cmd = append(cmd, expandArguments(desc.Arguments.Game, r, p, opts.Features)...)
	} else if desc.MinecraftArguments != "" {
		// Tokens containing spaces after substitution are split too
		cmd = append(cmd, strings.Split(r.Replace(desc.MinecraftArguments), " ")...)
	}
	return cmd
}

func expandArguments(items []ArgumentItem, r *strings.Replacer, p Platform, features FeatureFlags) []string {
	var out []string
	for _, item := range items {
		if !item.Rules.Allowed(p, features) {
			continue
		}
		for _, v := range item.Value {
			out = append(out, r.Replace(v))
		}
	}
	return out
}

// GetLaunchCommand resolves an installed version and returns its launch command line, with
// overrides applied on top of the default options
func GetLaunchCommand(store *Store, p Platform, id string, overrides RuntimeOptions) ([]string, error) {
	desc, err := store.ResolveVersion(id)
	if err != nil {
		return nil, err
	}
	opts := DefaultRuntimeOptions(store, desc.ID).WithOverrides(overrides)
	if opts.Features[FeatureDemoUser] {
		return nil, fmt.Errorf("feature %s: %w", FeatureDemoUser, ErrUnsupportedFeature)
	}
	classpath, err := BuildClasspath(desc, store, p)
	if err != nil {
		return nil, err
	}
	return SynthesizeCommand(desc, opts, classpath, store, p), nil
}
