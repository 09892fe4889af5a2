package core

import "strings"

// FilterLibraries returns the libraries whose rules allow them on the platform, in order
func FilterLibraries(libs []Library, p Platform) []Library {
	var out []Library
	for _, lib := range libs {
		if lib.Rules.Allowed(p, nil) {
			out = append(out, lib)
		}
	}
	return out
}

// BuildClasspath returns the absolute paths of the main jars of every library allowed on the
// platform, in descriptor order, followed by the version's client archive
func BuildClasspath(desc VersionDescriptor, store *Store, p Platform) ([]string, error) {
	var paths []string
	for _, lib := range FilterLibraries(desc.Libraries, p) {
		// The URL doesn't matter here, only the path
		artifact, ok, err := lib.MainArtifact(DefaultLibrariesURL)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		paths = append(paths, store.Abs(store.LibraryPath(artifact.Path)))
	}
	paths = append(paths, store.Abs(store.VersionJarPath(desc.ID)))
	return paths, nil
}

// JoinClasspath joins classpath entries with the platform's separator
func JoinClasspath(paths []string, p Platform) string {
	return strings.Join(paths, p.ClasspathSeparator())
}
