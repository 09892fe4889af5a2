package core

import (
	"runtime"
	"strings"
)

// Platform names, as used by descriptor rules and native classifier maps
const (
	PlatformWindows = "windows"
	PlatformOSX     = "osx"
	PlatformLinux   = "linux"
	PlatformUnknown = "unknown"
)

// Platform describes the machine a version is installed for or launched on. It is passed
// explicitly to everything that filters on it, so any platform can be simulated.
type Platform struct {
	// Name is one of the Platform* constants
	Name string
	// Arch is the normalised architecture (x86, x86_64, arm32, arm64)
	Arch string
	// Version is the OS version string matched by os.version rule constraints; may be empty
	Version string
}

// DetectPlatform returns the Platform of the running process
func DetectPlatform() Platform {
	return Platform{
		Name:    NormalizePlatformName(runtime.GOOS),
		Arch:    NormalizeArch(runtime.GOARCH),
		Version: detectOSVersion(),
	}
}

// NormalizePlatformName maps an OS identifier onto the fixed set of platform names
func NormalizePlatformName(goos string) string {
	switch strings.ToLower(goos) {
	case "windows":
		return PlatformWindows
	case "darwin", "osx", "macos":
		return PlatformOSX
	case "linux":
		return PlatformLinux
	}
	return PlatformUnknown
}

// NormalizeArch maps a Go architecture name onto the names used in os.arch rule constraints
func NormalizeArch(goarch string) string {
	switch strings.ToLower(goarch) {
	case "386", "x86":
		return "x86"
	case "amd64", "x86_64":
		return "x86_64"
	case "arm", "arm32":
		return "arm32"
	case "arm64", "aarch64":
		return "arm64"
	}
	return goarch
}

// ArchBits returns the value substituted for ${arch} in native classifiers
func (p Platform) ArchBits() string {
	if p.Arch == "x86" || p.Arch == "arm32" {
		return "32"
	}
	return "64"
}

// ClasspathSeparator returns the separator used when joining a classpath for this platform
func (p Platform) ClasspathSeparator() string {
	if p.Name == PlatformWindows {
		return ";"
	}
	return ":"
}
