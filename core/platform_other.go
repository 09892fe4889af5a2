//go:build !windows && !darwin && !linux

package core

// Stub version, so that detectOSVersion exists
func detectOSVersion() string {
	return ""
}
