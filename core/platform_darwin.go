package core

import "golang.org/x/sys/unix"

func detectOSVersion() string {
	// The product version (e.g. 14.1), not the Darwin kernel version
	version, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		return ""
	}
	return version
}
