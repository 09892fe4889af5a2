package core

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func detectOSVersion() string {
	info := windows.RtlGetVersion()
	if info == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", info.MajorVersion, info.MinorVersion)
}
