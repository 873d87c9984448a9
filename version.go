package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// versionString describes the build for --version.
func versionString() string {
	version := "unknown"
	buildTime := "unknown"

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				buildTime = setting.Value
			}
		}
	}

	return fmt.Sprintf("ghusers %s (built %s, %s, %s/%s)", version, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
