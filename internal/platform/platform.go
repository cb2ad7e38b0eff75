package platform

import "runtime"

// Platform classifies the host into the closed set of platforms the bootstrap
// knows how to provision. Unknown is a valid member, not an error: steps with
// a platform-independent fallback still run on an unknown platform.
type Platform string

const (
	Linux   Platform = "linux"
	MacOS   Platform = "macos"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

// Detect classifies the current host. It is a pure function of the build-time
// OS identifier: it never fails and always returns exactly one member of the
// enum, falling back to Unknown for anything unrecognized.
func Detect() Platform {
	return detect(runtime.GOOS)
}

// detect is the testable core of Detect, keyed on a GOOS string.
func detect(goos string) Platform {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// Known reports whether the platform is one of the recognized members.
// Callers use this to fail platform-specific steps that have no generic
// fallback, while still letting fallback-capable steps proceed.
func (p Platform) Known() bool {
	return p == Linux || p == MacOS || p == Windows
}

func (p Platform) String() string {
	return string(p)
}
