package entities

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is a build target platform.
type Platform int

// Supported target platforms.
const (
	PlatformLinux Platform = iota
	PlatformDarwin
	PlatformWindows
	PlatformAndroid
	PlatformPi
)

// SupportedPlatforms lists every platform in its canonical display order.
var SupportedPlatforms = []Platform{
	PlatformLinux,
	PlatformDarwin,
	PlatformWindows,
	PlatformAndroid,
	PlatformPi,
}

// String returns the platform name as accepted on the command line.
func (p Platform) String() string {
	switch p {
	case PlatformLinux:
		return "Linux"
	case PlatformDarwin:
		return "Darwin"
	case PlatformWindows:
		return "Windows"
	case PlatformAndroid:
		return "Android"
	case PlatformPi:
		return "Pi"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// StandardName returns the project-standard platform directory name
// (macos, win32, linux). Windows is win32 even for 64-bit builds.
func (p Platform) StandardName() string {
	switch p {
	case PlatformDarwin:
		return "macos"
	case PlatformWindows:
		return "win32"
	case PlatformLinux:
		return "linux"
	case PlatformAndroid:
		return "android"
	case PlatformPi:
		return "pi"
	default:
		return strings.ToLower(p.String())
	}
}

// DistName returns the platform tag used in distribution staging paths
// (win32_x64, darwin_x64, linux_x86).
func (p Platform) DistName() (string, error) {
	switch p {
	case PlatformWindows:
		return "win32", nil
	case PlatformDarwin:
		return "darwin", nil
	case PlatformLinux:
		return "linux", nil
	case PlatformAndroid, PlatformPi:
		return "", NewEnvironmentError("no distribution support for platform %s", p)
	default:
		return "", NewEnvironmentError("unknown platform %d", int(p))
	}
}

// ParsePlatform resolves a platform name, ignoring case.
func ParsePlatform(name string) (Platform, error) {
	for _, p := range SupportedPlatforms {
		if strings.EqualFold(p.String(), name) {
			return p, nil
		}
	}
	lines := make([]string, 0, len(SupportedPlatforms))
	for _, p := range SupportedPlatforms {
		lines = append(lines, "\t"+p.String())
	}
	return 0, NewEnvironmentError("Invalid --platform: %s.  Valid choices are:\n%s", name, strings.Join(lines, "\n"))
}

// HostPlatform maps the running operating system onto a Platform.
func HostPlatform() (Platform, error) {
	return platformForGOOS(runtime.GOOS)
}

func platformForGOOS(goos string) (Platform, error) {
	switch goos {
	case "linux":
		return PlatformLinux, nil
	case "darwin":
		return PlatformDarwin, nil
	case "windows":
		return PlatformWindows, nil
	default:
		return ParsePlatform(goos)
	}
}

// Arch is a platform-independent target architecture.
type Arch int

// Supported architectures.
const (
	ArchX86 Arch = iota
	ArchX64
	ArchARMv7a
)

// String returns the standardized architecture string.
func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX64:
		return "x64"
	case ArchARMv7a:
		return "armv7a"
	default:
		return fmt.Sprintf("Arch(%d)", int(a))
	}
}

// Bits returns the pointer width used in artifact names.
func (a Arch) Bits() int {
	if a == ArchX64 {
		return 64
	}
	return 32
}

// ParseArch resolves one of the general-purpose architectures (x86, x64).
func ParseArch(name string) (Arch, error) {
	switch name {
	case "x86":
		return ArchX86, nil
	case "", "x64":
		return ArchX64, nil
	default:
		return 0, NewValidationError("Invalid architecture: %s", name)
	}
}

// ResolveArch applies the platform override: Pi always builds armv7a.
func ResolveArch(p Platform, name string) (Arch, error) {
	if p == PlatformPi {
		return ArchARMv7a, nil
	}
	return ParseArch(name)
}
