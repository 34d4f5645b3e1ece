package services

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

const ccachePrefix = "/usr/bin/ccache "

// piToolchainDir is relative to $SYSROOT.
const piToolchainDir = "/arm-bcm2708/gcc-linaro-arm-linux-gnueabihf-raspbian/bin/"

// Compiler returns the compiler command for a platform. Windows and Android
// drive their own toolchains and get an empty string.
func Compiler(p entities.Platform, cpp bool, cfg entities.BuildConfig, sysroot string) string {
	ccache := ""
	if cfg.UseCcache {
		ccache = ccachePrefix
	}

	switch p {
	case entities.PlatformDarwin:
		if cpp {
			return ccache + "/usr/bin/clang++"
		}
		return ccache + "/usr/bin/clang"
	case entities.PlatformLinux:
		if cfg.ForceClang {
			if cpp {
				return ccache + "/usr/bin/clang++"
			}
			return ccache + "/usr/bin/clang"
		}
		if cpp {
			return ccache + "/usr/bin/g++"
		}
		return ccache + "/usr/bin/gcc -g -fno-omit-frame-pointer -O0 "
	case entities.PlatformPi:
		if cpp {
			return sysroot + piToolchainDir + "arm-linux-gnueabihf-g++"
		}
		return sysroot + piToolchainDir + "arm-linux-gnueabihf-gcc"
	case entities.PlatformWindows, entities.PlatformAndroid:
		return ""
	default:
		return ""
	}
}

// CompilerArchFlag returns the compiler's spelling of an architecture:
// -arch i386/x86_64 on Darwin, -m32/-m64 on Linux, armv7a on Pi.
func CompilerArchFlag(p entities.Platform, a entities.Arch) (string, error) {
	switch p {
	case entities.PlatformDarwin:
		switch a {
		case entities.ArchX86:
			return "i386", nil
		case entities.ArchX64:
			return "x86_64", nil
		}
	case entities.PlatformLinux:
		switch a {
		case entities.ArchX86:
			return "32", nil
		case entities.ArchX64:
			return "64", nil
		}
	case entities.PlatformPi:
		return "armv7a", nil
	case entities.PlatformWindows, entities.PlatformAndroid:
	}
	return "", entities.NewValidationError("Invalid architecture %s for %s", a, p)
}

// OutputDir is the per-architecture install prefix. In universal working
// dir mode the prefix lives under workDir and is combined later with lipo.
func OutputDir(codeRoot string, a entities.Arch, universalWorkingDir bool, workDir string) string {
	base := filepath.Join(codeRoot, "vendors", "out")
	if universalWorkingDir {
		base = filepath.Join(workDir, "out")
	}
	return fmt.Sprintf("%s.%s", base, a)
}

// SetarchPrefix returns the setarch wrapper used for Linux configure runs.
func SetarchPrefix(a entities.Arch) []string {
	switch a {
	case entities.ArchX86:
		return []string{"setarch", "i386"}
	case entities.ArchX64:
		return []string{"setarch", "x86_64"}
	default:
		return nil
	}
}

// BuildArgsFromFeatures turns {"music-wave": true} into --enable-music-wave
// and false values into --disable-*. Output is sorted by feature name.
func BuildArgsFromFeatures(features map[string]bool) []string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]string, 0, len(names))
	for _, name := range names {
		if features[name] {
			args = append(args, "--enable-"+name)
		} else {
			args = append(args, "--disable-"+name)
		}
	}
	return args
}
