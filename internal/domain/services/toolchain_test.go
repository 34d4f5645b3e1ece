package services

import (
	"reflect"
	"testing"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

func TestCompiler(t *testing.T) {
	tests := []struct {
		name     string
		platform entities.Platform
		cpp      bool
		cfg      entities.BuildConfig
		want     string
	}{
		{"darwin c", entities.PlatformDarwin, false, entities.BuildConfig{}, "/usr/bin/clang"},
		{"darwin c++ ccache", entities.PlatformDarwin, true, entities.BuildConfig{UseCcache: true}, "/usr/bin/ccache /usr/bin/clang++"},
		{"linux c", entities.PlatformLinux, false, entities.BuildConfig{}, "/usr/bin/gcc -g -fno-omit-frame-pointer -O0 "},
		{"linux c++", entities.PlatformLinux, true, entities.BuildConfig{}, "/usr/bin/g++"},
		{"linux force clang", entities.PlatformLinux, false, entities.BuildConfig{ForceClang: true}, "/usr/bin/clang"},
		{"pi c", entities.PlatformPi, false, entities.BuildConfig{UseCcache: true}, "/sys/arm-bcm2708/gcc-linaro-arm-linux-gnueabihf-raspbian/bin/arm-linux-gnueabihf-gcc"},
		{"pi c++", entities.PlatformPi, true, entities.BuildConfig{}, "/sys/arm-bcm2708/gcc-linaro-arm-linux-gnueabihf-raspbian/bin/arm-linux-gnueabihf-g++"},
		{"windows", entities.PlatformWindows, false, entities.BuildConfig{}, ""},
		{"android", entities.PlatformAndroid, true, entities.BuildConfig{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compiler(tt.platform, tt.cpp, tt.cfg, "/sys"); got != tt.want {
				t.Errorf("Compiler() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompilerArchFlag(t *testing.T) {
	tests := []struct {
		platform entities.Platform
		arch     entities.Arch
		want     string
		wantErr  bool
	}{
		{entities.PlatformDarwin, entities.ArchX86, "i386", false},
		{entities.PlatformDarwin, entities.ArchX64, "x86_64", false},
		{entities.PlatformLinux, entities.ArchX86, "32", false},
		{entities.PlatformLinux, entities.ArchX64, "64", false},
		{entities.PlatformPi, entities.ArchARMv7a, "armv7a", false},
		{entities.PlatformWindows, entities.ArchX64, "", true},
		{entities.PlatformDarwin, entities.ArchARMv7a, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.platform.String()+"/"+tt.arch.String(), func(t *testing.T) {
			got, err := CompilerArchFlag(tt.platform, tt.arch)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CompilerArchFlag() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CompilerArchFlag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputDir(t *testing.T) {
	if got, want := OutputDir("/proj", entities.ArchX86, false, "/work"), "/proj/vendors/out.x86"; got != want {
		t.Errorf("OutputDir() = %s, want %s", got, want)
	}
	if got, want := OutputDir("/proj", entities.ArchX64, true, "/work"), "/work/out.x64"; got != want {
		t.Errorf("OutputDir() universal = %s, want %s", got, want)
	}
}

func TestSetarchPrefix(t *testing.T) {
	if got := SetarchPrefix(entities.ArchX86); !reflect.DeepEqual(got, []string{"setarch", "i386"}) {
		t.Errorf("SetarchPrefix(x86) = %v", got)
	}
	if got := SetarchPrefix(entities.ArchX64); !reflect.DeepEqual(got, []string{"setarch", "x86_64"}) {
		t.Errorf("SetarchPrefix(x64) = %v", got)
	}
	if got := SetarchPrefix(entities.ArchARMv7a); got != nil {
		t.Errorf("SetarchPrefix(armv7a) = %v, want nil", got)
	}
}

func TestBuildArgsFromFeatures(t *testing.T) {
	got := BuildArgsFromFeatures(map[string]bool{
		"music-wave": true,
		"music-mp3":  false,
		"assembly":   true,
	})
	want := []string{"--enable-assembly", "--disable-music-mp3", "--enable-music-wave"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgsFromFeatures() = %v, want %v", got, want)
	}
	if got := BuildArgsFromFeatures(nil); len(got) != 0 {
		t.Errorf("BuildArgsFromFeatures(nil) = %v, want empty", got)
	}
}
