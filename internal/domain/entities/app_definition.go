package entities

import "strings"

// Shortcut is one InnoSetup [Icons] entry.
type Shortcut struct {
	Name         string
	Filename     string
	IconFilename string // optional
	Tasks        string // optional
	WorkingDir   string // optional
}

// NewShortcut builds a shortcut, converting forward slashes to the
// backslashes InnoSetup expects.
func NewShortcut(name, filename, iconFilename string) Shortcut {
	return Shortcut{
		Name:         SwapSlashes(name),
		Filename:     SwapSlashes(filename),
		IconFilename: SwapSlashes(iconFilename),
	}
}

// SwapSlashes converts forward slashes to backslashes.
func SwapSlashes(s string) string {
	return strings.ReplaceAll(s, "/", `\`)
}

// AppDefinition describes the application being packaged
type AppDefinition struct {
	Name          string
	ExeName       string // without platform extension
	HelpURL       string
	Version       string
	Publisher     string
	IconSourceDir string

	// Installer shortcuts in [Icons] order
	Shortcuts []Shortcut

	// When both are set the five standard shortcuts are appended
	MainIcon       string
	SupportURLFile string

	BundleIDPrefix  string
	BundleSignature string
	InnoSetupPath   string
}

// Executable returns the executable file name for a platform.
func (a *AppDefinition) Executable(p Platform) string {
	if p == PlatformWindows {
		return a.ExeName + ".exe"
	}
	return a.ExeName
}

// WithVersion returns a copy carrying the given version string.
func (a *AppDefinition) WithVersion(version string) *AppDefinition {
	c := *a
	c.Version = version
	c.Shortcuts = append([]Shortcut(nil), a.Shortcuts...)
	return &c
}
