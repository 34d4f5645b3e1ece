package services

import (
	"fmt"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// ReleaseService holds the naming conventions of distributable artifacts
type ReleaseService struct{}

// NewReleaseService creates a new release service
func NewReleaseService() *ReleaseService {
	return &ReleaseService{}
}

// InstallerFilename returns the artifact base name. The -pre suffix is
// always present; a human removes it when the build is promoted.
func (s *ReleaseService) InstallerFilename(appName string, arch entities.Arch, version string, includeBits bool) string {
	if includeBits {
		return fmt.Sprintf("%s%d-%s-pre", appName, arch.Bits(), version)
	}
	return fmt.Sprintf("%s-%s-pre", appName, version)
}

// ArchDir returns the staging directory name for a target, e.g. win32_x64.
func (s *ReleaseService) ArchDir(platform entities.Platform, arch entities.Arch) (string, error) {
	name, err := platform.DistName()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", name, arch), nil
}

// UserArchString returns "(64-bit)" or "(32-bit)".
func (s *ReleaseService) UserArchString(arch entities.Arch) string {
	return fmt.Sprintf("(%d-bit)", arch.Bits())
}

// StandardShortcuts returns the desktop, start menu, uninstall, web and
// quick launch shortcuts, all using mainIcon.
func (s *ReleaseService) StandardShortcuts(app *entities.AppDefinition, arch entities.Arch, mainIcon, supportURLFile string) []entities.Shortcut {
	full := fmt.Sprintf("%s %s", app.Name, s.UserArchString(arch))
	exe := fmt.Sprintf("{app}/bin/win32_%s/%s", arch, app.Executable(entities.PlatformWindows))

	quickLaunch := entities.NewShortcut(
		"{userappdata}/Microsoft/Internet Explorer/Quick Launch/"+full, exe, mainIcon)
	quickLaunch.Tasks = "quicklaunchicon"

	return []entities.Shortcut{
		entities.NewShortcut("{userdesktop}/"+full, exe, mainIcon),
		entities.NewShortcut("{group}/"+full, exe, mainIcon),
		entities.NewShortcut(fmt.Sprintf("{group}/{cm:UninstallProgram,%s}", full), "{uninstallexe}", mainIcon),
		entities.NewShortcut(fmt.Sprintf("{group}/%s on the web", app.Name), supportURLFile, mainIcon),
		quickLaunch,
	}
}

// Shortcuts returns the app's explicit shortcuts followed by the standard
// set when a main icon and support URL file are configured.
func (s *ReleaseService) Shortcuts(app *entities.AppDefinition, arch entities.Arch) []entities.Shortcut {
	shortcuts := append([]entities.Shortcut(nil), app.Shortcuts...)
	if app.MainIcon != "" && app.SupportURLFile != "" {
		shortcuts = append(shortcuts, s.StandardShortcuts(app, arch, app.MainIcon, app.SupportURLFile)...)
	}
	return shortcuts
}
