package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

const innoSetupTemplate = `; Script generated by shipyard dist
[Setup]
AppName={{.Name}}
AppVerName={{.Name}} {{.Version}}
AppPublisher={{.Publisher}}
AppSupportUrl={{.HelpURL}}
AppUpdatesUrl={{.HelpURL}}
DefaultDirName={pf}\{{.Publisher}}\{{.Name}}
DefaultGroupName={{.Name}}
OutputBaseFilename={{.InstallerFilename}}
LicenseFile={{.LicensePath}}
Compression=lzma2
SolidCompression=yes
AppCopyright=Copyright (C) {{.Year}} {{.Publisher}}
{{if .X64}}ArchitecturesAllowed=x64
ArchitecturesInstallIn64BitMode=x64
{{end}}
[Tasks]
Name: "desktopicon"; Description: "{cm:CreateDesktopIcon}"; GroupDescription: "{cm:AdditionalIcons}";
Name: quicklaunchicon; Description: "Create a &Quick Launch icon"; GroupDescription: "Additional icons:"; Flags: unchecked

[Icons]
{{range .Icons}}{{.}}
{{end}}
[Files]
Source: "{{.BuildDir}}\*"; DestDir: "{app}"; Flags: ignoreversion recursesubdirs createallsubdirs

[Run]
Filename: "{app}\bin\{{.ArchDir}}\{{.ExeName}}"; Description: "{cm:LaunchProgram,{{.Name}}}"; Flags: nowait postinstall skipifsilent
`

var innoSetupTmpl = template.Must(template.New("setup.iss").Parse(innoSetupTemplate))

// InnoSetupInput is everything rendered into setup.iss.
type InnoSetupInput struct {
	App               *entities.AppDefinition
	Arch              entities.Arch
	InstallerFilename string
	LicensePath       string
	BuildDir          string
	ArchDir           string
	Shortcuts         []entities.Shortcut
	Year              int
}

type innoSetupData struct {
	Name              string
	Version           string
	Publisher         string
	HelpURL           string
	InstallerFilename string
	LicensePath       string
	Year              int
	X64               bool
	Icons             []string
	BuildDir          string
	ArchDir           string
	ExeName           string
}

// RenderInnoSetup renders the installer script. Output depends only on the
// input, so a fixed Year gives byte-identical text.
func RenderInnoSetup(in InnoSetupInput) (string, error) {
	if in.App == nil {
		return "", fmt.Errorf("app definition is required")
	}

	data := innoSetupData{
		Name:              in.App.Name,
		Version:           in.App.Version,
		Publisher:         in.App.Publisher,
		HelpURL:           in.App.HelpURL,
		InstallerFilename: in.InstallerFilename,
		LicensePath:       in.LicensePath,
		Year:              in.Year,
		X64:               in.Arch == entities.ArchX64,
		BuildDir:          in.BuildDir,
		ArchDir:           in.ArchDir,
		ExeName:           in.App.Executable(entities.PlatformWindows),
	}
	for _, sc := range in.Shortcuts {
		data.Icons = append(data.Icons, IconLine(sc))
	}

	var buf bytes.Buffer
	if err := innoSetupTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render setup.iss: %w", err)
	}
	return buf.String(), nil
}

// IconLine formats one [Icons] entry. Optional parameters are left out when empty.
func IconLine(sc entities.Shortcut) string {
	var b strings.Builder
	param := func(k, v string) {
		fmt.Fprintf(&b, "%s: \"%s\"; ", k, v)
	}
	param("Name", sc.Name)
	param("Filename", sc.Filename)
	if sc.IconFilename != "" {
		param("IconFilename", sc.IconFilename)
	}
	if sc.Tasks != "" {
		param("Tasks", sc.Tasks)
	}
	if sc.WorkingDir != "" {
		param("WorkingDir", sc.WorkingDir)
	}
	return b.String()
}
