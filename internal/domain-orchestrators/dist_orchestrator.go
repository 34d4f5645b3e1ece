package orchestrators

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
	"github.com/ochairo/shipyard/internal/domain/interfaces/repositories"
	"github.com/ochairo/shipyard/internal/domain/services"
)

// DefaultISCCPath is the InnoSetup 5 compiler's default install location.
const DefaultISCCPath = `C:\Program Files (x86)\Inno Setup 5\ISCC.exe`

// IconGenerator builds an icon file from a directory of source PNGs
type IconGenerator interface {
	Generate(ctx context.Context, inputDir, outPath string) error
}

// BundleWriter assembles a macOS .app bundle
type BundleWriter interface {
	Write(outRoot string, info services.BundleInfo, exePath, iconPath string) (string, error)
}

// DiskImageBuilder wraps an app bundle in a compressed disk image
type DiskImageBuilder interface {
	Build(ctx context.Context, bundlePath, volumeName, scratchDir, outPath string) error
}

// TarballPackager writes gzip-compressed tar archives
type TarballPackager interface {
	CreateTarball(ctx context.Context, sourceDir, tarballPath string) error
}

// ArtifactSidecars writes checksum and signature files next to an artifact
type ArtifactSidecars interface {
	GenerateAllArtifacts(artifact *entities.Artifact) error
}

// DistGateways groups the collaborators of the dist workflow
type DistGateways struct {
	Runner    gateways.CommandRunner
	Files     FileInstaller
	Icons     IconGenerator
	Bundles   BundleWriter
	DiskImage DiskImageBuilder
	Tarballs  TarballPackager
	Sidecars  ArtifactSidecars
}

// DistConfig holds the dist command's resolved inputs
type DistConfig struct {
	Platform    entities.Platform
	Arch        entities.Arch
	VersionFile string
	OutputDir   string
	ProjectRoot string
}

// DistOrchestrator packages a built application for one platform
type DistOrchestrator struct {
	apps    repositories.AppDefinitionRepository
	gw      DistGateways
	release *services.ReleaseService
	logger  interfaces.Logger
	now     func() time.Time
}

// NewDistOrchestrator creates a new dist orchestrator. now defaults to time.Now.
func NewDistOrchestrator(
	apps repositories.AppDefinitionRepository,
	gw DistGateways,
	logger interfaces.Logger,
	now func() time.Time,
) *DistOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	if now == nil {
		now = time.Now
	}
	return &DistOrchestrator{
		apps:    apps,
		gw:      gw,
		release: services.NewReleaseService(),
		logger:  logger,
		now:     now,
	}
}

// distRun is the state of one packaging run
type distRun struct {
	cfg     DistConfig
	app     *entities.AppDefinition
	root    string
	archDir string
	tmp     string
}

func (r *distRun) fromRoot(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.root, p)
}

// releaseExe is the built executable for a build system folder, e.g. vs2015.
func (r *distRun) releaseExe(buildFolder string) (string, error) {
	p := filepath.Join(r.root, "build", buildFolder, "bin", "Release", r.cfg.Arch.String(), r.app.Executable(r.cfg.Platform))
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", entities.NewValidationError("Could not find %s", p)
	}
	return p, nil
}

func (r *distRun) insertDir() string {
	name, _ := r.cfg.Platform.DistName()
	return filepath.Join(r.root, "build", "dist", "insert_"+name)
}

// Package stages, builds and checksums the distributable. The staging
// directory is removed before returning.
func (o *DistOrchestrator) Package(ctx context.Context, cfg DistConfig) (*entities.Artifact, error) {
	if cfg.OutputDir == "" {
		return nil, entities.NewValidationError("--output-dir is required")
	}
	if cfg.Arch != entities.ArchX86 && cfg.Arch != entities.ArchX64 {
		return nil, entities.NewValidationError("Invalid arch specified.  Valid archs: x86, x64")
	}
	archDir, err := o.release.ArchDir(cfg.Platform, cfg.Arch)
	if err != nil {
		return nil, err
	}

	version, err := ReadVersionFile(cfg.VersionFile, false)
	if err != nil {
		return nil, err
	}
	app, err := o.apps.LoadAppDefinition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load app definition: %w", err)
	}

	root := cfg.ProjectRoot
	if root == "" {
		root = ".."
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	outDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}
	cfg.OutputDir = outDir
	if err := o.gw.Files.Mkdir(outDir); err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "*_make_dist")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	//nolint:errcheck // Best-effort staging cleanup
	defer os.RemoveAll(tmp)

	run := &distRun{cfg: cfg, app: app.WithVersion(version), root: root, archDir: archDir, tmp: tmp}
	o.logger.Info("packaging",
		interfaces.F("app", run.app.Name),
		interfaces.F("version", version),
		interfaces.F("target", archDir))

	var artifact *entities.Artifact
	switch cfg.Platform {
	case entities.PlatformWindows:
		artifact, err = o.packageWindows(ctx, run)
	case entities.PlatformDarwin:
		artifact, err = o.packageMacOS(ctx, run)
	case entities.PlatformLinux:
		artifact, err = o.packageLinux(ctx, run)
	case entities.PlatformAndroid, entities.PlatformPi:
		err = entities.NewEnvironmentError("no distribution support for platform %s", cfg.Platform)
	default:
		err = entities.NewEnvironmentError("unknown platform %d", int(cfg.Platform))
	}
	if err != nil {
		return nil, err
	}

	if o.gw.Sidecars != nil {
		if err := o.gw.Sidecars.GenerateAllArtifacts(artifact); err != nil {
			return artifact, fmt.Errorf("failed to write security artifacts: %w", err)
		}
	}
	o.logger.Info("artifact ready", interfaces.F("path", artifact.Path), interfaces.F("type", artifact.Type))
	return artifact, nil
}

func (o *DistOrchestrator) newArtifact(run *distRun, path, kind string) *entities.Artifact {
	return &entities.Artifact{
		Name:     run.app.Name,
		Version:  run.app.Version,
		Platform: run.archDir,
		Path:     path,
		Type:     kind,
	}
}

// copyInsert overlays the platform's insert tree, if the project has one.
func (o *DistOrchestrator) copyInsert(run *distRun, dst string) error {
	insert := run.insertDir()
	if _, err := os.Stat(insert); err != nil {
		o.logger.Warn("no insert directory", interfaces.F("path", insert))
		return nil
	}
	return o.gw.Files.CopyTree(insert, dst)
}

func (o *DistOrchestrator) packageWindows(ctx context.Context, run *distRun) (*entities.Artifact, error) {
	buildDir := filepath.Join(run.tmp, "build")
	binDir := filepath.Join(buildDir, "bin", run.archDir)

	exe, err := run.releaseExe("vs2015")
	if err != nil {
		return nil, err
	}
	if _, err := o.gw.Files.CopyFileToDir(exe, binDir); err != nil {
		return nil, err
	}

	dlls, err := filepath.Glob(filepath.Join(run.root, "..", "bin", run.archDir, "*.dll"))
	if err != nil {
		return nil, fmt.Errorf("failed to list dlls: %w", err)
	}
	for _, dll := range dlls {
		if _, err := o.gw.Files.CopyFileToDir(dll, binDir); err != nil {
			return nil, err
		}
	}

	// Generated before the insert is copied so an explicit icon wins
	icon := filepath.Join(buildDir, strings.ToLower(run.app.Name)+".ico")
	if err := o.gw.Icons.Generate(ctx, run.fromRoot(run.app.IconSourceDir), icon); err != nil {
		return nil, fmt.Errorf("failed to generate icon: %w", err)
	}
	if err := o.copyInsert(run, buildDir); err != nil {
		return nil, err
	}

	installer := o.release.InstallerFilename(run.app.Name, run.cfg.Arch, run.app.Version, true)
	script, err := services.RenderInnoSetup(services.InnoSetupInput{
		App:               run.app,
		Arch:              run.cfg.Arch,
		InstallerFilename: installer,
		LicensePath:       filepath.Join(run.insertDir(), "license.txt"),
		BuildDir:          buildDir,
		ArchDir:           run.archDir,
		Shortcuts:         o.release.Shortcuts(run.app, run.cfg.Arch),
		Year:              o.now().UTC().Year(),
	})
	if err != nil {
		return nil, err
	}
	o.logger.Debug("setup.iss", interfaces.F("script", script))

	setupISS := filepath.Join(run.tmp, "setup.iss")
	if err := os.WriteFile(setupISS, []byte(script), 0600); err != nil {
		return nil, fmt.Errorf("failed to write setup.iss: %w", err)
	}

	iscc := run.app.InnoSetupPath
	if iscc == "" {
		iscc = DefaultISCCPath
	}
	cmd := gateways.Command{Argv: []string{iscc, "/O" + run.cfg.OutputDir, setupISS}, Dir: run.tmp}
	o.logger.Info(cmd.String())
	if _, err := gateways.RunChecked(ctx, o.gw.Runner, cmd); err != nil {
		return nil, err
	}

	return o.newArtifact(run, filepath.Join(run.cfg.OutputDir, installer+".exe"), entities.ArtifactInstaller), nil
}

func (o *DistOrchestrator) packageMacOS(ctx context.Context, run *distRun) (*entities.Artifact, error) {
	exe, err := run.releaseExe("gmake_macosx")
	if err != nil {
		return nil, err
	}

	icon := filepath.Join(run.tmp, "icon.icns")
	if err := o.gw.Icons.Generate(ctx, run.fromRoot(run.app.IconSourceDir), icon); err != nil {
		return nil, fmt.Errorf("failed to generate icon: %w", err)
	}

	bundle, err := o.gw.Bundles.Write(run.tmp, services.BundleInfo{
		AppName:        run.app.Name,
		Version:        run.app.Version,
		IdentifierBase: run.app.BundleIDPrefix,
		Signature:      run.app.BundleSignature,
	}, exe, icon)
	if err != nil {
		return nil, err
	}

	// The disk image name never carries the bit width
	name := o.release.InstallerFilename(run.app.Name, entities.ArchX64, run.app.Version, false) + ".dmg"
	out := filepath.Join(run.cfg.OutputDir, name)
	if err := o.gw.DiskImage.Build(ctx, bundle, run.app.Name, run.tmp, out); err != nil {
		return nil, fmt.Errorf("failed to build disk image: %w", err)
	}
	return o.newArtifact(run, out, entities.ArtifactDiskImage), nil
}

func (o *DistOrchestrator) packageLinux(ctx context.Context, run *distRun) (*entities.Artifact, error) {
	stageRoot := filepath.Join(run.tmp, "stage")
	archive := filepath.Join(stageRoot, fmt.Sprintf("%s-%s", strings.ToLower(run.app.Name), run.app.Version))

	exe, err := run.releaseExe("gmake_linux")
	if err != nil {
		return nil, err
	}
	dst, err := o.gw.Files.CopyFileToDir(exe, filepath.Join(archive, "bin", run.archDir))
	if err != nil {
		return nil, err
	}
	//nolint:gosec // G302: shipped executables must be runnable
	if err := os.Chmod(dst, 0755); err != nil {
		return nil, fmt.Errorf("failed to mark %s executable: %w", dst, err)
	}
	if err := o.copyInsert(run, archive); err != nil {
		return nil, err
	}

	name := o.release.InstallerFilename(run.app.Name, run.cfg.Arch, run.app.Version, true) + ".tar.gz"
	out := filepath.Join(run.cfg.OutputDir, name)
	if err := o.gw.Tarballs.CreateTarball(ctx, stageRoot, out); err != nil {
		return nil, fmt.Errorf("failed to create tarball: %w", err)
	}
	return o.newArtifact(run, out, entities.ArtifactArchive), nil
}
