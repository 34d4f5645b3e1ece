package orchestrators

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
	"github.com/ochairo/shipyard/internal/domain/services"
)

// NdkDebugBuildArgs force a full, verbose, debuggable ndk-build.
var NdkDebugBuildArgs = []string{"V=1", "-B", "NDK_DEBUG=1"}

// EnvSource reads process environment variables
type EnvSource interface {
	Lookup(name string) (string, bool)
}

// FileInstaller copies build products into place
type FileInstaller interface {
	Mkdir(dir string) error
	CopyFile(src, dst string) (string, error)
	CopyFileToDir(src, dir string) (string, error)
	CopyTree(srcDir, dstDir string) error
}

// VendorBuilder provides the build primitives used by vendor recipes.
// Commands run in WorkDir with the BuildContext environment overlaid on the
// process environment; the process environment itself is never changed.
type VendorBuilder struct {
	runner gateways.CommandRunner
	files  FileInstaller
	env    EnvSource
	logger interfaces.Logger

	cfg     entities.BuildConfig
	bctx    *entities.BuildContext
	lib     string
	workDir string
	outDir  string
	tempDir string

	// LookPath resolves binaries for ConfirmBinary and VerifyEnvironment
	LookPath func(file string) (string, error)
}

// VendorBuilderConfig describes one library build
type VendorBuilderConfig struct {
	Library string
	WorkDir string
	Build   entities.BuildConfig
	Context *entities.BuildContext
}

// NewVendorBuilder creates a builder. CC and CXX start from the process
// environment when set, else from the platform's default compilers.
func NewVendorBuilder(
	runner gateways.CommandRunner,
	files FileInstaller,
	env EnvSource,
	logger interfaces.Logger,
	config VendorBuilderConfig,
) *VendorBuilder {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	bctx := config.Context
	if bctx == nil {
		bctx = entities.NewBuildContext(entities.PlatformLinux, entities.ArchX64)
	}

	b := &VendorBuilder{
		runner:   runner,
		files:    files,
		env:      env,
		logger:   logger,
		cfg:      config.Build,
		bctx:     bctx,
		lib:      config.Library,
		workDir:  config.WorkDir,
		LookPath: exec.LookPath,
	}

	sysroot, _ := env.Lookup("SYSROOT")
	for _, v := range []struct {
		key string
		cpp bool
	}{{"CC", false}, {"CXX", true}} {
		value, ok := env.Lookup(v.key)
		if !ok {
			value = services.Compiler(bctx.Platform, v.cpp, b.cfg, sysroot)
		}
		if value != "" {
			bctx.Setenv(v.key, value)
		}
	}
	return b
}

// Close removes the install-to-temp directory, if one was created.
func (b *VendorBuilder) Close() error {
	if b.tempDir == "" {
		return nil
	}
	err := os.RemoveAll(b.tempDir)
	b.tempDir = ""
	return err
}

// Context returns the build context, including the environment set so far.
func (b *VendorBuilder) Context() *entities.BuildContext {
	return b.bctx
}

// OutDir returns the install prefix chosen by SetArchEnvironment.
func (b *VendorBuilder) OutDir() string {
	return b.outDir
}

// TempDir returns the install-to-temp prefix, or "" before Configure.
func (b *VendorBuilder) TempDir() string {
	return b.tempDir
}

// ProjectRootDir resolves $<prefix>ROOT, falling back to the grandparent
// of the work dir when the work dir sits directly under "vendors".
func (b *VendorBuilder) ProjectRootDir(prefix string) (string, error) {
	lookup := prefix + "ROOT"
	if root, ok := b.env.Lookup(lookup); ok {
		return root, nil
	}

	abs, err := filepath.Abs(b.workDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", b.workDir, err)
	}
	up := filepath.Dir(abs)
	if strings.EqualFold(filepath.Base(up), "vendors") {
		return filepath.Dir(up), nil
	}
	return "", entities.NewEnvironmentError("Project root dir not found.  Set %s to the project root.", lookup)
}

// ProjectBinDir resolves $<prefix>BIN, falling back to a "*_dist" sibling
// of the project root. It returns "" when neither exists.
func (b *VendorBuilder) ProjectBinDir(prefix string) (string, error) {
	lookup := prefix + "BIN"
	if bin, ok := b.env.Lookup(lookup); ok {
		b.logger.Info("project bin dir", interfaces.F("dir", bin))
		return bin, nil
	}
	b.logger.Debug("no project bin dir in environment", interfaces.F("var", lookup))

	root, err := b.ProjectRootDir(prefix)
	if err != nil {
		return "", err
	}
	up := filepath.Dir(filepath.Clean(root))
	entries, err := os.ReadDir(up)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", up, err)
	}

	var found []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), "_dist") {
			found = append(found, e.Name())
		}
	}
	if len(found) == 0 {
		return "", nil
	}
	sort.Strings(found)
	if len(found) > 1 {
		b.logger.Warn("several _dist directories, using the first", interfaces.F("candidates", strings.Join(found, ",")))
	}
	return filepath.Join(up, found[0]), nil
}

func (b *VendorBuilder) path(p string) string {
	if filepath.IsAbs(p) || b.workDir == "" {
		return p
	}
	return filepath.Join(b.workDir, p)
}

func (b *VendorBuilder) printCmd(parts ...string) {
	if b.cfg.PrintCommands {
		b.logger.Info(strings.Join(parts, " "))
	}
}

// run logs argv and, unless this is a dry run, executes it. Unchecked runs
// ignore the exit code but still fail when the tool cannot be started.
func (b *VendorBuilder) run(ctx context.Context, argv []string, checked bool) error {
	b.printCmd(argv...)
	if !b.cfg.Execute {
		return nil
	}

	env := make(map[string]string, len(b.bctx.Env))
	for k, v := range b.bctx.Env {
		env[k] = v
	}
	cmd := gateways.Command{Argv: argv, Dir: b.workDir, Env: env}

	if checked {
		_, err := gateways.RunChecked(ctx, b.runner, cmd)
		return err
	}
	if _, err := b.runner.Run(ctx, cmd); err != nil {
		return &entities.CommandError{Argv: argv, ExitCode: -1, Err: err}
	}
	return nil
}

// Shell runs an arbitrary command as a build step.
func (b *VendorBuilder) Shell(ctx context.Context, argv []string, checked bool) error {
	return b.run(ctx, argv, checked)
}

// Configure runs "sh configure", wrapped in setarch on Linux. With
// installToTemp the prefix is a fresh temporary directory that later
// from-temp installs read from; otherwise it is the output dir, if set.
func (b *VendorBuilder) Configure(ctx context.Context, moreArgs []string, installToTemp bool) error {
	argv := []string{"sh", "configure"}
	if b.bctx.Platform == entities.PlatformLinux {
		argv = append(services.SetarchPrefix(b.bctx.Arch), argv...)
	}

	if installToTemp {
		if err := b.Close(); err != nil {
			return fmt.Errorf("failed to remove previous temp dir: %w", err)
		}
		tmp, err := os.MkdirTemp("", "*vendor_build")
		if err != nil {
			return fmt.Errorf("failed to create temp dir: %w", err)
		}
		b.tempDir = tmp
		argv = append(argv, "--prefix="+tmp)
	} else if b.outDir != "" {
		argv = append(argv, "--prefix="+b.outDir)
	}

	argv = append(argv, moreArgs...)
	return b.run(ctx, argv, true)
}

// Make runs make -jN. A non-positive jobs uses the configured parallelism.
func (b *VendorBuilder) Make(ctx context.Context, jobs int) error {
	if jobs <= 0 {
		jobs = b.cfg.ParallelJobs
	}
	if jobs <= 0 {
		jobs = entities.DefaultParallelJobs
	}
	cc, _ := b.bctx.Getenv("CC")
	b.logger.Debug("make", interfaces.F("CC", cc))
	return b.run(ctx, []string{"make", "-j" + strconv.Itoa(jobs)}, true)
}

// MakeCommand runs make with args, e.g. "make install".
func (b *VendorBuilder) MakeCommand(ctx context.Context, args []string, checked bool) error {
	return b.run(ctx, append([]string{"make"}, args...), checked)
}

// MakeOptionalClean runs "make clean" when clean-first was requested.
func (b *VendorBuilder) MakeOptionalClean(ctx context.Context, checked bool) error {
	if !b.cfg.CleanFirst {
		return nil
	}
	return b.run(ctx, []string{"make", "clean"}, checked)
}

// NMakeBuild runs nmake /f makefile.
func (b *VendorBuilder) NMakeBuild(ctx context.Context, makefile string, checked bool) error {
	return b.run(ctx, []string{"nmake", "/f", makefile}, checked)
}

// NMakeCommand runs nmake /f makefile command.
func (b *VendorBuilder) NMakeCommand(ctx context.Context, makefile, command string, checked bool) error {
	return b.run(ctx, []string{"nmake", "/f", makefile, command}, checked)
}

// NMakeOptionalClean runs the makefile's Clean target when clean-first was requested.
func (b *VendorBuilder) NMakeOptionalClean(ctx context.Context, makefile string, checked bool) error {
	if !b.cfg.CleanFirst {
		return nil
	}
	return b.run(ctx, []string{"nmake", "/f", makefile, "Clean"}, checked)
}

// DevenvUpgrade upgrades a solution to the installed Visual Studio.
func (b *VendorBuilder) DevenvUpgrade(ctx context.Context, sln string) error {
	return b.run(ctx, []string{"devenv.com", sln, "/Upgrade"}, true)
}

// DevenvClean cleans a solution configuration. It runs regardless of clean-first.
func (b *VendorBuilder) DevenvClean(ctx context.Context, sln, configuration string, includeArch bool) error {
	platform := ""
	if includeArch {
		platform = "|" + b.bctx.Arch.String()
	}
	return b.run(ctx, []string{"devenv.com", sln, "/Clean", configuration + platform}, true)
}

// DevenvBuild builds a solution, or one project of it. With clean-first and
// not ignoreClean the same configuration is cleaned first.
func (b *VendorBuilder) DevenvBuild(ctx context.Context, sln, configuration, project string, includeArch, ignoreClean bool) error {
	platform := ""
	if includeArch {
		switch b.bctx.Arch {
		case entities.ArchX86:
			platform = "|Win32"
		case entities.ArchX64:
			platform = "|x64"
		case entities.ArchARMv7a:
		}
	}

	if b.cfg.CleanFirst && !ignoreClean {
		clean := []string{"devenv.com", sln}
		if project != "" {
			clean = append(clean, "/project", project)
		}
		clean = append(clean, "/Clean", configuration+platform)
		if err := b.run(ctx, clean, true); err != nil {
			return err
		}
	}

	argv := []string{"devenv.com", sln, "/Build", configuration + platform}
	if project != "" {
		argv = append(argv, "/project", project)
	}
	return b.run(ctx, argv, true)
}

// NdkOptionalClean runs "ndk-build -e clean" when clean-first was
// requested. APP_STL is forced to system because stlport variants break
// the clean target.
func (b *VendorBuilder) NdkOptionalClean(ctx context.Context, checked bool) error {
	if !b.cfg.CleanFirst {
		return nil
	}
	b.bctx.Setenv("APP_STL", "system")
	return b.run(ctx, []string{"ndk-build", "-e", "clean"}, checked)
}

// NdkBuild runs ndk-build with args.
func (b *VendorBuilder) NdkBuild(ctx context.Context, args []string) error {
	return b.run(ctx, append([]string{"ndk-build"}, args...), true)
}

// NdkSetAltToolchain selects an alternate NDK toolchain for later ndk-build runs.
func (b *VendorBuilder) NdkSetAltToolchain(toolchain string) {
	b.bctx.Setenv("NDK_TOOLCHAIN_VERSION", toolchain)
}

func universalDir(codeRoot string) string {
	return filepath.Join(codeRoot, "vendors")
}

// SetupUniversalPaths creates the universal subdirectories, lib and include by default.
func (b *VendorBuilder) SetupUniversalPaths(codeRoot string, subdirs []string) error {
	if len(subdirs) == 0 {
		subdirs = []string{"lib", "include"}
	}
	for _, dir := range subdirs {
		if err := b.Mkdir(filepath.Join(universalDir(codeRoot), dir)); err != nil {
			return err
		}
	}
	return nil
}

// LipoCreate combines each product from the per-arch working dirs into one
// fat binary under the universal dir.
func (b *VendorBuilder) LipoCreate(ctx context.Context, codeRoot string, archs []entities.Arch, products []string, libdir string) error {
	if libdir == "" {
		libdir = "lib"
	}
	for _, product := range products {
		argv := []string{"lipo", "-create"}
		for _, arch := range archs {
			argv = append(argv, filepath.Join(services.OutputDir(codeRoot, arch, true, b.workDir), libdir, product))
		}
		argv = append(argv, "-output", filepath.Join(universalDir(codeRoot), libdir, product))
		if err := b.run(ctx, argv, true); err != nil {
			return err
		}
	}
	return nil
}

// SymlinkToUniversal links name to longName inside the universal lib dir,
// replacing any existing link. The link target stays relative.
func (b *VendorBuilder) SymlinkToUniversal(codeRoot, longName, name, libdir string) error {
	if libdir == "" {
		libdir = "lib"
	}
	dst := filepath.Join(universalDir(codeRoot), libdir, name)
	b.printCmd("ln", "-sf", longName, dst)
	if !b.cfg.Execute {
		return nil
	}

	if _, err := os.Lstat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dst, err)
		}
	}
	if err := os.Symlink(longName, dst); err != nil {
		return fmt.Errorf("failed to link %s: %w", dst, err)
	}
	return nil
}

// CopyBuildProductsSubdir copies subdirectories that are identical across
// architectures (include, man) from one arch's output into the universal dir.
func (b *VendorBuilder) CopyBuildProductsSubdir(ctx context.Context, codeRoot string, sourceArch entities.Arch, subdirs []string) error {
	fat := b.bctx.Platform == entities.PlatformDarwin
	cpArgs := "-r"
	if b.cfg.PrintCommands {
		cpArgs = "-rv"
	}
	for _, subdir := range subdirs {
		src := filepath.Join(services.OutputDir(codeRoot, sourceArch, fat, b.workDir), subdir)
		if err := b.Mkdir(filepath.Join(universalDir(codeRoot), subdir)); err != nil {
			return err
		}
		if err := b.run(ctx, []string{"cp", cpArgs, src, universalDir(codeRoot)}, true); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceStringInFile replaces the first match of pattern on each line of
// a file under the universal dir, keeping the original as <file>.untouched.
// replacement may reference groups as ${1}.
func (b *VendorBuilder) ReplaceStringInFile(codeRoot, pathInUniversal, pattern, replacement string) error {
	target := filepath.Join(universalDir(codeRoot), pathInUniversal)
	b.printCmd("replace", strconv.Quote(pattern), strconv.Quote(replacement), target)
	if !b.cfg.Execute {
		return nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return entities.NewValidationError("invalid pattern %q: %v", pattern, err)
	}
	//nolint:gosec // G304: target is inside the project's vendors dir
	data, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", target, err)
	}
	if err := os.WriteFile(target+".untouched", data, 0600); err != nil {
		return fmt.Errorf("failed to back up %s: %w", target, err)
	}

	lines := strings.SplitAfter(string(data), "\n")
	for i, line := range lines {
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		expanded := re.ExpandString(nil, replacement, line, loc)
		lines[i] = line[:loc[0]] + string(expanded) + line[loc[1]:]
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}
	if err := os.WriteFile(target, []byte(strings.Join(lines, "")), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// ConfirmBinary fails unless name is on PATH.
func (b *VendorBuilder) ConfirmBinary(name string) error {
	if _, err := b.LookPath(name); err != nil {
		return entities.NewEnvironmentError("%s binary not found in PATH.", name)
	}
	return nil
}

// VerifyEnvironment checks required variables, ndk-build on Android, and
// that the work dir holds more than the recipe itself.
func (b *VendorBuilder) VerifyEnvironment(vars []string) error {
	for _, v := range vars {
		if _, ok := b.env.Lookup(v); !ok {
			return entities.NewEnvironmentError("required environment variable %s not found", v)
		}
	}

	if b.bctx.Platform == entities.PlatformAndroid {
		if _, err := b.LookPath("ndk-build"); err != nil {
			return entities.NewEnvironmentError("ndk-build not in PATH")
		}
	}

	entries, err := os.ReadDir(b.workDir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", b.workDir, err)
	}
	if len(entries) <= 1 {
		return entities.NewEnvironmentError("empty build directory. nothing to build.")
	}
	return nil
}

// SetArchEnvironment sets compiler and flag variables so every later step
// targets arch, and picks the output dir on Darwin and Pi.
func (b *VendorBuilder) SetArchEnvironment(codeRoot string, arch entities.Arch, universalWorkingDir, useCpp bool) error {
	p := b.bctx.Platform
	switch p {
	case entities.PlatformDarwin:
		flag, err := services.CompilerArchFlag(p, arch)
		if err != nil {
			return err
		}
		universal := filepath.Join(codeRoot, "vendors", "lib")
		b.bctx.Setenv("LDFLAGS", "-L"+universal)

		cc := services.Compiler(p, false, b.cfg, "")
		if !useCpp {
			b.bctx.Setenv("CC", cc+" -arch "+flag+" ")
			b.bctx.Setenv("CFLAGS", "-I"+universal+"/include ")
		} else {
			b.bctx.Setenv("CC", cc+" -arch "+flag)
			b.bctx.Setenv("CXX", services.Compiler(p, true, b.cfg, "")+" -arch "+flag)
			b.bctx.Setenv("CXXFLAGS", "-I"+universal+"/include")
		}
		b.outDir = services.OutputDir(codeRoot, arch, universalWorkingDir, b.workDir)

	case entities.PlatformLinux:
		flag, err := services.CompilerArchFlag(p, arch)
		if err != nil {
			return err
		}
		outRoot := filepath.Join(codeRoot, "vendors")
		cc := services.Compiler(p, false, b.cfg, "")
		b.bctx.Setenv("CC", cc+" -m"+flag)
		b.bctx.Setenv("CXX", services.Compiler(p, true, b.cfg, "")+" -m"+flag)
		b.bctx.Setenv("LD", cc+" -m"+flag)
		b.bctx.Setenv("CFLAGS", "-I"+outRoot+"/include")
		b.bctx.Setenv("LDFLAGS", "-L"+outRoot+"/lib")

	case entities.PlatformAndroid:
		froglibs, ok := b.env.Lookup("FROGLIBS")
		if !ok {
			return entities.NewEnvironmentError("required environment variable FROGLIBS not found")
		}
		b.bctx.Setenv("TARGETLIB", strings.ToLower(b.lib))
		b.bctx.Setenv("NDK_PROJECT_PATH", froglibs+"/src/android")

	case entities.PlatformPi:
		sysroot, ok := b.env.Lookup("SYSROOT")
		if !ok {
			return entities.NewEnvironmentError("required environment variable SYSROOT not found")
		}
		b.outDir = services.OutputDir(codeRoot, arch, false, b.workDir)

		flags := strings.Join([]string{
			"--sysroot=" + sysroot,
			"-I" + sysroot + "/opt/vc/include",
			"-I" + sysroot + "/usr/include",
			"-I" + sysroot + "/opt/vc/include/interface/vcos/pthreads",
			"-I" + sysroot + "/opt/vc/include/interface/vmcs_host/linux",
		}, " ")
		b.bctx.Setenv("CC", services.Compiler(p, false, b.cfg, sysroot)+" "+flags)
		b.bctx.Setenv("CXX", services.Compiler(p, true, b.cfg, sysroot)+" "+flags)
		b.bctx.Setenv("LDFLAGS", fmt.Sprintf("-L%s/opt/vc/lib -L%s/lib", sysroot, b.outDir))
		b.bctx.Setenv("CFLAGS", "-I"+b.outDir+"/include")

	case entities.PlatformWindows:
		return entities.NewEnvironmentError("No environment to set for this platform.")
	default:
		return entities.NewEnvironmentError("No environment to set for platform %s.", p)
	}
	return nil
}

func (b *VendorBuilder) fromTemp(p string, fromTemp bool) (string, error) {
	if !fromTemp {
		return b.path(p), nil
	}
	if b.tempDir == "" {
		return "", entities.NewValidationError("%s: from_temp needs an earlier configure with install_to_temp", p)
	}
	return filepath.Join(b.tempDir, p), nil
}

// InstallFileInBinDir copies src into {binRoot}/bin/{platform}_{arch}/,
// e.g. a DLL into bin/win32_x64.
func (b *VendorBuilder) InstallFileInBinDir(src, binRoot string) error {
	platArch := fmt.Sprintf("%s_%s", b.bctx.Platform.StandardName(), b.bctx.Arch)
	dstDir := filepath.Join(binRoot, "bin", platArch)
	src = b.path(src)

	b.printCmd("cp", src, filepath.Join(dstDir, filepath.Base(src)))
	if !b.cfg.Execute {
		return nil
	}
	_, err := b.files.CopyFileToDir(src, dstDir)
	return err
}

// CopyHeaderFiles copies a header tree into {dstRoot}/vendors/include,
// skipping files that are not newer than their installed copy.
func (b *VendorBuilder) CopyHeaderFiles(srcDir, dstRoot string, fromTemp bool) error {
	src, err := b.fromTemp(srcDir, fromTemp)
	if err != nil {
		return err
	}
	dst := filepath.Join(dstRoot, "vendors", "include")

	b.printCmd("cp", "-r", src, dst)
	if !b.cfg.Execute {
		return nil
	}
	if err := b.files.Mkdir(dst); err != nil {
		return err
	}
	return b.files.CopyTree(src, dst)
}

// CopyLibFile copies a library into {dstRoot}/vendors/lib/{arch}/.
func (b *VendorBuilder) CopyLibFile(libPath, dstRoot string, fromTemp bool) error {
	src, err := b.fromTemp(libPath, fromTemp)
	if err != nil {
		return err
	}
	dstDir := filepath.Join(dstRoot, "vendors", "lib", b.bctx.Arch.String())

	b.printCmd("cp", src, dstDir)
	if !b.cfg.Execute {
		return nil
	}
	_, err = b.files.CopyFileToDir(src, dstDir)
	return err
}

// CopyFile copies src to dst, both relative to the work dir.
func (b *VendorBuilder) CopyFile(src, dst string) error {
	src, dst = b.path(src), b.path(dst)
	b.printCmd("cp", src, dst)
	if !b.cfg.Execute {
		return nil
	}
	_, err := b.files.CopyFile(src, dst)
	return err
}

// Mkdir creates a directory. An existing directory is not an error.
func (b *VendorBuilder) Mkdir(dir string) error {
	dir = b.path(dir)
	b.printCmd("mkdir", "-p", dir)
	if !b.cfg.Execute {
		return nil
	}
	return b.files.Mkdir(dir)
}
