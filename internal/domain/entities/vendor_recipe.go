package entities

// Vendor recipe step operations.
const (
	OpVerifyEnvironment    = "verify_environment"
	OpSetArchEnvironment   = "set_arch_environment"
	OpShell                = "shell"
	OpConfigure            = "configure"
	OpMake                 = "make"
	OpMakeCommand          = "make_command"
	OpMakeOptionalClean    = "make_optional_clean"
	OpNMakeBuild           = "nmake_build"
	OpNMakeCommand         = "nmake_command"
	OpNMakeOptionalClean   = "nmake_optional_clean"
	OpDevenvUpgrade        = "devenv_upgrade"
	OpDevenvClean          = "devenv_clean"
	OpDevenvBuild          = "devenv_build"
	OpNdkOptionalClean     = "ndk_optional_clean"
	OpNdkBuild             = "ndk_build"
	OpNdkSetAltToolchain   = "ndk_set_alt_toolchain"
	OpSetupUniversalPaths  = "setup_universal_paths"
	OpLipoCreate           = "lipo_create"
	OpSymlinkToUniversal   = "symlink_to_universal"
	OpCopyBuildProducts    = "copy_build_products_subdir"
	OpReplaceStringInFile  = "replace_string_in_file"
	OpConfirmBinary        = "confirm_binary"
	OpInstallFileInBinDir  = "install_file_in_bin_dir"
	OpCopyHeaderFiles      = "copy_header_files"
	OpCopyLibFile          = "copy_lib_file"
	OpCopyFile             = "copyfile"
	OpMkdir                = "mkdir"
)

// DefaultEnvPrefix prefixes the ROOT/BIN environment lookups.
const DefaultEnvPrefix = "IV"

// VendorRecipe is the build script for one third-party library
type VendorRecipe struct {
	Name      string
	EnvPrefix string
	Dir       string // directory holding the recipe file
	Platforms map[Platform]*PlatformRecipe
}

// PlatformRecipe is the step sequence for one platform.
type PlatformRecipe struct {
	ArchDirs map[Arch]string
	Steps    []VendorStep
}

// VendorStep is a single primitive invocation. Which fields matter depends on Op.
type VendorStep struct {
	Op   string
	Args []string

	Path          string
	Dest          string
	Configuration string
	Project       string
	Command       string
	Toolchain     string
	Old           string
	New           string
	Vars          []string
	Features      map[string]bool
	Archs         []string
	Products      []string
	Jobs          int

	InstallToTemp       bool
	FromTemp            bool
	IgnoreExit          bool
	IgnoreClean         bool
	OmitArch            bool
	UseCpp              bool
	UniversalWorkingDir bool
	RequiresBin         bool
}

// VendorManifest is the ordered list of vendors built by vendor-all.
type VendorManifest struct {
	Vendors []string
}
