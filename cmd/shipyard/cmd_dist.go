package main

import (
	"fmt"

	"github.com/schollz/cli/v2"

	"github.com/ochairo/shipyard/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/shipyard/internal/domain-orchestrators"
	"github.com/ochairo/shipyard/internal/domain/entities"
	ifgateways "github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
	"github.com/ochairo/shipyard/internal/domain/services"
	"github.com/ochairo/shipyard/internal/external-adapters/environment"
	"github.com/ochairo/shipyard/internal/external-adapters/gpg"
	"github.com/ochairo/shipyard/internal/external-adapters/yaml"
)

func distCommand() *cli.Command {
	return &cli.Command{
		Name:  "dist",
		Usage: "package a release build into an installer, disk image or tarball",
		Description: `Run from the project's build directory. The artifact gets .sha256 and
.sha512 sidecars, and an armored .asc signature when --sign-key is given.
The key passphrase is read from $` + environment.SignPassphraseVar + `.

Examples:
  shipyard dist -o ../out
  shipyard dist -A x86 -o ../out --platform Windows
  shipyard dist -o ../out --sign-key release.asc`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "arch", Aliases: []string{"A"}, Value: "x64", Usage: "x86 or x64"},
			&cli.StringFlag{Name: "version-file", Value: "../VERSION", Usage: "file holding the version string"},
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "where the artifact is written (required)"},
			&cli.StringFlag{Name: "app", Value: "app.yml", Usage: "application definition"},
			&cli.StringFlag{Name: "project-root", Value: "..", Usage: "project root holding build/"},
			&cli.StringFlag{Name: "platform", Usage: "Linux, Darwin or Windows (default: host)"},
			&cli.StringFlag{Name: "sign-key", Usage: "armored OpenPGP private key (default $" + environment.SignKeyVar + ")"},
		},
		Action: runDist,
	}
}

func parseDistArch(name string) (entities.Arch, error) {
	arch, err := entities.ParseArch(name)
	if err != nil || name == "" {
		return 0, entities.NewValidationError("Invalid arch specified.  Valid archs: x86, x64")
	}
	return arch, nil
}

// newSigner returns nil when no key is configured. The nil is returned as
// the interface so the sidecar service sees "no signer".
func newSigner(c *cli.Context, env *environment.Source) (ifgateways.ArtifactSigner, error) {
	keyPath := c.String("sign-key")
	if keyPath == "" {
		keyPath = env.Str(environment.SignKeyVar, "")
	}
	if keyPath == "" {
		return nil, nil
	}
	signer, err := gpg.NewSigner(keyPath, env.SignPassphrase())
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func runDist(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	arch, err := parseDistArch(c.String("arch"))
	if err != nil {
		return err
	}
	platform, err := entities.HostPlatform()
	if name := c.String("platform"); name != "" {
		platform, err = entities.ParsePlatform(name)
	}
	if err != nil {
		return err
	}

	env := environment.New()
	signer, err := newSigner(c, env)
	if err != nil {
		return err
	}

	runner := newToolRunner()
	files := gateways.NewFileInstaller(logger)
	icons := orchestrators.NewIconOrchestrator(
		gateways.ScanSourceImages,
		gateways.NewIconEncoder(runner, logger),
		nil,
		logger,
	)

	orch := orchestrators.NewDistOrchestrator(
		yaml.NewAppRepository(c.String("app")),
		orchestrators.DistGateways{
			Runner:    runner,
			Files:     files,
			Icons:     icons,
			Bundles:   gateways.NewBundleWriter(files, logger),
			DiskImage: gateways.NewDiskImageBuilder(runner, logger),
			Tarballs:  gateways.NewPackager(logger),
			Sidecars:  services.NewSecurityArtifactsService(signer, logger),
		},
		logger,
		nil,
	)

	artifact, err := orch.Package(c.Context, orchestrators.DistConfig{
		Platform:    platform,
		Arch:        arch,
		VersionFile: c.String("version-file"),
		OutputDir:   c.String("output-dir"),
		ProjectRoot: c.String("project-root"),
	})
	if err != nil {
		return err
	}

	fmt.Println(artifact.Path)
	if artifact.ChecksumPath != "" {
		fmt.Println(artifact.ChecksumPath)
	}
	if artifact.SignaturePath != "" {
		fmt.Println(artifact.SignaturePath)
	}
	return nil
}
