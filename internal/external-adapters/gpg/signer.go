// Package gpg signs release artifacts with detached OpenPGP signatures.
package gpg

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// SignatureExt is appended to the artifact path for the detached signature.
const SignatureExt = ".asc"

// Signer implements gateways.ArtifactSigner using ProtonMail's go-crypto,
// a maintained fork of golang.org/x/crypto/openpgp.
type Signer struct {
	entity *openpgp.Entity
}

// NewSigner loads the first key with private material from an armored
// keyring file. An encrypted key is unlocked with passphrase.
func NewSigner(keyPath string, passphrase []byte) (*Signer, error) {
	//nolint:gosec // G304: keyPath is the --sign-key flag
	f, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}

	for _, entity := range keyring {
		if entity.PrivateKey == nil {
			continue
		}
		if entity.PrivateKey.Encrypted {
			if len(passphrase) == 0 {
				return nil, fmt.Errorf("signing key %X is encrypted and no passphrase was given", entity.PrimaryKey.Fingerprint)
			}
			if err := entity.DecryptPrivateKeys(passphrase); err != nil {
				return nil, fmt.Errorf("failed to decrypt signing key: %w", err)
			}
		}
		return &Signer{entity: entity}, nil
	}
	return nil, fmt.Errorf("no private key found in %s", keyPath)
}

// Fingerprint returns the signing key's fingerprint in upper-case hex.
func (s *Signer) Fingerprint() string {
	return fmt.Sprintf("%X", s.entity.PrimaryKey.Fingerprint)
}

// SignFile writes an armored detached signature to path+".asc".
func (s *Signer) SignFile(path string) (string, error) {
	//nolint:gosec // G304: path is an artifact produced by this run
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact: %w", err)
	}
	//nolint:errcheck // Defer close
	defer in.Close()

	sigPath := path + SignatureExt
	//nolint:gosec // G304: sigPath sits next to the artifact
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("failed to create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, s.entity, in, nil); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("failed to sign %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write signature: %w", err)
	}
	return sigPath, nil
}
