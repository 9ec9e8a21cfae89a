package keystore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/1F47E/onion-gen/internal/mnemonic"
	"github.com/1F47E/onion-gen/internal/onion"
)

const (
	FileHostname   = "hostname"
	FilePrivateKey = "private_key"
	FileSecretKey  = "hs_ed25519_secret_key"
	FilePublicKey  = "hs_ed25519_public_key"
	FileMnemonic   = "seed_mnemonic.txt"
)

// Tor refuses hidden-service directories readable by others.
const (
	dirPerm  = 0o700
	filePerm = 0o600
)

type SaveOptions struct {
	TorKeys  bool // also write hs_ed25519_secret_key / hs_ed25519_public_key
	Mnemonic bool // also write seed_mnemonic.txt
}

// Save writes the key files for addr into <outputDir>/<addr> and returns that
// directory. Writes are not atomic: a failure leaves the files already
// written in place.
func Save(outputDir string, kp KeyPair, addr string, opt SaveOptions) (string, error) {
	dir := filepath.Join(outputDir, addr)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	if err := writeFile(dir, FileHostname, []byte(onion.Hostname(kp.Public)+"\n")); err != nil {
		return dir, err
	}
	if err := writeFile(dir, FilePrivateKey, kp.PrivateKey()); err != nil {
		return dir, err
	}

	if opt.TorKeys {
		if err := saveTorKeys(dir, kp); err != nil {
			return dir, err
		}
	}

	if opt.Mnemonic {
		words, err := mnemonic.FromSeed(kp.Seed)
		if err != nil {
			return dir, fmt.Errorf("mnemonic: %w", err)
		}
		if err := writeFile(dir, FileMnemonic, []byte(words+"\n")); err != nil {
			return dir, err
		}
	}

	return dir, nil
}

func saveTorKeys(dir string, kp KeyPair) error {
	expanded := ExpandSecretKey(kp.Seed)
	if err := writeFile(dir, FileSecretKey, SecretKeyFile(expanded)); err != nil {
		return err
	}
	return writeFile(dir, FilePublicKey, PublicKeyFile(kp.Public))
}

func writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
