package keystore

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/1F47E/onion-gen/internal/onion"
)

var ErrMismatch = errors.New("key material mismatch")

// Loaded is an exported directory read back from disk.
type Loaded struct {
	Dir      string
	Hostname string // without ".onion"
	KeyPair  KeyPair

	// set only when the Tor-native files exist
	Expanded  *[ExpandedSize]byte
	TorPublic *[32]byte
}

// Load reads hostname and private_key, and the hs_ed25519 files when present.
func Load(dir string) (*Loaded, error) {
	host, err := os.ReadFile(filepath.Join(dir, FileHostname))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", FileHostname, err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, FilePrivateKey))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", FilePrivateKey, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%s: %d bytes, want %d", FilePrivateKey, len(raw), ed25519.PrivateKeySize)
	}

	l := &Loaded{
		Dir:      dir,
		Hostname: strings.TrimSuffix(strings.TrimSpace(string(host)), onion.Suffix),
	}
	copy(l.KeyPair.Seed[:], raw[:SeedSize])
	copy(l.KeyPair.Public[:], raw[SeedSize:])

	if blob, err := os.ReadFile(filepath.Join(dir, FileSecretKey)); err == nil {
		body, err := stripHeader(blob, SecretHeader, ExpandedSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", FileSecretKey, err)
		}
		var exp [ExpandedSize]byte
		copy(exp[:], body)
		l.Expanded = &exp
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", FileSecretKey, err)
	}

	if blob, err := os.ReadFile(filepath.Join(dir, FilePublicKey)); err == nil {
		body, err := stripHeader(blob, PublicHeader, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", FilePublicKey, err)
		}
		var pub [32]byte
		copy(pub[:], body)
		l.TorPublic = &pub
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", FilePublicKey, err)
	}

	return l, nil
}

// Verify loads dir and reports every inconsistency between its files.
func Verify(dir string) (*Loaded, error) {
	l, err := Load(dir)
	if err != nil {
		return nil, err
	}

	var errs error
	kp := l.KeyPair
	if FromSeed(kp.Seed).Public != kp.Public {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s public half does not derive from seed", ErrMismatch, FilePrivateKey))
	}
	if _, err := onion.Decode(l.Hostname); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: %w", ErrMismatch, FileHostname, err))
	}
	addr := onion.Encode(kp.Public)
	if l.Hostname != addr {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s is %q, key encodes %q", ErrMismatch, FileHostname, l.Hostname, addr))
	}
	if base := filepath.Base(filepath.Clean(dir)); base != addr {
		errs = multierr.Append(errs, fmt.Errorf("%w: directory %q, key encodes %q", ErrMismatch, base, addr))
	}
	if l.Expanded != nil {
		if *l.Expanded != ExpandSecretKey(kp.Seed) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s does not expand from seed", ErrMismatch, FileSecretKey))
		}
		pub, err := PublicFromExpanded(*l.Expanded)
		if err != nil || pub != kp.Public {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s does not derive the public key", ErrMismatch, FileSecretKey))
		}
	}
	if l.TorPublic != nil && *l.TorPublic != kp.Public {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s differs from %s", ErrMismatch, FilePublicKey, FilePrivateKey))
	}
	return l, errs
}

func stripHeader(blob []byte, header string, bodyLen int) ([]byte, error) {
	if len(blob) != HeaderSize+bodyLen {
		return nil, fmt.Errorf("%d bytes, want %d", len(blob), HeaderSize+bodyLen)
	}
	want := make([]byte, HeaderSize)
	copy(want, header)
	if !bytes.Equal(blob[:HeaderSize], want) {
		return nil, errors.New("bad header")
	}
	return blob[HeaderSize:], nil
}
