// Package keystore holds hidden-service key pairs and writes them to disk in
// the raw and Tor-native formats.
package keystore

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"github.com/1F47E/onion-gen/internal/onion"
)

const SeedSize = ed25519.SeedSize

// KeyPair is an ed25519 seed and the public key derived from it.
type KeyPair struct {
	Seed   [SeedSize]byte
	Public [onion.PublicKeySize]byte
}

// FromSeed derives the public half of seed.
func FromSeed(seed [SeedSize]byte) KeyPair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	kp := KeyPair{Seed: seed}
	copy(kp.Public[:], priv[SeedSize:])
	return kp
}

// Generate reads a fresh seed from r.
func Generate(r io.Reader) (KeyPair, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		return KeyPair{}, fmt.Errorf("read seed: %w", err)
	}
	return FromSeed(seed), nil
}

// PrivateKey returns the 64-byte seed||public form used by crypto/ed25519.
func (kp KeyPair) PrivateKey() ed25519.PrivateKey {
	out := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(out, kp.Seed[:])
	copy(out[SeedSize:], kp.Public[:])
	return out
}

func (kp KeyPair) Address() string {
	return onion.Encode(kp.Public)
}
