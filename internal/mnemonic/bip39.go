// Package mnemonic writes a 32-byte ed25519 seed as 24 BIP-39 words and reads
// it back. The words are the seed itself (as entropy), not a BIP-39 seed
// derivation, so restoring them yields the exact same onion address.
package mnemonic

import (
	"errors"
	"fmt"
	"strings"

	bip39 "github.com/tyler-smith/go-bip39"
)

const SeedSize = 32

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// FromSeed encodes seed as 24 words.
func FromSeed(seed [SeedSize]byte) (string, error) {
	return bip39.NewMnemonic(seed[:])
}

// ToSeed validates the word list checksum and returns the encoded seed.
func ToSeed(words string) ([SeedSize]byte, error) {
	var seed [SeedSize]byte

	mn := strings.Join(strings.Fields(strings.ToLower(words)), " ")
	entropy, err := bip39.EntropyFromMnemonic(mn)
	if err != nil {
		return seed, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	if len(entropy) != SeedSize {
		return seed, fmt.Errorf("%w: %d words encode %d bytes, want %d", ErrInvalidMnemonic, len(strings.Fields(mn)), len(entropy), SeedSize)
	}
	copy(seed[:], entropy)
	return seed, nil
}
