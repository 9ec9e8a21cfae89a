// Package onion encodes ed25519 public keys into v3 hidden-service addresses.
//
// Layout: base32(pubkey || checksum[:2] || version), where
// checksum = SHA3-256(".onion checksum" || pubkey || version).
package onion

import (
	"bytes"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	Version       byte = 0x03
	PublicKeySize      = 32
	AddressLen         = 56
	Suffix             = ".onion"
	Alphabet           = "abcdefghijklmnopqrstuvwxyz234567"
)

var ErrInvalidAddress = errors.New("invalid onion address")

var (
	checksumPrefix = []byte(".onion checksum")
	encoding       = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// Encode maps a public key to its 56-character lowercase address.
func Encode(pub [PublicKeySize]byte) string {
	sum := checksum(pub[:])

	var raw [PublicKeySize + 3]byte
	copy(raw[:], pub[:])
	raw[32] = sum[0]
	raw[33] = sum[1]
	raw[34] = Version

	return strings.ToLower(encoding.EncodeToString(raw[:]))
}

// Hostname returns the address with the .onion suffix.
func Hostname(pub [PublicKeySize]byte) string {
	return Encode(pub) + Suffix
}

// Decode parses an address (case-insensitive, optional .onion suffix) and
// returns the embedded public key after checking version and checksum.
func Decode(addr string) ([PublicKeySize]byte, error) {
	var pub [PublicKeySize]byte

	s := strings.ToLower(strings.TrimSpace(addr))
	s = strings.TrimSuffix(s, Suffix)
	if len(s) != AddressLen {
		return pub, fmt.Errorf("%w: length %d, want %d", ErrInvalidAddress, len(s), AddressLen)
	}
	// base32 decoding skips \r and \n, so check the alphabet first
	if i := strings.IndexFunc(s, func(c rune) bool { return !strings.ContainsRune(Alphabet, c) }); i >= 0 {
		return pub, fmt.Errorf("%w: %q at %d is not in base32 alphabet", ErrInvalidAddress, s[i], i)
	}
	raw, err := encoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return pub, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != PublicKeySize+3 {
		return pub, fmt.Errorf("%w: decoded %d bytes, want %d", ErrInvalidAddress, len(raw), PublicKeySize+3)
	}
	if raw[34] != Version {
		return pub, fmt.Errorf("%w: version %#x", ErrInvalidAddress, raw[34])
	}
	sum := checksum(raw[:PublicKeySize])
	if !bytes.Equal(sum[:2], raw[32:34]) {
		return pub, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}
	copy(pub[:], raw[:PublicKeySize])
	return pub, nil
}

func checksum(pub []byte) [32]byte {
	h := sha3.New256()
	h.Write(checksumPrefix)
	h.Write(pub)
	h.Write([]byte{Version})
	var out [32]byte
	h.Sum(out[:0])
	return out
}
