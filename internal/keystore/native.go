package keystore

import (
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	ExpandedSize = 64
	HeaderSize   = 32

	SecretHeader = "== ed25519v1-secret: type0 =="
	PublicHeader = "== ed25519v1-public: type0 =="
)

// ExpandSecretKey hashes the seed with SHA-512 and clamps the scalar half.
// The result is the 64-byte key Tor stores in hs_ed25519_secret_key.
func ExpandSecretKey(seed [SeedSize]byte) [ExpandedSize]byte {
	h := sha512.Sum512(seed[:])
	h[0] &= 248
	h[31] &= 63
	h[31] |= 64
	return h
}

// SecretKeyFile is the 96-byte hs_ed25519_secret_key blob.
func SecretKeyFile(expanded [ExpandedSize]byte) []byte {
	out := make([]byte, HeaderSize, HeaderSize+ExpandedSize)
	copy(out, SecretHeader)
	return append(out, expanded[:]...)
}

// PublicKeyFile is the 64-byte hs_ed25519_public_key blob.
func PublicKeyFile(pub [32]byte) []byte {
	out := make([]byte, HeaderSize, HeaderSize+len(pub))
	copy(out, PublicHeader)
	return append(out, pub[:]...)
}

// PublicFromExpanded computes A = a*B for the scalar half of an expanded key.
func PublicFromExpanded(expanded [ExpandedSize]byte) ([32]byte, error) {
	var pub [32]byte
	a, err := edwards25519.NewScalar().SetBytesWithClamping(expanded[:32])
	if err != nil {
		return pub, fmt.Errorf("scalar: %w", err)
	}
	copy(pub[:], new(edwards25519.Point).ScalarBaseMult(a).Bytes())
	return pub, nil
}

// SignExpanded produces an RFC 8032 signature from an expanded key, the way
// Tor signs with a loaded hs_ed25519_secret_key. The result verifies with
// crypto/ed25519 under pub.
func SignExpanded(expanded [ExpandedSize]byte, pub [32]byte, msg []byte) ([]byte, error) {
	a, err := edwards25519.NewScalar().SetBytesWithClamping(expanded[:32])
	if err != nil {
		return nil, fmt.Errorf("scalar: %w", err)
	}

	h := sha512.New()
	h.Write(expanded[32:])
	h.Write(msg)
	r, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	h.Reset()
	h.Write(R)
	h.Write(pub[:])
	h.Write(msg)
	k, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("challenge: %w", err)
	}

	S := edwards25519.NewScalar().MultiplyAdd(k, a, r)

	sig := make([]byte, 0, 64)
	sig = append(sig, R...)
	return append(sig, S.Bytes()...), nil
}
