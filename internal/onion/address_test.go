package onion

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeShapeAndAlphabet(t *testing.T) {
	tests := []struct {
		name string
		pub  [PublicKeySize]byte
	}{
		{name: "zero", pub: [PublicKeySize]byte{}},
		{name: "ab", pub: fill(0xAB)},
		{name: "max", pub: fill(0xFF)},
		{name: "counting", pub: counting()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := Encode(tt.pub)
			require.Len(t, addr, AddressLen)
			for _, c := range addr {
				assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected char %q in %s", c, addr)
			}
		})
	}
}

func TestEncodeRandomKeys(t *testing.T) {
	for i := 0; i < 2000; i++ {
		var pub [PublicKeySize]byte
		_, err := rand.Read(pub[:])
		require.NoError(t, err)

		addr := Encode(pub)
		require.Len(t, addr, AddressLen)
		for _, c := range addr {
			require.True(t, strings.ContainsRune(Alphabet, c), "unexpected char %q in %s", c, addr)
		}

		got, err := Decode(addr)
		require.NoError(t, err)
		require.Equal(t, pub, got)
	}
}

func FuzzEncode(f *testing.F) {
	f.Add(make([]byte, PublicKeySize))
	f.Add([]byte("0123456789abcdef0123456789abcdef"))
	f.Fuzz(func(t *testing.T, in []byte) {
		var pub [PublicKeySize]byte
		copy(pub[:], in)

		addr := Encode(pub)
		if len(addr) != AddressLen {
			t.Fatalf("len %d", len(addr))
		}
		if strings.Trim(addr, Alphabet) != "" {
			t.Fatalf("bad alphabet: %s", addr)
		}
		if got, err := Decode(addr); err != nil || got != pub {
			t.Fatalf("decode %s: %v", addr, err)
		}
	})
}

func FuzzDecode(f *testing.F) {
	f.Add(Encode(counting()))
	f.Add("")
	f.Fuzz(func(t *testing.T, in string) {
		// must never panic
		_, _ = Decode(in)
	})
}

func TestEncodeDeterministic(t *testing.T) {
	pub := fill(42)
	assert.Equal(t, Encode(pub), Encode(pub))
}

func TestEncodeZeroSeedKey(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
	var pub [PublicKeySize]byte
	copy(pub[:], priv.Public().(ed25519.PublicKey))

	a := Encode(pub)
	b := Encode(pub)
	assert.Equal(t, a, b)
	assert.Len(t, a, AddressLen)
	assert.Equal(t, a+".onion", Hostname(pub))
}

func TestEncodeEndsWithVersionChar(t *testing.T) {
	// the last 5 bits of the 35-byte payload are the low bits of 0x03
	for _, pub := range [][PublicKeySize]byte{fill(0), fill(1), counting()} {
		assert.Equal(t, byte('d'), Encode(pub)[AddressLen-1])
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	pub := counting()
	addr := Encode(pub)

	got, err := Decode(addr)
	require.NoError(t, err)
	assert.Equal(t, pub, got)

	got, err = Decode(strings.ToUpper(addr) + ".onion")
	require.NoError(t, err)
	assert.Equal(t, pub, got)
}

func TestDecodeRejects(t *testing.T) {
	addr := Encode(counting())

	flipped := []byte(addr)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}

	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "short", in: addr[:55]},
		{name: "bad alphabet", in: "1" + addr[1:]},
		{name: "checksum", in: string(flipped)},
		{name: "version", in: addr[:55] + "e"},
		{name: "newline inside", in: addr[:20] + "\n" + addr[21:]},
		{name: "carriage return inside", in: addr[:30] + "\r" + addr[31:]},
		{name: "padding char", in: addr[:55] + "="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	pub := counting()
	for i := 0; i < b.N; i++ {
		_ = Encode(pub)
	}
}

func fill(v byte) [PublicKeySize]byte {
	var p [PublicKeySize]byte
	for i := range p {
		p[i] = v
	}
	return p
}

func counting() [PublicKeySize]byte {
	var p [PublicKeySize]byte
	for i := range p {
		p[i] = byte(i + 1)
	}
	return p
}
