package mnemonic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	var seed [SeedSize]byte
	for i := range seed {
		seed[i] = byte(i * 7)
	}

	words, err := FromSeed(seed)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(words), 24)

	got, err := ToSeed("  " + strings.ToUpper(words) + "\n")
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestZeroSeed(t *testing.T) {
	words, err := FromSeed([SeedSize]byte{})
	require.NoError(t, err)
	// 256 zero bits -> 23 x "abandon" + checksum word
	assert.Equal(t, strings.Repeat("abandon ", 23)+"art", words)
}

func TestToSeedRejects(t *testing.T) {
	tests := []struct {
		name  string
		words string
	}{
		{name: "empty", words: ""},
		{name: "unknown word", words: strings.Repeat("abandon ", 23) + "zzzz"},
		{name: "bad checksum", words: strings.Repeat("abandon ", 24)},
		{name: "twelve words", words: strings.Repeat("abandon ", 11) + "about"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToSeed(tt.words)
			assert.ErrorIs(t, err, ErrInvalidMnemonic)
		})
	}
}
