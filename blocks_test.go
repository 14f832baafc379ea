package fpe

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestPresetBlocksArePairwiseDisjoint(t *testing.T) {
	for i := 0; i < len(presetBlocks); i++ {
		for j := i + 1; j < len(presetBlocks); j++ {
			a, b := presetBlocks[i], presetBlocks[j]
			overlap := a.lo <= b.hi && b.lo <= a.hi
			require.Falsef(t, overlap, "blocks %q and %q overlap", a.name, b.name)
		}
	}
}

func TestPresetBlocksAreSingleWidth(t *testing.T) {
	for _, b := range presetBlocks {
		loWidth := utf8.RuneLen(b.lo)
		hiWidth := utf8.RuneLen(b.hi)
		require.Equal(t, loWidth, hiWidth, "block %q spans a UTF-8 width boundary", b.name)
	}
}

func TestBlockSetRoundTripsThroughGlyphCipher(t *testing.T) {
	set, err := BlockSet("greek")
	require.NoError(t, err)
	require.Greater(t, set.Size(), 1)

	cipher, err := NewGlyphCipher(set, make([]byte, 16), []byte("tweak"))
	require.NoError(t, err)

	plain := []byte(set.Glyphs()[0] + set.Glyphs()[1] + set.Glyphs()[2])
	ct, err := cipher.Encrypt(plain)
	require.NoError(t, err)

	pt, err := cipher.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, plain, pt)
}

func TestBlockSetUnknownName(t *testing.T) {
	_, err := BlockSet("klingon")
	require.Error(t, err)
}

func TestBlockNamesMatchesPresetBlocks(t *testing.T) {
	names := BlockNames()
	require.Len(t, names, len(presetBlocks))
	for i, b := range presetBlocks {
		require.Equal(t, b.name, names[i])
	}
}
