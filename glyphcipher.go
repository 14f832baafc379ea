package fpe

import (
	"errors"
	"fmt"

	"github.com/vdparikh/unifpe/subtle"
)

// GlyphCipher binds an IndexedGlyphSet to an FF1 key at radix = set.Size().
// In noop mode (used for the passthrough cipher, see Router) Encrypt and
// Decrypt are the identity function and no FF1 key is consulted.
type GlyphCipher struct {
	glyphs *IndexedGlyphSet
	key    *subtle.Key
	noop   bool
}

// NewGlyphCipher binds glyphs to a fresh FF1 key derived from key and tweak
// at radix glyphs.Size().
func NewGlyphCipher(glyphs *IndexedGlyphSet, key, tweak []byte) (*GlyphCipher, error) {
	if glyphs == nil || glyphs.Size() == 0 {
		return nil, fmt.Errorf("%w: glyph set cannot be empty", ErrInvalidAlphabet)
	}

	ffKey, err := subtle.NewKey(key, tweak, uint32(glyphs.Size()))
	if err != nil {
		return nil, fmt.Errorf("fpe: building glyph cipher %q: %w", glyphs.Name(), translateSubtleErr(err))
	}

	return &GlyphCipher{glyphs: glyphs, key: ffKey}, nil
}

// NewNoopGlyphCipher builds a passthrough cipher over glyphs. It holds no
// FF1 key material — it exists only so the
// passthrough cipher presents the same Encrypt/Decrypt surface as a real
// one, collapsing the dispatch hot path to a uniform call (see
// UnicodeFPECipher §4.5/§9).
func NewNoopGlyphCipher(glyphs *IndexedGlyphSet) *GlyphCipher {
	return &GlyphCipher{glyphs: glyphs, noop: true}
}

// Glyphs returns the bound alphabet.
func (c *GlyphCipher) Glyphs() *IndexedGlyphSet { return c.glyphs }

// Encrypt walks utf8 in glyph-sized strides, maps each glyph to its index,
// FF1-encrypts the index sequence, and maps back. If the resulting index
// sequence is shorter than FF1's minimum length, utf8 is returned unchanged
// — the minlen-passthrough edge case of §4.3.
func (c *GlyphCipher) Encrypt(utf8 []byte) ([]byte, error) {
	return c.transform(utf8, true)
}

// Decrypt is the inverse of Encrypt.
func (c *GlyphCipher) Decrypt(utf8 []byte) ([]byte, error) {
	return c.transform(utf8, false)
}

func (c *GlyphCipher) transform(input []byte, forward bool) ([]byte, error) {
	if c.noop || len(input) == 0 {
		out := make([]byte, len(input))
		copy(out, input)
		return out, nil
	}

	w := c.glyphs.GlyphSize()
	if len(input)%w != 0 {
		return nil, fmt.Errorf("%w: input length %d is not a multiple of glyph width %d in set %q",
			ErrUnknownGlyph, len(input), w, c.glyphs.Name())
	}

	n := len(input) / w
	indices := make([]uint32, n)
	for i := 0; i < n; i++ {
		idx, err := c.glyphs.ToIndex(string(input[i*w : (i+1)*w]))
		if err != nil {
			return nil, err
		}
		indices[i] = uint32(idx)
	}

	if n < c.key.MinLen() {
		out := make([]byte, len(input))
		copy(out, input)
		return out, nil
	}

	var result []uint32
	var err error
	if forward {
		result, err = c.key.Encrypt(indices)
	} else {
		result, err = c.key.Decrypt(indices)
	}
	if err != nil {
		return nil, translateSubtleErr(err)
	}

	out := make([]byte, 0, len(input))
	for _, idx := range result {
		g, err := c.glyphs.FromIndex(int(idx))
		if err != nil {
			return nil, err
		}
		out = append(out, g...)
	}
	return out, nil
}

// translateSubtleErr maps subtle package sentinel errors onto the parent
// package's taxonomy so callers can errors.Is against fpe.Err* regardless of
// which layer detected the problem.
func translateSubtleErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, subtle.ErrInvalidKey):
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	case errors.Is(err, subtle.ErrDigitOutOfRange):
		return fmt.Errorf("%w: %v", ErrDigitOutOfRange, err)
	default:
		return err
	}
}
