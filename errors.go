package fpe

import (
	"errors"
	"fmt"
)

// Sentinel errors describing the kinds listed in the failure taxonomy.
// Callers should match with errors.Is; the wrapped message carries the
// call-specific detail (offsets, indices, sizes).
var (
	// ErrInvalidKey: key size not in {16, 24, 32} bytes.
	ErrInvalidKey = errors.New("fpe: invalid key size")

	// ErrInvalidAlphabet: empty, non-uniform-width, duplicate-containing,
	// or invalid-UTF-8 alphabet source.
	ErrInvalidAlphabet = errors.New("fpe: invalid alphabet")

	// ErrNonUniformWidth: a glyph set's glyphs do not share one byte width.
	ErrNonUniformWidth = errors.New("fpe: glyphs have non-uniform byte width")

	// ErrEmptyOrSingleton: a glyph set has fewer than two glyphs.
	ErrEmptyOrSingleton = errors.New("fpe: glyph set must contain at least two glyphs")

	// ErrDuplicateGlyph: two glyphs in a set are byte-identical.
	ErrDuplicateGlyph = errors.New("fpe: duplicate glyph")

	// ErrInvalidUTF8: malformed input passed to Encrypt/Decrypt.
	ErrInvalidUTF8 = errors.New("fpe: invalid UTF-8")

	// ErrDigitOutOfRange: a digit's value is >= the bound radix.
	ErrDigitOutOfRange = errors.New("fpe: digit out of range for radix")

	// ErrIndexOutOfRange: IndexedGlyphSet.FromIndex called with index >= size.
	ErrIndexOutOfRange = errors.New("fpe: index out of range")

	// ErrUnknownGlyph: IndexedGlyphSet.ToIndex called with a glyph not in the set.
	ErrUnknownGlyph = errors.New("fpe: unknown glyph")

	// ErrBufferTooSmall: the embedding interface's output buffer is too small.
	ErrBufferTooSmall = errors.New("fpe: output buffer too small")
)

// DuplicateGlyphError reports a duplicate detected during IndexedGlyphSet
// construction. It carries the input positions of the glyph's first two
// occurrences and a hex rendering of the offending glyph bytes, per the §4.1
// contract.
type DuplicateGlyphError struct {
	IndexA, IndexB int
	Hex            string
	Text           string // set only if the glyph is printable
}

func (e *DuplicateGlyphError) Error() string {
	msg := fmt.Sprintf("fpe: duplicate glyph detected at indices %d and %d (bytes: %s)", e.IndexA, e.IndexB, e.Hex)
	if e.Text != "" {
		msg += fmt.Sprintf(" (text: %q)", e.Text)
	}
	return msg
}

func (e *DuplicateGlyphError) Unwrap() error { return ErrDuplicateGlyph }
