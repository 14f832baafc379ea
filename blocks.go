package fpe

import (
	"fmt"
	"unicode/utf8"
)

// unicodeBlock names a contiguous, single-UTF8-width code point range used
// to build a preset non-ASCII alphabet. Ranges are chosen so that no block
// straddles a UTF-8 width boundary (0x80, 0x800, 0x10000) — IndexedGlyphSet
// requires every glyph in a set to share one byte width.
type unicodeBlock struct {
	name   string
	lo, hi rune // inclusive
}

// presetBlocks is a representative, pairwise-disjoint sample of Unicode
// blocks (not an exhaustive listing of all ~300+ defined blocks), spanning
// Greek, Cyrillic, Hebrew, Arabic, Devanagari, Hiragana, Katakana, Hangul
// Syllables, and CJK Unified Ideographs. See blocks_test.go for the
// disjointness check spec.md §4.6 asks for.
var presetBlocks = []unicodeBlock{
	{"greek", 0x0370, 0x03FF},
	{"cyrillic", 0x0400, 0x04FF},
	{"hebrew", 0x0590, 0x05FF},
	{"arabic", 0x0600, 0x06FF},
	{"devanagari", 0x0900, 0x097F},
	{"hiragana", 0x3040, 0x309F},
	{"katakana", 0x30A0, 0x30FF},
	{"cjk_unified_ideographs", 0x4E00, 0x9FFF},
	{"hangul_syllables", 0xAC00, 0xD7A3},
}

// isSurrogate reports whether cp falls in the UTF-16 surrogate range, which
// holds no valid Unicode scalar values and must never appear in a glyph set.
func isSurrogate(cp rune) bool {
	return cp >= 0xD800 && cp <= 0xDFFF
}

// blockGlyphs encodes every code point in [b.lo, b.hi], skipping any
// surrogate code points, as a flat UTF-8 byte buffer suitable for
// NewIndexedGlyphSet.
func blockGlyphs(b unicodeBlock) []byte {
	buf := make([]byte, 0, int(b.hi-b.lo+1)*utf8.UTFMax)
	var enc [utf8.UTFMax]byte
	for cp := b.lo; cp <= b.hi; cp++ {
		if isSurrogate(cp) {
			continue
		}
		n := utf8.EncodeRune(enc[:], cp)
		buf = append(buf, enc[:n]...)
	}
	return buf
}

// BlockSet builds the IndexedGlyphSet for the named preset block (one of
// presetBlocks' names). It returns ErrInvalidAlphabet if name is unknown.
func BlockSet(name string) (*IndexedGlyphSet, error) {
	for _, b := range presetBlocks {
		if b.name == name {
			return NewIndexedGlyphSet(b.name, blockGlyphs(b))
		}
	}
	return nil, fmt.Errorf("%w: unknown block %q", ErrInvalidAlphabet, name)
}

// BlockNames returns the names of all preset Unicode blocks, in a fixed
// order.
func BlockNames() []string {
	names := make([]string, len(presetBlocks))
	for i, b := range presetBlocks {
		names[i] = b.name
	}
	return names
}

// blockPresetCiphers builds a GlyphCipher for each preset Unicode block,
// bound to key and tweak.
func blockPresetCiphers(key, tweak []byte) ([]*GlyphCipher, error) {
	ciphers := make([]*GlyphCipher, 0, len(presetBlocks))
	for _, b := range presetBlocks {
		set, err := NewIndexedGlyphSet(b.name, blockGlyphs(b))
		if err != nil {
			return nil, err
		}
		c, err := NewGlyphCipher(set, key, tweak)
		if err != nil {
			return nil, err
		}
		ciphers = append(ciphers, c)
	}
	return ciphers, nil
}
