package fpe

import (
	"fmt"
	"unicode/utf8"
)

// Cipher is the Unicode dispatcher: it parses UTF-8 input, routes each
// glyph to the GlyphCipher whose alphabet covers its code point (or to the
// passthrough cipher), gathers all glyphs of one alphabet from anywhere in
// the input into a "bucket", encrypts each bucket as one FF1 message, and
// reassembles the output in the original glyph order.
// It is immutable after construction and safe for concurrent use by any
// number of goroutines — no shared mutable state is touched by Encrypt or
// Decrypt (spec.md §5).
type Cipher struct {
	router *Router
	// passthroughBase is the bucket index of the first of the four
	// width-keyed passthrough buckets (1,2,3,4 bytes). Splitting
	// passthrough by width, rather than using one shared bucket, keeps
	// every bucket at a fixed per-glyph byte width — see DESIGN.md for why
	// a single mixed-width passthrough bucket cannot round-trip correctly.
	passthroughBase int
}

const numPassthroughBuckets = 4

// NewCipher builds a dispatcher over router.
func NewCipher(router *Router) *Cipher {
	return &Cipher{router: router, passthroughBase: router.NumCiphers()}
}

func (c *Cipher) bucketCount() int { return c.passthroughBase + numPassthroughBuckets }

// Encrypt is the library surface's encrypt(utf8) -> utf8. Output byte
// length always equals input byte length.
func (c *Cipher) Encrypt(input []byte) ([]byte, error) {
	return c.dispatch(input, true)
}

// Decrypt inverts Encrypt: decrypt(encrypt(x)) == x for all valid UTF-8 x.
func (c *Cipher) Decrypt(input []byte) ([]byte, error) {
	return c.dispatch(input, false)
}

type glyphSpan struct {
	bucket int
	offset int
	length int
}

func (c *Cipher) dispatch(input []byte, forward bool) ([]byte, error) {
	if len(input) == 0 {
		return []byte{}, nil
	}

	nBuckets := c.bucketCount()

	// Pass 1: size + tag. Decode once, compute each glyph's bucket and
	// length, and the exact byte budget each bucket needs.
	spans := make([]glyphSpan, 0, len(input))
	bucketSizes := make([]int, nBuckets)

	pos := 0
	for pos < len(input) {
		cp, size, err := decodeUTF8Glyph(input, pos)
		if err != nil {
			return nil, err
		}

		b := c.bucketFor(cp, size)
		spans = append(spans, glyphSpan{bucket: b, offset: pos, length: size})
		bucketSizes[b] += size
		pos += size
	}

	// Allocate: each bucket buffer sized exactly from pass 1's counts.
	buckets := make([][]byte, nBuckets)
	for i, sz := range bucketSizes {
		buckets[i] = make([]byte, 0, sz)
	}

	// Pass 2: bucket. Walk the input again, appending raw bytes.
	for _, s := range spans {
		buckets[s.bucket] = append(buckets[s.bucket], input[s.offset:s.offset+s.length]...)
	}

	// Encrypt each bucket, in bucket-index order, as one FF1 message.
	for b := 0; b < nBuckets; b++ {
		cipher := c.cipherForBucket(b)
		var err error
		if forward {
			buckets[b], err = cipher.Encrypt(buckets[b])
		} else {
			buckets[b], err = cipher.Decrypt(buckets[b])
		}
		if err != nil {
			return nil, fmt.Errorf("fpe: bucket %d: %w", b, err)
		}
	}

	// Reassemble: walk spans in original order, pulling each glyph's bytes
	// from its bucket at the bucket's running read offset.
	out := make([]byte, 0, len(input))
	readOffsets := make([]int, nBuckets)
	for _, s := range spans {
		off := readOffsets[s.bucket]
		out = append(out, buckets[s.bucket][off:off+s.length]...)
		readOffsets[s.bucket] += s.length
	}

	return out, nil
}

// bucketFor returns the dense bucket index for a glyph with code point cp
// and byte length size: a configured alphabet's index if one covers cp, or
// one of the four width-keyed passthrough buckets otherwise.
func (c *Cipher) bucketFor(cp rune, size int) int {
	idx := c.router.indexOf(cp)
	if idx != none {
		return int(idx)
	}
	return c.passthroughBase + (size - 1)
}

func (c *Cipher) cipherForBucket(b int) *GlyphCipher {
	if b < c.passthroughBase {
		return c.router.ciphers[b]
	}
	return c.router.Passthrough()
}

// decodeUTF8Glyph decodes one code point at pos, returning its value, its
// UTF-8 byte length, and an error carrying the byte offset on any malformed
// or truncated sequence (spec.md §4.5's InvalidUtf8 edge case).
func decodeUTF8Glyph(input []byte, pos int) (rune, int, error) {
	cp, size := utf8.DecodeRune(input[pos:])
	if cp == utf8.RuneError && size <= 1 {
		return 0, 0, fmt.Errorf("%w: malformed or truncated sequence at byte offset %d", ErrInvalidUTF8, pos)
	}
	return cp, size, nil
}
