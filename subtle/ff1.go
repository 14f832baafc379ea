package subtle

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/hkdf"
)

const numRounds = 10

// Key is FF1 key material bound to one radix. It is derived from a caller
// key via HKDF with the radix folded into the info parameter, so that
// constructing a Key for the wrong radix yields unrelated key material
// rather than silently reusing it — the invariant spec.md §3 calls "the
// derived key is bound to r; reuse with a different radix is a programming
// error" is therefore enforced by construction, not by convention.
//
// The derived AES key lives in a memguard enclave and is only decrypted for
// the duration of a single Encrypt/Decrypt call. Close does not overwrite
// the enclave's sealed copy of that key (see Close).
type Key struct {
	enclave *memguard.Enclave
	tweak   []byte
	radix   uint32
	minlen  int
}

// NewKey derives FF1 key material from key (16, 24, or 32 raw AES key
// bytes), tweak (an arbitrary-length public value), and radix (>= 2,
// satisfying radix^minlen >= 100 for some minlen, per NIST SP 800-38G's
// minimum-length condition).
func NewKey(key, tweak []byte, radix uint32) (*Key, error) {
	keyLen := len(key)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("%w: got %d bytes, want 16, 24, or 32", ErrInvalidKey, keyLen)
	}
	if radix < 2 {
		return nil, fmt.Errorf("%w: radix must be >= 2, got %d", ErrInvalidRadix, radix)
	}

	derived := make([]byte, keyLen)
	info := []byte(fmt.Sprintf("unifpe-ff1-key-v1-radix-%d", radix))
	kdf := hkdf.New(sha256.New, key, tweak, info)
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, fmt.Errorf("fpe/subtle: deriving per-radix key: %w", err)
	}

	enclave := memguard.NewEnclave(derived)
	memguard.WipeBytes(derived)

	t := make([]byte, len(tweak))
	copy(t, tweak)

	return &Key{
		enclave: enclave,
		tweak:   t,
		radix:   radix,
		minlen:  minLengthForRadix(radix),
	}, nil
}

// Radix returns the radix this key is bound to.
func (k *Key) Radix() uint32 { return k.radix }

// MinLen returns the minimum digit-sequence length for which FF1 provides
// its security guarantee. Callers below this length should treat Encrypt
// as non-cryptographic (see GlyphCipher's minlen passthrough).
func (k *Key) MinLen() int { return k.minlen }

// Close wipes the Key's copy of the tweak and drops its reference to the
// enclave; the enclave's sealed (encrypted) copy of the derived key is not
// overwritten. Safe to call more than once.
func (k *Key) Close() {
	if k.enclave != nil {
		memguard.WipeBytes(k.tweak)
		k.enclave = nil
	}
}

// Encrypt runs the FF1 Feistel construction forward over digits, each of
// which must satisfy digits[i] < k.Radix(). Length is preserved exactly.
// Empty input is returned unchanged.
func (k *Key) Encrypt(digits []uint32) ([]uint32, error) {
	return k.feistel(digits, true)
}

// Decrypt is the inverse of Encrypt.
func (k *Key) Decrypt(digits []uint32) ([]uint32, error) {
	return k.feistel(digits, false)
}

// feistel implements NIST SP 800-38G's FF1.Encrypt/FF1.Decrypt. forward
// chooses the direction; the round order and the sign of the modular
// combination step both flip between the two.
func (k *Key) feistel(digits []uint32, forward bool) ([]uint32, error) {
	n := len(digits)
	if n == 0 {
		return []uint32{}, nil
	}

	for _, d := range digits {
		if d >= k.radix {
			return nil, fmt.Errorf("%w: digit %d >= radix %d", ErrDigitOutOfRange, d, k.radix)
		}
	}

	lb, err := k.enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("fpe/subtle: opening key material: %w", err)
	}
	defer lb.Destroy()

	block, err := aes.NewCipher(lb.Bytes())
	if err != nil {
		return nil, fmt.Errorf("fpe/subtle: initializing AES: %w", err)
	}

	u := n / 2
	v := n - u

	A := append([]uint32(nil), digits[:u]...)
	B := append([]uint32(nil), digits[u:]...)

	t := len(k.tweak)
	bLen := (v*bitLength(k.radix) + 7) / 8
	if bLen < 1 {
		bLen = 1
	}
	dLen := 4*((bLen+3)/4) + 4
	pad := (((-t - bLen - 1) % 16) + 16) % 16

	P := buildP(k.radix, byte(u%256), uint32(n), uint32(t))

	rounds := make([]int, numRounds)
	for i := range rounds {
		rounds[i] = i
	}
	if !forward {
		for i, j := 0, len(rounds)-1; i < j; i, j = i+1, j-1 {
			rounds[i], rounds[j] = rounds[j], rounds[i]
		}
	}

	for _, i := range rounds {
		// On the forward direction round i operates on B to update A; on
		// the reverse direction it operates on A (which played B's role
		// when this same round ran forward) to recover B.
		var source, target []uint32
		if forward {
			source, target = B, A
		} else {
			source, target = A, B
		}

		Q := make([]byte, 0, t+pad+1+bLen)
		Q = append(Q, k.tweak...)
		Q = append(Q, make([]byte, pad)...)
		Q = append(Q, byte(i))
		Q = append(Q, numradixToBytesFixed(source, k.radix, bLen)...)

		R := prf(block, append(append([]byte(nil), P...), Q...))

		S := make([]byte, 0, dLen)
		S = append(S, R...)
		for j := 1; len(S) < dLen; j++ {
			S = append(S, xorBlockEncrypt(block, R, j)...)
		}
		S = S[:dLen]
		y := new(big.Int).SetBytes(S)

		m := v
		if i%2 == 0 {
			m = u
		}
		radixPowM := new(big.Int).Exp(big.NewInt(int64(k.radix)), big.NewInt(int64(m)), nil)

		numTarget := numradixEncode(target, k.radix)
		combined := new(big.Int)
		if forward {
			combined.Add(numTarget, y)
		} else {
			combined.Sub(numTarget, y)
		}
		combined.Mod(combined, radixPowM)
		C := numradixDecode(combined, k.radix, m)

		if forward {
			A, B = B, C
		} else {
			B, A = A, C
		}
	}

	result := make([]uint32, n)
	copy(result, A)
	copy(result[len(A):], B)
	return result, nil
}

// buildP assembles FF1's fixed 16-byte P block: version/method/addition
// markers, radix (3 bytes), round count, u mod 256, n, and tweak length,
// all big-endian, per NIST SP 800-38G.
func buildP(radix uint32, uMod256 byte, n, t uint32) []byte {
	P := make([]byte, 16)
	P[0], P[1], P[2] = 1, 2, 1
	P[3] = byte(radix >> 16)
	P[4] = byte(radix >> 8)
	P[5] = byte(radix)
	P[6] = numRounds
	P[7] = uMod256
	P[8] = byte(n >> 24)
	P[9] = byte(n >> 16)
	P[10] = byte(n >> 8)
	P[11] = byte(n)
	P[12] = byte(t >> 24)
	P[13] = byte(t >> 16)
	P[14] = byte(t >> 8)
	P[15] = byte(t)
	return P
}

// prf computes CBC-MAC over data (which must be a multiple of the AES block
// size) with a zero IV, returning the final 16-byte block.
func prf(block cipher.Block, data []byte) []byte {
	iv := make([]byte, aes.BlockSize)
	mode := cipher.NewCBCEncrypter(block, iv)
	out := make([]byte, len(data))
	mode.CryptBlocks(out, data)
	return out[len(out)-aes.BlockSize:]
}

// xorBlockEncrypt computes CIPH_K(R XOR [j]_16), NIST FF1's construction for
// extending R into additional pseudorandom blocks when d > 16.
func xorBlockEncrypt(block cipher.Block, r []byte, j int) []byte {
	in := make([]byte, aes.BlockSize)
	copy(in, r)
	jBytes := big.NewInt(int64(j)).Bytes()
	for i := 0; i < len(jBytes); i++ {
		in[aes.BlockSize-1-i] ^= jBytes[len(jBytes)-1-i]
	}
	out := make([]byte, aes.BlockSize)
	block.Encrypt(out, in)
	return out
}

// numradixToBytesFixed is numradixToBytes with an explicit output length
// (NIST's NUM_radix(B) for the Q array is always exactly bLen bytes).
func numradixToBytesFixed(digits []uint32, radix uint32, length int) []byte {
	val := numradixEncode(digits, radix)
	raw := val.Bytes()
	if len(raw) >= length {
		return raw[len(raw)-length:]
	}
	padded := make([]byte, length)
	copy(padded[length-len(raw):], raw)
	return padded
}

// minLengthForRadix returns the smallest n such that radix^n >= 100, the
// FF1 minimum-length condition from NIST SP 800-38G.
func minLengthForRadix(radix uint32) int {
	if radix < 2 {
		return 1
	}
	n := 1
	pow := new(big.Int).SetUint64(uint64(radix))
	hundred := big.NewInt(100)
	radixBig := new(big.Int).SetUint64(uint64(radix))
	for pow.Cmp(hundred) < 0 {
		n++
		pow.Mul(pow, radixBig)
	}
	return n
}
