// Package subtle implements the low-level FF1 format-preserving Feistel
// cipher over digit sequences in an arbitrary radix. It does not know about
// UTF-8 or glyphs; callers convert their alphabet to digits in [0, radix)
// first. Most callers should use the parent fpe package instead.
package subtle

import "math/big"

// numradixEncode packs a base-radix digit sequence into a single big
// integer, most significant digit first.
func numradixEncode(digits []uint32, radix uint32) *big.Int {
	result := new(big.Int)
	radixBig := new(big.Int).SetUint64(uint64(radix))
	digit := new(big.Int)
	for _, d := range digits {
		result.Mul(result, radixBig)
		digit.SetUint64(uint64(d))
		result.Add(result, digit)
	}
	return result
}

// numradixDecode unpacks val into a base-radix digit sequence of exactly
// length digits, least significant digit last.
func numradixDecode(val *big.Int, radix uint32, length int) []uint32 {
	result := make([]uint32, length)
	radixBig := new(big.Int).SetUint64(uint64(radix))
	remainder := new(big.Int)
	temp := new(big.Int).Set(val)

	for i := length - 1; i >= 0; i-- {
		temp.DivMod(temp, radixBig, remainder)
		result[i] = uint32(remainder.Uint64())
	}
	return result
}

// bitLength returns the number of bits needed to represent radix-1.
func bitLength(radix uint32) int {
	if radix <= 1 {
		return 1
	}
	bits := 0
	for n := radix - 1; n > 0; n >>= 1 {
		bits++
	}
	return bits
}
