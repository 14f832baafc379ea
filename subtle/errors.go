package subtle

import "errors"

var (
	// ErrInvalidKey: key size not in {16, 24, 32} bytes.
	ErrInvalidKey = errors.New("fpe/subtle: invalid key size")

	// ErrInvalidRadix: radix < 2.
	ErrInvalidRadix = errors.New("fpe/subtle: invalid radix")

	// ErrDigitOutOfRange: a digit's value is >= the bound radix.
	ErrDigitOutOfRange = errors.New("fpe/subtle: digit out of range for radix")
)
