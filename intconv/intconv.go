// Package intconv parses signed integers out of character windows without allocating
// and with overflow detection on every accumulation step.
package intconv

import (
	"fmt"
	"unsafe"

	"github.com/indigo-web/textframe/errors"
	"github.com/indigo-web/textframe/internal/constraints"
	"github.com/indigo-web/utils/uf"
)

const invalid = 0xff

// digits maps a character to its digit value regardless of radix. Characters that
// can't be digits at all map to invalid.
var digits = func() (table [256]byte) {
	for i := range table {
		table[i] = invalid
	}

	for c := '0'; c <= '9'; c++ {
		table[c] = byte(c - '0')
	}

	for c := 'a'; c <= 'z'; c++ {
		table[c] = byte(c-'a') + 10
		table[c-'a'+'A'] = byte(c-'a') + 10
	}

	return table
}()

// Parse returns the value of the digit run beginning at start. The run ends at the first
// character which isn't a valid digit in the given radix, everything past it is ignored.
// The magnitude is accumulated negatively, so the minimal value of T is representable. If
// negative is set, the value is returned as is, otherwise it's negated.
//
// ErrMalformedNumber is returned if the run is empty or its last character isn't the zero
// digit while the value is zero. ErrNumericOverflow is returned as soon as the accumulated
// value leaves the range of T.
func Parse[T constraints.Int](value string, start int, negative bool, radix int) (T, error) {
	if radix < 2 || radix > 36 {
		return 0, fmt.Errorf("%w: got %d", errors.ErrUnsupportedRadix, radix)
	}

	if start > len(value) {
		start = len(value)
	}

	var (
		limit  = minValue[T]()
		cutoff = limit / T(radix)
		result T
		i      = start
	)

	for ; i < len(value); i++ {
		digit := int(digits[value[i]])
		if digit >= radix {
			break
		}

		if result < cutoff {
			return 0, fmt.Errorf("%w: parsing %q", errors.ErrNumericOverflow, value[start:])
		}

		result *= T(radix)
		if result < limit+T(digit) {
			return 0, fmt.Errorf("%w: parsing %q", errors.ErrNumericOverflow, value[start:])
		}

		result -= T(digit)
	}

	if result == 0 && (i == start || value[i-1] != '0') {
		return 0, fmt.Errorf("%w: %q", errors.ErrMalformedNumber, value[start:])
	}

	if result == limit && !negative {
		return 0, fmt.Errorf("%w: parsing %q", errors.ErrNumericOverflow, value[start:])
	}

	if negative {
		return result, nil
	}

	return -result, nil
}

// ParseLength parses a decimal non-negative length directly out of the bytes, without
// copying them.
func ParseLength(b []byte) (int, error) {
	return Parse[int](uf.B2S(b), 0, false, 10)
}

func minValue[T constraints.Int]() T {
	var zero T
	return T(-1) << (unsafe.Sizeof(zero)*8 - 1)
}
