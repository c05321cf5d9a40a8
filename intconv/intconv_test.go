package intconv

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/indigo-web/textframe/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("decimal", func(t *testing.T) {
		for _, tc := range []struct {
			In   string
			Want int
		}{
			{"0", 0},
			{"00", 0},
			{"5", 5},
			{"42", 42},
			{"0042", 42},
			{"1234567890", 1234567890},
		} {
			num, err := Parse[int](tc.In, 0, false, 10)
			require.NoError(t, err, tc.In)
			require.Equal(t, tc.Want, num, tc.In)
		}
	})

	t.Run("stops at first non-digit", func(t *testing.T) {
		num, err := Parse[int]("13\r", 0, false, 10)
		require.NoError(t, err)
		require.Equal(t, 13, num)

		num, err = Parse[int]("0x", 0, false, 10)
		require.NoError(t, err)
		require.Zero(t, num)
	})

	t.Run("start offset", func(t *testing.T) {
		num, err := Parse[int]("-128", 1, true, 10)
		require.NoError(t, err)
		require.Equal(t, -128, num)
	})

	t.Run("radix", func(t *testing.T) {
		num, err := Parse[int]("ff", 0, false, 16)
		require.NoError(t, err)
		require.Equal(t, 255, num)

		num, err = Parse[int]("FF", 0, false, 16)
		require.NoError(t, err)
		require.Equal(t, 255, num)

		num, err = Parse[int]("zz", 0, false, 36)
		require.NoError(t, err)
		require.Equal(t, 36*36-1, num)

		num, err = Parse[int]("1012", 0, false, 2)
		require.NoError(t, err)
		require.Equal(t, 5, num)
	})

	t.Run("round trip", func(t *testing.T) {
		values := []int64{1, 7, 255, 4096, 99999, math.MaxInt32, math.MaxInt64}

		for radix := 2; radix <= 36; radix++ {
			for _, value := range values {
				formatted := strconv.FormatInt(value, radix)
				num, err := Parse[int64](formatted, 0, false, radix)
				require.NoError(t, err, "radix %d, %s", radix, formatted)
				require.Equal(t, value, num)
				require.Equal(t, formatted, strconv.FormatInt(num, radix))

				upper := strings.ToUpper(formatted)
				num, err = Parse[int64](upper, 0, false, radix)
				require.NoError(t, err)
				require.Equal(t, value, num)
			}
		}
	})

	t.Run("minimal value", func(t *testing.T) {
		num, err := Parse[int8]("128", 0, true, 10)
		require.NoError(t, err)
		require.Equal(t, int8(math.MinInt8), num)

		num64, err := Parse[int64]("9223372036854775808", 0, true, 10)
		require.NoError(t, err)
		require.Equal(t, int64(math.MinInt64), num64)
	})

	t.Run("maximal value", func(t *testing.T) {
		num, err := Parse[int8]("127", 0, false, 10)
		require.NoError(t, err)
		require.Equal(t, int8(math.MaxInt8), num)
	})
}

func TestParse_Negative(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		for _, in := range []string{"", "x", " 5", "-5", "g"} {
			_, err := Parse[int](in, 0, false, 10)
			require.ErrorIs(t, err, errors.ErrMalformedNumber, "%q", in)
		}

		_, err := Parse[int]("5", 1, false, 10)
		require.ErrorIs(t, err, errors.ErrMalformedNumber)

		_, err = Parse[int]("5", 10, false, 10)
		require.ErrorIs(t, err, errors.ErrMalformedNumber)

		for radix := 2; radix <= 36; radix++ {
			_, err = Parse[int]("", 0, false, radix)
			require.ErrorIs(t, err, errors.ErrMalformedNumber)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := Parse[int64]("99999999999999999999", 0, false, 10)
		require.ErrorIs(t, err, errors.ErrNumericOverflow)

		_, err = Parse[int32]("2147483648", 0, false, 10)
		require.ErrorIs(t, err, errors.ErrNumericOverflow)

		_, err = Parse[int32]("2147483649", 0, true, 10)
		require.ErrorIs(t, err, errors.ErrNumericOverflow)

		_, err = Parse[int8]("128", 0, false, 10)
		require.ErrorIs(t, err, errors.ErrNumericOverflow)

		_, err = Parse[int64]("9223372036854775808", 0, false, 10)
		require.ErrorIs(t, err, errors.ErrNumericOverflow)

		// wraps around to a value lower than the previous one if only the sign is checked
		_, err = Parse[int32]("zzzzzzz", 0, false, 36)
		require.ErrorIs(t, err, errors.ErrNumericOverflow)
	})

	t.Run("radix out of range", func(t *testing.T) {
		for _, radix := range []int{-1, 0, 1, 37} {
			_, err := Parse[int]("1", 0, false, radix)
			require.ErrorIs(t, err, errors.ErrUnsupportedRadix)
		}
	})
}

func TestParseLength(t *testing.T) {
	length, err := ParseLength([]byte("1024"))
	require.NoError(t, err)
	require.Equal(t, 1024, length)

	_, err = ParseLength(nil)
	require.ErrorIs(t, err, errors.ErrMalformedNumber)

	_, err = ParseLength([]byte("-1"))
	require.ErrorIs(t, err, errors.ErrMalformedNumber)
}

func BenchmarkParse(b *testing.B) {
	const value = "1234567890"
	b.SetBytes(int64(len(value)))
	b.ResetTimer()

	for range b.N {
		_, _ = Parse[int](value, 0, false, 10)
	}
}
