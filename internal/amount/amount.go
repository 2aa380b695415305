// Package amount implements fixed-precision value arithmetic for the
// analysis engine. Values cross package boundaries in this module as
// integer satoshi counts (int64 or Amount), never as float64, so that
// summation and pruning decisions never depend on binary floating-point
// rounding.
package amount

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SatoshisPerUnit is the number of smallest units ("satoshis") in one
// whole unit of value, matching Bitcoin's own scale.
const SatoshisPerUnit = 100_000_000

// Amount is a signed quantity of value, held as an integer count of
// smallest units; negative values arise for differences such as a fee
// when outputs exceed inputs. The zero value represents zero.
type Amount int64

// Zero is the additive identity.
const Zero Amount = 0

// FromSatoshis wraps a raw satoshi count.
func FromSatoshis(satoshis int64) Amount {
	return Amount(satoshis)
}

// Satoshis returns the raw smallest-unit count.
func (a Amount) Satoshis() int64 {
	return int64(a)
}

// ParseDecimal parses a decimal string such as "1.5" or "0.00000001"
// into an Amount, scaling by SatoshisPerUnit and rejecting anything
// that would lose precision or overflow.
func ParseDecimal(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("amount: empty value")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	wholeVal, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "amount: invalid whole part %q", whole)
	}

	fracVal := int64(0)
	if hasFrac {
		if len(frac) > 8 {
			return 0, errors.Errorf("amount: %q has more than 8 fractional digits", s)
		}
		frac = frac + strings.Repeat("0", 8-len(frac))
		fracVal, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "amount: invalid fractional part %q", frac)
		}
	}

	if wholeVal > (math.MaxInt64-fracVal)/SatoshisPerUnit {
		return 0, errors.Errorf("amount: %q overflows the satoshi range", s)
	}
	total := wholeVal*SatoshisPerUnit + fracVal
	if neg {
		total = -total
	}

	return Amount(total), nil
}

// String renders the amount as a fixed 8-decimal-place value.
func (a Amount) String() string {
	neg := a < 0
	v := int64(a)
	if neg {
		v = -v
	}

	whole := v / SatoshisPerUnit
	frac := v % SatoshisPerUnit

	s := strconv.FormatInt(whole, 10) + "." + zeroPad(frac, 8)
	if neg {
		s = "-" + s
	}
	return s
}

func zeroPad(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// Add returns a+b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a-b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// Sum totals a slice of amounts.
func Sum(vals []Amount) Amount {
	var total Amount
	for _, v := range vals {
		total += v
	}
	return total
}
