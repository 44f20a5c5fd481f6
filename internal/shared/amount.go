package shared

import "math"

// Upper bounds for a single line. Totals over many lines are still checked for overflow.
const (
	MaxQuantity  int64 = 1_000_000_000
	MaxUnitPrice int64 = 1_000_000_000_000
)

// ErrAmountOverflow indicates a quantity or money computation that does not fit in int64.
var ErrAmountOverflow = NewError(ErrValidation, "amount out of range")

// MulAmount returns a*b for non-negative operands, or ErrAmountOverflow.
func MulAmount(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrAmountOverflow
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, ErrAmountOverflow
	}
	return a * b, nil
}

// AddAmount returns a+b, or ErrAmountOverflow when the sum leaves the int64 range.
func AddAmount(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// LineTotal sums quantity*price over n lines, rejecting overflow at every step.
func LineTotal(n int, line func(i int) (qty, price int64)) (int64, error) {
	var total int64
	for i := 0; i < n; i++ {
		qty, price := line(i)
		sub, err := MulAmount(qty, price)
		if err != nil {
			return 0, err
		}
		if total, err = AddAmount(total, sub); err != nil {
			return 0, err
		}
	}
	return total, nil
}
