package foliosim

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Weight is the fraction of the portfolio allocated to one asset.
// It is exact: a set of weights normalized together sums to exactly one.
type Weight struct {
	value decimal.Decimal
}

func W[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Weight {
	return Weight{value: newDecimal(value)}
}

func (w Weight) Equal(x Weight) bool       { return w.value.Equal(x.value) }
func (w Weight) LessThan(x Weight) bool    { return w.value.LessThan(x.value) }
func (w Weight) GreaterThan(x Weight) bool { return w.value.GreaterThan(x.value) }
func (w Weight) Add(x Weight) Weight       { return Weight{value: w.value.Add(x.value)} }
func (w Weight) Sub(x Weight) Weight       { return Weight{value: w.value.Sub(x.value)} }
func (w Weight) Mul(x Weight) Weight       { return Weight{value: w.value.Mul(x.value)} }
func (w Weight) Div(x Weight) Weight       { return Weight{value: w.value.Div(x.value)} }
func (w Weight) IsZero() bool              { return w.value.IsZero() }
func (w Weight) IsNegative() bool          { return w.value.IsNegative() }
func (w Weight) IsPositive() bool          { return w.value.IsPositive() }
func (w Weight) String() string            { return w.value.String() }

// Percent returns the weight expressed in percentage points.
func (w Weight) Percent() Percent { return Percent(w.value.InexactFloat64() * 100) }

// InexactFloat64 returns the nearest float64 for chart payloads.
func (w Weight) InexactFloat64() float64 { return w.value.InexactFloat64() }

func (w Weight) MarshalJSON() ([]byte, error) {
	return w.value.MarshalJSON()
}
func (w *Weight) UnmarshalJSON(decimalBytes []byte) error {
	return w.value.UnmarshalJSON(decimalBytes)
}

// Normalize scales the given weights so they sum to exactly one. The last
// non-zero weight absorbs the division remainder. Negative weights or an
// all-zero set are rejected by Portfolio.SetWeights before reaching here.
func Normalize(weights []Weight) []Weight {
	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w.value)
	}
	if total.IsZero() {
		return weights
	}
	normalized := make([]Weight, len(weights))
	sum := decimal.Zero
	last := -1
	for i, w := range weights {
		normalized[i] = Weight{value: w.value.Div(total)}
		sum = sum.Add(normalized[i].value)
		if !w.IsZero() {
			last = i
		}
	}
	// Division rounds, so the sum can be off by a few ulps. Pin it to one.
	if last >= 0 {
		normalized[last].value = normalized[last].value.Add(decimal.NewFromInt(1).Sub(sum))
	}
	return normalized
}

// EqualWeights returns n identical weights summing to exactly one.
func EqualWeights(n int) []Weight {
	if n <= 0 {
		return nil
	}
	weights := make([]Weight, n)
	for i := range weights {
		weights[i] = W(1)
	}
	return Normalize(weights)
}
