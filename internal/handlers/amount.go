package handlers

import (
	"math"
	"strconv"
)

// Amount is a computed figure in a response. ROI and profit can be NaN or
// infinite for degenerate listings; those encode as null.
type Amount float64

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}
