package catalog

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// MaxQuantityPerSize caps the quantity of one size in a cart or an order.
const MaxQuantityPerSize = 1000

// SizeQuantities maps a size label to a requested quantity.
type SizeQuantities map[string]int

// ClampQuantity limits q to MaxQuantityPerSize
func ClampQuantity(q int) int {
	if q > MaxQuantityPerSize {
		return MaxQuantityPerSize
	}
	return q
}

// Total returns the sum of all quantities
func (s SizeQuantities) Total() int {
	total := 0
	for _, q := range s {
		total += q
	}
	return total
}

// Exceeding returns the labels whose quantity is above MaxQuantityPerSize,
// in display order.
func (s SizeQuantities) Exceeding() []string {
	var out []string
	for _, size := range s.Labels() {
		if s[size] > MaxQuantityPerSize {
			out = append(out, size)
		}
	}
	return out
}

// Positive returns a copy holding only the entries with quantity > 0.
func (s SizeQuantities) Positive() SizeQuantities {
	out := make(SizeQuantities, len(s))
	for size, q := range s {
		if q > 0 {
			out[size] = q
		}
	}
	return out
}

// Clone returns a copy of s
func (s SizeQuantities) Clone() SizeQuantities {
	out := make(SizeQuantities, len(s))
	for size, q := range s {
		out[size] = q
	}
	return out
}

// Labels returns the size labels in display order (see CompareSizes).
func (s SizeQuantities) Labels() []string {
	labels := make([]string, 0, len(s))
	for size := range s {
		labels = append(labels, size)
	}
	sort.Slice(labels, func(i, j int) bool {
		return CompareSizes(labels[i], labels[j]) < 0
	})
	return labels
}

var apparelRank = map[string]int{
	"XXS": 1, "XS": 2, "S": 3, "M": 4, "L": 5,
	"XL": 6, "XXL": 7, "2XL": 7, "XXXL": 8, "3XL": 8,
}

// CompareSizes orders size labels: letter sizes by garment order, then
// labels with a leading number ("25cm", "30-35") numerically, then the rest
// lexically.
func CompareSizes(a, b string) int {
	ra, aLetter := apparelRank[strings.ToUpper(a)]
	rb, bLetter := apparelRank[strings.ToUpper(b)]
	switch {
	case aLetter && bLetter:
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	case aLetter:
		return -1
	case bLetter:
		return 1
	}

	na, aNum := leadingNumber(a)
	nb, bNum := leadingNumber(b)
	switch {
	case aNum && bNum:
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}

func leadingNumber(s string) (float64, bool) {
	end := 0
	for end < len(s) && (unicode.IsDigit(rune(s[end])) || (s[end] == '.' && end > 0)) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
