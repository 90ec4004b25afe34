package render

import (
	"strconv"
	"strings"
)

// RangeStatus classifies a result against its reference range.
type RangeStatus int

const (
	InRange RangeStatus = iota
	AboveRange
	BelowRange
)

// EvaluateRange parses value as a float and refRange as "min-max" and flags
// the result when it falls strictly outside [min, max]. Any parse failure —
// non-numeric value, malformed range, missing range — yields InRange: the
// permissive default means a qualitative result ("Positive") is never
// highlighted as abnormal.
func EvaluateRange(value, refRange string) RangeStatus {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return InRange
	}

	min, max, ok := parseRange(refRange)
	if !ok {
		return InRange
	}

	if v > max {
		return AboveRange
	}
	if v < min {
		return BelowRange
	}
	return InRange
}

// parseRange splits "min-max" into two floats. The split is on the first
// hyphen that separates the two numbers, so "12-16" and "12.5 - 16.5" parse
// while "positive" and "12" do not.
func parseRange(refRange string) (min, max float64, ok bool) {
	lo, hi, found := strings.Cut(strings.TrimSpace(refRange), "-")
	if !found {
		return 0, 0, false
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return 0, 0, false
	}
	max, err = strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return 0, 0, false
	}
	if min > max {
		return 0, 0, false
	}
	return min, max, true
}
