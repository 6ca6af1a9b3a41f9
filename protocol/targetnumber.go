package protocol

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxTargetNumberRange bounds how many numbers a "lo-hi" range expands to
	MaxTargetNumberRange = 100000

	// maxWholeTargetNumber is the largest whole number a float64 counts to exactly
	maxWholeTargetNumber = 1 << 53
)

var (
	ErrMalformedTargetNumber = errors.New("Target number is malformed")
)

// TargetNumber identifies a record target, e.g. cue 1.5 or group 20.
type TargetNumber float64

// ParseTargetNumber parses a single, possibly fractional, target number.
func ParseTargetNumber(s string) (TargetNumber, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrMalformedTargetNumber)
	}

	return TargetNumber(n), nil
}

// ParseTargetNumberRange expands either a single target number or a "lo-hi"
// range into every whole number from lo to hi, inclusive.
func ParseTargetNumberRange(s string) ([]TargetNumber, error) {
	parts := strings.Split(s, "-")

	switch len(parts) {
	case 1:
		n, err := ParseTargetNumber(parts[0])
		if err != nil {
			return nil, err
		}
		return []TargetNumber{n}, nil

	case 2:
		lo, err := ParseTargetNumber(parts[0])
		if err != nil {
			return nil, err
		}

		hi, err := ParseTargetNumber(parts[1])
		if err != nil {
			return nil, err
		}

		if hi < lo {
			return nil, fmt.Errorf("%q has a lower bound above its upper bound: %w", s, ErrMalformedTargetNumber)
		}

		if !lo.isWhole() || !hi.isWhole() {
			return nil, fmt.Errorf("%q needs whole number bounds: %w", s, ErrMalformedTargetNumber)
		}

		if hi-lo >= MaxTargetNumberRange {
			return nil, fmt.Errorf("%q spans more than %d numbers: %w", s, MaxTargetNumberRange, ErrMalformedTargetNumber)
		}

		first, last := int64(lo), int64(hi)

		numbers := make([]TargetNumber, 0, last-first+1)
		for i := first; i <= last; i++ {
			numbers = append(numbers, TargetNumber(i))
		}

		return numbers, nil

	default:
		return nil, fmt.Errorf("%q: %w", s, ErrMalformedTargetNumber)
	}
}

// ExpandTargetNumbers expands every argument with AsTargetNumberRange and
// concatenates the results in order. Duplicates are kept unless dedupe is set,
// in which case only the first occurrence of each number survives.
func ExpandTargetNumbers(args []Argument, dedupe bool) ([]TargetNumber, error) {
	numbers := make([]TargetNumber, 0, len(args))
	var seen map[TargetNumber]struct{}

	if dedupe {
		seen = make(map[TargetNumber]struct{}, len(args))
	}

	for _, arg := range args {
		expanded, err := arg.AsTargetNumberRange()
		if err != nil {
			return nil, err
		}

		for _, n := range expanded {
			if dedupe {
				if _, ok := seen[n]; ok {
					continue
				}
				seen[n] = struct{}{}
			}

			numbers = append(numbers, n)
		}
	}

	return numbers, nil
}

func (t TargetNumber) isWhole() bool {
	return math.Abs(float64(t)) <= maxWholeTargetNumber && math.Trunc(float64(t)) == float64(t)
}

// String formats the number without trailing zeros, "1" or "1.5".
func (t TargetNumber) String() string {
	return strconv.FormatFloat(float64(t), 'f', -1, 64)
}
