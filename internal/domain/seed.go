package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSeed parses a textual seed. Only base-10, non-negative integers are
// accepted; values such as "", "random" or "now" would make runs
// unreproducible and are rejected with ErrInvalidSeed.
func ParseSeed(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("parse seed: empty value: %w", ErrInvalidSeed)
	}

	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse seed %q: %w", raw, ErrInvalidSeed)
	}

	return ValidateSeed(seed)
}

// ValidateSeed rejects negative seeds.
func ValidateSeed(seed int64) (int64, error) {
	if seed < 0 {
		return 0, fmt.Errorf("validate seed %d: must be non-negative: %w", seed, ErrInvalidSeed)
	}
	return seed, nil
}
