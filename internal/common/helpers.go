package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	ADADecimals = 6 // ADA has 6 decimals (lovelace)

	// MinOutputLovelace is the smallest output the service will ask the
	// provider to build. Smaller outputs are rejected on-chain by min-UTxO.
	MinOutputLovelace = 1_000_000
)

// LovelaceToADA converts lovelace to ADA string without float precision loss
func LovelaceToADA(lovelace uint64) string {
	return formatWithDecimals(lovelace, ADADecimals)
}

// ADAToLovelace converts ADA string to lovelace without float precision loss
func ADAToLovelace(ada string) (uint64, error) {
	return parseWithDecimals(ada, ADADecimals)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(10000000, 6) = "10.000000"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("1.5", 6) = 1500000
// Values that do not fit uint64 and fractions finer than decimals are errors.
func parseWithDecimals(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	if whole == "" {
		whole = "0"
	}
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}

	if len(frac) > decimals {
		return 0, fmt.Errorf("too many decimal places: at most %d allowed", decimals)
	}
	// Pad fractional part to exact decimals
	frac += strings.Repeat("0", decimals-len(frac))

	n, err := strconv.ParseUint(whole+frac, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("amount %s is too large", s)
		}
		return 0, err
	}
	return n, nil
}

// ParseOutputSpec parses "address:lovelace" as used by the CLI -to flag.
// The amount may carry an "ada" suffix, e.g. "addr_test1...:2.5ada".
func ParseOutputSpec(spec string) (address string, lovelace uint64, err error) {
	i := strings.LastIndex(spec, ":")
	if i <= 0 || i == len(spec)-1 {
		return "", 0, fmt.Errorf("output must look like address:lovelace, got %q", spec)
	}
	address, amount := spec[:i], strings.ToLower(spec[i+1:])

	if ada, ok := strings.CutSuffix(amount, "ada"); ok {
		lovelace, err = ADAToLovelace(ada)
	} else {
		lovelace, err = strconv.ParseUint(amount, 10, 64)
	}
	if err != nil {
		return "", 0, fmt.Errorf("invalid amount in %q: %w", spec, err)
	}
	return address, lovelace, nil
}
