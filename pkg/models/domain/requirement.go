package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Requirement is the workload profile a client submits. Immutable once
// submitted; every pipeline stage receives it read-only.
type Requirement struct {
	ServiceKindHint string
	ExpectedUsers   string
	Performance     string
	Notes           string
	Budget          decimal.Decimal
	Region          string
}

// ScaleBand is a coarse bucket approximating usage-driven cost components.
type ScaleBand string

const (
	ScaleSmall      ScaleBand = "small"      // up to 100 users
	ScaleMedium     ScaleBand = "medium"     // up to 1,000
	ScaleLarge      ScaleBand = "large"      // up to 10,000
	ScaleEnterprise ScaleBand = "enterprise" // beyond
)

// ParseScaleBand maps the free-form expected-user field onto a band. The input
// arrives as whatever the front-end sent ("1-100", "enterprise", "about 5000
// users"), so matching is keyword based first, then the largest number found,
// with medium as the default.
func ParseScaleBand(users string) ScaleBand {
	s := strings.ToLower(strings.TrimSpace(users))
	if s == "" {
		return ScaleMedium
	}

	switch {
	case strings.Contains(s, "enterprise"):
		return ScaleEnterprise
	case strings.Contains(s, "large"):
		return ScaleLarge
	case strings.Contains(s, "medium"):
		return ScaleMedium
	case strings.Contains(s, "small"):
		return ScaleSmall
	}

	if n, ok := largestNumber(s); ok {
		switch {
		case n <= 100:
			return ScaleSmall
		case n <= 1_000:
			return ScaleMedium
		case n <= 10_000:
			return ScaleLarge
		default:
			return ScaleEnterprise
		}
	}

	return ScaleMedium
}

// largestNumber finds the largest integer in a free-form string, tolerating
// thousands separators ("10,000 users").
func largestNumber(s string) (int64, bool) {
	var (
		max   int64
		found bool
		runB  strings.Builder
	)
	flush := func() {
		if runB.Len() == 0 {
			return
		}
		if n, err := strconv.ParseInt(runB.String(), 10, 64); err == nil {
			found = true
			if n > max {
				max = n
			}
		}
		runB.Reset()
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			runB.WriteRune(r)
		case r == ',' && runB.Len() > 0:
			// separator inside a number
		default:
			flush()
		}
	}
	flush()
	return max, found
}
