package domain

import "github.com/shopspring/decimal"

// Cost is a monthly USD amount, or the distinguished "unavailable" marker used
// when no price could be resolved for an option. Arithmetic on an unavailable
// cost stays unavailable; it never silently becomes a number.
type Cost struct {
	Amount decimal.Decimal
	Known  bool
}

func NewCost(amount decimal.Decimal) Cost {
	return Cost{Amount: amount, Known: true}
}

func CostFromFloat(v float64) Cost {
	return Cost{Amount: decimal.NewFromFloat(v), Known: true}
}

func UnavailableCost() Cost {
	return Cost{}
}

func (c Cost) MulInt(n int64) Cost {
	if !c.Known {
		return c
	}
	return Cost{Amount: c.Amount.Mul(decimal.NewFromInt(n)), Known: true}
}

func (c Cost) Add(other Cost) Cost {
	if !c.Known || !other.Known {
		return UnavailableCost()
	}
	return Cost{Amount: c.Amount.Add(other.Amount), Known: true}
}

// LessThan orders costs ascending; an unavailable cost sorts last.
func (c Cost) LessThan(other Cost) bool {
	if !c.Known {
		return false
	}
	if !other.Known {
		return true
	}
	return c.Amount.LessThan(other.Amount)
}

func (c Cost) Positive() bool {
	return c.Known && c.Amount.IsPositive()
}

func (c Cost) String() string {
	if !c.Known {
		return "unavailable"
	}
	return "$" + c.Amount.StringFixed(2) + "/month"
}
