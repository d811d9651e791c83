package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmericanOdds validates a signed American odds string and returns its
// integer value. Exactly one leading '+' or '-' is required: positive odds
// state profit per 100 units staked, negative odds state the stake required
// to profit 100 units.
func ParseAmericanOdds(odds string) (int64, error) {
	s := strings.TrimSpace(odds)
	if s == "" {
		return 0, NewValidationError("odds", "odds are required")
	}
	if s[0] != '+' && s[0] != '-' {
		return 0, NewValidationError("odds", "odds must start with '+' or '-'")
	}

	// ParseUint keeps a second sign from sneaking past the leading one.
	u, err := strconv.ParseUint(s[1:], 10, 63)
	if err != nil || u == 0 {
		return 0, NewValidationError("odds", "odds must be a signed whole number, e.g. -150 or +120")
	}

	n := int64(u)
	if s[0] == '-' {
		n = -n
	}
	return n, nil
}

// WinProfit returns the profit on a winning bet of the given stake at the
// given American odds.
//
//	+N: stake * N / 100
//	-N: stake * 100 / N
func WinProfit(odds string, stake decimal.Decimal) (decimal.Decimal, error) {
	n, err := ParseAmericanOdds(odds)
	if err != nil {
		return decimal.Zero, err
	}

	hundred := decimal.NewFromInt(100)
	if n > 0 {
		return stake.Mul(decimal.NewFromInt(n)).Div(hundred), nil
	}
	return stake.Mul(hundred).Div(decimal.NewFromInt(-n)), nil
}
