// Package ledger implements bet settlement and the facade the HTTP layer
// consumes.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/dugoutapp/dugout/internal/domain"
)

// ResettleMode selects how re-settling an already-settled bet interacts
// with the bankroll.
type ResettleMode string

const (
	// ResettleCorrected reverses the bet's previously recorded
	// profit/loss before applying the newly computed one. This is the
	// default.
	ResettleCorrected ResettleMode = "corrected"

	// ResettleAdditive applies the new profit/loss on top of the current
	// bankroll without reversing the prior settlement. It reproduces the
	// legacy system's arithmetic for compatibility with historical data.
	ResettleAdditive ResettleMode = "additive"
)

// ParseResettleMode maps a config string onto a mode, defaulting to
// corrected.
func ParseResettleMode(s string) ResettleMode {
	if s == string(ResettleAdditive) {
		return ResettleAdditive
	}
	return ResettleCorrected
}

// ComputeProfitLoss converts a declared result into a profit/loss figure
// for the given stake and American odds.
//
//	pending: 0
//	loss:    -stake
//	win +N:  stake * N / 100
//	win -N:  stake * 100 / N
func ComputeProfitLoss(odds string, stake decimal.Decimal, result domain.Result) (decimal.Decimal, error) {
	switch result {
	case domain.ResultPending:
		return decimal.Zero, nil
	case domain.ResultLoss:
		return stake.Neg(), nil
	case domain.ResultWin:
		return domain.WinProfit(odds, stake)
	default:
		return decimal.Zero, domain.NewValidationError("result", "must be pending, win or loss")
	}
}

// applySettlement computes the new bankroll balance for a settlement. The
// bet's previously recorded profit/loss is reversed first in corrected
// mode; additive mode stacks the new figure on the current balance.
func applySettlement(mode ResettleMode, current decimal.Decimal, bet domain.Bet, newPL decimal.Decimal) decimal.Decimal {
	base := current
	if mode == ResettleCorrected && bet.ActualResult != domain.ResultPending {
		base = base.Sub(bet.ProfitLoss)
	}
	return base.Add(newPL)
}
