package ledger

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/dugoutapp/dugout/internal/domain"
)

// Summary aggregates the bet collection and bankroll into the figures the
// dashboard shows. Everything is computed on read; nothing is cached.
type Summary struct {
	TotalBets       int             `json:"totalBets"`
	Wins            int             `json:"wins"`
	Losses          int             `json:"losses"`
	Pending         int             `json:"pending"`
	TotalProfitLoss decimal.Decimal `json:"totalProfitLoss"`
	WinRate         float64         `json:"winRate"`
	ROI             float64         `json:"roi"`

	// Descriptive statistics over settled bets.
	AvgStake     float64 `json:"avgStake"`
	ProfitStdDev float64 `json:"profitStdDev"`
	LargestWin   float64 `json:"largestWin"`
	LargestLoss  float64 `json:"largestLoss"`
}

// GetBankrollSummary computes the summary from the current state.
// winRate = wins / (wins + losses) * 100, 0 when no bets have settled.
// roi = (current - initial) / initial * 100, 0 when the bankroll is absent
// or started at zero.
func (s *Service) GetBankrollSummary() Summary {
	bets := s.store.ListBets()

	summary := Summary{
		TotalBets:       len(bets),
		TotalProfitLoss: decimal.Zero,
	}

	var stakes, profits []float64
	for _, b := range bets {
		switch b.ActualResult {
		case domain.ResultWin:
			summary.Wins++
		case domain.ResultLoss:
			summary.Losses++
		default:
			summary.Pending++
			continue
		}

		summary.TotalProfitLoss = summary.TotalProfitLoss.Add(b.ProfitLoss)

		stakes = append(stakes, b.Stake.InexactFloat64())
		pl := b.ProfitLoss.InexactFloat64()
		profits = append(profits, pl)
		if pl > summary.LargestWin {
			summary.LargestWin = pl
		}
		if pl < summary.LargestLoss {
			summary.LargestLoss = pl
		}
	}

	if settled := summary.Wins + summary.Losses; settled > 0 {
		summary.WinRate = float64(summary.Wins) / float64(settled) * 100
	}

	if bankroll, ok := s.store.GetBankroll(); ok && !bankroll.InitialAmount.IsZero() {
		roi := bankroll.CurrentAmount.Sub(bankroll.InitialAmount).
			Div(bankroll.InitialAmount).
			Mul(decimal.NewFromInt(100))
		summary.ROI = roi.InexactFloat64()
	}

	if len(stakes) > 0 {
		summary.AvgStake = stat.Mean(stakes, nil)
	}
	if len(profits) > 1 {
		summary.ProfitStdDev = stat.StdDev(profits, nil)
	}

	return summary
}
