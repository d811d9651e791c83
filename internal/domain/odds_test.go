package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmericanOdds(t *testing.T) {
	tests := []struct {
		name    string
		odds    string
		want    int64
		wantErr bool
	}{
		{"positive", "+150", 150, false},
		{"negative", "-200", -200, false},
		{"favorite juice", "-110", -110, false},
		{"whitespace trimmed", " +120 ", 120, false},
		{"missing sign", "150", 0, true},
		{"double sign", "++150", 0, true},
		{"mixed sign", "+-150", 0, true},
		{"mixed sign reversed", "-+100", 0, true},
		{"empty", "", 0, true},
		{"sign only", "+", 0, true},
		{"zero", "+0", 0, true},
		{"not a number", "+abc", 0, true},
		{"decimal odds rejected", "-1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmericanOdds(tt.odds)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err), "parse errors should be validation errors")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWinProfit(t *testing.T) {
	tests := []struct {
		name  string
		odds  string
		stake string
		want  string
	}{
		{"underdog", "+120", "50", "60"},
		{"standard juice", "-110", "110", "100"},
		{"even money", "+100", "25", "25"},
		{"heavy favorite", "-200", "100", "50"},
		{"longshot", "+650", "10", "65"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stake := decimal.RequireFromString(tt.stake)
			got, err := WinProfit(tt.odds, stake)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"WinProfit(%s, %s) = %s, want %s", tt.odds, tt.stake, got, tt.want)
		})
	}
}

func TestWinProfitInvalidOdds(t *testing.T) {
	_, err := WinProfit("150", decimal.NewFromInt(50))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// A stray inner sign must not flip the payout formula.
	_, err = WinProfit("+-150", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestResultValid(t *testing.T) {
	assert.True(t, ResultPending.Valid())
	assert.True(t, ResultWin.Valid())
	assert.True(t, ResultLoss.Valid())
	assert.False(t, Result("push").Valid())
	assert.False(t, Result("").Valid())
}
