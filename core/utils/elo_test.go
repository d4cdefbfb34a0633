package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMatchElo(t *testing.T) {
	tests := []struct {
		name            string
		winnerElo       int
		loserElo        int
		wantWinner      int
		wantLoser       int
		wantTransferred int
	}{
		{
			name:      "equal starting ratings",
			winnerElo: 100, loserElo: 100,
			wantWinner: 110, wantLoser: 92, wantTransferred: 8,
		},
		{
			name:      "transfer is floored",
			winnerElo: 100, loserElo: 110,
			// 110 * 0.08 = 8.8 -> 8
			wantWinner: 110, wantLoser: 102, wantTransferred: 8,
		},
		{
			name:      "low loser rating transfers nothing but the bonus",
			winnerElo: 150, loserElo: 10,
			// 10 * 0.08 = 0.8 -> 0
			wantWinner: 152, wantLoser: 10, wantTransferred: 0,
		},
		{
			name:      "zero loser rating",
			winnerElo: 100, loserElo: 0,
			wantWinner: 102, wantLoser: 0, wantTransferred: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotWinner, gotLoser, gotTransferred := CalculateMatchElo(tt.winnerElo, tt.loserElo)
			assert.Equal(t, tt.wantWinner, gotWinner)
			assert.Equal(t, tt.wantLoser, gotLoser)
			assert.Equal(t, tt.wantTransferred, gotTransferred)
		})
	}
}

func TestCalculateMatchEloWinnerGainsBonusMoreThanLoserLoses(t *testing.T) {
	for loserElo := 0; loserElo <= 500; loserElo += 7 {
		newWinner, newLoser, _ := CalculateMatchElo(200, loserElo)
		winnerGain := newWinner - 200
		loserLoss := loserElo - newLoser
		assert.Equal(t, WinBonus, winnerGain-loserLoss, "loserElo=%d", loserElo)
	}
}

func TestCalculateTournamentBonus(t *testing.T) {
	assert.Equal(t, 8, CalculateTournamentBonus(100))
	assert.Equal(t, 8, CalculateTournamentBonus(110)) // 8.8 floored
	assert.Equal(t, 0, CalculateTournamentBonus(0))
	assert.Equal(t, 0, CalculateTournamentBonus(12)) // 0.96 floored
}

func TestCalculateInactivityPenalty(t *testing.T) {
	const seasonEnd = int64(1_000_000 * MillisPerDay)

	t.Run("no penalty under sixty days", func(t *testing.T) {
		last := int64(0)
		now := 59 * MillisPerDay
		assert.Equal(t, 0, CalculateInactivityPenalty(200, last, now, seasonEnd))
	})

	t.Run("one period at exactly sixty days", func(t *testing.T) {
		last := int64(0)
		now := 60 * MillisPerDay
		// 200 * 0.92 = 184, penalty 16
		assert.Equal(t, 16, CalculateInactivityPenalty(200, last, now, seasonEnd))
	})

	t.Run("two periods compound", func(t *testing.T) {
		last := int64(0)
		now := 120 * MillisPerDay
		// 200 * 0.92^2 = 169.28, penalty floor(200 - 169.28) = 30
		assert.Equal(t, 30, CalculateInactivityPenalty(200, last, now, seasonEnd))
	})

	t.Run("clamped at season end", func(t *testing.T) {
		last := int64(0)
		end := 60 * MillisPerDay
		wayPast := 400 * MillisPerDay
		atEnd := CalculateInactivityPenalty(200, last, end, end)
		assert.Equal(t, atEnd, CalculateInactivityPenalty(200, last, wayPast, end))
	})

	t.Run("penalty never exceeds the rating", func(t *testing.T) {
		last := int64(0)
		now := 6000 * MillisPerDay
		penalty := CalculateInactivityPenalty(150, last, now, seasonEnd)
		assert.LessOrEqual(t, penalty, 150)
		assert.Greater(t, penalty, 0)
	})

	t.Run("penalty grows monotonically with idle time", func(t *testing.T) {
		last := int64(0)
		previous := 0
		for days := int64(0); days <= 600; days += 30 {
			penalty := CalculateInactivityPenalty(300, last, days*MillisPerDay, seasonEnd)
			assert.GreaterOrEqual(t, penalty, previous, "days=%d", days)
			previous = penalty
		}
	})
}
