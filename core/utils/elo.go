package utils

import "math"

// Rating constants. Ratings are whole numbers: every fractional
// intermediate is floored before it is applied.
const (
	StartingElo               = 100
	LossPercentage            = 0.08
	WinBonus                  = 2
	TournamentBonusPercentage = 0.08
	InactivityDays            = 60
	InactivityPenaltyPercent  = 0.08
	MillisPerDay              = int64(24 * 60 * 60 * 1000)
)

// CalculateMatchElo computes the rating transfer for a single match.
// The loser gives up a fixed fraction of their rating; the winner
// receives that amount plus a flat bonus, so the winner always gains
// exactly WinBonus more than the loser loses. Ratings are not clamped
// at zero: a small loser rating can go negative.
func CalculateMatchElo(winnerElo, loserElo int) (newWinnerElo, newLoserElo, pointsTransferred int) {
	pointsTransferred = int(math.Floor(float64(loserElo) * LossPercentage))
	newLoserElo = loserElo - pointsTransferred
	newWinnerElo = winnerElo + pointsTransferred + WinBonus
	return newWinnerElo, newLoserElo, pointsTransferred
}

// CalculateTournamentBonus computes the bonus awarded to a tournament
// winner from their rating at the tournament's point in the replay.
func CalculateTournamentBonus(currentElo int) int {
	return int(math.Floor(float64(currentElo) * TournamentBonusPercentage))
}

// CalculateInactivityPenalty computes the read-time decay applied on
// top of a stored rating. Decay never projects past the season end,
// kicks in after InactivityDays of silence, and compounds once per
// whole inactive period.
func CalculateInactivityPenalty(currentElo int, lastActivity, now, seasonEnd int64) int {
	effectiveNow := now
	if seasonEnd < effectiveNow {
		effectiveNow = seasonEnd
	}

	daysSince := float64(effectiveNow-lastActivity) / float64(MillisPerDay)
	if daysSince < InactivityDays {
		return 0
	}

	periods := int(math.Floor(daysSince / InactivityDays))
	penalized := float64(currentElo)
	for i := 0; i < periods; i++ {
		penalized = penalized * (1 - InactivityPenaltyPercent)
	}

	return int(math.Floor(float64(currentElo) - penalized))
}
