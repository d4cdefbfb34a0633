package models

import "time"

// Snapshot reasons. Each snapshot explains exactly one rating-affecting
// event.
const (
	ReasonSeasonStart     = "season_start"
	ReasonMatchWin        = "match_win"
	ReasonMatchLoss       = "match_loss"
	ReasonTournamentBonus = "tournament_bonus"
)

// RatingSnapshot is one immutable, timestamped rating record inside a
// season. Snapshots are only ever written by the season replay engine
// and only ever removed wholesale before a regeneration; there is no
// soft delete and no update path.
type RatingSnapshot struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID     uint      `gorm:"not null;index:idx_snapshots_player_season_ts,priority:1" json:"player_id"`
	SeasonID     uint      `gorm:"not null;index:idx_snapshots_player_season_ts,priority:2;index:idx_snapshots_season_ts,priority:1" json:"season_id"`
	Elo          int       `gorm:"not null" json:"elo"`
	Timestamp    int64     `gorm:"not null;index:idx_snapshots_player_season_ts,priority:3;index:idx_snapshots_season_ts,priority:2" json:"timestamp"`
	MatchID      *uint     `gorm:"index" json:"match_id,omitempty"`
	TournamentID *uint     `json:"tournament_id,omitempty"`
	Reason       string    `gorm:"size:20;not null" json:"reason"`
	Delta        int       `gorm:"not null" json:"delta"`
	CreatedAt    time.Time `json:"created_at"`
}

func (RatingSnapshot) TableName() string {
	return "rating_snapshots"
}

// CurrentEloResponse is the read-time decay projection over the latest
// stored snapshot. It is computed on every read and never persisted.
type CurrentEloResponse struct {
	BaseElo               int   `json:"base_elo"`
	InactivityPenalty     int   `json:"inactivity_penalty"`
	CurrentElo            int   `json:"current_elo"`
	LastActivityTimestamp int64 `json:"last_activity_timestamp"`
	IsInactive            bool  `json:"is_inactive"`
}

type LeaderboardEntry struct {
	PlayerID              uint    `json:"player_id"`
	PlayerName            string  `json:"player_name"`
	PlayerImage           *string `json:"player_image,omitempty"`
	BaseElo               int     `json:"base_elo"`
	InactivityPenalty     int     `json:"inactivity_penalty"`
	CurrentElo            int     `json:"current_elo"`
	LastActivityTimestamp int64   `json:"last_activity_timestamp"`
}

type EloHistoryItem struct {
	Elo          int    `json:"elo"`
	Timestamp    int64  `json:"timestamp"`
	MatchID      *uint  `json:"match_id,omitempty"`
	TournamentID *uint  `json:"tournament_id,omitempty"`
	Reason       string `json:"reason"`
	Delta        int    `json:"delta"`
}

type PlayerSeasonStats struct {
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	TotalMatches int     `json:"total_matches"`
	WinRate      float64 `json:"win_rate"`
	CurrentElo   int     `json:"current_elo"`
	HighestElo   int     `json:"highest_elo"`
}

// RecalculationResult reports replay observability counts.
type RecalculationResult struct {
	PlayersProcessed int `json:"players_processed"`
	MatchesProcessed int `json:"matches_processed"`
}
