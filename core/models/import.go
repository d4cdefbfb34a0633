package models

// Bracket-import DTOs (Challonge).

type ImportParticipantPreview struct {
	Username string `json:"username"`
	Existing bool   `json:"existing"`
	PlayerID *uint  `json:"player_id,omitempty"`
}

type ImportPreview struct {
	TournamentName   string                     `json:"tournament_name"`
	CompletedMatches int                        `json:"completed_matches"`
	Participants     []ImportParticipantPreview `json:"participants"`
	WinnerID         *uint                      `json:"winner_id,omitempty"`
	WinnerName       string                     `json:"winner_name"`
	TournamentDate   *int64                     `json:"tournament_date,omitempty"`
}

type ImportTournamentRequest struct {
	TournamentRef  string `json:"tournament_ref" binding:"required"`
	TournamentName string `json:"tournament_name" binding:"required"`
	TournamentDate int64  `json:"tournament_date" binding:"required"`
}

type ImportResult struct {
	TournamentID    uint `json:"tournament_id"`
	MatchesImported int  `json:"matches_imported"`
	PlayersCreated  int  `json:"players_created"`
	PlayersMatched  int  `json:"players_matched"`
}
