package models

import (
	"time"

	"gorm.io/gorm"
)

// Match records a decided pairing. Date is epoch milliseconds and is
// what places the match inside a season window, not CreatedAt.
type Match struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Date         int64          `gorm:"not null;index" json:"date"`
	WinnerID     uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"winner_id"`
	LoserID      uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"loser_id"`
	TournamentID *uint          `gorm:"index" json:"tournament_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Winner     Player      `gorm:"foreignKey:WinnerID;references:ID" json:"winner,omitempty"`
	Loser      Player      `gorm:"foreignKey:LoserID;references:ID" json:"loser,omitempty"`
	Tournament *Tournament `gorm:"foreignKey:TournamentID;references:ID" json:"tournament,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

type CreateMatchRequest struct {
	Date         int64 `json:"date" binding:"required"`
	WinnerID     uint  `json:"winner_id" binding:"required"`
	LoserID      uint  `json:"loser_id" binding:"required"`
	TournamentID *uint `json:"tournament_id,omitempty"`
}

type UpdateMatchRequest struct {
	Date         *int64 `json:"date,omitempty"`
	WinnerID     *uint  `json:"winner_id,omitempty"`
	LoserID      *uint  `json:"loser_id,omitempty"`
	TournamentID *uint  `json:"tournament_id,omitempty"`
}

type PaginatedMatchResponse struct {
	Data       []Match `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// PlayerMatchItem is the per-player match listing shape (opponent
// resolved relative to the requested player).
type PlayerMatchItem struct {
	ID             uint    `json:"id"`
	Date           int64   `json:"date"`
	TournamentID   *uint   `json:"tournament_id,omitempty"`
	TournamentName *string `json:"tournament_name,omitempty"`
	OpponentID     uint    `json:"opponent_id"`
	OpponentName   string  `json:"opponent_name"`
	PlayerWon      bool    `json:"player_won"`
}
