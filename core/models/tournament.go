package models

import (
	"time"

	"gorm.io/gorm"
)

// Tournament is a named event with exactly one declared winner. The
// winner collects a rating bonus during season replay, applied after
// all of the season's matches.
type Tournament struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Date      int64          `gorm:"not null;index" json:"date"`
	WinnerID  uint           `gorm:"not null;constraint:OnDelete:CASCADE" json:"winner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Winner  Player  `gorm:"foreignKey:WinnerID;references:ID" json:"winner,omitempty"`
	Matches []Match `gorm:"foreignKey:TournamentID" json:"matches,omitempty"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

type CreateTournamentRequest struct {
	Name     string `json:"name" binding:"required"`
	Date     int64  `json:"date" binding:"required"`
	WinnerID uint   `json:"winner_id" binding:"required"`
}

type UpdateTournamentRequest struct {
	Name     *string `json:"name,omitempty"`
	Date     *int64  `json:"date,omitempty"`
	WinnerID *uint   `json:"winner_id,omitempty"`
}
