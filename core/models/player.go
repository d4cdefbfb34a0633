package models

import (
	"time"

	"gorm.io/gorm"
)

// Player roles
const (
	RolePlayer = "player"
	RoleJudge  = "judge"
)

type Player struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Role         string         `gorm:"size:20;not null;default:player" json:"role"` // player, judge
	Email        *string        `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string        `json:"-"`
	Image        *string        `gorm:"size:512" json:"image,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	WonMatches  []Match          `gorm:"foreignKey:WinnerID" json:"won_matches,omitempty"`
	LostMatches []Match          `gorm:"foreignKey:LoserID" json:"lost_matches,omitempty"`
	Snapshots   []RatingSnapshot `gorm:"foreignKey:PlayerID" json:"snapshots,omitempty"`
}

func (Player) TableName() string {
	return "players"
}

// HasAccount reports whether the player can log in (judges and claimed players).
func (p *Player) HasAccount() bool {
	return p.Email != nil && p.PasswordHash != nil
}

type CreatePlayerRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required,oneof=player judge"`
}

type UpdatePlayerRequest struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty" binding:"omitempty,oneof=player judge"`
}

type PlayerListItem struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Image      *string   `json:"image,omitempty"`
	HasAccount bool      `json:"has_account"`
	CreatedAt  time.Time `json:"created_at"`
}

type MergePlayersRequest struct {
	SourceID uint `json:"source_id" binding:"required"`
	TargetID uint `json:"target_id" binding:"required"`
}

type MergePlayersResponse struct {
	MatchesReassigned     int64  `json:"matches_reassigned"`
	TournamentsReassigned int64  `json:"tournaments_reassigned"`
	SeasonsRecalculated   []uint `json:"seasons_recalculated"`
}
