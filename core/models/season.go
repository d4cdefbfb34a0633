package models

import (
	"time"

	"gorm.io/gorm"
)

// Season is the time-boxed competitive window ratings are tracked in.
// StartsAt/EndsAt are epoch milliseconds, inclusive on both ends.
// Ratings never carry over between seasons; every participant re-enters
// at the starting rating.
type Season struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	StartsAt  int64          `gorm:"not null" json:"starts_at"`
	EndsAt    int64          `gorm:"not null" json:"ends_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Season) TableName() string {
	return "seasons"
}

// Contains reports whether the given epoch-millisecond timestamp falls
// inside the season window.
func (s *Season) Contains(ts int64) bool {
	return ts >= s.StartsAt && ts <= s.EndsAt
}

type CreateSeasonRequest struct {
	Name     string `json:"name" binding:"required"`
	StartsAt int64  `json:"starts_at" binding:"required"`
	EndsAt   int64  `json:"ends_at" binding:"required"`
}

type UpdateSeasonRequest struct {
	Name     *string `json:"name,omitempty"`
	StartsAt *int64  `json:"starts_at,omitempty"`
	EndsAt   *int64  `json:"ends_at,omitempty"`
}
