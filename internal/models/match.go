package models

import "time"

type MatchStatus string

const (
	MatchOpen      MatchStatus = "OPEN"
	MatchFull      MatchStatus = "FULL"
	MatchCancelled MatchStatus = "CANCELLED"
	MatchCompleted MatchStatus = "COMPLETED"
)

// Match is an ad-hoc game a user organizes on a court that other players
// can join until MaxPlayers is reached.
type Match struct {
	BaseModel
	CreatorID      string      `gorm:"type:uuid;not null;index" json:"creatorId"`
	Creator        *User       `gorm:"foreignKey:CreatorID" json:"-"`
	CourtID        string      `gorm:"type:uuid;not null;index" json:"courtId"`
	Court          *Court      `gorm:"foreignKey:CourtID" json:"-"`
	Date           time.Time   `gorm:"type:date;not null" json:"date"`
	StartTime      string      `gorm:"not null" json:"startTime"`
	EndTime        string      `gorm:"not null" json:"endTime"`
	MaxPlayers     int         `gorm:"not null" json:"maxPlayers"`
	CurrentPlayers int         `gorm:"not null" json:"currentPlayers"`
	Status         MatchStatus `gorm:"type:varchar(32);not null" json:"status"`

	Participants []MatchParticipant `gorm:"foreignKey:MatchID" json:"-"`
}

// MatchParticipant records one player in one match. The composite unique
// index makes a repeated join a constraint violation rather than a counter
// increment.
type MatchParticipant struct {
	BaseModel
	MatchID string `gorm:"type:uuid;not null;uniqueIndex:idx_match_player" json:"matchId"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_match_player" json:"userId"`
}
