package model

import (
	"time"

	"gorm.io/datatypes"
)

// ConsultationSession holds one conversation. Turns and Context are stored
// as JSON documents so a turn commit is a single row update.
type ConsultationSession struct {
	SessionKey string         `gorm:"type:varchar(255);primaryKey"`
	Turns      datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Context    datatypes.JSON `gorm:"type:jsonb"`
	TurnCount  int            `gorm:"not null;default:0"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (ConsultationSession) TableName() string {
	return "consultation_sessions"
}
