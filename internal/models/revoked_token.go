package models

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken is a logged-out token's id, kept until the token would have
// expired naturally anyway.
type RevokedToken struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	TokenID    string    `gorm:"unique;not null;size:64"`
	ExpiryDate time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (RevokedToken) TableName() string {
	return "token_blacklist"
}
