package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Location    string    `gorm:"not null"`
	Description string
	Capacity    int       `gorm:"not null"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner       User      `gorm:"foreignKey:OwnerID"`
	Packages    []Package `gorm:"many2many:package_events;"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
