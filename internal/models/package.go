package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Package bundles zero or more events. Its capacity is independent of, and
// additionally constrains, the remaining seats of any bundled event.
type Package struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Location    string    `gorm:"not null"`
	Description string
	Capacity    int       `gorm:"not null"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner       User      `gorm:"foreignKey:OwnerID"`
	Events      []Event   `gorm:"many2many:package_events;"`
}

func (pkg *Package) BeforeCreate(tx *gorm.DB) (err error) {
	if pkg.ID == uuid.Nil {
		pkg.ID = uuid.New()
	}
	return
}

// PackageEvent is the join row behind the many2many relation. An event may be
// linked to a package at most once.
type PackageEvent struct {
	PackageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_package_event"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_package_event;index"`
	CreatedAt time.Time
}

func (PackageEvent) TableName() string {
	return "package_events"
}
