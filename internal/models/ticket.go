package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketIssued    TicketStatus = "ISSUED"
	TicketValidated TicketStatus = "VALIDATED"
	TicketConsumed  TicketStatus = "CONSUMED"
)

const (
	TicketTypeEvent   = "EVENT"
	TicketTypePackage = "PACKAGE"
)

// Ticket belongs to exactly one of an event or a package, never both.
type Ticket struct {
	gorm.Model
	ID         uuid.UUID    `gorm:"type:uuid;primary_key"`
	Code       string       `gorm:"unique;not null"`
	Type       string       `gorm:"not null"`
	Status     TicketStatus `gorm:"type:varchar(16);not null;default:'ISSUED'"`
	EventID    *uuid.UUID   `gorm:"type:uuid;index"`
	Event      *Event       `gorm:"foreignKey:EventID"`
	PackageID  *uuid.UUID   `gorm:"type:uuid;index"`
	Package    *Package     `gorm:"foreignKey:PackageID"`
	OwnerEmail string       `gorm:"not null;index"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
