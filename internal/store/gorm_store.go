package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raduvm/ticketline/internal/inventory"
	"github.com/raduvm/ticketline/internal/models"
)

// GormStore implements inventory.Store on the shared Postgres connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, inventory.ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (s *GormStore) FindPackage(ctx context.Context, id uuid.UUID) (models.Package, error) {
	var pkg models.Package
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Package{}, inventory.ErrPackageNotFound
		}
		return models.Package{}, err
	}
	return pkg, nil
}

func (s *GormStore) CountEventTickets(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("event_id = ? AND package_id IS NULL", eventID).
		Count(&count).Error
	return int(count), err
}

func (s *GormStore) CountPackageTickets(ctx context.Context, packageID uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("package_id = ?", packageID).
		Count(&count).Error
	return int(count), err
}

func (s *GormStore) PackagesBundlingEvent(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.PackageEvent{}).
		Where("event_id = ?", eventID).
		Pluck("package_id", &ids).Error
	return ids, err
}

func (s *GormStore) EventsInPackage(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.PackageEvent{}).
		Where("package_id = ?", packageID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (s *GormStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	return s.db.WithContext(ctx).Create(ticket).Error
}

func (s *GormStore) FindTicketByCode(ctx context.Context, code string) (models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Ticket{}, inventory.ErrTicketNotFound
		}
		return models.Ticket{}, err
	}
	return ticket, nil
}

func (s *GormStore) TransitionTicket(ctx context.Context, code string, from, to models.TicketStatus) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("code = ? AND status = ?", code, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) DeleteTicket(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Where("code = ?", code).Delete(&models.Ticket{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inventory.ErrTicketNotFound
	}
	return nil
}

func (s *GormStore) TicketsByOwner(ctx context.Context, email string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.WithContext(ctx).
		Where("owner_email = ?", email).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}
