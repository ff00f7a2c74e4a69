package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/raduvm/ticketline/internal/models"
)

// GormBlacklist implements auth.Blacklist on the token_blacklist table.
// Linearizability per token id comes from the database: the unique index
// makes Revoke idempotent and IsRevoked is a committed-read point lookup.
type GormBlacklist struct {
	db *gorm.DB
}

func NewGormBlacklist(db *gorm.DB) *GormBlacklist {
	return &GormBlacklist{db: db}
}

func (b *GormBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	record := models.RevokedToken{TokenID: tokenID, ExpiryDate: expiresAt}
	return b.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		FirstOrCreate(&record).Error
}

func (b *GormBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	return count > 0, err
}

func (b *GormBlacklist) Sweep(ctx context.Context, now time.Time) (int64, error) {
	result := b.db.WithContext(ctx).
		Where("expiry_date < ?", now).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
