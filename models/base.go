package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ctxKey string

// contextUserIDKey audit alanları için context'te taşınan kullanıcı ID anahtarı.
const contextUserIDKey ctxKey = "user_id"

// ContextWithUserID audit hook'larının okuyacağı kullanıcı ID'sini context'e ekler.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, contextUserIDKey, userID)
}

// UserIDFromContext context'ten audit kullanıcı ID'sini okur.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(contextUserIDKey).(uint)
	return id, ok
}

// BaseModel tüm modellere gömülen ortak alanlar: ID, zaman damgaları,
// soft delete ve audit sütunları.
type BaseModel struct {
	ID        uint           `gorm:"primarykey"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedBy *uint          `gorm:"index"`
	UpdatedBy *uint
	DeletedBy *uint
}

// BeforeCreate audit CreatedBy alanını context'teki kullanıcıdan doldurur.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if userID, ok := UserIDFromContext(tx.Statement.Context); ok {
		m.CreatedBy = &userID
	}
	return nil
}

// BeforeUpdate audit UpdatedBy alanını context'teki kullanıcıdan doldurur.
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if userID, ok := UserIDFromContext(tx.Statement.Context); ok {
		m.UpdatedBy = &userID
	}
	return nil
}
