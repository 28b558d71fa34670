package repository

import (
	"clinic-inventory/internal/domain/entity"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(db *gorm.DB, message *entity.Message) error
	// FindAll returns every message ordered newest first.
	FindAll(db *gorm.DB) ([]entity.Message, error)
	// FindRecent returns the limit newest messages.
	FindRecent(db *gorm.DB, limit int) ([]entity.Message, error)
	FindByID(db *gorm.DB, id uint) (*entity.Message, error)
	Delete(db *gorm.DB, message *entity.Message) error
}
