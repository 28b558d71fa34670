package repository

import (
	"clinic-inventory/internal/domain/entity"

	"gorm.io/gorm"
)

// UserRepository methods take the *gorm.DB handle so callers can pass either
// the base connection or an open transaction.
type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uint) (*entity.User, error)
	FindByUsername(db *gorm.DB, username string) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
}
