package repository

import (
	"time"

	"clinic-inventory/internal/domain/entity"

	"gorm.io/gorm"
)

type DrugRepository interface {
	Create(db *gorm.DB, drug *entity.Drug) error
	// FindAll returns every drug ordered by name ascending.
	FindAll(db *gorm.DB) ([]entity.Drug, error)
	FindByID(db *gorm.DB, id uint) (*entity.Drug, error)
	// FindExpiringBy returns drugs with expiry_date <= cutoff, ordered by
	// expiry date ascending.
	FindExpiringBy(db *gorm.DB, cutoff time.Time) ([]entity.Drug, error)
	Update(db *gorm.DB, drug *entity.Drug) error
	Delete(db *gorm.DB, drug *entity.Drug) error
	CountAll(db *gorm.DB) (int64, error)
	CountExpiredBefore(db *gorm.DB, date time.Time) (int64, error)
	CountBelowQuantity(db *gorm.DB, threshold int) (int64, error)
}
