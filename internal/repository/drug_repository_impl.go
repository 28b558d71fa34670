package repository

import (
	"errors"
	"time"

	"clinic-inventory/internal/domain/entity"
	domainRepo "clinic-inventory/internal/domain/repository"

	"gorm.io/gorm"
)

type drugRepository struct{}

func NewDrugRepository() domainRepo.DrugRepository {
	return &drugRepository{}
}

func (r *drugRepository) Create(db *gorm.DB, drug *entity.Drug) error {
	return db.Create(drug).Error
}

func (r *drugRepository) FindAll(db *gorm.DB) ([]entity.Drug, error) {
	var drugs []entity.Drug
	err := db.Preload("AddedBy").Order("name ASC").Find(&drugs).Error
	if err != nil {
		return nil, err
	}
	return drugs, nil
}

func (r *drugRepository) FindByID(db *gorm.DB, id uint) (*entity.Drug, error) {
	var drug entity.Drug
	err := db.Where("id = ?", id).First(&drug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &drug, nil
}

func (r *drugRepository) FindExpiringBy(db *gorm.DB, cutoff time.Time) ([]entity.Drug, error) {
	var drugs []entity.Drug
	err := db.Where("expiry_date <= ?", cutoff).Order("expiry_date ASC").Find(&drugs).Error
	if err != nil {
		return nil, err
	}
	return drugs, nil
}

func (r *drugRepository) Update(db *gorm.DB, drug *entity.Drug) error {
	return db.Omit("AddedBy").Save(drug).Error
}

func (r *drugRepository) Delete(db *gorm.DB, drug *entity.Drug) error {
	return db.Delete(drug).Error
}

func (r *drugRepository) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Drug{}).Count(&count).Error
	return count, err
}

func (r *drugRepository) CountExpiredBefore(db *gorm.DB, date time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Drug{}).Where("expiry_date < ?", date).Count(&count).Error
	return count, err
}

func (r *drugRepository) CountBelowQuantity(db *gorm.DB, threshold int) (int64, error) {
	var count int64
	err := db.Model(&entity.Drug{}).Where("quantity < ?", threshold).Count(&count).Error
	return count, err
}
