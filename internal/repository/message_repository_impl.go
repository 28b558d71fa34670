package repository

import (
	"errors"

	"clinic-inventory/internal/domain/entity"
	domainRepo "clinic-inventory/internal/domain/repository"

	"gorm.io/gorm"
)

type messageRepository struct{}

func NewMessageRepository() domainRepo.MessageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(db *gorm.DB, message *entity.Message) error {
	return db.Create(message).Error
}

func (r *messageRepository) FindAll(db *gorm.DB) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.Preload("Sender").Order("timestamp DESC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindRecent(db *gorm.DB, limit int) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.Preload("Sender").Order("timestamp DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindByID(db *gorm.DB, id uint) (*entity.Message, error) {
	var message entity.Message
	err := db.Where("id = ?", id).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Delete(db *gorm.DB, message *entity.Message) error {
	return db.Delete(message).Error
}
