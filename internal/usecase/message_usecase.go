package usecase

import (
	"context"
	"errors"

	"clinic-inventory/internal/converter"
	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrDeleteNotAllowed = errors.New("not authorized to delete this message")
)

type MessageUsecase interface {
	Create(ctx context.Context, req *dto.MessageRequest, senderID uint) (*dto.MessageResponse, error)
	GetAll(ctx context.Context) ([]dto.MessageResponse, error)
	// Delete removes the message if actor is its sender or a pharmacist.
	Delete(ctx context.Context, id uint, actor *entity.User) error
}

type messageUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	messageRepo repository.MessageRepository
}

func NewMessageUsecase(db *gorm.DB, log *logrus.Logger, messageRepo repository.MessageRepository) MessageUsecase {
	return &messageUsecase{
		db:          db,
		log:         log,
		messageRepo: messageRepo,
	}
}

func (u *messageUsecase) Create(ctx context.Context, req *dto.MessageRequest, senderID uint) (*dto.MessageResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	message := &entity.Message{
		Title:    req.Title,
		Content:  req.Content,
		IsUrgent: req.IsUrgent,
		SenderID: senderID,
	}

	if err := u.messageRepo.Create(tx, message); err != nil {
		u.log.Warnf("Failed to create message: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, err
	}

	return converter.MessageToResponse(message), nil
}

func (u *messageUsecase) GetAll(ctx context.Context) ([]dto.MessageResponse, error) {
	messages, err := u.messageRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list messages: %+v", err)
		return nil, err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, *converter.MessageToResponse(&messages[i]))
	}
	return responses, nil
}

func (u *messageUsecase) Delete(ctx context.Context, id uint, actor *entity.User) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	message, err := u.messageRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find message by ID: %+v", err)
		return err
	}
	if message == nil {
		return ErrMessageNotFound
	}

	if !message.CanDelete(actor) {
		return ErrDeleteNotAllowed
	}

	if err := u.messageRepo.Delete(tx, message); err != nil {
		u.log.Warnf("Failed to delete message: %+v", err)
		return err
	}

	return tx.Commit().Error
}
