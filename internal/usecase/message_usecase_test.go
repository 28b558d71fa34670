package usecase_test

import (
	"context"
	"testing"
	"time"

	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/repository"
	"clinic-inventory/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMessageUsecase(t *testing.T) (usecase.MessageUsecase, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	uc := usecase.NewMessageUsecase(db, newTestLogger(), repository.NewMessageRepository())
	return uc, db
}

func seedMessage(t *testing.T, db *gorm.DB, sender *entity.User, title string, at time.Time) *entity.Message {
	t.Helper()

	message := &entity.Message{
		Title:     title,
		Content:   "content of " + title,
		Timestamp: at,
		SenderID:  sender.ID,
	}
	require.NoError(t, db.Create(message).Error)
	return message
}

func TestMessageCreate(t *testing.T) {
	uc, db := newMessageUsecase(t)
	sender := seedUser(t, db, "cameron", entity.RoleNurse)

	created, err := uc.Create(context.Background(), &dto.MessageRequest{
		Title:    "Ward round moved",
		Content:  "Round starts at 9 instead of 8.",
		IsUrgent: true,
	}, sender.ID)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsUrgent)
	assert.Equal(t, int64(1), countRows(t, db, &entity.Message{}))
}

func TestMessageListNewestFirst(t *testing.T) {
	uc, db := newMessageUsecase(t)
	sender := seedUser(t, db, "cameron", entity.RoleNurse)

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, sender, "oldest", base)
	seedMessage(t, db, sender, "middle", base.Add(10*time.Minute))
	seedMessage(t, db, sender, "newest", base.Add(20*time.Minute))

	messages, err := uc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "newest", messages[0].Title)
	assert.Equal(t, "middle", messages[1].Title)
	assert.Equal(t, "oldest", messages[2].Title)
	assert.Equal(t, "cameron", messages[0].Sender)
}

func TestMessageDeleteBySender(t *testing.T) {
	uc, db := newMessageUsecase(t)
	sender := seedUser(t, db, "cameron", entity.RoleNurse)
	message := seedMessage(t, db, sender, "note", time.Now())

	require.NoError(t, uc.Delete(context.Background(), message.ID, sender))
	assert.Equal(t, int64(0), countRows(t, db, &entity.Message{}))
}

func TestMessageDeleteByPharmacist(t *testing.T) {
	uc, db := newMessageUsecase(t)
	sender := seedUser(t, db, "cameron", entity.RoleNurse)
	pharmacist := seedUser(t, db, "pharm", entity.RolePharmacist)
	message := seedMessage(t, db, sender, "note", time.Now())

	require.NoError(t, uc.Delete(context.Background(), message.ID, pharmacist))
	assert.Equal(t, int64(0), countRows(t, db, &entity.Message{}))
}

func TestMessageDeleteForbiddenForUnrelatedNurse(t *testing.T) {
	uc, db := newMessageUsecase(t)
	sender := seedUser(t, db, "pharm", entity.RolePharmacist)
	nurse := seedUser(t, db, "cameron", entity.RoleNurse)
	message := seedMessage(t, db, sender, "note", time.Now())

	err := uc.Delete(context.Background(), message.ID, nurse)
	assert.ErrorIs(t, err, usecase.ErrDeleteNotAllowed)
	assert.Equal(t, int64(1), countRows(t, db, &entity.Message{}), "message must survive a forbidden delete")
}

func TestMessageDeleteNotFound(t *testing.T) {
	uc, db := newMessageUsecase(t)
	nurse := seedUser(t, db, "cameron", entity.RoleNurse)

	err := uc.Delete(context.Background(), 404, nurse)
	assert.ErrorIs(t, err, usecase.ErrMessageNotFound)
}
