package usecase

import (
	"context"
	"time"

	"clinic-inventory/internal/converter"
	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// recentMessageLimit caps the message preview on the dashboard.
const recentMessageLimit = 5

type DashboardUsecase interface {
	Stats(ctx context.Context, now time.Time) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	drugRepo    repository.DrugRepository
	messageRepo repository.MessageRepository
}

func NewDashboardUsecase(db *gorm.DB, log *logrus.Logger, drugRepo repository.DrugRepository, messageRepo repository.MessageRepository) DashboardUsecase {
	return &dashboardUsecase{
		db:          db,
		log:         log,
		drugRepo:    drugRepo,
		messageRepo: messageRepo,
	}
}

// Stats aggregates the drug counters and the newest messages. Expired means
// expiry date strictly before today; low stock means quantity below the
// LowStockThreshold.
func (u *dashboardUsecase) Stats(ctx context.Context, now time.Time) (*dto.DashboardResponse, error) {
	db := u.db.WithContext(ctx)

	total, err := u.drugRepo.CountAll(db)
	if err != nil {
		u.log.Warnf("Failed to count drugs: %+v", err)
		return nil, err
	}

	expired, err := u.drugRepo.CountExpiredBefore(db, entity.DateOf(now))
	if err != nil {
		u.log.Warnf("Failed to count expired drugs: %+v", err)
		return nil, err
	}

	lowStock, err := u.drugRepo.CountBelowQuantity(db, entity.LowStockThreshold)
	if err != nil {
		u.log.Warnf("Failed to count low-stock drugs: %+v", err)
		return nil, err
	}

	recent, err := u.messageRepo.FindRecent(db, recentMessageLimit)
	if err != nil {
		u.log.Warnf("Failed to list recent messages: %+v", err)
		return nil, err
	}

	recentResponses := make([]dto.MessageResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, *converter.MessageToResponse(&recent[i]))
	}

	return &dto.DashboardResponse{
		TotalDrugs:     total,
		ExpiredDrugs:   expired,
		LowStock:       lowStock,
		RecentMessages: recentResponses,
	}, nil
}
