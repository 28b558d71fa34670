package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-inventory/internal/converter"
	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDrugNotFound  = errors.New("drug not found")
	ErrNegativePrice = errors.New("price must not be negative")
)

type DrugUsecase interface {
	Create(ctx context.Context, req *dto.DrugRequest, addedByID uint) (*dto.DrugResponse, error)
	GetAll(ctx context.Context, now time.Time) ([]dto.DrugResponse, error)
	GetByID(ctx context.Context, id uint, now time.Time) (*dto.DrugResponse, error)
	Update(ctx context.Context, id uint, req *dto.DrugRequest) (*dto.DrugResponse, error)
	Delete(ctx context.Context, id uint) error
	ExpiryAlerts(ctx context.Context, now time.Time) ([]dto.ExpiryAlertResponse, error)
}

type drugUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	drugRepo repository.DrugRepository
}

func NewDrugUsecase(db *gorm.DB, log *logrus.Logger, drugRepo repository.DrugRepository) DrugUsecase {
	return &drugUsecase{
		db:       db,
		log:      log,
		drugRepo: drugRepo,
	}
}

func (u *drugUsecase) Create(ctx context.Context, req *dto.DrugRequest, addedByID uint) (*dto.DrugResponse, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	drug := &entity.Drug{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
		ExpiryDate:  entity.DateOf(req.ExpiryDate),
		BatchNumber: req.BatchNumber,
		Supplier:    req.Supplier,
		AddedByID:   addedByID,
	}

	if err := u.drugRepo.Create(tx, drug); err != nil {
		u.log.Warnf("Failed to create drug: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, err
	}

	return converter.DrugToResponse(drug, time.Now()), nil
}

func (u *drugUsecase) GetAll(ctx context.Context, now time.Time) ([]dto.DrugResponse, error) {
	drugs, err := u.drugRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list drugs: %+v", err)
		return nil, err
	}

	responses := make([]dto.DrugResponse, 0, len(drugs))
	for i := range drugs {
		responses = append(responses, *converter.DrugToResponse(&drugs[i], now))
	}
	return responses, nil
}

func (u *drugUsecase) GetByID(ctx context.Context, id uint, now time.Time) (*dto.DrugResponse, error) {
	drug, err := u.drugRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find drug by ID: %+v", err)
		return nil, err
	}
	if drug == nil {
		return nil, ErrDrugNotFound
	}
	return converter.DrugToResponse(drug, now), nil
}

// Update overwrites every mutable field. The fetch and the write share one
// transaction so a concurrent delete cannot leave a half-applied edit.
func (u *drugUsecase) Update(ctx context.Context, id uint, req *dto.DrugRequest) (*dto.DrugResponse, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	drug, err := u.drugRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find drug by ID: %+v", err)
		return nil, err
	}
	if drug == nil {
		return nil, ErrDrugNotFound
	}

	drug.Name = req.Name
	drug.Description = req.Description
	drug.Quantity = req.Quantity
	drug.Price = req.Price
	drug.ExpiryDate = entity.DateOf(req.ExpiryDate)
	drug.BatchNumber = req.BatchNumber
	drug.Supplier = req.Supplier

	if err := u.drugRepo.Update(tx, drug); err != nil {
		u.log.Warnf("Failed to update drug: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, err
	}

	return converter.DrugToResponse(drug, time.Now()), nil
}

func (u *drugUsecase) Delete(ctx context.Context, id uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	drug, err := u.drugRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find drug by ID: %+v", err)
		return err
	}
	if drug == nil {
		return ErrDrugNotFound
	}

	if err := u.drugRepo.Delete(tx, drug); err != nil {
		u.log.Warnf("Failed to delete drug: %+v", err)
		return err
	}

	return tx.Commit().Error
}

// ExpiryAlerts returns every drug whose expiry date is on or before today,
// ascending by expiry date. The window is deliberately "already due", not a
// look-ahead.
func (u *drugUsecase) ExpiryAlerts(ctx context.Context, now time.Time) ([]dto.ExpiryAlertResponse, error) {
	drugs, err := u.drugRepo.FindExpiringBy(u.db.WithContext(ctx), entity.DateOf(now))
	if err != nil {
		u.log.Warnf("Failed to list expiring drugs: %+v", err)
		return nil, err
	}

	alerts := make([]dto.ExpiryAlertResponse, 0, len(drugs))
	for i := range drugs {
		alerts = append(alerts, *converter.DrugToExpiryAlert(&drugs[i], now))
	}
	return alerts, nil
}
