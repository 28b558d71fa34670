package converter

import (
	"time"

	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
)

// DrugToResponse converts a Drug entity to its response DTO. The expired and
// low-stock flags are derived at read time against now.
func DrugToResponse(drug *entity.Drug, now time.Time) *dto.DrugResponse {
	if drug == nil {
		return nil
	}

	return &dto.DrugResponse{
		ID:          drug.ID,
		Name:        drug.Name,
		Description: drug.Description,
		Quantity:    drug.Quantity,
		Price:       drug.Price,
		ExpiryDate:  drug.ExpiryDate.Format("2006-01-02"),
		BatchNumber: drug.BatchNumber,
		Supplier:    drug.Supplier,
		AddedBy:     drug.AddedBy.Username,
		IsExpired:   drug.IsExpired(now),
		IsLowStock:  drug.IsLowStock(),
		CreatedAt:   drug.CreatedAt,
		UpdatedAt:   drug.UpdatedAt,
	}
}

// DrugToExpiryAlert converts a Drug entity to one alert-feed entry.
func DrugToExpiryAlert(drug *entity.Drug, now time.Time) *dto.ExpiryAlertResponse {
	if drug == nil {
		return nil
	}

	var batch *string
	if drug.BatchNumber != "" {
		batch = &drug.BatchNumber
	}

	return &dto.ExpiryAlertResponse{
		ID:              drug.ID,
		Name:            drug.Name,
		ExpiryDate:      drug.ExpiryDate.Format("2006-01-02"),
		DaysUntilExpiry: drug.DaysUntilExpiry(now),
		BatchNumber:     batch,
	}
}
