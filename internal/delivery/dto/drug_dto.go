package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// DrugRequest carries the add and edit drug forms. Every edit submits the
// full field set; there is no partial update.
type DrugRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity" validate:"gte=0"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ExpiryDate  time.Time        `json:"expiry_date" validate:"required"`
	BatchNumber string           `json:"batch_number" validate:"max=50"`
	Supplier    string           `json:"supplier" validate:"max=100"`
}

// Response DTOs

type DrugResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	ExpiryDate  string           `json:"expiry_date"`
	BatchNumber string           `json:"batch_number"`
	Supplier    string           `json:"supplier"`
	AddedBy     string           `json:"added_by,omitempty"`
	IsExpired   bool             `json:"is_expired"`
	IsLowStock  bool             `json:"is_low_stock"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type DrugListResponse struct {
	Drugs   []DrugResponse `json:"drugs"`
	Notices []string       `json:"notices,omitempty"`
}

// ExpiryAlertResponse is one entry of the machine-readable alert feed.
// BatchNumber is null when the drug has none.
type ExpiryAlertResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	ExpiryDate      string  `json:"expiry_date"`
	DaysUntilExpiry int     `json:"days_until_expiry"`
	BatchNumber     *string `json:"batch_number"`
}
