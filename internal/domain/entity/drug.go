package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity below which a drug counts as low stock.
const LowStockThreshold = 10

type Drug struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string           `gorm:"type:varchar(100);not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Quantity    int              `gorm:"not null" json:"quantity"`
	Price       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	ExpiryDate  time.Time        `gorm:"type:date;not null" json:"expiry_date"`
	BatchNumber string           `gorm:"type:varchar(50)" json:"batch_number"`
	Supplier    string           `gorm:"type:varchar(100)" json:"supplier"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	AddedByID uint `gorm:"not null;index" json:"added_by_id"`
	AddedBy   User `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`
}

func (Drug) TableName() string {
	return "drugs"
}

// IsExpired reports whether the expiry date is strictly before the date
// portion of now. A drug expiring today is not yet expired.
func (d *Drug) IsExpired(now time.Time) bool {
	return DateOf(d.ExpiryDate).Before(DateOf(now))
}

// IsLowStock reports whether the quantity is below LowStockThreshold.
func (d *Drug) IsLowStock() bool {
	return d.Quantity < LowStockThreshold
}

// DaysUntilExpiry returns the signed number of whole days between the date
// portion of now and the expiry date. Negative once the drug has expired,
// zero on the expiry day itself.
func (d *Drug) DaysUntilExpiry(now time.Time) int {
	return int(DateOf(d.ExpiryDate).Sub(DateOf(now)).Hours() / 24)
}

// DateOf strips the time-of-day and normalizes to UTC, so day arithmetic is
// exact regardless of the location the caller's clock carries.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
