package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductionRun records one committed production: what was built and
// which stock it consumed. Names and prices are snapshots taken at commit.
type ProductionRun struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"productName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TotalValue  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalValue"` // Snapshot price * quantity

	Lines []ProductionRunLine `gorm:"constraint:OnDelete:CASCADE;" json:"lines"`

	// User tracking
	CreatedByOperatorID *string `gorm:"type:varchar(255)" json:"createdByOperatorId,omitempty"`
}

type ProductionRunLine struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ProductionRunID uuid.UUID `gorm:"type:uuid;not null;index" json:"productionRunId"`
	RawMaterialID   uuid.UUID `gorm:"type:uuid;not null" json:"rawMaterialId"`
	MaterialName    string    `gorm:"type:varchar(255);not null" json:"materialName"`
	Quantity        float64   `gorm:"type:double precision;not null" json:"quantity"`
	StockAfter      float64   `gorm:"type:double precision;not null" json:"stockAfter"`
}

func (l *ProductionRunLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
