package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices and totals go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// BaseModel handles ID (UUID) and standard Audit Trails
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // Soft Delete support

	// Audit User Tracking
	CreatedBy string `json:"createdBy"`
	UpdatedBy string `json:"updatedBy"`
	DeletedBy string `json:"-"`
}

// BeforeCreate generates the UUID unless the caller already set one
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// AllModels lists every table the API owns, in migration order
func AllModels() []any {
	return []any{
		&RawMaterial{},
		&Product{},
		&ProductMaterial{},
		&ProductionRun{},
		&ProductionRunLine{},
		&Operator{},
	}
}
