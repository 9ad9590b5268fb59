package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name  string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price" validate:"gte=0"`

	// Relasi: bill of materials, removed together with the product
	Materials []ProductMaterial `gorm:"constraint:OnDelete:CASCADE;" json:"materials" validate:"dive"`
}

// ProductMaterial is one BOM line: how much of a raw material one unit consumes
type ProductMaterial struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"productId"`
	RawMaterialID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"rawMaterialId" validate:"uuid_required"`
	RawMaterial      *RawMaterial `gorm:"foreignKey:RawMaterialID;constraint:OnDelete:RESTRICT;" json:"rawMaterial,omitempty" validate:"-"`
	RequiredQuantity float64      `gorm:"type:double precision;not null" json:"requiredQuantity" validate:"gt=0"`
	Position         int          `gorm:"not null;default:0" json:"-"` // BOM order, feasibility reports the first short line
}

func (pm *ProductMaterial) BeforeCreate(tx *gorm.DB) (err error) {
	if pm.ID == uuid.Nil {
		pm.ID = uuid.New()
	}
	return
}
