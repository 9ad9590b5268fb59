package model

// RawMaterial is stock on hand of one input material
type RawMaterial struct {
	BaseModel
	Name          string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,max=255"`
	StockQuantity float64 `gorm:"type:double precision;not null;default:0" json:"stockQuantity" validate:"gte=0"`
	Unit          string  `gorm:"type:varchar(20)" json:"unit,omitempty" validate:"max=20"`
}
