package repository

import (
	"errors"

	"go-factory-planner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockChanged is returned when a guarded decrement finds less stock than
// it was asked to take.
var ErrStockChanged = errors.New("stock changed concurrently")

type MaterialRepository interface {
	Create(material *model.RawMaterial) error
	FindAll() ([]model.RawMaterial, error)
	FindByID(id uuid.UUID) (*model.RawMaterial, error)
	FindByName(name string) (*model.RawMaterial, error)
	Update(material *model.RawMaterial) error
	Delete(id uuid.UUID) error
	IsReferenced(id uuid.UUID) (bool, error)
	Count() (int64, error)
	FindLowStock(threshold float64) ([]model.RawMaterial, error)

	LockByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.RawMaterial, error)
	DecrementStock(tx *gorm.DB, id uuid.UUID, delta float64, updatedBy string) error
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) Create(material *model.RawMaterial) error {
	return r.db.Create(material).Error
}

func (r *materialRepo) FindAll() ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindByID(id uuid.UUID) (*model.RawMaterial, error) {
	var material model.RawMaterial
	if err := r.db.First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) FindByName(name string) (*model.RawMaterial, error) {
	var material model.RawMaterial
	if err := r.db.Where("name = ?", name).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) Update(material *model.RawMaterial) error {
	return r.db.Model(material).Select("name", "stock_quantity", "unit", "updated_by").Updates(material).Error
}

// Delete removes the row for good so the unique name can be reused
func (r *materialRepo) Delete(id uuid.UUID) error {
	res := r.db.Unscoped().Delete(&model.RawMaterial{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *materialRepo) IsReferenced(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.ProductMaterial{}).Where("raw_material_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *materialRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.RawMaterial{}).Count(&count).Error
	return count, err
}

func (r *materialRepo) FindLowStock(threshold float64) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.Where("stock_quantity < ?", threshold).Order("stock_quantity ASC, name ASC").Find(&materials).Error
	return materials, err
}

// LockByIDs reads the rows with SELECT ... FOR UPDATE inside tx
func (r *materialRepo) LockByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	if len(ids) == 0 {
		return materials, nil
	}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&materials).Error
	return materials, err
}

// DecrementStock menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi.
// The WHERE guard keeps stock from ever going below zero.
func (r *materialRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, delta float64, updatedBy string) error {
	res := tx.Model(&model.RawMaterial{}).
		Where("id = ? AND stock_quantity >= ?", id, delta).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", delta),
			"updated_by":     updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockChanged
	}
	return nil
}
