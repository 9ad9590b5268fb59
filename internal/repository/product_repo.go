package repository

import (
	"go-factory-planner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	AddMaterial(line *model.ProductMaterial) error
	Delete(id uuid.UUID, deletedBy string) error
	Count() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// Create inserts the product and its inline BOM lines. Referenced raw
// materials are never written through the association.
func (r *productRepo) Create(product *model.Product) error {
	for i := range product.Materials {
		product.Materials[i].Position = i
		product.Materials[i].RawMaterial = nil
	}
	return r.db.Create(product).Error
}

// FindAll returns products by descending price. Ties fall back to creation
// order so the catalog order is stable between calls.
func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("product_materials.position ASC, product_materials.id ASC") }).
		Preload("Materials.RawMaterial").
		Order("price DESC, created_at ASC, id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("product_materials.position ASC, product_materials.id ASC") }).
		Preload("Materials.RawMaterial").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// AddMaterial appends a BOM line after the existing ones
func (r *productRepo) AddMaterial(line *model.ProductMaterial) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.ProductMaterial{}).
			Where("product_id = ?", line.ProductID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}
		line.Position = next
		return tx.Omit("RawMaterial").Create(line).Error
	})
}

// Delete soft-deletes the product and drops its BOM rows in one transaction
func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductMaterial{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}
