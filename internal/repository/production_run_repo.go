package repository

import (
	"time"

	"go-factory-planner/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductionRunRepository interface {
	Create(tx *gorm.DB, run *model.ProductionRun) error
	FindAll() ([]model.ProductionRun, error)
	FindByID(id uuid.UUID) (*model.ProductionRun, error)
	GetProductionMovement(startDate, endDate time.Time) ([]ProductionMovementData, error)
	Count() (int64, error)
}

// ProductionMovementData untuk chart data
type ProductionMovementData struct {
	Date  string          `json:"date"`
	Runs  int64           `json:"runs"`
	Units int64           `json:"units"`
	Value decimal.Decimal `json:"value"`
}

type productionRunRepo struct {
	db *gorm.DB
}

func NewProductionRunRepo(db *gorm.DB) ProductionRunRepository {
	return &productionRunRepo{db}
}

// Create menerima *gorm.DB (tx) so the run commits with the stock decrement
func (r *productionRunRepo) Create(tx *gorm.DB, run *model.ProductionRun) error {
	return tx.Create(run).Error
}

func (r *productionRunRepo) FindAll() ([]model.ProductionRun, error) {
	var runs []model.ProductionRun
	err := r.db.Preload("Lines").Order("created_at DESC").Find(&runs).Error
	return runs, err
}

func (r *productionRunRepo) FindByID(id uuid.UUID) (*model.ProductionRun, error) {
	var run model.ProductionRun
	if err := r.db.Preload("Lines").First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *productionRunRepo) GetProductionMovement(startDate, endDate time.Time) ([]ProductionMovementData, error) {
	results := []ProductionMovementData{}

	// Query untuk aggregate production runs per hari
	rows, err := r.db.Model(&model.ProductionRun{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as runs,
			COALESCE(SUM(quantity), 0) as units,
			COALESCE(SUM(total_value), 0) as value
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data ProductionMovementData
		if err := rows.Scan(&data.Date, &data.Runs, &data.Units, &data.Value); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *productionRunRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductionRun{}).Count(&count).Error
	return count, err
}
