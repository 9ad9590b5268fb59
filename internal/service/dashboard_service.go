package service

import (
	"context"
	"fmt"
	"time"

	"go-factory-planner/internal/model"
	"go-factory-planner/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardService interface {
	GetProductionMovement(days int) ([]repository.ProductionMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts     int64               `json:"totalProducts"`
	TotalMaterials    int64               `json:"totalMaterials"`
	LowStockCount     int64               `json:"lowStockCount"`
	LowStockMaterials []model.RawMaterial `json:"lowStockMaterials"`
	LowStockThreshold float64             `json:"lowStockThreshold"`
	ProductionRuns    int64               `json:"productionRuns"`
	SuggestedValue    decimal.Decimal     `json:"suggestedValue"`
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	runRepo      repository.ProductionRunRepository
	production   ProductionService
	threshold    float64
	now          func() time.Time
}

func NewDashboardService(
	pRepo repository.ProductRepository,
	mRepo repository.MaterialRepository,
	rRepo repository.ProductionRunRepository,
	production ProductionService,
	lowStockThreshold float64,
) DashboardService {
	return &dashboardService{
		productRepo:  pRepo,
		materialRepo: mRepo,
		runRepo:      rRepo,
		production:   production,
		threshold:    lowStockThreshold,
		now:          time.Now,
	}
}

func (s *dashboardService) GetProductionMovement(days int) ([]repository.ProductionMovementData, error) {
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.runRepo.GetProductionMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{LowStockThreshold: s.threshold}
	var err error

	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if stats.TotalMaterials, err = s.materialRepo.Count(); err != nil {
		return nil, fmt.Errorf("count raw materials: %w", err)
	}
	if stats.LowStockMaterials, err = s.materialRepo.FindLowStock(s.threshold); err != nil {
		return nil, fmt.Errorf("find low stock: %w", err)
	}
	stats.LowStockCount = int64(len(stats.LowStockMaterials))
	if stats.ProductionRuns, err = s.runRepo.Count(); err != nil {
		return nil, fmt.Errorf("count production runs: %w", err)
	}

	report, err := s.production.Suggest(ctx)
	if err != nil {
		return nil, err
	}
	stats.SuggestedValue = report.TotalValue

	return stats, nil
}
