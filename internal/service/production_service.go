package service

import (
	"context"
	"errors"
	"fmt"

	"go-factory-planner/internal/lock"
	"go-factory-planner/internal/model"
	"go-factory-planner/internal/planner"
	"go-factory-planner/internal/repository"
	"go-factory-planner/internal/ws"
	"go-factory-planner/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProductionService interface {
	Suggest(ctx context.Context) (*planner.Report, error)
	Produce(ctx context.Context, productID uuid.UUID, quantity int, actor Actor) (*model.ProductionRun, error)
	GetAllRuns() ([]model.ProductionRun, error)
	GetRun(id uuid.UUID) (*model.ProductionRun, error)
}

type productionService struct {
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	runRepo      repository.ProductionRunRepository
	db           *gorm.DB
	locker       lock.Locker
	notifier     Notifier
	log          *logrus.Logger
}

func NewProductionService(
	pRepo repository.ProductRepository,
	mRepo repository.MaterialRepository,
	rRepo repository.ProductionRunRepository,
	db *gorm.DB,
	locker lock.Locker,
	notifier Notifier,
	log *logrus.Logger,
) ProductionService {
	return &productionService{
		productRepo:  pRepo,
		materialRepo: mRepo,
		runRepo:      rRepo,
		db:           db,
		locker:       locker,
		notifier:     notifierOrNop(notifier),
		log:          log,
	}
}

// Suggest simulates production on a copy of current stock. It only reads.
func (s *productionService) Suggest(ctx context.Context) (*planner.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.LogError(s.log, "ProductionService", "Suggest", "load products", nil, err)
		return nil, fmt.Errorf("load products: %w", err)
	}
	materials, err := s.materialRepo.FindAll()
	if err != nil {
		logger.LogError(s.log, "ProductionService", "Suggest", "load raw materials", nil, err)
		return nil, fmt.Errorf("load raw materials: %w", err)
	}

	report := planner.Suggest(catalogOf(products), snapshotOf(materials))
	return &report, nil
}

// Produce commits quantity units of a product: it re-checks real stock under
// lock and decrements it together with the production run record.
func (s *productionService) Produce(ctx context.Context, productID uuid.UUID, quantity int, actor Actor) (*model.ProductionRun, error) {
	// 1. Product must exist before the quantity is looked at
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	// 2. Validasi quantity
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	reqs := requirementsOf(product.Materials)
	ids := make([]uuid.UUID, 0, len(reqs))
	keys := make([]string, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.MaterialID)
		keys = append(keys, req.MaterialID.String())
	}

	// 3. Serialize against other commits touching the same materials
	release, err := s.locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("acquire stock locks: %w", err)
	}
	defer release()

	var run *model.ProductionRun
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A. Lock rows and read real stock
		materials, err := s.materialRepo.LockByIDs(tx, ids)
		if err != nil {
			return fmt.Errorf("lock raw materials: %w", err)
		}
		stock := snapshotOf(materials)
		names := materialNames(product.Materials, materials)

		// B. Check every BOM line before touching anything
		if err := planner.CheckFeasibility(reqs, stock, quantity); err != nil {
			var shortage *planner.ShortageError
			if errors.As(err, &shortage) {
				return &InsufficientStockError{MaterialName: names[shortage.MaterialID], Shortage: shortage}
			}
			return err
		}

		// C. Decrement stock
		lines := make([]model.ProductionRunLine, 0, len(reqs))
		for _, use := range planner.Consumption(reqs, quantity) {
			if err := s.materialRepo.DecrementStock(tx, use.MaterialID, use.Quantity, actor.ID); err != nil {
				if errors.Is(err, repository.ErrStockChanged) {
					return &InsufficientStockError{
						MaterialName: names[use.MaterialID],
						Shortage:     &planner.ShortageError{MaterialID: use.MaterialID, Required: use.Quantity, Available: stock.Available(use.MaterialID)},
					}
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
			lines = append(lines, model.ProductionRunLine{
				RawMaterialID: use.MaterialID,
				MaterialName:  names[use.MaterialID],
				Quantity:      use.Quantity,
				StockAfter:    stock.Available(use.MaterialID) - use.Quantity,
			})
		}

		// D. Simpan log produksi
		run = &model.ProductionRun{
			ProductID:           product.ID,
			ProductName:         product.Name,
			Quantity:            quantity,
			UnitPrice:           product.Price,
			TotalValue:          product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			Lines:               lines,
			CreatedByOperatorID: actor.operatorID(),
		}
		run.CreatedBy = actor.ID
		run.UpdatedBy = actor.ID
		return s.runRepo.Create(tx, run)
	})
	if err != nil {
		var insufficient *InsufficientStockError
		if !errors.As(err, &insufficient) {
			logger.LogError(s.log, "ProductionService", "Produce", "commit production",
				map[string]interface{}{"product_id": productID, "quantity": quantity}, err)
		}
		return nil, err
	}

	// E. Broadcast ke WebSocket
	s.notifier.Publish(ws.Event{
		Type:   "stock_update",
		Action: "production_committed",
		Data: map[string]interface{}{
			"run_id":       run.ID,
			"product_id":   run.ProductID,
			"product_name": run.ProductName,
			"quantity":     run.Quantity,
			"consumption":  run.Lines,
		},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s produced %d units of '%s'", actor.Name, quantity, product.Name),
	})

	return run, nil
}

func (s *productionService) GetAllRuns() ([]model.ProductionRun, error) {
	return s.runRepo.FindAll()
}

func (s *productionService) GetRun(id uuid.UUID) (*model.ProductionRun, error) {
	run, err := s.runRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	return run, err
}

func requirementsOf(lines []model.ProductMaterial) []planner.Requirement {
	reqs := make([]planner.Requirement, 0, len(lines))
	for _, line := range lines {
		reqs = append(reqs, planner.Requirement{MaterialID: line.RawMaterialID, Quantity: line.RequiredQuantity})
	}
	return reqs
}

func catalogOf(products []model.Product) planner.Catalog {
	catalog := make(planner.Catalog, 0, len(products))
	for _, p := range products {
		catalog = append(catalog, planner.Recipe{
			ProductID:    p.ID,
			Name:         p.Name,
			Price:        p.Price,
			Requirements: requirementsOf(p.Materials),
		})
	}
	return catalog
}

func snapshotOf(materials []model.RawMaterial) planner.Snapshot {
	stock := make(planner.Snapshot, len(materials))
	for _, m := range materials {
		stock[m.ID] = m.StockQuantity
	}
	return stock
}

func materialNames(lines []model.ProductMaterial, materials []model.RawMaterial) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(lines))
	for _, line := range lines {
		if line.RawMaterial != nil {
			names[line.RawMaterialID] = line.RawMaterial.Name
		} else {
			names[line.RawMaterialID] = line.RawMaterialID.String()
		}
	}
	for _, m := range materials {
		names[m.ID] = m.Name
	}
	return names
}
