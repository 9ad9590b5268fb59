package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-factory-planner/internal/config"
	"go-factory-planner/internal/lock"
	"go-factory-planner/internal/model"
	"go-factory-planner/internal/repository"
	"go-factory-planner/internal/ws"
	"go-factory-planner/pkg/database"
	"go-factory-planner/pkg/jwt"
	"go-factory-planner/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (n *recordingNotifier) Publish(event ws.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Action)
	}
	return out
}

type testEnv struct {
	db         *gorm.DB
	materials  repository.MaterialRepository
	products   repository.ProductRepository
	runs       repository.ProductionRunRepository
	operators  repository.OperatorRepository
	notifier   *recordingNotifier
	materialSv MaterialService
	productSv  ProductService
	production ProductionService
	dashboard  DashboardService
	auth       AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(config.Database{
		Driver:   "sqlite",
		URL:      "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	env := &testEnv{
		db:        db,
		materials: repository.NewMaterialRepo(db),
		products:  repository.NewProductRepo(db),
		runs:      repository.NewProductionRunRepo(db),
		operators: repository.NewOperatorRepo(db),
		notifier:  &recordingNotifier{},
	}
	locker := lock.NewLocalLocker()
	log := logger.Discard()

	env.materialSv = NewMaterialService(env.materials, locker, env.notifier)
	env.productSv = NewProductService(env.products, env.materials, env.notifier)
	env.production = NewProductionService(env.products, env.materials, env.runs, db, locker, env.notifier, log)
	env.dashboard = NewDashboardService(env.products, env.materials, env.runs, env.production, 10)
	env.auth = NewAuthService(env.operators, jwt.NewManager("test-secret", time.Hour))
	return env
}

func (e *testEnv) material(t *testing.T, name string, stock float64) *model.RawMaterial {
	t.Helper()
	m := &model.RawMaterial{Name: name, StockQuantity: stock}
	require.NoError(t, e.materialSv.CreateMaterial(m, SystemActor))
	return m
}

func (e *testEnv) product(t *testing.T, name, price string, lines ...model.ProductMaterial) *model.Product {
	t.Helper()
	p, err := e.productSv.CreateProduct(&model.Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Materials: lines,
	}, SystemActor)
	require.NoError(t, err)
	return p
}

func line(m *model.RawMaterial, qty float64) model.ProductMaterial {
	return model.ProductMaterial{RawMaterialID: m.ID, RequiredQuantity: qty}
}

func (e *testEnv) stockOf(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	m, err := e.materials.FindByID(id)
	require.NoError(t, err)
	return m.StockQuantity
}

var bg = context.Background()
