package service

import (
	"context"
	"testing"
	"time"

	"go-factory-planner/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMaterialValidation(t *testing.T) {
	env := newTestEnv(t)

	err := env.materialSv.CreateMaterial(&model.RawMaterial{Name: "", StockQuantity: 1}, SystemActor)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "failed on tag 'required'")

	err = env.materialSv.CreateMaterial(&model.RawMaterial{Name: "Gold", StockQuantity: -1}, SystemActor)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "'gte'")

	env.material(t, "Gold", 1)
	err = env.materialSv.CreateMaterial(&model.RawMaterial{Name: "Gold"}, SystemActor)
	assert.ErrorIs(t, err, ErrDuplicateMaterial)
}

func TestUpdateMaterial(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 1)
	env.material(t, "Silver", 1)
	actor := Actor{ID: "op-1", Name: "Ana"}

	updated, err := env.materialSv.UpdateMaterial(bg, gold.ID, &model.RawMaterial{Name: "Gold", StockQuantity: 25, Unit: "g"}, actor)
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.StockQuantity)
	assert.Equal(t, 25.0, env.stockOf(t, gold.ID))
	assert.Contains(t, env.notifier.actions(), "material_updated")

	_, err = env.materialSv.UpdateMaterial(bg, gold.ID, &model.RawMaterial{Name: "Silver"}, actor)
	assert.ErrorIs(t, err, ErrDuplicateMaterial)

	_, err = env.materialSv.UpdateMaterial(bg, uuid.New(), &model.RawMaterial{Name: "Tin"}, actor)
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestUpdateMaterialWaitsForStockLock(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 1)

	locker := env.materialSv.(*materialService).locker
	release, err := locker.Acquire(bg, gold.ID.String())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(bg, 30*time.Millisecond)
	defer cancel()
	_, err = env.materialSv.UpdateMaterial(ctx, gold.ID, &model.RawMaterial{Name: "Gold", StockQuantity: 5}, SystemActor)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1.0, env.stockOf(t, gold.ID))
}

func TestDeleteMaterialInUse(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	tin := env.material(t, "Tin", 1)
	ring := env.product(t, "Ring", "10", line(gold, 1))

	assert.ErrorIs(t, env.materialSv.DeleteMaterial(bg, gold.ID, SystemActor), ErrMaterialInUse)
	require.NoError(t, env.materialSv.DeleteMaterial(bg, tin.ID, SystemActor))
	assert.ErrorIs(t, env.materialSv.DeleteMaterial(bg, tin.ID, SystemActor), ErrMaterialNotFound)

	// once the product is gone the material is free
	require.NoError(t, env.productSv.DeleteProduct(ring.ID, SystemActor))
	require.NoError(t, env.materialSv.DeleteMaterial(bg, gold.ID, SystemActor))
}

func TestCreateProductWithInlineBOM(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	silver := env.material(t, "Silver", 10)

	created, err := env.productSv.CreateProduct(&model.Product{
		Name:  "Lux Ring",
		Price: decimal.RequireFromString("1000"),
		Materials: []model.ProductMaterial{
			{RawMaterial: &model.RawMaterial{BaseModel: model.BaseModel{ID: gold.ID}}, RequiredQuantity: 4},
			{RawMaterialID: silver.ID, RequiredQuantity: 0.5},
		},
	}, Actor{ID: "op-1", Name: "Ana"})
	require.NoError(t, err)

	require.Len(t, created.Materials, 2)
	assert.Equal(t, "Gold", created.Materials[0].RawMaterial.Name)
	assert.Equal(t, 4.0, created.Materials[0].RequiredQuantity)
	assert.Equal(t, "Silver", created.Materials[1].RawMaterial.Name)
	assert.Equal(t, "op-1", created.CreatedBy)
	assert.Contains(t, env.notifier.actions(), "product_created")
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)

	_, err := env.productSv.CreateProduct(&model.Product{Name: "Ring", Price: decimal.NewFromInt(-5)}, SystemActor)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = env.productSv.CreateProduct(&model.Product{
		Name: "Ring", Price: decimal.NewFromInt(5),
		Materials: []model.ProductMaterial{{RawMaterialID: gold.ID, RequiredQuantity: 0}},
	}, SystemActor)
	assert.ErrorAs(t, err, &verr)

	_, err = env.productSv.CreateProduct(&model.Product{
		Name: "Ring", Price: decimal.NewFromInt(5),
		Materials: []model.ProductMaterial{{RawMaterialID: uuid.New(), RequiredQuantity: 1}},
	}, SystemActor)
	assert.ErrorIs(t, err, ErrMaterialNotFound)

	all, err := env.productSv.GetAllProducts()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddMaterial(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	silver := env.material(t, "Silver", 10)
	ring := env.product(t, "Ring", "10", line(gold, 1))

	added, err := env.productSv.AddMaterial(ring.ID, &model.ProductMaterial{
		RawMaterial:      &model.RawMaterial{BaseModel: model.BaseModel{ID: silver.ID}},
		RequiredQuantity: 2,
	}, SystemActor)
	require.NoError(t, err)
	assert.Equal(t, ring.ID, added.ProductID)
	assert.Equal(t, "Silver", added.RawMaterial.Name)

	reloaded, err := env.productSv.GetProduct(ring.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Materials, 2)
	assert.Equal(t, "Silver", reloaded.Materials[1].RawMaterial.Name)

	_, err = env.productSv.AddMaterial(uuid.New(), &model.ProductMaterial{RawMaterialID: silver.ID, RequiredQuantity: 1}, SystemActor)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = env.productSv.AddMaterial(ring.ID, &model.ProductMaterial{RawMaterialID: uuid.New(), RequiredQuantity: 1}, SystemActor)
	assert.ErrorIs(t, err, ErrMaterialNotFound)

	_, err = env.productSv.AddMaterial(ring.ID, &model.ProductMaterial{RawMaterialID: silver.ID, RequiredQuantity: -1}, SystemActor)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteProductDropsItFromSuggestion(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	ring := env.product(t, "Ring", "1000", line(gold, 4))
	env.product(t, "Earring", "100", line(gold, 2))

	require.NoError(t, env.productSv.DeleteProduct(ring.ID, SystemActor))
	assert.ErrorIs(t, env.productSv.DeleteProduct(ring.ID, SystemActor), ErrProductNotFound)

	_, err := env.productSv.GetProduct(ring.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	report, err := env.production.Suggest(bg)
	require.NoError(t, err)
	require.Len(t, report.SuggestedProducts, 1)
	assert.Equal(t, "Earring", report.SuggestedProducts[0].ProductName)
	assert.Equal(t, 5, report.SuggestedProducts[0].Quantity)
}
