package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-factory-planner/internal/planner"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestRingAndEarring(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	env.product(t, "Simple Earring", "100.00", line(gold, 2))
	env.product(t, "Lux Ring", "1000.00", line(gold, 4))

	report, err := env.production.Suggest(bg)
	require.NoError(t, err)

	require.Len(t, report.SuggestedProducts, 2)
	assert.Equal(t, "Lux Ring", report.SuggestedProducts[0].ProductName)
	assert.Equal(t, 2, report.SuggestedProducts[0].Quantity)
	assert.Equal(t, "Simple Earring", report.SuggestedProducts[1].ProductName)
	assert.Equal(t, 1, report.SuggestedProducts[1].Quantity)
	assert.True(t, decimal.RequireFromString("2100").Equal(report.TotalValue), "got %s", report.TotalValue)

	// suggestion is a read: stock untouched and the answer is repeatable
	assert.Equal(t, 10.0, env.stockOf(t, gold.ID))
	again, err := env.production.Suggest(bg)
	require.NoError(t, err)
	assert.Equal(t, report, again)
}

func TestSuggestChairLimitedByMetal(t *testing.T) {
	env := newTestEnv(t)
	wood := env.material(t, "Wood", 30)
	metal := env.material(t, "Metal", 10)
	env.product(t, "Premium Chair", "250", line(wood, 5), line(metal, 2))

	report, err := env.production.Suggest(bg)
	require.NoError(t, err)
	require.Len(t, report.SuggestedProducts, 1)
	assert.Equal(t, 5, report.SuggestedProducts[0].Quantity)
}

func TestSuggestEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.production.Suggest(bg)
	require.NoError(t, err)
	assert.Empty(t, report.SuggestedProducts)
	assert.True(t, report.TotalValue.IsZero())
}

func TestSuggestHonoursCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(bg)
	cancel()

	_, err := env.production.Suggest(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProduceInsufficientStockLeavesStockUntouched(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	ring := env.product(t, "Lux Ring", "1000", line(gold, 4))

	_, err := env.production.Produce(bg, ring.ID, 3, SystemActor)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Insufficient stock of Gold", err.Error())
	var shortage *planner.ShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, 12.0, shortage.Required)
	assert.Equal(t, 10.0, shortage.Available)

	assert.Equal(t, 10.0, env.stockOf(t, gold.ID))
	count, err := env.runs.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NotContains(t, env.notifier.actions(), "production_committed")
}

func TestProduceReportsFirstShortLineInBOMOrder(t *testing.T) {
	env := newTestEnv(t)
	wood := env.material(t, "Wood", 1)
	metal := env.material(t, "Metal", 0)
	chair := env.product(t, "Chair", "100", line(wood, 5), line(metal, 2))

	_, err := env.production.Produce(bg, chair.ID, 1, SystemActor)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock of Wood", err.Error())
	assert.Equal(t, 1.0, env.stockOf(t, wood.ID))
	assert.Equal(t, 0.0, env.stockOf(t, metal.ID))
}

func TestProduceCommitsAndRecordsRun(t *testing.T) {
	env := newTestEnv(t)
	wood := env.material(t, "Wood", 30)
	metal := env.material(t, "Metal", 10)
	chair := env.product(t, "Premium Chair", "250.50", line(wood, 5), line(metal, 2))
	actor := Actor{ID: uuid.NewString(), Name: "Planner"}

	run, err := env.production.Produce(bg, chair.ID, 5, actor)
	require.NoError(t, err)

	assert.Equal(t, 5.0, env.stockOf(t, wood.ID))
	assert.Equal(t, 0.0, env.stockOf(t, metal.ID))

	assert.Equal(t, 5, run.Quantity)
	assert.True(t, decimal.RequireFromString("1252.50").Equal(run.TotalValue))
	require.NotNil(t, run.CreatedByOperatorID)
	assert.Equal(t, actor.ID, *run.CreatedByOperatorID)
	require.Len(t, run.Lines, 2)
	assert.Equal(t, "Wood", run.Lines[0].MaterialName)
	assert.Equal(t, 25.0, run.Lines[0].Quantity)
	assert.Equal(t, 5.0, run.Lines[0].StockAfter)

	stored, err := env.production.GetRun(run.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 2)
	assert.Contains(t, env.notifier.actions(), "production_committed")

	// nothing left for another chair
	_, err = env.production.Produce(bg, chair.ID, 1, actor)
	assert.Equal(t, "Insufficient stock of Metal", err.Error())
}

func TestProduceMergesDuplicateBOMLines(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	crown := env.product(t, "Crown", "900", line(gold, 4), line(gold, 4))

	_, err := env.production.Produce(bg, crown.ID, 1, SystemActor)
	require.NoError(t, err)
	assert.Equal(t, 2.0, env.stockOf(t, gold.ID))

	_, err = env.production.Produce(bg, crown.ID, 1, SystemActor)
	require.Error(t, err)
	assert.Equal(t, 2.0, env.stockOf(t, gold.ID))
}

func TestProduceValidationOrder(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	ring := env.product(t, "Ring", "10", line(gold, 1))

	// unknown product wins over a bad quantity
	_, err := env.production.Produce(bg, uuid.New(), 0, SystemActor)
	assert.ErrorIs(t, err, ErrProductNotFound)

	for _, q := range []int{0, -3} {
		_, err = env.production.Produce(bg, ring.ID, q, SystemActor)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 10.0, env.stockOf(t, gold.ID))
}

func TestConcurrentCommitsNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 10)
	ring := env.product(t, "Ring", "100", line(gold, 3))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.production.Produce(bg, ring.ID, 1, SystemActor)
			mu.Lock()
			defer mu.Unlock()
			var insufficient *InsufficientStockError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &insufficient):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, 1.0, env.stockOf(t, gold.ID))
}

func TestSuggestionIsNotAReservation(t *testing.T) {
	env := newTestEnv(t)
	gold := env.material(t, "Gold", 8)
	ring := env.product(t, "Ring", "1000", line(gold, 4))

	report, err := env.production.Suggest(bg)
	require.NoError(t, err)
	require.Len(t, report.SuggestedProducts, 1)
	assert.Equal(t, 2, report.SuggestedProducts[0].Quantity)

	_, err = env.production.Produce(bg, ring.ID, 1, SystemActor)
	require.NoError(t, err)

	report, err = env.production.Suggest(bg)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SuggestedProducts[0].Quantity)
}

func TestGetRunNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.production.GetRun(uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)

	runs, err := env.production.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
