package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/logging"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	sess := session.New()
	sess.Login("hh", model.User{ID: "u1", Name: "Asha"})
	return NewService(store.NewMemory(), sess, bus.New(), logging.Nop())
}

func TestCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	c, err := svc.Create(ctx, model.Category{Name: "Travel", Type: model.TypeExpense})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "hh", c.HouseholdID)

	subs := []model.SubCategory{{ID: "travel-flights", Name: "Flights"}}
	got, err := svc.Update(ctx, c.ID, UpdateParams{SubCategories: &subs})
	require.NoError(t, err)
	assert.True(t, got.HasSubCategory("travel-flights"))

	_, err = svc.Create(ctx, model.Category{Type: model.TypeExpense})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a name")
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Seed(ctx))
	first, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, len(DefaultCategories()))

	// Seeding again adds nothing.
	require.NoError(t, svc.Seed(ctx))
	second, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}

func TestSeed_KeepsUserCategories(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, model.Category{Name: "Pets", Type: model.TypeExpense})
	require.NoError(t, err)

	require.NoError(t, svc.Seed(ctx))
	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultCategories())+1)
}

func TestDelete_AbsentIsNoOp(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Delete(context.Background(), "nope"))
}
