package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	saveErr error
}

func (f *failingStore) Save(ctx context.Context, sessionID string, state State) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.Save(ctx, sessionID, state)
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	svc, err := NewService(store, testPricing(), nil)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(nil, testPricing(), nil)
	assert.Error(t, err)

	_, err = NewService(NewMemoryStore(), Pricing{}, nil)
	assert.Error(t, err)
}

func TestServicePersistsMutations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, NewMemoryStore())

	_, err := svc.AddItem(ctx, "s1", "maintenance", 2)
	require.NoError(t, err)
	_, result, err := svc.ApplyPromoCode(ctx, "s1", "WELCOME10")
	require.NoError(t, err)
	require.True(t, result.Applied)

	c, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(10798), c.Total())

	c, err = svc.SetQuantity(ctx, "s1", "maintenance", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4999), c.Subtotal())

	c, err = svc.RemoveItem(ctx, "s1", "maintenance")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	require.NoError(t, svc.Clear(ctx, "s1"))
	c, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "", c.PromoCode())
}

func TestServiceFailedMutationIsNotSaved(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, NewMemoryStore())

	_, err := svc.AddItem(ctx, "s1", "maintenance", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", "unknown", 1)
	require.Error(t, err)

	c, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, c.Lines(), 1)
}

func TestServiceStoreFailureIsDependencyError(t *testing.T) {
	svc := newTestService(t, &failingStore{MemoryStore: NewMemoryStore(), saveErr: errors.New("redis down")})

	_, err := svc.AddItem(context.Background(), "s1", "maintenance", 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestServiceRequiresSession(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())
	_, err := svc.Get(context.Background(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceSerializesSameSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddItem(ctx, "shared", "audit-seo", 1)
		}()
	}
	wg.Wait()

	c, err := svc.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 20, c.Lines()[0].Quantity)
}
