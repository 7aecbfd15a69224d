package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexusagency/nexus-backend/internal/cart"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPersister struct {
	calls int
	err   error
	block bool
	saved []Submission
}

func (s *stubPersister) CreateOrder(ctx context.Context, sub Submission) (uint, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if s.err != nil {
		return 0, s.err
	}
	s.saved = append(s.saved, sub)
	return uint(len(s.saved)), nil
}

type stubNewsletter struct {
	emails []string
	err    error
}

func (s *stubNewsletter) Subscribe(_ context.Context, email string, _ *string) error {
	s.emails = append(s.emails, email)
	return s.err
}

type testHarness struct {
	carts      *cart.Service
	persister  *stubPersister
	newsletter *stubNewsletter
	guard      *MemoryGuard
	svc        *Service
}

func newHarness(t *testing.T, timeout time.Duration) *testHarness {
	t.Helper()
	carts, err := cart.NewService(cart.NewMemoryStore(), testPricing(), nil)
	require.NoError(t, err)
	h := &testHarness{
		carts:      carts,
		persister:  &stubPersister{},
		newsletter: &stubNewsletter{},
		guard:      NewMemoryGuard(),
	}
	h.svc, err = NewService(ServiceParams{
		Carts:         carts,
		Builder:       newTestBuilder(),
		Orders:        h.persister,
		Guard:         h.guard,
		Newsletter:    h.newsletter,
		SubmitTimeout: timeout,
	})
	require.NoError(t, err)
	return h
}

func TestSubmitPersistsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Second)
	_, err := h.carts.AddItem(ctx, "s1", "maintenance", 2)
	require.NoError(t, err)

	in := validInput(enums.PaymentMethodCard)
	in.Newsletter = true
	result, err := h.svc.Submit(ctx, "s1", in)
	require.NoError(t, err)
	assert.Equal(t, uint(1), result.OrderID)
	assert.Equal(t, int64(11998), result.Submission.Totals.Total)
	assert.Equal(t, []string{"camille@example.fr"}, h.newsletter.emails)

	c, err := h.carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestSubmitFailureLeavesCartIntact(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Second)
	h.persister.err = errors.New("connection refused")
	_, err := h.carts.AddItem(ctx, "s1", "audit-seo", 1)
	require.NoError(t, err)

	_, err = h.svc.Submit(ctx, "s1", validInput(enums.PaymentMethodCard))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, 1, h.persister.calls)

	c, err := h.carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []cart.Line{{ProductID: "audit-seo", Quantity: 1}}, c.Lines())
}

func TestSubmitTimeoutIsDependencyError(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 20*time.Millisecond)
	h.persister.block = true
	_, err := h.carts.AddItem(ctx, "s1", "audit-seo", 1)
	require.NoError(t, err)

	_, err = h.svc.Submit(ctx, "s1", validInput(enums.PaymentMethodCard))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	c, err := h.carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, c.IsEmpty())
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Second)
	_, err := h.carts.AddItem(ctx, "s1", "audit-seo", 1)
	require.NoError(t, err)

	ok, err := h.guard.Acquire(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = h.svc.Submit(ctx, "s1", validInput(enums.PaymentMethodCard))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, 0, h.persister.calls)

	require.NoError(t, h.guard.Release(ctx, "s1"))
	_, err = h.svc.Submit(ctx, "s1", validInput(enums.PaymentMethodCard))
	require.NoError(t, err)
}

func TestSubmitEmptyCart(t *testing.T) {
	h := newHarness(t, time.Second)
	_, err := h.svc.Submit(context.Background(), "fresh", validInput(enums.PaymentMethodCard))
	assert.Equal(t, ReasonEmptyCart, pkgerrors.ReasonOf(err))
	assert.Equal(t, 0, h.persister.calls)

	ok, _ := h.guard.Acquire(context.Background(), "fresh")
	assert.True(t, ok, "guard should be released after a failed submission")
}

func TestSubmitNewsletterFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Second)
	h.newsletter.err = errors.New("db down")
	_, err := h.carts.AddItem(ctx, "s1", "audit-seo", 1)
	require.NoError(t, err)

	in := validInput(enums.PaymentMethodTransfer)
	in.Newsletter = true
	_, err = h.svc.Submit(ctx, "s1", in)
	require.NoError(t, err)
}

func TestPersistenceErrorKeepsConflicts(t *testing.T) {
	conflict := pkgerrors.New(pkgerrors.CodeConflict, "reference taken")
	assert.True(t, pkgerrors.IsCode(persistenceError(conflict), pkgerrors.CodeConflict))
	assert.True(t, pkgerrors.IsCode(persistenceError(context.DeadlineExceeded), pkgerrors.CodeDependency))
}

type stubGuardStore struct {
	keys map[string]bool
}

func (s *stubGuardStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *stubGuardStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.keys, k)
	}
	return nil
}

func (s *stubGuardStore) CheckoutInFlightKey(id string) string { return "inflight:" + id }

func TestRedisGuard(t *testing.T) {
	ctx := context.Background()
	guard := NewRedisGuard(&stubGuardStore{keys: map[string]bool{}}, time.Minute)

	ok, err := guard.Acquire(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = guard.Acquire(ctx, "s1")
	assert.False(t, ok)
	require.NoError(t, guard.Release(ctx, "s1"))
	ok, _ = guard.Acquire(ctx, "s1")
	assert.True(t, ok)
}
