package cart

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/logger"
)

const sessionLockStripes = 64

// Service loads, mutates and saves session carts. Mutations on the same
// session are serialized within the process.
type Service struct {
	store   Store
	pricing Pricing
	logg    *logger.Logger
	locks   [sessionLockStripes]sync.Mutex
}

// NewService builds a cart service backed by the provided store.
func NewService(store Store, pricing Pricing, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if pricing.Catalog == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	if pricing.Promotions == nil {
		return nil, fmt.Errorf("promotion registry required")
	}
	return &Service{store: store, pricing: pricing, logg: logg}, nil
}

// NewCart returns an empty cart priced like the service's carts.
func (s *Service) NewCart() *Cart {
	return New(s.pricing)
}

// Get returns the session cart, empty when the session is unknown.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	state, _, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
	}
	c := New(s.pricing)
	if err := c.Restore(state); err != nil {
		return nil, err
	}
	return c, nil
}

// Mutate applies fn to the session cart and saves it when fn succeeds.
func (s *Service) Mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, c.Snapshot()); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCartSession(ctx, sessionID), "cart.save_failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
	}
	return c, nil
}

func (s *Service) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		return c.AddItem(productID, quantity)
	})
}

func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		return c.SetQuantity(productID, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// ApplyPromoCode records the code when eligible. A rejected code is not an
// error; the result carries the failure.
func (s *Service) ApplyPromoCode(ctx context.Context, sessionID, code string) (*Cart, PromoResult, error) {
	var result PromoResult
	c, err := s.Mutate(ctx, sessionID, func(c *Cart) error {
		result = c.ApplyPromoCode(code)
		return nil
	})
	return c, result, err
}

// Clear removes the session cart entirely.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
	}
	return nil
}

func (s *Service) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionLockStripes]
}
