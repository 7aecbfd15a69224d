package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/nexusagency/nexus-backend/pkg/db/models"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDiscountFor(t *testing.T) {
	pct := Promotion{Kind: enums.PromotionKindPercentage, Value: decimal.NewFromInt(10)}
	fixed := Promotion{Kind: enums.PromotionKindFixedAmount, Value: decimal.NewFromInt(50)}

	cases := []struct {
		name     string
		promo    Promotion
		subtotal int64
		want     int64
	}{
		{"percent of 99.98", pct, 9998, 1000},
		{"percent rounds half up", pct, 5, 1},
		{"fixed under subtotal", fixed, 9998, 5000},
		{"fixed clamps to subtotal", fixed, 3000, 3000},
		{"empty subtotal", fixed, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.promo.DiscountFor(tc.subtotal))
		})
	}
}

func TestEligible(t *testing.T) {
	minimum := int64(50000)
	expires := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	promo := Promotion{MinimumSubtotalCents: &minimum, ExpiresAt: &expires}

	before := expires.Add(-time.Hour)
	assert.Equal(t, FailureBelowMinimumSubtotal, promo.Eligible(49999, before))
	assert.Equal(t, FailureNone, promo.Eligible(50000, before))
	assert.Equal(t, FailureCodeExpired, promo.Eligible(50000, expires))
}

func TestStaticRegistryIsCaseSensitive(t *testing.T) {
	registry := NewStaticRegistry(DefaultPromotions())

	_, ok := registry.GetPromotion("WELCOME10")
	assert.True(t, ok)
	_, ok = registry.GetPromotion("welcome10")
	assert.False(t, ok)
}

func TestRepositoryLoadRegistry(t *testing.T) {
	ctx := context.Background()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Promotion{}))

	repo := NewRepository(conn)
	require.NoError(t, repo.Seed(ctx, DefaultPromotions()))
	require.NoError(t, conn.Model(&models.Promotion{}).Where("code = ?", "FIXED50").Update("is_active", false).Error)

	registry, err := LoadRegistry(ctx, repo)
	require.NoError(t, err)

	_, ok := registry.GetPromotion("FIXED50")
	assert.False(t, ok)

	nexus, ok := registry.GetPromotion("NEXUS20")
	require.True(t, ok)
	require.NotNil(t, nexus.MinimumSubtotalCents)
	assert.Equal(t, int64(50000), *nexus.MinimumSubtotalCents)
	assert.True(t, nexus.Value.Equal(decimal.NewFromInt(20)))
}
