package orders

import (
	"context"
	"testing"
	"time"

	pkgdb "github.com/nexusagency/nexus-backend/pkg/db"
	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedTransition struct {
	status string
	source string
}

type stubRecorder struct {
	transitions []recordedTransition
}

func (s *stubRecorder) IncPaymentTransition(status, source string) {
	s.transitions = append(s.transitions, recordedTransition{status: status, source: source})
}

func newTestService(t *testing.T) (*Service, Repository, *stubRecorder) {
	t.Helper()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	recorder := &stubRecorder{}
	svc, err := NewService(repo, pkgdb.FromGorm(db), nil, recorder, nil)
	require.NoError(t, err)
	return svc, repo, recorder
}

func TestServiceSetPaymentStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo, recorder := newTestService(t)

	id, err := svc.CreateOrder(ctx, sampleSubmission("WS-2026-SVC1", "camille@example.fr", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, svc.SetPaymentStatus(WithUpdateSource(ctx, "update_status"), id, "paid", ""))
	order, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, []recordedTransition{{status: "paid", source: "update_status"}}, recorder.transitions)
}

func TestServiceSetPaymentStatusRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, repo, recorder := newTestService(t)

	id, err := svc.CreateOrder(ctx, sampleSubmission("WS-2026-SVC2", "camille@example.fr", time.Now().UTC()))
	require.NoError(t, err)

	for _, status := range []string{"bogus", "PAID", ""} {
		err = svc.SetPaymentStatus(ctx, id, status, "")
		require.Error(t, err)
		assert.Equal(t, ReasonInvalidStatus, pkgerrors.ReasonOf(err), status)
	}

	err = svc.SetPaymentStatus(ctx, 0, "paid", "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	order, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Empty(t, recorder.transitions)
}

func TestServiceSetFulfillmentStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	id, err := svc.CreateOrder(ctx, sampleSubmission("WS-2026-SVC3", "camille@example.fr", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, svc.SetFulfillmentStatus(ctx, id, "in_progress"))
	order, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enums.FulfillmentStatusInProgress, order.FulfillmentStatus)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)

	err = svc.SetFulfillmentStatus(ctx, id, "shipped")
	assert.Equal(t, ReasonInvalidStatus, pkgerrors.ReasonOf(err))
}

func TestServiceListByEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.ListByEmail(ctx, "  ", pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.ListByEmail(ctx, "camille@example.fr", pagination.Params{Cursor: "not-a-cursor"})
	assert.Equal(t, ReasonInvalidCursor, pkgerrors.ReasonOf(err))

	id, err := svc.CreateOrder(ctx, sampleSubmission("WS-2026-DASH", "camille@example.fr", time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, svc.SetFulfillmentStatus(ctx, id, "confirmed"))

	page, err := svc.ListByEmail(ctx, "camille@example.fr", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.NextCursor)
	summaries := page.Orders
	require.Len(t, summaries, 1)
	assert.Equal(t, "Confirmée", summaries[0].Fulfillment.Label)
	assert.Equal(t, "#3b82f6", summaries[0].Fulfillment.Color)
	assert.Contains(t, summaries[0].Total, "107,98")
	require.Len(t, summaries[0].Lines, 1)

	found, err := svc.FindByReference(ctx, "ws-2026-dash")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
}

func TestServiceListForCustomerRequiresOwnReference(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.CreateOrder(ctx, sampleSubmission("WS-2026-CAM1", "camille@example.fr", base))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, sampleSubmission("WS-2026-CAM2", "camille@example.fr", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, sampleSubmission("WS-2026-EVE1", "eve@example.fr", base))
	require.NoError(t, err)

	_, err = svc.ListForCustomer(ctx, "camille@example.fr", "", pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// a known e-mail with somebody else's reference
	_, err = svc.ListForCustomer(ctx, "camille@example.fr", "WS-2026-EVE1", pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, ReasonOrderNotFound, pkgerrors.ReasonOf(err))

	_, err = svc.ListForCustomer(ctx, "eve@example.fr", "WS-2026-CAM1", pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.ListForCustomer(ctx, "camille@example.fr", "WS-2026-NONE", pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	page, err := svc.ListForCustomer(ctx, " Camille@Example.fr ", "ws-2026-cam1", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, "WS-2026-CAM2", page.Orders[0].Reference)
	assert.Equal(t, "WS-2026-CAM1", page.Orders[1].Reference)
}

func TestServiceCreateOrderRollsBackOnConflict(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateOrder(ctx, sampleSubmission("WS-2026-TX01", "camille@example.fr", time.Now().UTC()))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, sampleSubmission("WS-2026-TX01", "eve@example.fr", time.Now().UTC()))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	page, err := svc.ListByEmail(ctx, "eve@example.fr", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Orders)
}

func TestServiceListByEmailPages(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	for i, ref := range []string{"WS-2026-PG01", "WS-2026-PG02", "WS-2026-PG03"} {
		_, err := svc.CreateOrder(ctx, sampleSubmission(ref, "camille@example.fr", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	first, err := svc.ListByEmail(ctx, "camille@example.fr", pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	assert.Equal(t, "WS-2026-PG03", first.Orders[0].Reference)
	assert.Equal(t, "WS-2026-PG02", first.Orders[1].Reference)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ListByEmail(ctx, "camille@example.fr", pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, "WS-2026-PG01", second.Orders[0].Reference)
	assert.Empty(t, second.NextCursor)
}
