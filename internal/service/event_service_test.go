package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventFixture struct {
	svc      EventService
	events   *fakeEventRepo
	audit    *fakeAuditRepo
	payments *stubPaymentService
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		events:   newFakeEventRepo(),
		audit:    &fakeAuditRepo{},
		payments: &stubPaymentService{result: &InitiatePaymentResult{PaymentURL: "https://pay", Reference: "ref-evt"}},
	}
	f.svc = NewEventService(f.events, f.audit, f.payments, &fakeTxManager{})
	return f
}

func (f *eventFixture) seedEvent(t *testing.T) *EventResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), CreateEventRequest{
		Title:         "Annual Convention",
		Description:   "Yearly gathering",
		Location:      "Accra",
		StartDatetime: time.Now().AddDate(0, 1, 0),
		EndDatetime:   time.Now().AddDate(0, 1, 3),
		Amounts: []EventAmountInput{
			{Amount: decimal.NewFromInt(120), Currency: "GHS"},
			{Amount: decimal.NewFromInt(10), Currency: "USD"},
		},
	})
	require.NoError(t, err)
	return resp
}

func registration(eventID string) RegisterForEventRequest {
	return RegisterForEventRequest{
		EventID:     eventID,
		FullName:    "Kofi Asante",
		Email:       "kofi@example.com",
		PhoneNumber: "+233200000003",
		Gender:      model.GenderMale,
		Currency:    "GHS",
	}
}

func TestCreateEventValidation(t *testing.T) {
	f := newEventFixture()
	start := time.Now().AddDate(0, 1, 0)

	_, err := f.svc.Create(context.Background(), CreateEventRequest{
		Title: "Bad", Description: "d", Location: "l",
		StartDatetime: start, EndDatetime: start.Add(-time.Hour),
		Amounts: []EventAmountInput{{Amount: decimal.NewFromInt(10), Currency: "GHS"}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "end before start")

	_, err = f.svc.Create(context.Background(), CreateEventRequest{
		Title: "Bad", Description: "d", Location: "l",
		StartDatetime: start, EndDatetime: start.Add(time.Hour),
		Amounts: []EventAmountInput{{Amount: decimal.Zero, Currency: "GHS"}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "zero fee")
}

func TestRegisterPicksFeeByCurrency(t *testing.T) {
	f := newEventFixture()
	event := f.seedEvent(t)
	userID := uuid.New()

	req := registration(event.ID)
	req.Currency = "USD"
	resp, err := f.svc.Register(context.Background(), userID, req)
	require.NoError(t, err)

	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "USD", resp.Currency)
	assert.False(t, resp.IsPaid)
	assert.Equal(t, "https://pay", resp.PaymentURL)
	assert.Equal(t, "ref-evt", resp.Reference)

	// the reconciler is keyed to the registration row, not the event
	in := f.payments.lastInput
	assert.Equal(t, model.CategoryEvent, in.Category)
	assert.Equal(t, resp.ID, in.CategoryObjectID.String())
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(10)))

	assert.Contains(t, f.audit.actions(), model.ActionRegisterForEvent)
}

func TestRegisterRejectsUnknownCurrency(t *testing.T) {
	f := newEventFixture()
	event := f.seedEvent(t)

	req := registration(event.ID)
	req.Currency = "EUR"
	_, err := f.svc.Register(context.Background(), uuid.New(), req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRegisterRejectsBadGender(t *testing.T) {
	f := newEventFixture()
	event := f.seedEvent(t)

	req := registration(event.ID)
	req.Gender = "x"
	_, err := f.svc.Register(context.Background(), uuid.New(), req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRegisterRejectsEndedEvent(t *testing.T) {
	f := newEventFixture()
	past := model.Event{
		Title:         "Past Event",
		StartDatetime: time.Now().AddDate(0, 0, -10),
		EndDatetime:   time.Now().AddDate(0, 0, -5),
		Amounts:       []model.EventAmount{{Amount: decimal.NewFromInt(10), Currency: "GHS"}},
	}
	require.NoError(t, f.events.Create(context.Background(), &past))

	_, err := f.svc.Register(context.Background(), uuid.New(), registration(past.ID.String()))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUpdateEventReplacesAmounts(t *testing.T) {
	f := newEventFixture()
	event := f.seedEvent(t)

	amounts := []EventAmountInput{{Amount: decimal.NewFromInt(150), Currency: "GHS"}}
	updated, err := f.svc.Update(context.Background(), event.ID, UpdateEventRequest{Amounts: &amounts})
	require.NoError(t, err)

	require.Len(t, updated.Amounts, 1)
	assert.True(t, updated.Amounts[0].Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "GHS", updated.Amounts[0].Currency)
}

func TestListMyRegistrations(t *testing.T) {
	f := newEventFixture()
	event := f.seedEvent(t)
	userID := uuid.New()

	_, err := f.svc.Register(context.Background(), userID, registration(event.ID))
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), uuid.New(), registration(event.ID))
	require.NoError(t, err)

	regs, total, err := f.svc.ListMyRegistrations(context.Background(), userID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, regs, 1)
	assert.Equal(t, "Annual Convention", regs[0].EventTitle)
}
