package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"backend/internal/gateway"
	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc      PaymentService
	gw       *fakeGateway
	txRepo   *fakeTransactionRepo
	donRepo  *fakeDonationRepo
	pledges  *fakePledgeRepo
	events   *fakeEventRepo
	audit    *fakeAuditRepo
	txm      *fakeTxManager
	hub      *fakeHub
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		gw:      &fakeGateway{},
		txRepo:  newFakeTransactionRepo(),
		donRepo: newFakeDonationRepo(),
		pledges: newFakePledgeRepo(),
		events:  newFakeEventRepo(),
		audit:   &fakeAuditRepo{},
		txm:     &fakeTxManager{},
		hub:     &fakeHub{},
	}
	f.svc = NewPaymentService(f.gw, f.txRepo, f.donRepo, f.pledges, f.events, f.audit, f.txm, f.hub)
	return f
}

func TestInitiateRejectsBadInput(t *testing.T) {
	f := newPaymentFixture()
	donationID := uuid.New()

	cases := []struct {
		name string
		in   InitiatePaymentInput
	}{
		{"unknown category", InitiatePaymentInput{
			Category: "subscription", Amount: decimal.NewFromInt(10), Currency: "GHS",
		}},
		{"zero amount", InitiatePaymentInput{
			Category: model.CategoryDonation, Amount: decimal.Zero, Currency: "GHS", DonationID: &donationID,
		}},
		{"negative amount", InitiatePaymentInput{
			Category: model.CategoryDonation, Amount: decimal.NewFromInt(-5), Currency: "GHS", DonationID: &donationID,
		}},
		{"missing currency", InitiatePaymentInput{
			Category: model.CategoryDonation, Amount: decimal.NewFromInt(10), DonationID: &donationID,
		}},
		{"donation without donation id", InitiatePaymentInput{
			Category: model.CategoryDonation, Amount: decimal.NewFromInt(10), Currency: "GHS",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Initiate(context.Background(), tc.in)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}

	// rejected input never reaches the gateway or the database
	assert.Empty(t, f.gw.initMinor)
	assert.Zero(t, f.txRepo.count())
}

func TestInitiateGatewayFailureLeavesNoLocalState(t *testing.T) {
	f := newPaymentFixture()
	f.gw.initErr = apperr.Gateway(errors.New("connection refused"), "payment initialization call failed")
	donationID := uuid.New()

	_, err := f.svc.Initiate(context.Background(), InitiatePaymentInput{
		Category:         model.CategoryDonation,
		CategoryObjectID: donationID,
		DonationID:       &donationID,
		Amount:           decimal.NewFromInt(25),
		Currency:         "GHS",
		Email:            "donor@example.com",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindGateway))
	assert.Zero(t, f.txRepo.count())
	assert.Empty(t, f.donRepo.links)
	assert.Empty(t, f.audit.actions())
}

func TestInitiateDonationConvertsToMinorUnits(t *testing.T) {
	f := newPaymentFixture()
	f.gw.initResult = &gateway.InitializeResult{
		PaymentURL: "https://checkout.example.com/abc",
		Reference:  "ref-001",
	}
	userID := uuid.New()
	donationID := uuid.New()
	pledgeID := uuid.New()

	amount, _ := decimal.NewFromString("50.00")
	res, err := f.svc.Initiate(context.Background(), InitiatePaymentInput{
		Category:         model.CategoryDonation,
		CategoryObjectID: donationID,
		Amount:           amount,
		Currency:         "GHS",
		Email:            "donor@example.com",
		FullName:         "Ama Mensah",
		UserID:           &userID,
		DonationID:       &donationID,
		PledgeID:         &pledgeID,
	})

	require.NoError(t, err)
	assert.Equal(t, "ref-001", res.Reference)
	assert.Equal(t, "https://checkout.example.com/abc", res.PaymentURL)

	// GHS 50.00 goes over the wire as 5000 pesewas
	require.Len(t, f.gw.initMinor, 1)
	assert.Equal(t, int64(5000), f.gw.initMinor[0])

	tx, err := f.txRepo.FindByReference(context.Background(), "ref-001")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, tx.Status)
	assert.False(t, tx.IsVerified)
	assert.True(t, tx.Amount.Equal(amount), "stored amount stays in major units")

	require.Len(t, f.donRepo.links, 1)
	link := f.donRepo.links[0]
	assert.Equal(t, tx.ID, link.PaymentTransactionID)
	assert.Equal(t, donationID, link.DonationID)
	assert.True(t, link.IsPledge)
	require.NotNil(t, link.PledgeID)
	assert.Equal(t, pledgeID, *link.PledgeID)

	assert.Equal(t, []string{model.ActionInitiatePayment}, f.audit.actions())
}

func TestInitiateEventCreatesNoDonationLink(t *testing.T) {
	f := newPaymentFixture()
	f.gw.initResult = &gateway.InitializeResult{PaymentURL: "https://checkout.example.com/e", Reference: "ref-evt"}

	_, err := f.svc.Initiate(context.Background(), InitiatePaymentInput{
		Category:         model.CategoryEvent,
		CategoryObjectID: uuid.New(),
		Amount:           decimal.NewFromInt(120),
		Currency:         "GHS",
		Email:            "attendee@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.txRepo.count())
	assert.Empty(t, f.donRepo.links)
}

func TestFinalizeUnknownReference(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.Finalize(context.Background(), "no-such-ref")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.svc.Finalize(context.Background(), "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestFinalizeFailedVerificationStaysPending(t *testing.T) {
	f := newPaymentFixture()
	seedPendingTx(t, f, "ref-fail", model.CategoryDonation, uuid.New(), nil)
	f.gw.verifyResult = &gateway.VerifyResult{Status: "failed", AmountMinor: 5000, Currency: "GHS"}

	_, err := f.svc.Finalize(context.Background(), "ref-fail")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindVerification))

	tx, err := f.txRepo.FindByReference(context.Background(), "ref-fail")
	require.NoError(t, err)
	assert.False(t, tx.IsVerified)
	assert.Equal(t, model.PaymentStatusPending, tx.Status)
	assert.Empty(t, f.hub.messages)

	// a later retry can still succeed
	f.gw.verifyResult = successVerify(5000, "GHS")
	res, err := f.svc.Finalize(context.Background(), "ref-fail")
	require.NoError(t, err)
	assert.True(t, res.IsVerified)
}

func TestFinalizeDonationRedeemsPledge(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	donation := model.Donation{Title: "Building Fund"}
	require.NoError(t, f.donRepo.Create(context.Background(), &donation))

	pledge := model.Pledge{
		DonationID: donation.ID,
		UserID:     userID,
		Amount:     decimal.NewFromInt(50),
		Currency:   "GHS",
		RedeemDate: time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, f.pledges.Create(context.Background(), &pledge))

	seedPendingTx(t, f, "ref-don", model.CategoryDonation, donation.ID, &userID)
	f.gw.verifyResult = successVerify(5000, "GHS")

	res, err := f.svc.Finalize(context.Background(), "ref-don")
	require.NoError(t, err)

	// 5000 pesewas comes back as GHS 50.00
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(50)), "got %s", res.Amount)
	assert.Equal(t, model.PaymentStatusSuccess, res.Status)
	assert.True(t, res.IsVerified)
	assert.Equal(t, "Building Fund", res.CategoryTitle)
	require.NotNil(t, res.PaymentCompletedAt)

	stored, err := f.pledges.FindByID(context.Background(), pledge.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRedeemed)
	require.NotNil(t, stored.RedeemedAt)

	assert.Contains(t, f.audit.actions(), model.ActionFinalizePayment)
	assert.Len(t, f.hub.messages, 1)
}

func TestFinalizeDonationWithoutPledgeSucceeds(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	donation := model.Donation{Title: "Missions"}
	require.NoError(t, f.donRepo.Create(context.Background(), &donation))

	seedPendingTx(t, f, "ref-direct", model.CategoryDonation, donation.ID, &userID)
	f.gw.verifyResult = successVerify(2000, "GHS")

	// a one-off donation has no pledge to redeem and that is fine
	res, err := f.svc.Finalize(context.Background(), "ref-direct")
	require.NoError(t, err)
	assert.True(t, res.IsVerified)
	assert.Zero(t, f.pledges.updates)
}

func TestFinalizeEventMarksRegistrationPaid(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	event := model.Event{Title: "Annual Convention"}
	require.NoError(t, f.events.Create(context.Background(), &event))

	reg := model.EventRegistration{
		EventID:  event.ID,
		UserID:   userID,
		FullName: "Kofi Asante",
		Amount:   decimal.NewFromInt(120),
		Currency: "GHS",
	}
	require.NoError(t, f.events.CreateRegistration(context.Background(), &reg))

	seedPendingTx(t, f, "ref-evt", model.CategoryEvent, reg.ID, &userID)
	f.gw.verifyResult = successVerify(12000, "GHS")

	res, err := f.svc.Finalize(context.Background(), "ref-evt")
	require.NoError(t, err)
	assert.Equal(t, "Annual Convention", res.CategoryTitle)

	stored, err := f.events.FindRegistrationByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
}

func TestFinalizeReplayIsNoOp(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	donation := model.Donation{Title: "Tithe"}
	require.NoError(t, f.donRepo.Create(context.Background(), &donation))
	seedPendingTx(t, f, "ref-replay", model.CategoryDonation, donation.ID, &userID)
	f.gw.verifyResult = successVerify(5000, "GHS")

	first, err := f.svc.Finalize(context.Background(), "ref-replay")
	require.NoError(t, err)
	require.True(t, first.IsVerified)

	second, err := f.svc.Finalize(context.Background(), "ref-replay")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsVerified)

	// the replay short-circuits before the gateway and writes nothing
	assert.Equal(t, 1, f.gw.verifyCalls)
	assert.Equal(t, 1, f.txRepo.updates)
	assert.Len(t, f.hub.messages, 1)
}

func TestFinalizeConcurrentCallsApplyOnce(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	donation := model.Donation{Title: "Harvest"}
	require.NoError(t, f.donRepo.Create(context.Background(), &donation))

	pledge := model.Pledge{
		DonationID: donation.ID,
		UserID:     userID,
		Amount:     decimal.NewFromInt(50),
		Currency:   "GHS",
		RedeemDate: time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, f.pledges.Create(context.Background(), &pledge))

	seedPendingTx(t, f, "ref-race", model.CategoryDonation, donation.ID, &userID)
	f.gw.verifyResult = successVerify(5000, "GHS")

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Finalize(context.Background(), "ref-race")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}

	// exactly one caller applied the verification and its side effects
	assert.Equal(t, 1, f.txRepo.updates)
	assert.Equal(t, 1, f.pledges.updates)

	stored, err := f.pledges.FindByID(context.Background(), pledge.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRedeemed)
}

func TestListVerifiedRejectsUnknownCategory(t *testing.T) {
	f := newPaymentFixture()
	_, _, err := f.svc.ListVerified(context.Background(), uuid.New(), "subscription", 1, 20)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

// --- helpers ---

func seedPendingTx(t *testing.T, f *paymentFixture, reference string, category model.PaymentCategory, objectID uuid.UUID, userID *uuid.UUID) {
	t.Helper()
	tx := model.PaymentTransaction{
		FullName:         "Test Donor",
		UserID:           userID,
		Category:         category,
		CategoryObjectID: objectID,
		Amount:           decimal.NewFromInt(50),
		Currency:         "GHS",
		Reference:        reference,
		Status:           model.PaymentStatusPending,
		PaymentStartedAt: time.Now(),
	}
	require.NoError(t, f.txRepo.Create(context.Background(), &tx))
}

func successVerify(amountMinor int64, currency string) *gateway.VerifyResult {
	return &gateway.VerifyResult{
		Status:          model.PaymentStatusSuccess,
		AmountMinor:     amountMinor,
		Currency:        currency,
		PaidAt:          time.Now(),
		Channel:         "mobile_money",
		GatewayResponse: "Approved",
		CustomerEmail:   "donor@example.com",
		RawPayload:      []byte(`{"status":true}`),
	}
}
