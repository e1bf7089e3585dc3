package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/gateway"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// minorUnitFactor converts between major currency units (stored) and the minor
// units the gateway speaks. The conversion happens only at the gateway boundary.
var minorUnitFactor = decimal.NewFromInt(100)

// --- DTOs ---

type InitiatePaymentInput struct {
	Category         model.PaymentCategory
	CategoryObjectID uuid.UUID
	Amount           decimal.Decimal
	Currency         string
	Email            string
	FullName         string
	UserID           *uuid.UUID

	// Donation-only link fields. PledgeID is set when the payment redeems a pledge.
	DonationID *uuid.UUID
	PledgeID   *uuid.UUID
}

type InitiatePaymentResult struct {
	PaymentURL string `json:"payment_url"`
	Reference  string `json:"reference"`
}

type TransactionResponse struct {
	ID                 string                 `json:"id"`
	FullName           string                 `json:"full_name"`
	Category           model.PaymentCategory  `json:"category"`
	CategoryObjectID   string                 `json:"category_object_id"`
	CategoryTitle      string                 `json:"category_title,omitempty"`
	PaymentMethod      string                 `json:"payment_method"`
	Amount             decimal.Decimal        `json:"amount"`
	Currency           string                 `json:"currency"`
	Reference          string                 `json:"reference"`
	Status             string                 `json:"status"`
	IsVerified         bool                   `json:"is_verified"`
	PaymentStartedAt   string                 `json:"payment_started_at"`
	PaymentCompletedAt *string                `json:"payment_completed_at"`
}

// --- Interface ---

// PaymentService is the payment transaction reconciler: it initiates external
// payments and finalizes them exactly once per reference.
type PaymentService interface {
	// Initiate creates a payment on the gateway, then persists one PENDING
	// PaymentTransaction (plus the donation link row when applicable) in a
	// single database transaction. A gateway failure performs no local writes.
	Initiate(ctx context.Context, in InitiatePaymentInput) (*InitiatePaymentResult, error)
	// Finalize verifies a payment by reference and applies the confirmed state
	// and its side effects atomically. Safe to call multiple times: a replay
	// for an already verified reference returns the existing transaction.
	Finalize(ctx context.Context, reference string) (*TransactionResponse, error)
	ListVerified(ctx context.Context, userID uuid.UUID, category model.PaymentCategory, page, limit int) ([]TransactionResponse, int64, error)
}

// broadcaster is the optional websocket hub surface used to push payment
// events to the admin dashboard feed.
type broadcaster interface {
	Broadcast(message []byte)
}

type paymentService struct {
	gw           gateway.Client
	txRepo       repository.TransactionRepository
	donationRepo repository.DonationRepository
	pledgeRepo   repository.PledgeRepository
	eventRepo    repository.EventRepository
	auditRepo    repository.AuditRepository
	txm          repository.TransactionManager
	hub          broadcaster
}

func NewPaymentService(
	gw gateway.Client,
	txRepo repository.TransactionRepository,
	donationRepo repository.DonationRepository,
	pledgeRepo repository.PledgeRepository,
	eventRepo repository.EventRepository,
	auditRepo repository.AuditRepository,
	txm repository.TransactionManager,
	hub broadcaster,
) PaymentService {
	return &paymentService{
		gw:           gw,
		txRepo:       txRepo,
		donationRepo: donationRepo,
		pledgeRepo:   pledgeRepo,
		eventRepo:    eventRepo,
		auditRepo:    auditRepo,
		txm:          txm,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *paymentService) Initiate(ctx context.Context, in InitiatePaymentInput) (*InitiatePaymentResult, error) {
	if !in.Category.Valid() {
		return nil, apperr.Validation("invalid payment category '%s'", in.Category)
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than zero")
	}
	if in.Currency == "" {
		return nil, apperr.Validation("currency is required")
	}
	if in.Category == model.CategoryDonation && in.DonationID == nil {
		return nil, apperr.Validation("donation id is required for donation payments")
	}

	// Gateway first: a declined or unreachable gateway must leave no orphan
	// PENDING rows behind.
	amountMinor := in.Amount.Mul(minorUnitFactor).IntPart()
	init, err := s.gw.Initialize(ctx, in.Email, amountMinor, in.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := model.PaymentTransaction{
		FullName:         in.FullName,
		UserID:           in.UserID,
		Category:         in.Category,
		CategoryObjectID: in.CategoryObjectID,
		Amount:           in.Amount,
		Currency:         in.Currency,
		Reference:        init.Reference,
		Status:           model.PaymentStatusPending,
		CustomerEmail:    in.Email,
		PaymentStartedAt: now,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.txRepo.Create(txCtx, &tx); err != nil {
			return fmt.Errorf("failed to create payment transaction: %w", err)
		}

		if in.Category == model.CategoryDonation {
			link := model.DonationPayment{
				PaymentTransactionID: tx.ID,
				DonationID:           *in.DonationID,
				IsPledge:             in.PledgeID != nil,
				PledgeID:             in.PledgeID,
				DonatedAt:            now,
			}
			if in.UserID != nil {
				link.UserID = *in.UserID
			}
			if err := s.donationRepo.CreateDonationPayment(txCtx, &link); err != nil {
				return fmt.Errorf("failed to create donation payment link: %w", err)
			}
		}

		return s.audit(txCtx, in.UserID, model.ActionInitiatePayment, init.Reference, in.FullName, map[string]interface{}{
			"category": in.Category,
			"amount":   in.Amount,
			"currency": in.Currency,
		})
	})
	if err != nil {
		return nil, err
	}

	return &InitiatePaymentResult{
		PaymentURL: init.PaymentURL,
		Reference:  init.Reference,
	}, nil
}

func (s *paymentService) Finalize(ctx context.Context, reference string) (*TransactionResponse, error) {
	if reference == "" {
		return nil, apperr.Validation("reference is required")
	}

	existing, err := s.txRepo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment transaction with reference %s not found", reference)
		}
		return nil, fmt.Errorf("failed to load payment transaction: %w", err)
	}

	// Callback replay for an already verified reference is a no-op success.
	if existing.IsVerified {
		resp := s.toTransactionResponse(ctx, existing)
		return &resp, nil
	}

	result, err := s.gw.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, apperr.Verification("payment with reference %s is not successful (status %s)", reference, result.Status)
	}

	var finalized *model.PaymentTransaction
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read under a row lock; a concurrent finalize for the same
		// reference blocks here and then observes is_verified.
		tx, err := s.txRepo.FindByReferenceForUpdate(txCtx, reference)
		if err != nil {
			return fmt.Errorf("failed to lock payment transaction: %w", err)
		}
		if tx.IsVerified {
			finalized = tx
			return nil
		}

		completedAt := result.PaidAt
		if completedAt.IsZero() {
			completedAt = time.Now()
		}

		tx.Status = result.Status
		tx.Amount = decimal.NewFromInt(result.AmountMinor).Div(minorUnitFactor)
		tx.Currency = result.Currency
		tx.ReceiptNumber = result.ReceiptNumber
		tx.GatewayResponse = result.GatewayResponse
		tx.AuthorizationCode = result.AuthorizationCode
		tx.Fees = decimal.NewFromInt(result.FeesMinor).Div(minorUnitFactor)
		tx.BankName = result.BankName
		tx.CustomerEmail = result.CustomerEmail
		tx.CustomerPhone = result.CustomerPhone
		tx.PaymentMethod = result.Channel
		tx.TransactionObject = string(result.RawPayload)
		tx.PaymentCompletedAt = &completedAt
		tx.IsVerified = true

		if err := s.txRepo.Update(txCtx, tx); err != nil {
			return fmt.Errorf("failed to update payment transaction: %w", err)
		}

		// Side effects live in the same transaction as the verification write
		// so a verified payment can never be observed without them.
		switch tx.Category {
		case model.CategoryDonation:
			if err := s.redeemPledge(txCtx, tx); err != nil {
				return err
			}
		case model.CategoryEvent:
			if err := s.markRegistrationPaid(txCtx, tx); err != nil {
				return err
			}
		}

		if err := s.audit(txCtx, tx.UserID, model.ActionFinalizePayment, reference, tx.FullName, map[string]interface{}{
			"category": tx.Category,
			"amount":   tx.Amount,
			"currency": tx.Currency,
		}); err != nil {
			return err
		}

		finalized = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastVerified(finalized)

	resp := s.toTransactionResponse(ctx, finalized)
	return &resp, nil
}

// redeemPledge marks the payer's active pledge for the donation as redeemed.
// A donation payment without a pledge is a direct one-off donation, not an error.
func (s *paymentService) redeemPledge(ctx context.Context, tx *model.PaymentTransaction) error {
	if tx.UserID == nil {
		return nil
	}

	pledge, err := s.pledgeRepo.FindActive(ctx, tx.CategoryObjectID, *tx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up pledge: %w", err)
	}

	now := time.Now()
	pledge.IsRedeemed = true
	pledge.RedeemedAt = &now
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return fmt.Errorf("failed to redeem pledge: %w", err)
	}
	return nil
}

func (s *paymentService) markRegistrationPaid(ctx context.Context, tx *model.PaymentTransaction) error {
	reg, err := s.eventRepo.FindRegistrationByID(ctx, tx.CategoryObjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up event registration: %w", err)
	}
	if reg.IsPaid {
		return nil
	}

	reg.IsPaid = true
	if err := s.eventRepo.UpdateRegistration(ctx, reg); err != nil {
		return fmt.Errorf("failed to mark registration paid: %w", err)
	}
	return nil
}

func (s *paymentService) ListVerified(ctx context.Context, userID uuid.UUID, category model.PaymentCategory, page, limit int) ([]TransactionResponse, int64, error) {
	if category != "" && !category.Valid() {
		return nil, 0, apperr.Validation("invalid payment category '%s'", category)
	}

	txs, total, err := s.txRepo.ListVerified(ctx, userID, category, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	res := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		res = append(res, s.toTransactionResponse(ctx, &txs[i]))
	}
	return res, total, nil
}

func (s *paymentService) broadcastVerified(tx *model.PaymentTransaction) {
	if s.hub == nil || tx == nil {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{
		"type":      "payment_verified",
		"reference": tx.Reference,
		"category":  tx.Category,
		"amount":    tx.Amount,
		"currency":  tx.Currency,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast(msg)
}

func (s *paymentService) audit(ctx context.Context, actorID *uuid.UUID, action, entityID, entityName string, details interface{}) error {
	payload, _ := json.Marshal(details)
	entry := model.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// toTransactionResponse shapes a transaction for display, resolving the
// category object to a human-readable title (event title or donation title).
func (s *paymentService) toTransactionResponse(ctx context.Context, tx *model.PaymentTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:               tx.ID.String(),
		FullName:         tx.FullName,
		Category:         tx.Category,
		CategoryObjectID: tx.CategoryObjectID.String(),
		PaymentMethod:    tx.PaymentMethod,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		Reference:        tx.Reference,
		Status:           tx.Status,
		IsVerified:       tx.IsVerified,
		PaymentStartedAt: tx.PaymentStartedAt.Format(time.RFC3339),
	}
	if tx.PaymentCompletedAt != nil {
		completed := tx.PaymentCompletedAt.Format(time.RFC3339)
		resp.PaymentCompletedAt = &completed
	}

	switch tx.Category {
	case model.CategoryEvent:
		if reg, err := s.eventRepo.FindRegistrationByID(ctx, tx.CategoryObjectID); err == nil && reg.Event != nil {
			resp.CategoryTitle = reg.Event.Title
		}
	case model.CategoryDonation:
		if donation, err := s.donationRepo.FindByID(ctx, tx.CategoryObjectID); err == nil {
			resp.CategoryTitle = donation.Title
		}
	}
	return resp
}
