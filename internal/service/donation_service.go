package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateDonationRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description" binding:"required"`
	CoverImageURL string `json:"cover_image_url"`
}

type UpdateDonationRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	CoverImageURL *string `json:"cover_image_url"`
}

type DonationResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CoverImageURL string `json:"cover_image_url"`
	CreatedAt     string `json:"created_at"`
}

type MakeDonationRequest struct {
	DonationID string          `json:"donation_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency" binding:"required"`
	// PledgeID links the payment to an existing pledge it redeems.
	PledgeID *string `json:"pledge_id"`
}

type CreatePledgeRequest struct {
	DonationID string          `json:"donation_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency" binding:"required"`
	RedeemDate string          `json:"redeem_date" binding:"required"` // YYYY-MM-DD
}

type PledgeResponse struct {
	ID         string          `json:"id"`
	DonationID string          `json:"donation_id"`
	Donation   string          `json:"donation,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	RedeemDate string          `json:"redeem_date"`
	IsRedeemed bool            `json:"is_redeemed"`
	RedeemedAt *string         `json:"redeemed_at"`
}

// --- Interface ---

type DonationService interface {
	Create(ctx context.Context, req CreateDonationRequest) (*DonationResponse, error)
	Update(ctx context.Context, id string, req UpdateDonationRequest) (*DonationResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*DonationResponse, error)
	List(ctx context.Context, page, limit int) ([]DonationResponse, int64, error)

	// MakeDonation starts a payment toward a donation cause, optionally
	// fulfilling one of the donor's pledges.
	MakeDonation(ctx context.Context, userID uuid.UUID, req MakeDonationRequest) (*InitiatePaymentResult, error)
	CreatePledge(ctx context.Context, userID uuid.UUID, req CreatePledgeRequest) (*PledgeResponse, error)
	ListPledges(ctx context.Context, userID uuid.UUID, page, limit int) ([]PledgeResponse, int64, error)
}

type donationService struct {
	donationRepo repository.DonationRepository
	pledgeRepo   repository.PledgeRepository
	userRepo     repository.UserRepository
	auditRepo    repository.AuditRepository
	payments     PaymentService
	txm          repository.TransactionManager
}

func NewDonationService(
	donationRepo repository.DonationRepository,
	pledgeRepo repository.PledgeRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	payments PaymentService,
	txm repository.TransactionManager,
) DonationService {
	return &donationService{
		donationRepo: donationRepo,
		pledgeRepo:   pledgeRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		payments:     payments,
		txm:          txm,
	}
}

// --- Implementation ---

func (s *donationService) Create(ctx context.Context, req CreateDonationRequest) (*DonationResponse, error) {
	donation := model.Donation{
		Title:         req.Title,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
	}
	if err := s.donationRepo.Create(ctx, &donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}
	resp := toDonationResponse(donation)
	return &resp, nil
}

func (s *donationService) Update(ctx context.Context, id string, req UpdateDonationRequest) (*DonationResponse, error) {
	donation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		donation.Title = *req.Title
	}
	if req.Description != nil {
		donation.Description = *req.Description
	}
	if req.CoverImageURL != nil {
		donation.CoverImageURL = *req.CoverImageURL
	}

	if err := s.donationRepo.Update(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}
	resp := toDonationResponse(*donation)
	return &resp, nil
}

func (s *donationService) Delete(ctx context.Context, id string) error {
	donation, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.donationRepo.Delete(ctx, donation.ID); err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}
	return nil
}

func (s *donationService) Get(ctx context.Context, id string) (*DonationResponse, error) {
	donation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDonationResponse(*donation)
	return &resp, nil
}

func (s *donationService) List(ctx context.Context, page, limit int) ([]DonationResponse, int64, error) {
	donations, total, err := s.donationRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch donations: %w", err)
	}
	res := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		res = append(res, toDonationResponse(d))
	}
	return res, total, nil
}

func (s *donationService) MakeDonation(ctx context.Context, userID uuid.UUID, req MakeDonationRequest) (*InitiatePaymentResult, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	donation, err := s.find(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}

	var pledgeID *uuid.UUID
	if req.PledgeID != nil && *req.PledgeID != "" {
		id, err := uuid.Parse(*req.PledgeID)
		if err != nil {
			return nil, apperr.Validation("invalid pledge id: %s", *req.PledgeID)
		}
		pledge, err := s.pledgeRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("pledge %s not found", *req.PledgeID)
			}
			return nil, fmt.Errorf("failed to load pledge: %w", err)
		}
		if pledge.UserID != user.ID {
			return nil, apperr.PermissionDenied("pledge belongs to another user")
		}
		if pledge.IsRedeemed {
			return nil, apperr.Conflict("pledge has already been redeemed")
		}
		pledgeID = &pledge.ID
	}

	return s.payments.Initiate(ctx, InitiatePaymentInput{
		Category:         model.CategoryDonation,
		CategoryObjectID: donation.ID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Email:            user.Email,
		FullName:         user.FullName(),
		UserID:           &userID,
		DonationID:       &donation.ID,
		PledgeID:         pledgeID,
	})
}

func (s *donationService) CreatePledge(ctx context.Context, userID uuid.UUID, req CreatePledgeRequest) (*PledgeResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than zero")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	donation, err := s.find(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}

	redeemDate, err := time.Parse("2006-01-02", req.RedeemDate)
	if err != nil {
		return nil, apperr.Validation("redeem_date must be in YYYY-MM-DD format")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if redeemDate.Before(today) {
		return nil, apperr.Validation("redeem_date cannot be in the past")
	}

	// One open pledge per donor per cause.
	if _, err := s.pledgeRepo.FindActive(ctx, donation.ID, user.ID); err == nil {
		return nil, apperr.Conflict("you already have an unredeemed pledge for this donation")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing pledges: %w", err)
	}

	pledge := model.Pledge{
		DonationID: donation.ID,
		UserID:     user.ID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		RedeemDate: redeemDate,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.pledgeRepo.Create(txCtx, &pledge); err != nil {
			return fmt.Errorf("failed to create pledge: %w", err)
		}
		entry := model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreatePledge,
			EntityID:   pledge.ID.String(),
			EntityName: donation.Title,
		}
		if err := s.auditRepo.Log(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pledge.Donation = donation
	resp := toPledgeResponse(pledge)
	return &resp, nil
}

func (s *donationService) ListPledges(ctx context.Context, userID uuid.UUID, page, limit int) ([]PledgeResponse, int64, error) {
	pledges, total, err := s.pledgeRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pledges: %w", err)
	}
	res := make([]PledgeResponse, 0, len(pledges))
	for _, p := range pledges {
		res = append(res, toPledgeResponse(p))
	}
	return res, total, nil
}

// --- Helpers ---

func (s *donationService) loadUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *donationService) find(ctx context.Context, id string) (*model.Donation, error) {
	donationID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid donation id: %s", id)
	}
	donation, err := s.donationRepo.FindByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("donation %s not found", id)
		}
		return nil, fmt.Errorf("failed to load donation: %w", err)
	}
	return donation, nil
}

func toDonationResponse(d model.Donation) DonationResponse {
	return DonationResponse{
		ID:            d.ID.String(),
		Title:         d.Title,
		Description:   d.Description,
		CoverImageURL: d.CoverImageURL,
		CreatedAt:     d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toPledgeResponse(p model.Pledge) PledgeResponse {
	resp := PledgeResponse{
		ID:         p.ID.String(),
		DonationID: p.DonationID.String(),
		Amount:     p.Amount,
		Currency:   p.Currency,
		RedeemDate: p.RedeemDate.Format("2006-01-02"),
		IsRedeemed: p.IsRedeemed,
	}
	if p.Donation != nil {
		resp.Donation = p.Donation.Title
	}
	if p.RedeemedAt != nil {
		redeemed := p.RedeemedAt.Format("2006-01-02 15:04:05")
		resp.RedeemedAt = &redeemed
	}
	return resp
}
