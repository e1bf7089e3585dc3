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

type EventAmountInput struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required"`
}

type CreateEventRequest struct {
	Title         string             `json:"title" binding:"required"`
	Description   string             `json:"description" binding:"required"`
	Location      string             `json:"location" binding:"required"`
	StartDatetime time.Time          `json:"start_datetime" binding:"required"`
	EndDatetime   time.Time          `json:"end_datetime" binding:"required"`
	CoverImageURL string             `json:"cover_image_url"`
	Amounts       []EventAmountInput `json:"amounts" binding:"required,min=1"`
}

type UpdateEventRequest struct {
	Title         *string             `json:"title"`
	Description   *string             `json:"description"`
	Location      *string             `json:"location"`
	StartDatetime *time.Time          `json:"start_datetime"`
	EndDatetime   *time.Time          `json:"end_datetime"`
	CoverImageURL *string             `json:"cover_image_url"`
	Amounts       *[]EventAmountInput `json:"amounts"`
}

type EventAmountResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type EventResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Location      string                `json:"location"`
	StartDatetime string                `json:"start_datetime"`
	EndDatetime   string                `json:"end_datetime"`
	CoverImageURL string                `json:"cover_image_url"`
	Amounts       []EventAmountResponse `json:"amounts"`
}

type RegisterForEventRequest struct {
	EventID        string  `json:"event_id" binding:"required"`
	FullName       string  `json:"full_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	PhoneNumber    string  `json:"phone_number" binding:"required"`
	Gender         string  `json:"gender" binding:"required"`
	IsChurchMember bool    `json:"is_church_member"`
	ChurchPosition string  `json:"church_position"`
	Nation         string  `json:"nation"`
	Region         string  `json:"region"`
	CityTown       string  `json:"city_town"`
	Currency       string  `json:"currency" binding:"required"`
	BranchID       *string `json:"branch_id"`
}

type RegistrationResponse struct {
	ID         string          `json:"id"`
	EventID    string          `json:"event_id"`
	EventTitle string          `json:"event_title,omitempty"`
	FullName   string          `json:"full_name"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	IsPaid     bool            `json:"is_paid"`
	PaymentURL string          `json:"payment_url,omitempty"`
	Reference  string          `json:"reference,omitempty"`
}

// --- Interface ---

type EventService interface {
	Create(ctx context.Context, req CreateEventRequest) (*EventResponse, error)
	Update(ctx context.Context, id string, req UpdateEventRequest) (*EventResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*EventResponse, error)
	List(ctx context.Context, page, limit int) ([]EventResponse, int64, error)

	// Register creates an unpaid registration and starts the payment for the
	// event's fee in the requested currency. IsPaid flips once the payment
	// transaction is verified.
	Register(ctx context.Context, userID uuid.UUID, req RegisterForEventRequest) (*RegistrationResponse, error)
	ListMyRegistrations(ctx context.Context, userID uuid.UUID, page, limit int) ([]RegistrationResponse, int64, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	auditRepo repository.AuditRepository
	payments  PaymentService
	txm       repository.TransactionManager
}

func NewEventService(
	eventRepo repository.EventRepository,
	auditRepo repository.AuditRepository,
	payments PaymentService,
	txm repository.TransactionManager,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		auditRepo: auditRepo,
		payments:  payments,
		txm:       txm,
	}
}

// --- Implementation ---

func (s *eventService) Create(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	if !req.EndDatetime.After(req.StartDatetime) {
		return nil, apperr.Validation("end_datetime must be after start_datetime")
	}
	for _, a := range req.Amounts {
		if !a.Amount.IsPositive() {
			return nil, apperr.Validation("event amounts must be greater than zero")
		}
	}

	event := model.Event{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		CoverImageURL: req.CoverImageURL,
	}
	for _, a := range req.Amounts {
		event.Amounts = append(event.Amounts, model.EventAmount{
			Amount:   a.Amount,
			Currency: a.Currency,
		})
	}

	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) Update(ctx context.Context, id string, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartDatetime != nil {
		event.StartDatetime = *req.StartDatetime
	}
	if req.EndDatetime != nil {
		event.EndDatetime = *req.EndDatetime
	}
	if !event.EndDatetime.After(event.StartDatetime) {
		return nil, apperr.Validation("end_datetime must be after start_datetime")
	}
	if req.CoverImageURL != nil {
		event.CoverImageURL = *req.CoverImageURL
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.eventRepo.Update(txCtx, event); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		if req.Amounts != nil {
			amounts := make([]model.EventAmount, 0, len(*req.Amounts))
			for _, a := range *req.Amounts {
				if !a.Amount.IsPositive() {
					return apperr.Validation("event amounts must be greater than zero")
				}
				amounts = append(amounts, model.EventAmount{Amount: a.Amount, Currency: a.Currency})
			}
			if err := s.eventRepo.ReplaceAmounts(txCtx, event.ID, amounts); err != nil {
				return fmt.Errorf("failed to replace event amounts: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	event, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, id string) (*EventResponse, error) {
	event, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(*event)
	return &resp, nil
}

func (s *eventService) List(ctx context.Context, page, limit int) ([]EventResponse, int64, error) {
	events, total, err := s.eventRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}
	res := make([]EventResponse, 0, len(events))
	for _, e := range events {
		res = append(res, toEventResponse(e))
	}
	return res, total, nil
}

func (s *eventService) Register(ctx context.Context, userID uuid.UUID, req RegisterForEventRequest) (*RegistrationResponse, error) {
	if req.Gender != model.GenderMale && req.Gender != model.GenderFemale {
		return nil, apperr.Validation("gender must be '%s' or '%s'", model.GenderMale, model.GenderFemale)
	}

	event, err := s.find(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if time.Now().After(event.EndDatetime) {
		return nil, apperr.Conflict("event has already ended")
	}

	var fee *model.EventAmount
	for i := range event.Amounts {
		if event.Amounts[i].Currency == req.Currency {
			fee = &event.Amounts[i]
			break
		}
	}
	if fee == nil {
		return nil, apperr.Validation("event has no fee in currency '%s'", req.Currency)
	}

	reg := model.EventRegistration{
		EventID:        event.ID,
		UserID:         userID,
		FullName:       req.FullName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		IsChurchMember: req.IsChurchMember,
		ChurchPosition: req.ChurchPosition,
		Nation:         req.Nation,
		Region:         req.Region,
		CityTown:       req.CityTown,
		Amount:         fee.Amount,
		Currency:       fee.Currency,
	}
	if req.BranchID != nil && *req.BranchID != "" {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apperr.Validation("invalid branch id: %s", *req.BranchID)
		}
		reg.BranchID = &branchID
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.eventRepo.CreateRegistration(txCtx, &reg); err != nil {
			return fmt.Errorf("failed to create registration: %w", err)
		}
		entry := model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionRegisterForEvent,
			EntityID:   reg.ID.String(),
			EntityName: event.Title,
		}
		if err := s.auditRepo.Log(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.Initiate(ctx, InitiatePaymentInput{
		Category:         model.CategoryEvent,
		CategoryObjectID: reg.ID,
		Amount:           fee.Amount,
		Currency:         fee.Currency,
		Email:            req.Email,
		FullName:         req.FullName,
		UserID:           &userID,
	})
	if err != nil {
		return nil, err
	}

	return &RegistrationResponse{
		ID:         reg.ID.String(),
		EventID:    event.ID.String(),
		EventTitle: event.Title,
		FullName:   reg.FullName,
		Amount:     reg.Amount,
		Currency:   reg.Currency,
		IsPaid:     false,
		PaymentURL: payment.PaymentURL,
		Reference:  payment.Reference,
	}, nil
}

func (s *eventService) ListMyRegistrations(ctx context.Context, userID uuid.UUID, page, limit int) ([]RegistrationResponse, int64, error) {
	regs, total, err := s.eventRepo.ListRegistrationsByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch registrations: %w", err)
	}

	res := make([]RegistrationResponse, 0, len(regs))
	for _, r := range regs {
		item := RegistrationResponse{
			ID:       r.ID.String(),
			EventID:  r.EventID.String(),
			FullName: r.FullName,
			Amount:   r.Amount,
			Currency: r.Currency,
			IsPaid:   r.IsPaid,
		}
		if r.Event != nil {
			item.EventTitle = r.Event.Title
		}
		res = append(res, item)
	}
	return res, total, nil
}

// --- Helpers ---

func (s *eventService) find(ctx context.Context, id string) (*model.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid event id: %s", id)
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event %s not found", id)
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

func toEventResponse(e model.Event) EventResponse {
	amounts := make([]EventAmountResponse, 0, len(e.Amounts))
	for _, a := range e.Amounts {
		amounts = append(amounts, EventAmountResponse{Amount: a.Amount, Currency: a.Currency})
	}
	return EventResponse{
		ID:            e.ID.String(),
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		StartDatetime: e.StartDatetime.Format(time.RFC3339),
		EndDatetime:   e.EndDatetime.Format(time.RFC3339),
		CoverImageURL: e.CoverImageURL,
		Amounts:       amounts,
	}
}
