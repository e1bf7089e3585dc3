package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, page, limit int) ([]model.Event, int64, error)
	ReplaceAmounts(ctx context.Context, eventID uuid.UUID, amounts []model.EventAmount) error

	CreateRegistration(ctx context.Context, reg *model.EventRegistration) error
	FindRegistrationByID(ctx context.Context, id uuid.UUID) (*model.EventRegistration, error)
	UpdateRegistration(ctx context.Context, reg *model.EventRegistration) error
	ListRegistrationsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.EventRegistration, int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return GetDB(ctx, r.db).Omit("Amounts").Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Event{}).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := GetDB(ctx, r.db).Preload("Amounts").First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, page, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Event{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("Amounts").
		Order("start_datetime desc").Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepository) ReplaceAmounts(ctx context.Context, eventID uuid.UUID, amounts []model.EventAmount) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("event_id = ?", eventID).Delete(&model.EventAmount{}).Error; err != nil {
		return err
	}
	for i := range amounts {
		amounts[i].EventID = eventID
	}
	if len(amounts) == 0 {
		return nil
	}
	return db.Create(&amounts).Error
}

func (r *eventRepository) CreateRegistration(ctx context.Context, reg *model.EventRegistration) error {
	return GetDB(ctx, r.db).Create(reg).Error
}

func (r *eventRepository) FindRegistrationByID(ctx context.Context, id uuid.UUID) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	if err := GetDB(ctx, r.db).Preload("Event").First(&reg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *eventRepository) UpdateRegistration(ctx context.Context, reg *model.EventRegistration) error {
	return GetDB(ctx, r.db).Save(reg).Error
}

func (r *eventRepository) ListRegistrationsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.EventRegistration, int64, error) {
	var regs []model.EventRegistration
	var total int64

	db := GetDB(ctx, r.db).Model(&model.EventRegistration{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&regs).Error; err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}
