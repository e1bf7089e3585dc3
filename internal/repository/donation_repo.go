package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *model.Donation) error
	Update(ctx context.Context, donation *model.Donation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Donation, error)
	List(ctx context.Context, page, limit int) ([]model.Donation, int64, error)
	CreateDonationPayment(ctx context.Context, payment *model.DonationPayment) error
}

type PledgeRepository interface {
	Create(ctx context.Context, pledge *model.Pledge) error
	Update(ctx context.Context, pledge *model.Pledge) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pledge, error)
	// FindActive returns the user's unredeemed pledge for a donation, if any.
	FindActive(ctx context.Context, donationID, userID uuid.UUID) (*model.Pledge, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Pledge, int64, error)
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *model.Donation) error {
	return GetDB(ctx, r.db).Create(donation).Error
}

func (r *donationRepository) Update(ctx context.Context, donation *model.Donation) error {
	return GetDB(ctx, r.db).Save(donation).Error
}

func (r *donationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Donation{}).Error
}

func (r *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	var donation model.Donation
	if err := GetDB(ctx, r.db).First(&donation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) List(ctx context.Context, page, limit int) ([]model.Donation, int64, error) {
	var donations []model.Donation
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Donation{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

func (r *donationRepository) CreateDonationPayment(ctx context.Context, payment *model.DonationPayment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

type pledgeRepository struct {
	db *gorm.DB
}

func NewPledgeRepository(db *gorm.DB) PledgeRepository {
	return &pledgeRepository{db: db}
}

func (r *pledgeRepository) Create(ctx context.Context, pledge *model.Pledge) error {
	return GetDB(ctx, r.db).Create(pledge).Error
}

func (r *pledgeRepository) Update(ctx context.Context, pledge *model.Pledge) error {
	return GetDB(ctx, r.db).Save(pledge).Error
}

func (r *pledgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Pledge, error) {
	var pledge model.Pledge
	if err := GetDB(ctx, r.db).Preload("Donation").First(&pledge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *pledgeRepository) FindActive(ctx context.Context, donationID, userID uuid.UUID) (*model.Pledge, error) {
	var pledge model.Pledge
	err := GetDB(ctx, r.db).
		Where("donation_id = ? AND user_id = ? AND is_redeemed = ?", donationID, userID, false).
		First(&pledge).Error
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *pledgeRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Pledge, int64, error) {
	var pledges []model.Pledge
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Pledge{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("Donation").
		Where("user_id = ?", userID).
		Order("redeem_date desc").Offset(offset).Limit(limit).Find(&pledges).Error; err != nil {
		return nil, 0, err
	}

	return pledges, total, nil
}
