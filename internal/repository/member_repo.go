package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.Member, error)
	List(ctx context.Context, query string, branchID *uuid.UUID, page, limit int) ([]model.Member, int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	return GetDB(ctx, r.db).Create(member).Error
}

func (r *memberRepository) Update(ctx context.Context, member *model.Member) error {
	return GetDB(ctx, r.db).Save(member).Error
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Member{}).Error
}

func (r *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := GetDB(ctx, r.db).Preload("Branch").First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.Member, error) {
	var member model.Member
	if err := GetDB(ctx, r.db).First(&member, "phone_number = ?", phoneNumber).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) List(ctx context.Context, query string, branchID *uuid.UUID, page, limit int) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Member{})
	if query != "" {
		like := "%" + query + "%"
		db = db.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR phone_number = ? OR email = ?",
			like, like, query, query,
		)
	}
	if branchID != nil {
		db = db.Where("branch_id = ?", *branchID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Branch").Order("created_at desc").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}
