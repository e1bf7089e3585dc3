package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomTypeRepository interface {
	Create(ctx context.Context, ct *model.CustomType) error
	Update(ctx context.Context, ct *model.CustomType) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CustomType, error)
	List(ctx context.Context, category string) ([]model.CustomType, error)
}

type customTypeRepository struct {
	db *gorm.DB
}

func NewCustomTypeRepository(db *gorm.DB) CustomTypeRepository {
	return &customTypeRepository{db: db}
}

func (r *customTypeRepository) Create(ctx context.Context, ct *model.CustomType) error {
	return GetDB(ctx, r.db).Create(ct).Error
}

func (r *customTypeRepository) Update(ctx context.Context, ct *model.CustomType) error {
	return GetDB(ctx, r.db).Save(ct).Error
}

func (r *customTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CustomType{}).Error
}

func (r *customTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CustomType, error) {
	var ct model.CustomType
	if err := GetDB(ctx, r.db).First(&ct, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *customTypeRepository) List(ctx context.Context, category string) ([]model.CustomType, error) {
	var cts []model.CustomType
	db := GetDB(ctx, r.db)
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if err := db.Order("category asc, name asc").Find(&cts).Error; err != nil {
		return nil, err
	}
	return cts, nil
}
