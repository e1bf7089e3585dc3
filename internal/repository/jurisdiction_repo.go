package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JurisdictionRepository covers the area → district → branch hierarchy.
type JurisdictionRepository interface {
	CreateArea(ctx context.Context, area *model.Area) error
	UpdateArea(ctx context.Context, area *model.Area) error
	DeleteArea(ctx context.Context, id uuid.UUID) error
	FindAreaByID(ctx context.Context, id uuid.UUID) (*model.Area, error)
	ListAreas(ctx context.Context, page, limit int) ([]model.Area, int64, error)

	CreateDistrict(ctx context.Context, district *model.District) error
	UpdateDistrict(ctx context.Context, district *model.District) error
	DeleteDistrict(ctx context.Context, id uuid.UUID) error
	FindDistrictByID(ctx context.Context, id uuid.UUID) (*model.District, error)
	ListDistricts(ctx context.Context, areaID *uuid.UUID, page, limit int) ([]model.District, int64, error)

	CreateBranch(ctx context.Context, branch *model.Branch) error
	UpdateBranch(ctx context.Context, branch *model.Branch) error
	DeleteBranch(ctx context.Context, id uuid.UUID) error
	FindBranchByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	ListBranches(ctx context.Context, districtID *uuid.UUID, page, limit int) ([]model.Branch, int64, error)
}

type jurisdictionRepository struct {
	db *gorm.DB
}

func NewJurisdictionRepository(db *gorm.DB) JurisdictionRepository {
	return &jurisdictionRepository{db: db}
}

func (r *jurisdictionRepository) CreateArea(ctx context.Context, area *model.Area) error {
	return GetDB(ctx, r.db).Create(area).Error
}

func (r *jurisdictionRepository) UpdateArea(ctx context.Context, area *model.Area) error {
	return GetDB(ctx, r.db).Save(area).Error
}

func (r *jurisdictionRepository) DeleteArea(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Area{}).Error
}

func (r *jurisdictionRepository) FindAreaByID(ctx context.Context, id uuid.UUID) (*model.Area, error) {
	var area model.Area
	if err := GetDB(ctx, r.db).Preload("AreaHead").First(&area, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *jurisdictionRepository) ListAreas(ctx context.Context, page, limit int) ([]model.Area, int64, error) {
	var areas []model.Area
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Area{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("AreaHead").
		Order("name asc").Offset(offset).Limit(limit).Find(&areas).Error; err != nil {
		return nil, 0, err
	}
	return areas, total, nil
}

func (r *jurisdictionRepository) CreateDistrict(ctx context.Context, district *model.District) error {
	return GetDB(ctx, r.db).Create(district).Error
}

func (r *jurisdictionRepository) UpdateDistrict(ctx context.Context, district *model.District) error {
	return GetDB(ctx, r.db).Save(district).Error
}

func (r *jurisdictionRepository) DeleteDistrict(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.District{}).Error
}

func (r *jurisdictionRepository) FindDistrictByID(ctx context.Context, id uuid.UUID) (*model.District, error) {
	var district model.District
	if err := GetDB(ctx, r.db).Preload("Area").Preload("DistrictHead").First(&district, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &district, nil
}

func (r *jurisdictionRepository) ListDistricts(ctx context.Context, areaID *uuid.UUID, page, limit int) ([]model.District, int64, error) {
	var districts []model.District
	var total int64

	db := GetDB(ctx, r.db).Model(&model.District{})
	if areaID != nil {
		db = db.Where("area_id = ?", *areaID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := GetDB(ctx, r.db).Preload("Area").Preload("DistrictHead")
	if areaID != nil {
		fetch = fetch.Where("area_id = ?", *areaID)
	}
	offset := (page - 1) * limit
	if err := fetch.Order("name asc").Offset(offset).Limit(limit).Find(&districts).Error; err != nil {
		return nil, 0, err
	}
	return districts, total, nil
}

func (r *jurisdictionRepository) CreateBranch(ctx context.Context, branch *model.Branch) error {
	return GetDB(ctx, r.db).Create(branch).Error
}

func (r *jurisdictionRepository) UpdateBranch(ctx context.Context, branch *model.Branch) error {
	return GetDB(ctx, r.db).Save(branch).Error
}

func (r *jurisdictionRepository) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Branch{}).Error
}

func (r *jurisdictionRepository) FindBranchByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var branch model.Branch
	if err := GetDB(ctx, r.db).Preload("District.Area").Preload("BranchHead").First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *jurisdictionRepository) ListBranches(ctx context.Context, districtID *uuid.UUID, page, limit int) ([]model.Branch, int64, error) {
	var branches []model.Branch
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Branch{})
	if districtID != nil {
		db = db.Where("district_id = ?", *districtID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := GetDB(ctx, r.db).Preload("District.Area").Preload("BranchHead")
	if districtID != nil {
		fetch = fetch.Where("district_id = ?", *districtID)
	}
	offset := (page - 1) * limit
	if err := fetch.Order("name asc").Offset(offset).Limit(limit).Find(&branches).Error; err != nil {
		return nil, 0, err
	}
	return branches, total, nil
}
