package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateAreaRequest struct {
	Name       string  `json:"name" binding:"required"`
	AreaHeadID *string `json:"area_head_id"`
}

type UpdateAreaRequest struct {
	Name       *string `json:"name"`
	AreaHeadID *string `json:"area_head_id"`
}

type CreateDistrictRequest struct {
	Name           string  `json:"name" binding:"required"`
	AreaID         string  `json:"area_id" binding:"required"`
	DistrictHeadID *string `json:"district_head_id"`
}

type UpdateDistrictRequest struct {
	Name           *string `json:"name"`
	AreaID         *string `json:"area_id"`
	DistrictHeadID *string `json:"district_head_id"`
}

type CreateBranchRequest struct {
	Name               string   `json:"name" binding:"required"`
	DistrictID         string   `json:"district_id" binding:"required"`
	BranchHeadID       *string  `json:"branch_head_id"`
	Address            string   `json:"address"`
	ContactInformation string   `json:"contact_information"`
	MapLatitude        *float64 `json:"map_latitude"`
	MapLongitude       *float64 `json:"map_longitude"`
}

type UpdateBranchRequest struct {
	Name               *string  `json:"name"`
	DistrictID         *string  `json:"district_id"`
	BranchHeadID       *string  `json:"branch_head_id"`
	Address            *string  `json:"address"`
	ContactInformation *string  `json:"contact_information"`
	MapLatitude        *float64 `json:"map_latitude"`
	MapLongitude       *float64 `json:"map_longitude"`
}

// --- Interface ---

// JurisdictionService manages the area → district → branch hierarchy. Heads
// are member records; a member can head at most one unit of each level.
type JurisdictionService interface {
	CreateArea(ctx context.Context, req CreateAreaRequest) (*model.Area, error)
	UpdateArea(ctx context.Context, id string, req UpdateAreaRequest) (*model.Area, error)
	DeleteArea(ctx context.Context, id string) error
	GetArea(ctx context.Context, id string) (*model.Area, error)
	ListAreas(ctx context.Context, page, limit int) ([]model.Area, int64, error)

	CreateDistrict(ctx context.Context, req CreateDistrictRequest) (*model.District, error)
	UpdateDistrict(ctx context.Context, id string, req UpdateDistrictRequest) (*model.District, error)
	DeleteDistrict(ctx context.Context, id string) error
	GetDistrict(ctx context.Context, id string) (*model.District, error)
	ListDistricts(ctx context.Context, areaID *string, page, limit int) ([]model.District, int64, error)

	CreateBranch(ctx context.Context, req CreateBranchRequest) (*model.Branch, error)
	UpdateBranch(ctx context.Context, id string, req UpdateBranchRequest) (*model.Branch, error)
	DeleteBranch(ctx context.Context, id string) error
	GetBranch(ctx context.Context, id string) (*model.Branch, error)
	ListBranches(ctx context.Context, districtID *string, page, limit int) ([]model.Branch, int64, error)
}

type jurisdictionService struct {
	repo       repository.JurisdictionRepository
	memberRepo repository.MemberRepository
}

func NewJurisdictionService(repo repository.JurisdictionRepository, memberRepo repository.MemberRepository) JurisdictionService {
	return &jurisdictionService{repo: repo, memberRepo: memberRepo}
}

// --- Areas ---

func (s *jurisdictionService) CreateArea(ctx context.Context, req CreateAreaRequest) (*model.Area, error) {
	area := model.Area{Name: req.Name}
	headID, err := s.resolveHead(ctx, req.AreaHeadID)
	if err != nil {
		return nil, err
	}
	area.AreaHeadID = headID

	if err := s.repo.CreateArea(ctx, &area); err != nil {
		return nil, fmt.Errorf("failed to create area: %w", err)
	}
	return s.repo.FindAreaByID(ctx, area.ID)
}

func (s *jurisdictionService) UpdateArea(ctx context.Context, id string, req UpdateAreaRequest) (*model.Area, error) {
	area, err := s.GetArea(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		area.Name = *req.Name
	}
	if req.AreaHeadID != nil {
		headID, err := s.resolveHead(ctx, req.AreaHeadID)
		if err != nil {
			return nil, err
		}
		area.AreaHeadID = headID
		area.AreaHead = nil
	}

	if err := s.repo.UpdateArea(ctx, area); err != nil {
		return nil, fmt.Errorf("failed to update area: %w", err)
	}
	return s.repo.FindAreaByID(ctx, area.ID)
}

func (s *jurisdictionService) DeleteArea(ctx context.Context, id string) error {
	area, err := s.GetArea(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteArea(ctx, area.ID); err != nil {
		return fmt.Errorf("failed to delete area: %w", err)
	}
	return nil
}

func (s *jurisdictionService) GetArea(ctx context.Context, id string) (*model.Area, error) {
	areaID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid area id: %s", id)
	}
	area, err := s.repo.FindAreaByID(ctx, areaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("area %s not found", id)
		}
		return nil, fmt.Errorf("failed to load area: %w", err)
	}
	return area, nil
}

func (s *jurisdictionService) ListAreas(ctx context.Context, page, limit int) ([]model.Area, int64, error) {
	areas, total, err := s.repo.ListAreas(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch areas: %w", err)
	}
	return areas, total, nil
}

// --- Districts ---

func (s *jurisdictionService) CreateDistrict(ctx context.Context, req CreateDistrictRequest) (*model.District, error) {
	areaID, err := uuid.Parse(req.AreaID)
	if err != nil {
		return nil, apperr.Validation("invalid area id: %s", req.AreaID)
	}
	if _, err := s.repo.FindAreaByID(ctx, areaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("area %s not found", req.AreaID)
		}
		return nil, fmt.Errorf("failed to load area: %w", err)
	}

	district := model.District{Name: req.Name, AreaID: areaID}
	headID, err := s.resolveHead(ctx, req.DistrictHeadID)
	if err != nil {
		return nil, err
	}
	district.DistrictHeadID = headID

	if err := s.repo.CreateDistrict(ctx, &district); err != nil {
		return nil, fmt.Errorf("failed to create district: %w", err)
	}
	return s.repo.FindDistrictByID(ctx, district.ID)
}

func (s *jurisdictionService) UpdateDistrict(ctx context.Context, id string, req UpdateDistrictRequest) (*model.District, error) {
	district, err := s.GetDistrict(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		district.Name = *req.Name
	}
	if req.AreaID != nil {
		areaID, err := uuid.Parse(*req.AreaID)
		if err != nil {
			return nil, apperr.Validation("invalid area id: %s", *req.AreaID)
		}
		if _, err := s.repo.FindAreaByID(ctx, areaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("area %s not found", *req.AreaID)
			}
			return nil, fmt.Errorf("failed to load area: %w", err)
		}
		district.AreaID = areaID
		district.Area = nil
	}
	if req.DistrictHeadID != nil {
		headID, err := s.resolveHead(ctx, req.DistrictHeadID)
		if err != nil {
			return nil, err
		}
		district.DistrictHeadID = headID
		district.DistrictHead = nil
	}

	if err := s.repo.UpdateDistrict(ctx, district); err != nil {
		return nil, fmt.Errorf("failed to update district: %w", err)
	}
	return s.repo.FindDistrictByID(ctx, district.ID)
}

func (s *jurisdictionService) DeleteDistrict(ctx context.Context, id string) error {
	district, err := s.GetDistrict(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDistrict(ctx, district.ID); err != nil {
		return fmt.Errorf("failed to delete district: %w", err)
	}
	return nil
}

func (s *jurisdictionService) GetDistrict(ctx context.Context, id string) (*model.District, error) {
	districtID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid district id: %s", id)
	}
	district, err := s.repo.FindDistrictByID(ctx, districtID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("district %s not found", id)
		}
		return nil, fmt.Errorf("failed to load district: %w", err)
	}
	return district, nil
}

func (s *jurisdictionService) ListDistricts(ctx context.Context, areaID *string, page, limit int) ([]model.District, int64, error) {
	var areaUUID *uuid.UUID
	if areaID != nil && *areaID != "" {
		id, err := uuid.Parse(*areaID)
		if err != nil {
			return nil, 0, apperr.Validation("invalid area id: %s", *areaID)
		}
		areaUUID = &id
	}

	districts, total, err := s.repo.ListDistricts(ctx, areaUUID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch districts: %w", err)
	}
	return districts, total, nil
}

// --- Branches ---

func (s *jurisdictionService) CreateBranch(ctx context.Context, req CreateBranchRequest) (*model.Branch, error) {
	districtID, err := uuid.Parse(req.DistrictID)
	if err != nil {
		return nil, apperr.Validation("invalid district id: %s", req.DistrictID)
	}
	if _, err := s.repo.FindDistrictByID(ctx, districtID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("district %s not found", req.DistrictID)
		}
		return nil, fmt.Errorf("failed to load district: %w", err)
	}

	branch := model.Branch{
		Name:               req.Name,
		DistrictID:         districtID,
		Address:            req.Address,
		ContactInformation: req.ContactInformation,
		MapLatitude:        req.MapLatitude,
		MapLongitude:       req.MapLongitude,
	}
	headID, err := s.resolveHead(ctx, req.BranchHeadID)
	if err != nil {
		return nil, err
	}
	branch.BranchHeadID = headID

	if err := s.repo.CreateBranch(ctx, &branch); err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return s.repo.FindBranchByID(ctx, branch.ID)
}

func (s *jurisdictionService) UpdateBranch(ctx context.Context, id string, req UpdateBranchRequest) (*model.Branch, error) {
	branch, err := s.GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.DistrictID != nil {
		districtID, err := uuid.Parse(*req.DistrictID)
		if err != nil {
			return nil, apperr.Validation("invalid district id: %s", *req.DistrictID)
		}
		if _, err := s.repo.FindDistrictByID(ctx, districtID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("district %s not found", *req.DistrictID)
			}
			return nil, fmt.Errorf("failed to load district: %w", err)
		}
		branch.DistrictID = districtID
		branch.District = nil
	}
	if req.BranchHeadID != nil {
		headID, err := s.resolveHead(ctx, req.BranchHeadID)
		if err != nil {
			return nil, err
		}
		branch.BranchHeadID = headID
		branch.BranchHead = nil
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.ContactInformation != nil {
		branch.ContactInformation = *req.ContactInformation
	}
	if req.MapLatitude != nil {
		branch.MapLatitude = req.MapLatitude
	}
	if req.MapLongitude != nil {
		branch.MapLongitude = req.MapLongitude
	}

	if err := s.repo.UpdateBranch(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return s.repo.FindBranchByID(ctx, branch.ID)
}

func (s *jurisdictionService) DeleteBranch(ctx context.Context, id string) error {
	branch, err := s.GetBranch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBranch(ctx, branch.ID); err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return nil
}

func (s *jurisdictionService) GetBranch(ctx context.Context, id string) (*model.Branch, error) {
	branchID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid branch id: %s", id)
	}
	branch, err := s.repo.FindBranchByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("branch %s not found", id)
		}
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}
	return branch, nil
}

func (s *jurisdictionService) ListBranches(ctx context.Context, districtID *string, page, limit int) ([]model.Branch, int64, error) {
	var districtUUID *uuid.UUID
	if districtID != nil && *districtID != "" {
		id, err := uuid.Parse(*districtID)
		if err != nil {
			return nil, 0, apperr.Validation("invalid district id: %s", *districtID)
		}
		districtUUID = &id
	}

	branches, total, err := s.repo.ListBranches(ctx, districtUUID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch branches: %w", err)
	}
	return branches, total, nil
}

// --- Helpers ---

func (s *jurisdictionService) resolveHead(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	memberID, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperr.Validation("invalid member id: %s", *raw)
	}
	if _, err := s.memberRepo.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("member %s not found", *raw)
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return &memberID, nil
}
