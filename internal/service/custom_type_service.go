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

type CreateCustomTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
}

type UpdateCustomTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CustomTypeService interface {
	Create(ctx context.Context, req CreateCustomTypeRequest) (*model.CustomType, error)
	Update(ctx context.Context, id string, req UpdateCustomTypeRequest) (*model.CustomType, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.CustomType, error)
	List(ctx context.Context, category string) ([]model.CustomType, error)
}

type customTypeService struct {
	repo repository.CustomTypeRepository
}

func NewCustomTypeService(repo repository.CustomTypeRepository) CustomTypeService {
	return &customTypeService{repo: repo}
}

func (s *customTypeService) Create(ctx context.Context, req CreateCustomTypeRequest) (*model.CustomType, error) {
	if !model.ValidCustomTypeCategory(req.Category) {
		return nil, apperr.Validation("unknown custom type category '%s'", req.Category)
	}

	ct := model.CustomType{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.repo.Create(ctx, &ct); err != nil {
		return nil, fmt.Errorf("failed to create custom type: %w", err)
	}
	return &ct, nil
}

func (s *customTypeService) Update(ctx context.Context, id string, req UpdateCustomTypeRequest) (*model.CustomType, error) {
	ct, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ct.Name = *req.Name
	}
	if req.Description != nil {
		ct.Description = *req.Description
	}

	if err := s.repo.Update(ctx, ct); err != nil {
		return nil, fmt.Errorf("failed to update custom type: %w", err)
	}
	return ct, nil
}

func (s *customTypeService) Delete(ctx context.Context, id string) error {
	ct, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ct.ID); err != nil {
		return fmt.Errorf("failed to delete custom type: %w", err)
	}
	return nil
}

func (s *customTypeService) Get(ctx context.Context, id string) (*model.CustomType, error) {
	return s.find(ctx, id)
}

func (s *customTypeService) List(ctx context.Context, category string) ([]model.CustomType, error) {
	if category != "" && !model.ValidCustomTypeCategory(category) {
		return nil, apperr.Validation("unknown custom type category '%s'", category)
	}
	cts, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch custom types: %w", err)
	}
	return cts, nil
}

func (s *customTypeService) find(ctx context.Context, id string) (*model.CustomType, error) {
	typeID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid custom type id: %s", id)
	}
	ct, err := s.repo.FindByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("custom type %s not found", id)
		}
		return nil, fmt.Errorf("failed to load custom type: %w", err)
	}
	return ct, nil
}
