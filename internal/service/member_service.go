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
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateMemberRequest struct {
	FirstName                   string  `json:"first_name" binding:"required"`
	LastName                    string  `json:"last_name" binding:"required"`
	OtherName                   string  `json:"other_name"`
	Gender                      string  `json:"gender" binding:"required"`
	Email                       string  `json:"email"`
	PhoneNumber                 string  `json:"phone_number" binding:"required"`
	Address                     string  `json:"address"`
	EmergencyContactName        string  `json:"emergency_contact_name"`
	EmergencyContactPhoneNumber string  `json:"emergency_contact_phone_number"`
	DateOfBirth                 *string `json:"date_of_birth"` // YYYY-MM-DD
	Hometown                    string  `json:"hometown"`
	Region                      string  `json:"region"`
	Country                     string  `json:"country"`
	MaritalStatus               string  `json:"marital_status"`
	BranchID                    *string `json:"branch_id"`
	IsBaptised                  bool    `json:"is_baptised"`
	DateJoined                  *string `json:"date_joined"` // YYYY-MM-DD
	CommunicationPreference     string  `json:"communication_preference"`
	Occupation                  string  `json:"occupation"`
	EducationalLevel            string  `json:"educational_level"`
	MemberTitleID               *string `json:"member_title_id"`
	MemberTypeID                *string `json:"member_type_id"`
	MemberPositionID            *string `json:"member_position_id"`
}

type UpdateMemberRequest struct {
	FirstName                   *string `json:"first_name"`
	LastName                    *string `json:"last_name"`
	OtherName                   *string `json:"other_name"`
	Gender                      *string `json:"gender"`
	Email                       *string `json:"email"`
	PhoneNumber                 *string `json:"phone_number"`
	Address                     *string `json:"address"`
	EmergencyContactName        *string `json:"emergency_contact_name"`
	EmergencyContactPhoneNumber *string `json:"emergency_contact_phone_number"`
	DateOfBirth                 *string `json:"date_of_birth"`
	Hometown                    *string `json:"hometown"`
	Region                      *string `json:"region"`
	Country                     *string `json:"country"`
	MaritalStatus               *string `json:"marital_status"`
	BranchID                    *string `json:"branch_id"`
	IsBaptised                  *bool   `json:"is_baptised"`
	DateJoined                  *string `json:"date_joined"`
	CommunicationPreference     *string `json:"communication_preference"`
	Occupation                  *string `json:"occupation"`
	EducationalLevel            *string `json:"educational_level"`
	MemberTitleID               *string `json:"member_title_id"`
	MemberTypeID                *string `json:"member_type_id"`
	MemberPositionID            *string `json:"member_position_id"`
}

// --- Interface ---

type MemberService interface {
	Create(ctx context.Context, req CreateMemberRequest) (*model.Member, error)
	Update(ctx context.Context, id string, req UpdateMemberRequest) (*model.Member, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Member, error)
	List(ctx context.Context, query string, branchID *string, page, limit int) ([]model.Member, int64, error)
}

type memberService struct {
	memberRepo       repository.MemberRepository
	customTypeRepo   repository.CustomTypeRepository
	jurisdictionRepo repository.JurisdictionRepository
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	customTypeRepo repository.CustomTypeRepository,
	jurisdictionRepo repository.JurisdictionRepository,
) MemberService {
	return &memberService{
		memberRepo:       memberRepo,
		customTypeRepo:   customTypeRepo,
		jurisdictionRepo: jurisdictionRepo,
	}
}

// --- Implementation ---

func (s *memberService) Create(ctx context.Context, req CreateMemberRequest) (*model.Member, error) {
	if req.Gender != model.GenderMale && req.Gender != model.GenderFemale {
		return nil, apperr.Validation("gender must be '%s' or '%s'", model.GenderMale, model.GenderFemale)
	}
	if req.CommunicationPreference != "" &&
		req.CommunicationPreference != model.CommunicationEmail &&
		req.CommunicationPreference != model.CommunicationSMS {
		return nil, apperr.Validation("communication_preference must be '%s' or '%s'", model.CommunicationEmail, model.CommunicationSMS)
	}

	if _, err := s.memberRepo.FindByPhoneNumber(ctx, req.PhoneNumber); err == nil {
		return nil, apperr.Conflict("a member with phone number %s already exists", req.PhoneNumber)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}

	member := model.Member{
		FirstName:                   req.FirstName,
		LastName:                    req.LastName,
		OtherName:                   req.OtherName,
		Gender:                      req.Gender,
		Email:                       req.Email,
		PhoneNumber:                 req.PhoneNumber,
		Address:                     req.Address,
		EmergencyContactName:        req.EmergencyContactName,
		EmergencyContactPhoneNumber: req.EmergencyContactPhoneNumber,
		Hometown:                    req.Hometown,
		Region:                      req.Region,
		Country:                     req.Country,
		MaritalStatus:               req.MaritalStatus,
		IsBaptised:                  req.IsBaptised,
		CommunicationPreference:     req.CommunicationPreference,
		Occupation:                  req.Occupation,
		EducationalLevel:            req.EducationalLevel,
	}

	var err error
	if member.DateOfBirth, err = parseDatePtr(req.DateOfBirth, "date_of_birth"); err != nil {
		return nil, err
	}
	if member.DateJoined, err = parseDatePtr(req.DateJoined, "date_joined"); err != nil {
		return nil, err
	}
	if member.BranchID, err = s.resolveBranch(ctx, req.BranchID); err != nil {
		return nil, err
	}
	if member.MemberTitleID, err = s.resolveCustomType(ctx, req.MemberTitleID, model.CustomTypeMemberTitle); err != nil {
		return nil, err
	}
	if member.MemberTypeID, err = s.resolveCustomType(ctx, req.MemberTypeID, model.CustomTypeMemberType); err != nil {
		return nil, err
	}
	if member.MemberPositionID, err = s.resolveCustomType(ctx, req.MemberPositionID, model.CustomTypeMemberPosition); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Create(ctx, &member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return s.memberRepo.FindByID(ctx, member.ID)
}

func (s *memberService) Update(ctx context.Context, id string, req UpdateMemberRequest) (*model.Member, error) {
	member, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.OtherName != nil {
		member.OtherName = *req.OtherName
	}
	if req.Gender != nil {
		if *req.Gender != model.GenderMale && *req.Gender != model.GenderFemale {
			return nil, apperr.Validation("gender must be '%s' or '%s'", model.GenderMale, model.GenderFemale)
		}
		member.Gender = *req.Gender
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		member.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		member.Address = *req.Address
	}
	if req.EmergencyContactName != nil {
		member.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhoneNumber != nil {
		member.EmergencyContactPhoneNumber = *req.EmergencyContactPhoneNumber
	}
	if req.DateOfBirth != nil {
		if member.DateOfBirth, err = parseDatePtr(req.DateOfBirth, "date_of_birth"); err != nil {
			return nil, err
		}
	}
	if req.Hometown != nil {
		member.Hometown = *req.Hometown
	}
	if req.Region != nil {
		member.Region = *req.Region
	}
	if req.Country != nil {
		member.Country = *req.Country
	}
	if req.MaritalStatus != nil {
		member.MaritalStatus = *req.MaritalStatus
	}
	if req.BranchID != nil {
		if member.BranchID, err = s.resolveBranch(ctx, req.BranchID); err != nil {
			return nil, err
		}
		member.Branch = nil
	}
	if req.IsBaptised != nil {
		member.IsBaptised = *req.IsBaptised
	}
	if req.DateJoined != nil {
		if member.DateJoined, err = parseDatePtr(req.DateJoined, "date_joined"); err != nil {
			return nil, err
		}
	}
	if req.CommunicationPreference != nil {
		member.CommunicationPreference = *req.CommunicationPreference
	}
	if req.Occupation != nil {
		member.Occupation = *req.Occupation
	}
	if req.EducationalLevel != nil {
		member.EducationalLevel = *req.EducationalLevel
	}
	if req.MemberTitleID != nil {
		if member.MemberTitleID, err = s.resolveCustomType(ctx, req.MemberTitleID, model.CustomTypeMemberTitle); err != nil {
			return nil, err
		}
	}
	if req.MemberTypeID != nil {
		if member.MemberTypeID, err = s.resolveCustomType(ctx, req.MemberTypeID, model.CustomTypeMemberType); err != nil {
			return nil, err
		}
	}
	if req.MemberPositionID != nil {
		if member.MemberPositionID, err = s.resolveCustomType(ctx, req.MemberPositionID, model.CustomTypeMemberPosition); err != nil {
			return nil, err
		}
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return s.memberRepo.FindByID(ctx, member.ID)
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	member, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, member.ID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

func (s *memberService) Get(ctx context.Context, id string) (*model.Member, error) {
	return s.find(ctx, id)
}

func (s *memberService) List(ctx context.Context, query string, branchID *string, page, limit int) ([]model.Member, int64, error) {
	var branchUUID *uuid.UUID
	if branchID != nil && *branchID != "" {
		id, err := uuid.Parse(*branchID)
		if err != nil {
			return nil, 0, apperr.Validation("invalid branch id: %s", *branchID)
		}
		branchUUID = &id
	}

	members, total, err := s.memberRepo.List(ctx, query, branchUUID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch members: %w", err)
	}
	return members, total, nil
}

// --- Helpers ---

func (s *memberService) find(ctx context.Context, id string) (*model.Member, error) {
	memberID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid member id: %s", id)
	}
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("member %s not found", id)
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return member, nil
}

func (s *memberService) resolveBranch(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	branchID, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperr.Validation("invalid branch id: %s", *raw)
	}
	if _, err := s.jurisdictionRepo.FindBranchByID(ctx, branchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("branch %s not found", *raw)
		}
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}
	return &branchID, nil
}

func (s *memberService) resolveCustomType(ctx context.Context, raw *string, category string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	typeID, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperr.Validation("invalid %s id: %s", category, *raw)
	}
	ct, err := s.customTypeRepo.FindByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("%s %s not found", category, *raw)
		}
		return nil, fmt.Errorf("failed to load custom type: %w", err)
	}
	if ct.Category != category {
		return nil, apperr.Validation("custom type %s is not a %s", *raw, category)
	}
	return &typeID, nil
}

func parseDatePtr(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, apperr.Validation("%s must be in YYYY-MM-DD format", field)
	}
	return &t, nil
}
