package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUserRequest struct {
	Username        string   `json:"username" binding:"required"`
	FirstName       string   `json:"first_name" binding:"required"`
	LastName        string   `json:"last_name" binding:"required"`
	Gender          string   `json:"gender"`
	Email           string   `json:"email" binding:"required,email"`
	PhoneNumber     string   `json:"phone_number" binding:"required"`
	Password        string   `json:"password" binding:"required,min=8"`
	RoleID          *string  `json:"role_id"`
	PermissionCodes []string `json:"permission_codes"`
	BranchID        *string  `json:"branch_id"`
}

type UpdateUserRequest struct {
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	Gender          *string   `json:"gender"`
	Email           *string   `json:"email"`
	PhoneNumber     *string   `json:"phone_number"`
	RoleID          *string   `json:"role_id"`
	PermissionCodes *[]string `json:"permission_codes"`
	BranchID        *string   `json:"branch_id"`
}

type UserResponse struct {
	ID          string               `json:"id"`
	Username    string               `json:"username"`
	FirstName   string               `json:"first_name"`
	LastName    string               `json:"last_name"`
	FullName    string               `json:"full_name"`
	Gender      string               `json:"gender"`
	Email       string               `json:"email"`
	PhoneNumber string               `json:"phone_number"`
	Role        *RoleResponse        `json:"role,omitempty"`
	Permissions []PermissionResponse `json:"permissions"`
	BranchID    *string              `json:"branch_id,omitempty"`
	IsVerified  bool                 `json:"is_verified"`
	CreatedAt   string               `json:"created_at"`
}

// --- Interface ---

// UserService manages admin accounts: creation, role assignment and direct
// permission grants. A user holds at most one role; assigning a new role
// replaces the old one entirely.
type UserService interface {
	Create(ctx context.Context, actorID *uuid.UUID, req CreateUserRequest) (*UserResponse, error)
	Update(ctx context.Context, actorID *uuid.UUID, id string, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, actorID *uuid.UUID, id string) error
	Get(ctx context.Context, id string) (*UserResponse, error)
	List(ctx context.Context, query string, page, limit int) ([]UserResponse, int64, error)
}

type userService struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditRepository
	txm       repository.TransactionManager
}

func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditRepository,
	txm repository.TransactionManager,
) UserService {
	return &userService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		auditRepo: auditRepo,
		txm:       txm,
	}
}

// --- Implementation ---

func (s *userService) Create(ctx context.Context, actorID *uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if req.Gender != "" && req.Gender != model.GenderMale && req.Gender != model.GenderFemale {
		return nil, apperr.Validation("gender must be '%s' or '%s'", model.GenderMale, model.GenderFemale)
	}

	if _, err := s.userRepo.GetByPhoneNumber(ctx, req.PhoneNumber); err == nil {
		return nil, apperr.Conflict("a user with phone number %s already exists", req.PhoneNumber)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("a user with email %s already exists", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      req.Gender,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    string(hashed),
	}

	if req.RoleID != nil {
		roleID, err := s.resolveRoleID(ctx, *req.RoleID)
		if err != nil {
			return nil, err
		}
		user.RoleID = roleID
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apperr.Validation("invalid branch id: %s", *req.BranchID)
		}
		user.BranchID = &branchID
	}

	code := 100000 + rand.Intn(900000)
	user.VerificationCode = &code

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, &user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if len(req.PermissionCodes) > 0 {
			perms, err := s.resolvePermissions(txCtx, req.PermissionCodes)
			if err != nil {
				return err
			}
			if err := s.userRepo.ReplaceDirectPermissions(txCtx, user.ID, perms); err != nil {
				return fmt.Errorf("failed to grant permissions: %w", err)
			}
		}

		return s.audit(txCtx, actorID, model.ActionCreateAdmin, user.ID.String(), user.FullName())
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, user.ID)
}

func (s *userService) Update(ctx context.Context, actorID *uuid.UUID, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid user id: %s", id)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Gender != nil {
		if *req.Gender != model.GenderMale && *req.Gender != model.GenderFemale {
			return nil, apperr.Validation("gender must be '%s' or '%s'", model.GenderMale, model.GenderFemale)
		}
		user.Gender = *req.Gender
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.RoleID != nil {
		if *req.RoleID == "" {
			user.RoleID = nil
			user.Role = nil
		} else {
			roleID, err := s.resolveRoleID(ctx, *req.RoleID)
			if err != nil {
				return nil, err
			}
			user.RoleID = roleID
			user.Role = nil
		}
	}
	if req.BranchID != nil {
		if *req.BranchID == "" {
			user.BranchID = nil
		} else {
			branchID, err := uuid.Parse(*req.BranchID)
			if err != nil {
				return nil, apperr.Validation("invalid branch id: %s", *req.BranchID)
			}
			user.BranchID = &branchID
		}
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if req.PermissionCodes != nil {
			perms, err := s.resolvePermissions(txCtx, *req.PermissionCodes)
			if err != nil {
				return err
			}
			if err := s.userRepo.ReplaceDirectPermissions(txCtx, user.ID, perms); err != nil {
				return fmt.Errorf("failed to replace permissions: %w", err)
			}
		}

		return s.audit(txCtx, actorID, model.ActionUpdateAdmin, user.ID.String(), user.FullName())
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, user.ID)
}

// Delete soft deletes a user and redacts PII so the row cannot identify the
// person afterwards. Payment and audit history keep pointing at the ID.
func (s *userService) Delete(ctx context.Context, actorID *uuid.UUID, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid user id: %s", id)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user %s not found", id)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if actorID != nil && *actorID == userID {
		return apperr.Conflict("you cannot delete your own account")
	}

	name := user.FullName()
	suffix := strconv.FormatInt(time.Now().Unix(), 10)
	user.Username = "deleted_" + suffix + "_" + user.ID.String()[:8]
	user.FirstName = "Deleted"
	user.LastName = "User"
	user.Email = "deleted+" + suffix + "@" + user.ID.String()[:8] + ".invalid"
	user.PhoneNumber = "deleted:" + suffix + ":" + user.ID.String()[:8]
	user.RoleID = nil
	user.Role = nil

	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.ReplaceDirectPermissions(txCtx, userID, nil); err != nil {
			return fmt.Errorf("failed to revoke permissions: %w", err)
		}
		if err := s.userRepo.DeleteRefreshTokensForUser(txCtx, userID); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to redact user: %w", err)
		}
		if err := s.userRepo.Delete(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return s.audit(txCtx, actorID, model.ActionDeleteAdmin, userID.String(), name)
	})
}

func (s *userService) Get(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid user id: %s", id)
	}
	return s.load(ctx, userID)
}

func (s *userService) List(ctx context.Context, query string, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, query, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res, total, nil
}

// --- Helpers ---

func (s *userService) load(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetWithAccess(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	resp := toUserResponse(*user)
	return &resp, nil
}

func (s *userService) resolveRoleID(ctx context.Context, raw string) (*uuid.UUID, error) {
	roleID, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("invalid role id: %s", raw)
	}
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role %s not found", raw)
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	return &roleID, nil
}

func (s *userService) resolvePermissions(ctx context.Context, codes []string) ([]model.Permission, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	perms, err := s.roleRepo.FindPermissionsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if len(perms) != len(codes) {
		known := make(map[string]bool, len(perms))
		for _, p := range perms {
			known[p.Code] = true
		}
		for _, code := range codes {
			if !known[code] {
				return nil, apperr.Validation("unknown permission code '%s'", code)
			}
		}
	}
	return perms, nil
}

func (s *userService) audit(ctx context.Context, actorID *uuid.UUID, action, entityID, entityName string) error {
	entry := model.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
	}
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toUserResponse(u model.User) UserResponse {
	perms := make([]PermissionResponse, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}

	resp := UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Gender:      u.Gender,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Permissions: perms,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.Role != nil {
		role := toRoleResponse(*u.Role)
		resp.Role = &role
	}
	if u.BranchID != nil {
		branchID := u.BranchID.String()
		resp.BranchID = &branchID
	}
	return resp
}
