package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name            string   `json:"name"`
	Rank            *int     `json:"rank"`
	PermissionCodes []string `json:"permission_codes"`
}

// UpdateRoleRequest carries partial updates; nil fields are left unchanged.
type UpdateRoleRequest struct {
	Name            *string   `json:"name"`
	Rank            *int      `json:"rank"`
	PermissionCodes *[]string `json:"permission_codes"`
}

type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Rank        int                  `json:"rank"`
	IsDefault   bool                 `json:"is_default"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

type PermissionResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// --- Interface ---

// RoleService is the role & permission engine. Can is consulted before every
// permission-guarded action.
type RoleService interface {
	// Can reports whether the user may perform the action guarded by code:
	// true if the code is in the user's direct grants, in the assigned role's
	// permission set, or the user is super admin (default Super Admin role).
	Can(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, actorID *uuid.UUID, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, actorID *uuid.UUID, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, actorID *uuid.UUID, id string) error
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	SeedDefaults(ctx context.Context) error
}

type roleService struct {
	roleRepo  repository.RoleRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txm       repository.TransactionManager
}

func NewRoleService(
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txm repository.TransactionManager,
) RoleService {
	return &roleService{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		txm:       txm,
	}
}

// --- Implementation ---

func (s *roleService) Can(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	user, err := s.userRepo.GetWithAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("user %s not found", userID)
		}
		return false, fmt.Errorf("failed to load user access: %w", err)
	}

	for _, p := range user.Permissions {
		if p.Code == code {
			return true, nil
		}
	}

	if user.Role != nil {
		for _, p := range user.Role.Permissions {
			if p.Code == code {
				return true, nil
			}
		}
	}

	// Super admin passes every check regardless of the specific code.
	if user.IsSuperAdmin() {
		return true, nil
	}

	return false, nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roleRepo.ListOrderedByRank(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid role id: %s", id)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role not found")
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}

	resp := toRoleResponse(*role)
	return &resp, nil
}

func (s *roleService) CreateRole(ctx context.Context, actorID *uuid.UUID, req CreateRoleRequest) (*RoleResponse, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.Rank == nil {
		return nil, apperr.Validation("rank is required")
	}

	if _, err := s.roleRepo.FindByName(ctx, req.Name); err == nil {
		return nil, apperr.Conflict("a role named %s already exists", req.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	role := model.Role{Name: req.Name}

	// Role, rank and permission assignment commit together or not at all.
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roleRepo.Create(txCtx, &role); err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}

		rank := model.RoleRank{RoleID: role.ID, Rank: *req.Rank}
		if err := s.roleRepo.CreateRank(txCtx, &rank); err != nil {
			return fmt.Errorf("failed to create role rank: %w", err)
		}

		if len(req.PermissionCodes) > 0 {
			perms, err := s.roleRepo.FindPermissionsByCodes(txCtx, req.PermissionCodes)
			if err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if len(perms) != len(req.PermissionCodes) {
				return apperr.Validation("one or more permission codes are unknown")
			}
			if err := s.roleRepo.AppendPermissions(txCtx, role.ID, perms); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}

		return s.audit(txCtx, actorID, model.ActionCreateRole, role.ID.String(), role.Name, map[string]interface{}{
			"rank":        *req.Rank,
			"permissions": req.PermissionCodes,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID.String())
}

func (s *roleService) UpdateRole(ctx context.Context, actorID *uuid.UUID, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid role id: %s", id)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role not found")
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}

	if req.Name != nil && *req.Name != role.Name {
		if _, err := s.roleRepo.FindByName(ctx, *req.Name); err == nil {
			return nil, apperr.Conflict("a role named %s already exists", *req.Name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check role name: %w", err)
		}
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if req.Name != nil && *req.Name != role.Name {
			role.Name = *req.Name
			if err := s.roleRepo.Update(txCtx, role); err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
		}

		if req.PermissionCodes != nil {
			// Replace via set-difference instead of clear+recreate so untouched
			// join rows keep their history.
			target, err := s.roleRepo.FindPermissionsByCodes(txCtx, *req.PermissionCodes)
			if err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if len(target) != len(*req.PermissionCodes) {
				return apperr.Validation("one or more permission codes are unknown")
			}

			current := make(map[string]model.Permission, len(role.Permissions))
			for _, p := range role.Permissions {
				current[p.Code] = p
			}
			wanted := make(map[string]model.Permission, len(target))
			for _, p := range target {
				wanted[p.Code] = p
			}

			var toAdd, toRemove []model.Permission
			for code, p := range wanted {
				if _, ok := current[code]; !ok {
					toAdd = append(toAdd, p)
				}
			}
			for code, p := range current {
				if _, ok := wanted[code]; !ok {
					toRemove = append(toRemove, p)
				}
			}

			if err := s.roleRepo.AppendPermissions(txCtx, role.ID, toAdd); err != nil {
				return fmt.Errorf("failed to add permissions: %w", err)
			}
			if err := s.roleRepo.RemovePermissions(txCtx, role.ID, toRemove); err != nil {
				return fmt.Errorf("failed to remove permissions: %w", err)
			}
		}

		if req.Rank != nil {
			if err := s.roleRepo.UpsertRank(txCtx, role.ID, *req.Rank); err != nil {
				return fmt.Errorf("failed to upsert role rank: %w", err)
			}
		}

		return s.audit(txCtx, actorID, model.ActionUpdateRole, role.ID.String(), role.Name, req)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, id)
}

func (s *roleService) DeleteRole(ctx context.Context, actorID *uuid.UUID, id string) error {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid role id: %s", id)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("role not found")
		}
		return fmt.Errorf("failed to fetch role: %w", err)
	}

	if role.Ranking != nil && role.Ranking.IsDefault {
		return apperr.Conflict("default role cannot be deleted")
	}

	assigned, err := s.userRepo.CountByRoleID(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to count assigned users: %w", err)
	}
	if assigned > 0 {
		return apperr.Conflict("cannot delete a role with assigned users, detach assigned users first")
	}

	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roleRepo.ClearPermissions(txCtx, roleID); err != nil {
			return fmt.Errorf("failed to clear permissions: %w", err)
		}
		if err := s.roleRepo.Delete(txCtx, roleID); err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
		return s.audit(txCtx, actorID, model.ActionDeleteRole, roleID.String(), role.Name, nil)
	})
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.roleRepo.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, toPermissionResponse(p))
	}
	return res, nil
}

// SeedDefaults upserts the static permission catalog and the default
// Super Admin role (rank 1, is_default). Safe to call on every startup.
func (s *roleService) SeedDefaults(ctx context.Context) error {
	catalog := model.PermissionCatalog()
	for i := range catalog {
		if err := s.roleRepo.FirstOrCreatePermission(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("failed to seed permission '%s': %w", catalog[i].Code, err)
		}
	}

	_, err := s.roleRepo.FindByName(ctx, model.SuperAdminRoleName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up super admin role: %w", err)
	}

	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		role := model.Role{Name: model.SuperAdminRoleName}
		if err := s.roleRepo.Create(txCtx, &role); err != nil {
			return fmt.Errorf("failed to seed super admin role: %w", err)
		}
		rank := model.RoleRank{RoleID: role.ID, Rank: 1, IsDefault: true}
		if err := s.roleRepo.CreateRank(txCtx, &rank); err != nil {
			return fmt.Errorf("failed to seed super admin rank: %w", err)
		}
		return nil
	})
}

func (s *roleService) audit(ctx context.Context, actorID *uuid.UUID, action, entityID, entityName string, details interface{}) error {
	payload, _ := json.Marshal(details)
	entry := model.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// --- Helpers ---

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}

	resp := RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.Ranking != nil {
		resp.Rank = r.Ranking.Rank
		resp.IsDefault = r.Ranking.IsDefault
	}
	return resp
}

func toPermissionResponse(p model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:    p.ID.String(),
		Code:  p.Code,
		Name:  p.Name,
		Group: p.Group,
	}
}
