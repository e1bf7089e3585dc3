package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	CreateRank(ctx context.Context, rank *model.RoleRank) error
	Update(ctx context.Context, role *model.Role) error
	UpsertRank(ctx context.Context, roleID uuid.UUID, rank int) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	// ListOrderedByRank returns roles sorted ascending by rank, then by name.
	ListOrderedByRank(ctx context.Context) ([]model.Role, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)
	FindPermissionsByCodes(ctx context.Context, codes []string) ([]model.Permission, error)
	AppendPermissions(ctx context.Context, roleID uuid.UUID, perms []model.Permission) error
	RemovePermissions(ctx context.Context, roleID uuid.UUID, perms []model.Permission) error
	ClearPermissions(ctx context.Context, roleID uuid.UUID) error
	FirstOrCreatePermission(ctx context.Context, perm *model.Permission) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Create(role).Error
}

func (r *roleRepository) CreateRank(ctx context.Context, rank *model.RoleRank) error {
	return GetDB(ctx, r.db).Create(rank).Error
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Omit("Permissions", "Ranking").Save(role).Error
}

func (r *roleRepository) UpsertRank(ctx context.Context, roleID uuid.UUID, rank int) error {
	db := GetDB(ctx, r.db)
	var existing model.RoleRank
	err := db.First(&existing, "role_id = ?", roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&model.RoleRank{RoleID: roleID, Rank: rank}).Error
	}
	if err != nil {
		return err
	}
	existing.Rank = rank
	return db.Save(&existing).Error
}

func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	// hard delete; the rank row cascades with the role
	if err := db.Where("role_id = ?", id).Delete(&model.RoleRank{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Role{}).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").Preload("Ranking").First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").Preload("Ranking").First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListOrderedByRank(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := GetDB(ctx, r.db).
		Preload("Permissions").
		Preload("Ranking").
		Joins("LEFT JOIN role_ranks ON role_ranks.role_id = roles.id").
		Order("role_ranks.rank asc, roles.name asc").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("\"group\" asc, code asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) FindPermissionsByCodes(ctx context.Context, codes []string) ([]model.Permission, error) {
	var perms []model.Permission
	if len(codes) == 0 {
		return perms, nil
	}
	if err := GetDB(ctx, r.db).Where("code IN ?", codes).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) AppendPermissions(ctx context.Context, roleID uuid.UUID, perms []model.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	db := GetDB(ctx, r.db)
	var role model.Role
	if err := db.First(&role, "id = ?", roleID).Error; err != nil {
		return err
	}
	return db.Model(&role).Association("Permissions").Append(perms)
}

func (r *roleRepository) RemovePermissions(ctx context.Context, roleID uuid.UUID, perms []model.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	db := GetDB(ctx, r.db)
	var role model.Role
	if err := db.First(&role, "id = ?", roleID).Error; err != nil {
		return err
	}
	return db.Model(&role).Association("Permissions").Delete(perms)
}

func (r *roleRepository) ClearPermissions(ctx context.Context, roleID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	var role model.Role
	if err := db.First(&role, "id = ?", roleID).Error; err != nil {
		return err
	}
	return db.Model(&role).Association("Permissions").Clear()
}

func (r *roleRepository) FirstOrCreatePermission(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).Where("code = ?", perm.Code).FirstOrCreate(perm).Error
}
