package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleFixture struct {
	svc   RoleService
	roles *fakeRoleRepo
	users *fakeUserRepo
	audit *fakeAuditRepo
}

func newRoleFixture() *roleFixture {
	f := &roleFixture{
		roles: newFakeRoleRepo(model.PermissionCatalog()...),
		users: newFakeUserRepo(),
		audit: &fakeAuditRepo{},
	}
	f.svc = NewRoleService(f.roles, f.users, f.audit, &fakeTxManager{})
	return f
}

func perm(code string) model.Permission {
	return model.Permission{ID: uuid.New(), Code: code, Name: code, Group: "test"}
}

func TestCanDirectGrant(t *testing.T) {
	f := newRoleFixture()
	user := f.users.add(model.User{
		Permissions: []model.Permission{perm(model.PermViewMembers)},
	})

	ok, err := f.svc.Can(context.Background(), user.ID, model.PermViewMembers)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.Can(context.Background(), user.ID, model.PermDeleteMember)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanRolePermission(t *testing.T) {
	f := newRoleFixture()
	role := model.Role{
		ID:          uuid.New(),
		Name:        "Branch Admin",
		Permissions: []model.Permission{perm(model.PermAddMember)},
		Ranking:     &model.RoleRank{Rank: 3},
	}
	user := f.users.add(model.User{RoleID: &role.ID, Role: &role})

	ok, err := f.svc.Can(context.Background(), user.ID, model.PermAddMember)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.Can(context.Background(), user.ID, model.PermDeleteMember)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanSuperAdminBypassesChecks(t *testing.T) {
	f := newRoleFixture()
	role := model.Role{
		ID:      uuid.New(),
		Name:    model.SuperAdminRoleName,
		Ranking: &model.RoleRank{Rank: 1, IsDefault: true},
	}
	user := f.users.add(model.User{RoleID: &role.ID, Role: &role})

	// no direct grants and an empty role permission set, yet every code passes
	for _, code := range []string{model.PermDeleteMember, model.PermViewAuditLogs, model.PermCreateEvent} {
		ok, err := f.svc.Can(context.Background(), user.ID, code)
		require.NoError(t, err)
		assert.True(t, ok, code)
	}
}

func TestCanSameNameRoleWithoutDefaultFlagIsNotSuperAdmin(t *testing.T) {
	f := newRoleFixture()
	role := model.Role{
		ID:      uuid.New(),
		Name:    model.SuperAdminRoleName,
		Ranking: &model.RoleRank{Rank: 5, IsDefault: false},
	}
	user := f.users.add(model.User{RoleID: &role.ID, Role: &role})

	ok, err := f.svc.Can(context.Background(), user.ID, model.PermDeleteMember)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanUnknownUser(t *testing.T) {
	f := newRoleFixture()
	ok, err := f.svc.Can(context.Background(), uuid.New(), model.PermViewMembers)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.False(t, ok)
}

func TestCreateRole(t *testing.T) {
	f := newRoleFixture()
	rank := 4

	resp, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{
		Name:            "Usher",
		Rank:            &rank,
		PermissionCodes: []string{model.PermViewMembers, model.PermAddMember},
	})
	require.NoError(t, err)
	assert.Equal(t, "Usher", resp.Name)
	assert.Equal(t, 4, resp.Rank)
	assert.False(t, resp.IsDefault)
	assert.Len(t, resp.Permissions, 2)
	assert.Contains(t, f.audit.actions(), model.ActionCreateRole)
}

func TestCreateRoleValidation(t *testing.T) {
	f := newRoleFixture()
	rank := 4

	_, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Rank: &rank})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing name")

	_, err = f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Name: "Usher"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing rank")

	_, err = f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{
		Name: "Usher", Rank: &rank, PermissionCodes: []string{"not_a_real_code"},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "unknown permission code")
}

func TestCreateRoleDuplicateName(t *testing.T) {
	f := newRoleFixture()
	rank := 4

	_, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Name: "Usher", Rank: &rank})
	require.NoError(t, err)

	_, err = f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Name: "Usher", Rank: &rank})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "duplicate role name")

	other, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Name: "Elder", Rank: &rank})
	require.NoError(t, err)

	// renaming onto a taken name is rejected the same way
	taken := "Usher"
	_, err = f.svc.UpdateRole(context.Background(), nil, other.ID, UpdateRoleRequest{Name: &taken})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "rename onto existing name")
}

func TestUpdateRoleReplacesPermissionSet(t *testing.T) {
	f := newRoleFixture()
	rank := 4
	created, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{
		Name:            "Usher",
		Rank:            &rank,
		PermissionCodes: []string{model.PermViewMembers, model.PermAddMember},
	})
	require.NoError(t, err)

	// PermViewMembers survives, PermAddMember goes, PermDeleteMember arrives
	codes := []string{model.PermViewMembers, model.PermDeleteMember}
	updated, err := f.svc.UpdateRole(context.Background(), nil, created.ID, UpdateRoleRequest{
		PermissionCodes: &codes,
	})
	require.NoError(t, err)

	got := map[string]bool{}
	for _, p := range updated.Permissions {
		got[p.Code] = true
	}
	assert.Equal(t, map[string]bool{
		model.PermViewMembers:  true,
		model.PermDeleteMember: true,
	}, got)
}

func TestUpdateRoleRankOnly(t *testing.T) {
	f := newRoleFixture()
	rank := 4
	created, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Name: "Usher", Rank: &rank})
	require.NoError(t, err)

	newRank := 2
	updated, err := f.svc.UpdateRole(context.Background(), nil, created.ID, UpdateRoleRequest{Rank: &newRank})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rank)
	assert.Equal(t, "Usher", updated.Name)
}

func TestDeleteRoleGuards(t *testing.T) {
	f := newRoleFixture()
	require.NoError(t, f.svc.SeedDefaults(context.Background()))

	super, err := f.roles.FindByName(context.Background(), model.SuperAdminRoleName)
	require.NoError(t, err)

	err = f.svc.DeleteRole(context.Background(), nil, super.ID.String())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "default role is protected")

	rank := 4
	created, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Name: "Usher", Rank: &rank})
	require.NoError(t, err)
	roleID := uuid.MustParse(created.ID)

	f.users.roleCounts[roleID] = 2
	err = f.svc.DeleteRole(context.Background(), nil, created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "assigned users block deletion")

	f.users.roleCounts[roleID] = 0
	require.NoError(t, f.svc.DeleteRole(context.Background(), nil, created.ID))

	_, err = f.svc.GetRole(context.Background(), created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListRolesOrderedByRank(t *testing.T) {
	f := newRoleFixture()
	for name, rank := range map[string]int{"Usher": 5, "Pastor": 2, "Elder": 3} {
		r := rank
		_, err := f.svc.CreateRole(context.Background(), nil, CreateRoleRequest{Name: name, Rank: &r})
		require.NoError(t, err)
	}

	roles, err := f.svc.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, []string{"Pastor", "Elder", "Usher"}, []string{roles[0].Name, roles[1].Name, roles[2].Name})
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	f := newRoleFixture()
	require.NoError(t, f.svc.SeedDefaults(context.Background()))
	require.NoError(t, f.svc.SeedDefaults(context.Background()))

	roles, err := f.svc.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, model.SuperAdminRoleName, roles[0].Name)
	assert.Equal(t, 1, roles[0].Rank)
	assert.True(t, roles[0].IsDefault)

	perms, err := f.svc.ListPermissions(context.Background())
	require.NoError(t, err)
	assert.Len(t, perms, len(model.PermissionCatalog()))
}
