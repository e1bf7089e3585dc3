package service

import (
	"context"
	"strings"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userFixture struct {
	svc   UserService
	users *fakeUserRepo
	roles *fakeRoleRepo
	audit *fakeAuditRepo
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users: newFakeUserRepo(),
		roles: newFakeRoleRepo(model.PermissionCatalog()...),
		audit: &fakeAuditRepo{},
	}
	f.svc = NewUserService(f.users, f.roles, f.audit, &fakeTxManager{})
	return f
}

func createUserReq() CreateUserRequest {
	return CreateUserRequest{
		Username:    "kasante",
		FirstName:   "Kofi",
		LastName:    "Asante",
		Gender:      model.GenderMale,
		Email:       "kofi@example.com",
		PhoneNumber: "+233200000010",
		Password:    "s3cret-pass",
	}
}

func TestCreateUserHashesPasswordAndGrants(t *testing.T) {
	f := newUserFixture()
	req := createUserReq()
	req.PermissionCodes = []string{model.PermViewMembers}

	resp, err := f.svc.Create(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, "Kofi Asante", resp.FullName)
	require.Len(t, resp.Permissions, 1)
	assert.Equal(t, model.PermViewMembers, resp.Permissions[0].Code)

	stored, err := f.users.GetByEmail(context.Background(), "kofi@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
	require.NotNil(t, stored.VerificationCode)
	assert.GreaterOrEqual(t, *stored.VerificationCode, 100000)

	assert.Contains(t, f.audit.actions(), model.ActionCreateAdmin)
}

func TestCreateUserDuplicateChecks(t *testing.T) {
	f := newUserFixture()
	_, err := f.svc.Create(context.Background(), nil, createUserReq())
	require.NoError(t, err)

	dup := createUserReq()
	dup.Email = "other@example.com"
	_, err = f.svc.Create(context.Background(), nil, dup)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "duplicate phone")

	dup = createUserReq()
	dup.PhoneNumber = "+233200000011"
	_, err = f.svc.Create(context.Background(), nil, dup)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "duplicate email")
}

func TestCreateUserRejectsUnknownRoleAndPermission(t *testing.T) {
	f := newUserFixture()

	roleID := uuid.New().String()
	req := createUserReq()
	req.RoleID = &roleID
	_, err := f.svc.Create(context.Background(), nil, req)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "missing role")

	req = createUserReq()
	req.PermissionCodes = []string{"made_up_code"}
	_, err = f.svc.Create(context.Background(), nil, req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "unknown permission code")
}

func TestUpdateUserReplacesRoleAndPermissions(t *testing.T) {
	f := newUserFixture()
	created, err := f.svc.Create(context.Background(), nil, createUserReq())
	require.NoError(t, err)

	role := model.Role{Name: "Branch Admin"}
	require.NoError(t, f.roles.Create(context.Background(), &role))
	roleID := role.ID.String()

	codes := []string{model.PermViewMembers, model.PermAddMember}
	updated, err := f.svc.Update(context.Background(), nil, created.ID, UpdateUserRequest{
		RoleID:          &roleID,
		PermissionCodes: &codes,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Permissions, 2)

	stored, err := f.users.GetByID(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)
	require.NotNil(t, stored.RoleID)
	assert.Equal(t, role.ID, *stored.RoleID)

	// an empty list revokes everything
	none := []string{}
	updated, err = f.svc.Update(context.Background(), nil, created.ID, UpdateUserRequest{PermissionCodes: &none})
	require.NoError(t, err)
	assert.Empty(t, updated.Permissions)
}

func TestDeleteUserRedactsPII(t *testing.T) {
	f := newUserFixture()
	created, err := f.svc.Create(context.Background(), nil, createUserReq())
	require.NoError(t, err)
	userID := uuid.MustParse(created.ID)

	require.NoError(t, f.svc.Delete(context.Background(), nil, created.ID))

	stored, err := f.users.GetByID(context.Background(), userID)
	require.NoError(t, err, "fake keeps the row so redaction is observable")
	assert.True(t, strings.HasPrefix(stored.Username, "deleted_"))
	assert.NotContains(t, stored.Email, "kofi@example.com")
	assert.NotEqual(t, "+233200000010", stored.PhoneNumber)
	assert.Nil(t, stored.RoleID)
	assert.Empty(t, stored.Permissions)
	assert.Contains(t, f.users.softDeleted, userID)
	assert.Contains(t, f.audit.actions(), model.ActionDeleteAdmin)
}

func TestDeleteUserSelfDeleteForbidden(t *testing.T) {
	f := newUserFixture()
	created, err := f.svc.Create(context.Background(), nil, createUserReq())
	require.NoError(t, err)
	userID := uuid.MustParse(created.ID)

	err = f.svc.Delete(context.Background(), &userID, created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}
