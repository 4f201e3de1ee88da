package service

import (
	"strconv"
	"testing"

	"cmenu/internal/database/databasetest"
	"cmenu/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, e *env, req NewUser) *model.User {
	t.Helper()
	user, err := e.userSvc.CreateUser(t.Context(), req)
	require.NoError(t, err)
	return user
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)

	user := createUser(t, e, NewUser{Username: " ann ", Email: "ann@example.com", Password: "secret", Permissions: "Edit_Menu"})
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ann", user.Username)
	assert.True(t, user.Active)
	assert.False(t, user.IsSuperuser)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.False(t, user.JoinedAt.IsZero())

	tests := []struct {
		name string
		req  NewUser
		want error
	}{
		{name: "duplicate username", req: NewUser{Username: "ann", Email: "other@example.com", Password: "x"}, want: ErrUserExists},
		{name: "duplicate email", req: NewUser{Username: "bob", Email: "ann@example.com", Password: "x"}, want: ErrUserExists},
		{name: "missing password", req: NewUser{Username: "bob", Email: "bob@example.com"}, want: ErrInvalidUser},
		{name: "missing username", req: NewUser{Email: "bob@example.com", Password: "x"}, want: ErrInvalidUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.userSvc.CreateUser(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)
	user := createUser(t, e, NewUser{Username: "ann", Email: "ann@example.com", Password: "secret"})
	assert.Nil(t, user.LastLogin)

	_, err := e.userSvc.Authenticate(ctx, "ann", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.userSvc.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := e.userSvc.Authenticate(ctx, "ann", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	stored, err := e.userSvc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)

	require.NoError(t, e.db.Model(stored).Update("Active", false).Error)
	_, err = e.userSvc.Authenticate(ctx, "ann", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Login(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)
	user := createUser(t, e, NewUser{Username: "ann", Email: "ann@example.com", Password: "secret"})

	resp, err := e.userSvc.Login(ctx, LoginUserRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) { return testSecret, nil })
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims.Subject)

	_, err = e.userSvc.Login(ctx, LoginUserRequest{Username: "ann", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_SetPassword(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)
	user := createUser(t, e, NewUser{Username: "ann", Email: "ann@example.com", Password: "old"})

	require.NoError(t, e.userSvc.SetPassword(ctx, user.ID, "new"))
	_, err := e.userSvc.Authenticate(ctx, "ann", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.userSvc.Authenticate(ctx, "ann", "new")
	assert.NoError(t, err)

	assert.ErrorIs(t, e.userSvc.SetPassword(ctx, user.ID, ""), ErrInvalidUser)
	assert.ErrorIs(t, e.userSvc.SetPassword(ctx, 9999, "x"), ErrUserNotFound)
}

func TestUserService_HasPermission(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)
	editor := createUser(t, e, NewUser{Username: "ann", Email: "ann@example.com", Password: "pw", Permissions: "Edit_Menu,VIEW"})
	admin := createUser(t, e, NewUser{Username: "root", Email: "root@example.com", Password: "pw", IsSuperuser: true})

	ok, err := e.userSvc.HasPermission(ctx, editor.ID, "edit_menu")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.userSvc.HasPermission(ctx, editor.ID, "delete")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.userSvc.HasPermission(ctx, admin.ID, "anything")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, e.db.Model(editor).Update("Active", false).Error)
	ok, err = e.userSvc.HasPermission(ctx, editor.ID, "edit_menu")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.userSvc.HasPermission(ctx, 9999, "view")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTrimmedTables_ReportCanonicalDefaults(t *testing.T) {
	ctx := t.Context()
	e := setupEnv(t, databasetest.Trimmed(t), DefaultSeed)
	_, err := e.boot.EnsureReady(ctx)
	require.NoError(t, err)

	user := createUser(t, e, NewUser{Username: "ann", Email: "ann@example.com", Password: "pw", Permissions: "edit_menu"})

	got, err := e.userSvc.Authenticate(ctx, "ann", "pw")
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.False(t, got.IsSuperuser)

	ok, err := e.userSvc.HasPermission(ctx, user.ID, "edit_menu")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.paramSvc.Set(ctx, "Theme", "dark", WithUserModifiable(false), WithComments("ignored"))
	require.NoError(t, err)
	params, err := e.paramSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "dark", params[0].Value)
	assert.True(t, params[0].UserModifiable)
	assert.Empty(t, params[0].Comments)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)

	created, err := e.userSvc.EnsureAdmin(ctx, NewUser{Username: "root", Email: "root@example.com", Password: "changeme"})
	require.NoError(t, err)
	assert.True(t, created)

	got, err := e.userSvc.Authenticate(ctx, "root", "changeme")
	require.NoError(t, err)
	assert.True(t, got.IsSuperuser)
	ok, err := e.userSvc.HasPermission(ctx, got.ID, "manage_users")
	require.NoError(t, err)
	assert.True(t, ok)

	created, err = e.userSvc.EnsureAdmin(ctx, NewUser{Username: "other", Email: "other@example.com", Password: "x"})
	require.NoError(t, err)
	assert.False(t, created, "only an empty user table gets a superuser")
	_, err = e.userSvc.Authenticate(ctx, "other", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = setupReady(t).userSvc.EnsureAdmin(ctx, NewUser{Username: "root"})
	assert.ErrorIs(t, err, ErrInvalidUser)
}
