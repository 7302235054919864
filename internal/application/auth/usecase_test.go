package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/storage"
	"github.com/PyKydo/LevelUpGamer/pkg/jwt"
)

type seedUsers []entity.User

func (s seedUsers) Users(context.Context) ([]entity.User, error) { return s, nil }

var seed = seedUsers{
	{ID: "1", Email: "admin@duoc.cl", Password: "admin123", Name: "Administrador", LastName: "Sistema", Role: entity.RoleAdministrador, IsActive: true},
	{ID: "2", Email: "cliente@gmail.com", Password: "cliente123", Name: "Juan", LastName: "Pérez", Role: entity.RoleCliente, IsActive: true},
	{ID: "3", Email: "baja@gmail.com", Password: "baja1234", Name: "Baja", Role: entity.RoleCliente, IsActive: false},
}

var testJWT = JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "levelup-test"}

func newAuth(t *testing.T) (*AuthUseCase, *state.Store, *storage.Memory) {
	t.Helper()
	store := state.New()
	kv := storage.NewMemory()
	return NewAuthUseCase(store, seed, kv, nil, testJWT), store, kv
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Run:       "11111111-1",
		Name:      "Ana",
		LastName:  "Rojas",
		Email:     "ana@gmail.com",
		Password:  "clave12",
		BirthDate: "1995-05-15",
		Address:   "Av. Siempre Viva 123",
	}
}

func TestLogin_SeedAdmin(t *testing.T) {
	uc, store, kv := newAuth(t)
	ctx := context.Background()

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@duoc.cl", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdministrador, resp.User.Role)
	assert.Equal(t, "30%", resp.Discount)

	id, email, role, err := jwt.Parse(testJWT.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, "admin@duoc.cl", email)
	assert.Equal(t, entity.RoleAdministrador, role)

	require.NotNil(t, store.State().User)
	assert.Empty(t, store.State().User.Password, "la sesión no guarda la contraseña")
	assert.Equal(t, resp.Token, uc.Token())

	var saved entity.User
	ok, err := repository.LoadJSON(ctx, kv, repository.KeyUser, &saved)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "admin@duoc.cl", saved.Email)
}

func TestLogin_Fallos(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@duoc.cl", Password: "otra1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@gmail.com", Password: "1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "baja@gmail.com", Password: "baja1234"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "x@hotmail.com", Password: "1"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "email")
	assert.Contains(t, vErr.Fields, "password")

	assert.Nil(t, store.State().User)
}

func TestRegister(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()

	resp, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCliente, resp.User.Role)
	assert.Equal(t, "10%", resp.Discount)
	require.NotNil(t, store.State().User)
	assert.Equal(t, "ana@gmail.com", store.State().User.Email)

	registered, err := uc.RegisteredUsers(ctx)
	require.NoError(t, err)
	require.Len(t, registered, 1)
	assert.NotEqual(t, "clave12", registered[0].Password)

	require.NoError(t, uc.Logout(ctx))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ANA@gmail.com", Password: "clave12"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, validRegister())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	dup := validRegister()
	dup.Email = "cliente@gmail.com"
	_, err = uc.Register(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validacion(t *testing.T) {
	uc, _, _ := newAuth(t)
	in := validRegister()
	in.Run = "11111111-2"
	in.BirthDate = "2020-01-01"
	in.Email = "ana@yahoo.com"

	_, err := uc.Register(context.Background(), in)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "run")
	assert.Contains(t, vErr.Fields, "birthDate")
	assert.Contains(t, vErr.Fields, "email")
}

func TestLogoutRestoreRequireAuth(t *testing.T) {
	uc, store, kv := newAuth(t)
	ctx := context.Background()

	assert.ErrorIs(t, uc.RequireAuth(""), domain.ErrLoginRequired)

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "cliente@gmail.com", Password: "cliente123"})
	require.NoError(t, err)
	assert.NoError(t, uc.RequireAuth(""))
	assert.NoError(t, uc.RequireAuth(entity.RoleCliente))
	assert.ErrorIs(t, uc.RequireAuth(entity.RoleAdministrador), domain.ErrForbidden)

	// otra instancia sobre el mismo KV recupera la sesión
	other := NewAuthUseCase(state.New(), seed, kv, nil, testJWT)
	ok, err := other.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cliente@gmail.com", other.Current().Email)

	require.NoError(t, uc.Logout(ctx))
	assert.Nil(t, store.State().User)
	assert.Empty(t, uc.Token())
	_, found, err := kv.Get(ctx, repository.KeyUser)
	require.NoError(t, err)
	assert.False(t, found)
}
