package admin

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
	"github.com/PyKydo/LevelUpGamer/pkg/run"
)

var errInvalidRole = domain.NewValidationError(map[string][]string{
	"role": {"El rol debe ser Cliente, Vendedor o Administrador"},
})

// User usuario de la copia de trabajo por id.
func (uc *AdminUseCase) User(ctx context.Context, id string) (entity.User, error) {
	users, err := uc.Users(ctx)
	if err != nil {
		return entity.User{}, err
	}
	i := slices.IndexFunc(users, func(u entity.User) bool { return u.ID == id })
	if i < 0 {
		return entity.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return users[i], nil
}

// CreateUser valida y agrega un usuario; sin rol queda como Cliente.
func (uc *AdminUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (entity.User, error) {
	if err := uc.cfg.Validator.ValidateForm(in.Form(), uc.cfg.Limits.RegisterRules()).Err(); err != nil {
		return entity.User{}, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.RoleCliente
	}
	if !entity.ValidRole(role) {
		return entity.User{}, errInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := entity.User{
		ID:        helpers.NewID(),
		Run:       run.Format(in.Run),
		Name:      strings.TrimSpace(in.Name),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Password:  string(hash),
		BirthDate: in.BirthDate,
		Role:      role,
		Address:   strings.TrimSpace(in.Address),
		Region:    in.Region,
		Commune:   in.Commune,
		IsActive:  true,
		CreatedAt: uc.now(),
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	users, err := uc.Users(ctx)
	if err != nil {
		return entity.User{}, err
	}
	if emailTaken(users, u.Email, "") {
		return entity.User{}, domain.ErrEmailAlreadyExists
	}
	if err := uc.saveUsers(ctx, append(users, u)); err != nil {
		return entity.User{}, err
	}
	uc.cfg.Logger.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("usuario creado")
	uc.notifier.Notify(fmt.Sprintf("Usuario %s creado", u.FullName()), ports.LevelSuccess)
	return u, nil
}

// UpdateUser aplica cambios parciales y valida el perfil resultante.
func (uc *AdminUseCase) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (entity.User, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	users, err := uc.Users(ctx)
	if err != nil {
		return entity.User{}, err
	}
	i := slices.IndexFunc(users, func(u entity.User) bool { return u.ID == id })
	if i < 0 {
		return entity.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	u := users[i]
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Run, in.Run)
	set(&u.Name, in.Name)
	set(&u.LastName, in.LastName)
	set(&u.Email, in.Email)
	set(&u.BirthDate, in.BirthDate)
	set(&u.Role, in.Role)
	set(&u.Address, in.Address)
	set(&u.Region, in.Region)
	set(&u.Commune, in.Commune)
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	rules := uc.cfg.Limits.UserRules()
	form := userForm(u)
	if in.Password != nil {
		rules["password"] = uc.cfg.Limits.AuthRules()["password"]
		form["password"] = *in.Password
	}
	if err := uc.cfg.Validator.ValidateForm(form, rules).Err(); err != nil {
		return entity.User{}, err
	}
	if !entity.ValidRole(u.Role) {
		return entity.User{}, errInvalidRole
	}
	if emailTaken(users, u.Email, u.ID) {
		return entity.User{}, domain.ErrEmailAlreadyExists
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return entity.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.Password = string(hash)
	}
	u.Run = run.Format(u.Run)
	users[i] = u
	if err := uc.saveUsers(ctx, users); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

// DeleteUser quita el usuario de la copia. El último administrador no se
// puede eliminar.
func (uc *AdminUseCase) DeleteUser(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	users, err := uc.Users(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(users, func(u entity.User) bool { return u.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	if users[i].IsAdmin() {
		admins := 0
		for _, u := range users {
			if u.IsAdmin() {
				admins++
			}
		}
		if admins == 1 {
			return fmt.Errorf("%w: no se puede eliminar el último administrador", domain.ErrForbidden)
		}
	}
	if err := uc.saveUsers(ctx, slices.Delete(users, i, i+1)); err != nil {
		return err
	}
	uc.cfg.Logger.Info().Str("user_id", id).Msg("usuario eliminado")
	return nil
}

func emailTaken(users []entity.User, email, exceptID string) bool {
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func userForm(u entity.User) validation.FormData {
	return validation.FormData{
		"run":       u.Run,
		"name":      u.Name,
		"lastName":  u.LastName,
		"email":     u.Email,
		"birthDate": u.BirthDate,
		"address":   u.Address,
	}
}
