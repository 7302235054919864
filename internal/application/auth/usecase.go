// Package auth inicio de sesión, registro y control de acceso de la tienda.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
	"github.com/PyKydo/LevelUpGamer/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación sobre la sesión del Store.
type AuthUseCase struct {
	store     *state.Store
	users     ports.UserSource
	kv        repository.KVRepository
	notifier  ports.Notifier
	validator *validation.Validator
	limits    validation.Limits
	policy    pricing.Policy
	jwtCfg    JWTConfig
	log       zerolog.Logger
	now       func() time.Time

	mu    sync.RWMutex
	token string
}

// Option configura el caso de uso.
type Option func(*AuthUseCase)

func WithValidator(v *validation.Validator, l validation.Limits) Option {
	return func(uc *AuthUseCase) { uc.validator, uc.limits = v, l }
}

func WithPolicy(p pricing.Policy) Option { return func(uc *AuthUseCase) { uc.policy = p } }

func WithLogger(l zerolog.Logger) Option { return func(uc *AuthUseCase) { uc.log = l } }

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(store *state.Store, users ports.UserSource, kv repository.KVRepository, notifier ports.Notifier, jwtCfg JWTConfig, opts ...Option) *AuthUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	uc := &AuthUseCase{
		store:     store,
		users:     users,
		kv:        kv,
		notifier:  notifier,
		validator: validation.New(),
		limits:    validation.DefaultLimits(),
		policy:    pricing.DefaultPolicy(),
		jwtCfg:    jwtCfg,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Login valida el formulario, verifica credenciales contra los usuarios
// registrados y los de la fuente de datos, y abre la sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if res := uc.validator.ValidateForm(in.Form(), uc.limits.AuthRules()); !res.Valid() {
		return nil, res.Err()
	}
	user, err := uc.authenticate(ctx, in.Email, in.Password)
	if err != nil {
		uc.notifier.Notify("Credenciales inválidas", ports.LevelError)
		return nil, err
	}
	if !user.IsActive {
		uc.notifier.Notify("Tu cuenta está desactivada", ports.LevelError)
		return nil, domain.ErrForbidden
	}
	resp, err := uc.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("inicio de sesión")
	uc.notifier.Notify("Inicio de sesión exitoso", ports.LevelSuccess)
	return resp, nil
}

func (uc *AuthUseCase) authenticate(ctx context.Context, email, password string) (entity.User, error) {
	registered, err := uc.RegisteredUsers(ctx)
	if err != nil {
		return entity.User{}, err
	}
	for _, u := range registered {
		if strings.EqualFold(u.Email, email) {
			if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
				return entity.User{}, domain.ErrInvalidCredentials
			}
			return u, nil
		}
	}
	seed, err := uc.users.Users(ctx)
	if err != nil {
		return entity.User{}, err
	}
	for _, u := range seed {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			return u, nil
		}
	}
	return entity.User{}, domain.ErrInvalidCredentials
}

func (uc *AuthUseCase) openSession(ctx context.Context, user entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	if err := uc.store.Dispatch(state.SetState{Patch: state.StatePatch{User: state.Some(&public)}}); err != nil {
		return nil, err
	}
	if err := repository.SaveJSON(ctx, uc.kv, repository.KeyUser, public); err != nil {
		return nil, err
	}
	uc.mu.Lock()
	uc.token = token
	uc.mu.Unlock()

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      ToUserResponse(public),
		Discount:  uc.policy.Rate(&public).Shift(2).StringFixed(0) + "%",
	}, nil
}

// Register crea un cliente con la contraseña hasheada y abre su sesión.
// Devuelve ErrEmailAlreadyExists si el correo ya está en uso.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if res := uc.validator.ValidateForm(in.Form(), uc.limits.RegisterRules()); !res.Valid() {
		return nil, res.Err()
	}
	exists, err := uc.EmailInUse(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		uc.notifier.Notify("El correo ya está registrado", ports.LevelError)
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := entity.User{
		ID:        helpers.NewID(),
		Run:       in.Run,
		Name:      strings.TrimSpace(in.Name),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Password:  string(hash),
		BirthDate: in.BirthDate,
		Role:      entity.RoleCliente,
		Address:   in.Address,
		Region:    in.Region,
		Commune:   in.Commune,
		IsActive:  true,
		CreatedAt: uc.now(),
	}
	registered, err := uc.RegisteredUsers(ctx)
	if err != nil {
		return nil, err
	}
	if err := repository.SaveJSON(ctx, uc.kv, repository.KeyRegistered, append(registered, user)); err != nil {
		return nil, err
	}
	resp, err := uc.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("email", user.Email).Msg("usuario registrado")
	uc.notifier.Notify("Registro exitoso", ports.LevelSuccess)
	return resp, nil
}

// EmailInUse busca el correo (sin distinguir mayúsculas) en ambas fuentes.
func (uc *AuthUseCase) EmailInUse(ctx context.Context, email string) (bool, error) {
	registered, err := uc.RegisteredUsers(ctx)
	if err != nil {
		return false, err
	}
	seed, err := uc.users.Users(ctx)
	if err != nil {
		return false, err
	}
	for _, list := range [][]entity.User{registered, seed} {
		for _, u := range list {
			if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
				return true, nil
			}
		}
	}
	return false, nil
}

// RegisteredUsers usuarios creados en la tienda (con hash de contraseña).
func (uc *AuthUseCase) RegisteredUsers(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if _, err := repository.LoadJSON(ctx, uc.kv, repository.KeyRegistered, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Logout cierra la sesión en el Store y en el KV.
func (uc *AuthUseCase) Logout(ctx context.Context) error {
	if err := uc.store.Dispatch(state.ClearUser{}); err != nil {
		return err
	}
	uc.mu.Lock()
	uc.token = ""
	uc.mu.Unlock()
	if err := uc.kv.Delete(ctx, repository.KeyUser); err != nil {
		return err
	}
	uc.notifier.Notify("Sesión cerrada", ports.LevelInfo)
	return nil
}

// Restore recupera el usuario guardado de una ejecución anterior.
func (uc *AuthUseCase) Restore(ctx context.Context) (bool, error) {
	var u entity.User
	ok, err := repository.LoadJSON(ctx, uc.kv, repository.KeyUser, &u)
	if err != nil || !ok || u.Email == "" {
		return false, err
	}
	public := u.Public()
	if err := uc.store.Dispatch(state.SetState{Patch: state.StatePatch{User: state.Some(&public)}}); err != nil {
		return false, err
	}
	return true, nil
}

// Current usuario en sesión o nil.
func (uc *AuthUseCase) Current() *entity.User { return uc.store.State().User }

// Token token de la sesión actual ("" sin sesión).
func (uc *AuthUseCase) Token() string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.store.State().User == nil {
		return ""
	}
	return uc.token
}

// RequireAuth exige sesión y, si role no es vacío, ese rol.
func (uc *AuthUseCase) RequireAuth(role string) error {
	u := uc.Current()
	if u == nil {
		uc.notifier.Notify("Debes iniciar sesión para acceder", ports.LevelError)
		return domain.ErrLoginRequired
	}
	if role != "" && u.Role != role {
		uc.notifier.Notify("No tienes permisos para acceder", ports.LevelError)
		return fmt.Errorf("%w: se requiere rol %s", domain.ErrForbidden, role)
	}
	return nil
}

// ToUserResponse salida pública de un usuario.
func ToUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Run:       u.Run,
		Name:      u.Name,
		LastName:  u.LastName,
		Email:     u.Email,
		BirthDate: u.BirthDate,
		Role:      u.Role,
		Address:   u.Address,
		Region:    u.Region,
		Commune:   u.Commune,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
