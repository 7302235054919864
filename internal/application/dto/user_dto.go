package dto

import (
	"time"

	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
)

// RegisterRequest registro de un cliente.
type RegisterRequest struct {
	Run       string `json:"run"`
	Name      string `json:"name"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birthDate"`
	Address   string `json:"address"`
	Region    string `json:"region"`
	Commune   string `json:"commune"`
}

// Form campos para el validador.
func (r RegisterRequest) Form() validation.FormData {
	return validation.FormData{
		"run":       r.Run,
		"name":      r.Name,
		"lastName":  r.LastName,
		"email":     r.Email,
		"password":  r.Password,
		"birthDate": r.BirthDate,
		"address":   r.Address,
	}
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Form() validation.FormData {
	return validation.FormData{"email": r.Email, "password": r.Password}
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Run       string    `json:"run"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	BirthDate string    `json:"birthDate,omitempty"`
	Role      string    `json:"role"`
	Address   string    `json:"address"`
	Region    string    `json:"region,omitempty"`
	Commune   string    `json:"commune,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// LoginResponse token de sesión + usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
	Discount  string       `json:"discount"`
}

// CreateUserRequest alta de usuario desde administración.
type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role"`
}

// UpdateUserRequest cambios parciales (administración).
type UpdateUserRequest struct {
	Run       *string `json:"run"`
	Name      *string `json:"name"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	BirthDate *string `json:"birthDate"`
	Role      *string `json:"role"`
	Address   *string `json:"address"`
	Region    *string `json:"region"`
	Commune   *string `json:"commune"`
	IsActive  *bool   `json:"isActive"`
}
