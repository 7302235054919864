package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleCliente       = "Cliente"
	RoleVendedor      = "Vendedor"
	RoleAdministrador = "Administrador"
)

// User usuario de la tienda. Password viene en texto plano en los datos
// semilla; los usuarios registrados guardan un hash bcrypt.
type User struct {
	ID        string    `json:"id"`
	Run       string    `json:"run,omitempty"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	BirthDate string    `json:"birthDate,omitempty"`
	Role      string    `json:"role"`
	Address   string    `json:"address,omitempty"`
	Region    string    `json:"region,omitempty"`
	Commune   string    `json:"commune,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// FullName nombre y apellido.
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}

func (u User) IsAdmin() bool { return u.Role == RoleAdministrador }

// Public copia sin credenciales, apta para responder o guardar en sesión.
func (u User) Public() User {
	u.Password = ""
	return u
}

// ValidRole indica si el rol pertenece al conjunto permitido.
func ValidRole(role string) bool {
	switch role {
	case RoleCliente, RoleVendedor, RoleAdministrador:
		return true
	}
	return false
}

type userAlias User

// UnmarshalJSON isActive ausente equivale a true (datos semilla).
func (u *User) UnmarshalJSON(data []byte) error {
	aux := struct {
		*userAlias
		IsActive *bool `json:"isActive"`
	}{userAlias: (*userAlias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.IsActive = aux.IsActive == nil || *aux.IsActive
	return nil
}
