package dto

import "github.com/PyKydo/LevelUpGamer/internal/domain/validation"

// ContactRequest formulario de contacto.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

func (r ContactRequest) Form() validation.FormData {
	return validation.FormData{"name": r.Name, "email": r.Email, "comment": r.Comment}
}
