package validation

import (
	"fmt"
	"strings"
)

// Limits parámetros con que se arman los conjuntos de reglas de la tienda.
type Limits struct {
	EmailDomains   []string
	PasswordMin    int
	PasswordMax    int
	MinAge         int
	NameMax        int
	LastNameMax    int
	EmailMax       int
	AddressMax     int
	CommentMax     int
	ContactNameMax int
	ProductNameMax int
	DescriptionMax int
}

// DefaultLimits valores por defecto de la tienda.
func DefaultLimits() Limits {
	return Limits{
		EmailDomains:   DefaultEmailDomains,
		PasswordMin:    DefaultPasswordMin,
		PasswordMax:    DefaultPasswordMax,
		MinAge:         DefaultMinAge,
		NameMax:        50,
		LastNameMax:    100,
		EmailMax:       100,
		AddressMax:     300,
		CommentMax:     500,
		ContactNameMax: 100,
		ProductNameMax: 100,
		DescriptionMax: 500,
	}
}

// domainsMessage "Solo se permiten correos de @a, @b o @c".
func domainsMessage(domains []string) string {
	switch len(domains) {
	case 0:
		return "El dominio del correo no está permitido"
	case 1:
		return "Solo se permiten correos de " + domains[0]
	}
	return "Solo se permiten correos de " + strings.Join(domains[:len(domains)-1], ", ") + " o " + domains[len(domains)-1]
}

func (l Limits) emailRules(required bool) []Rule {
	var rules []Rule
	if required {
		rules = append(rules, Required("El correo es requerido"))
	}
	return append(rules,
		Email("El formato del correo no es válido"),
		EmailDomain(domainsMessage(l.EmailDomains), l.EmailDomains...),
		MaxLength(fmt.Sprintf("El correo no puede exceder %d caracteres", l.EmailMax), l.EmailMax),
	)
}

// UserRules datos de perfil de usuario (registro y administración).
func (l Limits) UserRules() RuleSet {
	return RuleSet{
		"run": {
			Required("El RUN es requerido"),
			Run("El RUN no es válido"),
		},
		"name": {
			Required("El nombre es requerido"),
			MaxLength(fmt.Sprintf("El nombre no puede exceder %d caracteres", l.NameMax), l.NameMax),
		},
		"lastName": {
			Required("Los apellidos son requeridos"),
			MaxLength(fmt.Sprintf("Los apellidos no pueden exceder %d caracteres", l.LastNameMax), l.LastNameMax),
		},
		"email":     l.emailRules(true),
		"birthDate": {Age(fmt.Sprintf("Debes ser mayor de %d años", l.MinAge), l.MinAge)},
		"address": {
			Required("La dirección es requerida"),
			MaxLength(fmt.Sprintf("La dirección no puede exceder %d caracteres", l.AddressMax), l.AddressMax),
		},
	}
}

// AuthRules inicio de sesión.
func (l Limits) AuthRules() RuleSet {
	return RuleSet{
		"email": l.emailRules(true),
		"password": {
			Required("La contraseña es requerida"),
			Password(fmt.Sprintf("La contraseña debe tener entre %d y %d caracteres", l.PasswordMin, l.PasswordMax),
				l.PasswordMin, l.PasswordMax),
		},
	}
}

// RegisterRules registro: perfil más contraseña.
func (l Limits) RegisterRules() RuleSet {
	rs := l.UserRules()
	rs["password"] = l.AuthRules()["password"]
	return rs
}

// ContactRules formulario de contacto; el correo es opcional en forma pero se valida.
func (l Limits) ContactRules() RuleSet {
	return RuleSet{
		"name": {
			Required("El nombre es requerido"),
			MaxLength(fmt.Sprintf("El nombre no puede exceder %d caracteres", l.ContactNameMax), l.ContactNameMax),
		},
		"email": l.emailRules(false),
		"comment": {
			Required("El comentario es requerido"),
			MaxLength(fmt.Sprintf("El comentario no puede exceder %d caracteres", l.CommentMax), l.CommentMax),
		},
	}
}

// ProductRules alta y edición de productos.
func (l Limits) ProductRules() RuleSet {
	return RuleSet{
		"name": {
			Required("El nombre del producto es requerido"),
			MaxLength(fmt.Sprintf("El nombre no puede exceder %d caracteres", l.ProductNameMax), l.ProductNameMax),
		},
		"description": {
			MaxLength(fmt.Sprintf("La descripción no puede exceder %d caracteres", l.DescriptionMax), l.DescriptionMax),
		},
		"price": {
			Required("El precio es requerido"),
			Number("El precio debe ser un número válido"),
			Min("El precio debe ser mayor o igual a 0", 0),
		},
		"stock": {
			Required("El stock es requerido"),
			Integer("El stock debe ser un número entero"),
			Min("El stock debe ser mayor o igual a 0", 0),
		},
		"criticalStock": {
			Integer("El stock crítico debe ser un número entero"),
			Min("El stock crítico debe ser mayor o igual a 0", 0),
		},
		"category": {Required("La categoría es requerida")},
	}
}

// CartItemRules línea de carrito.
func CartItemRules() RuleSet {
	return RuleSet{
		"productId": {Required("ID del producto es requerido")},
		"quantity": {
			Required("Cantidad es requerida"),
			Min("Cantidad debe ser mayor a 0", 1),
			Integer("Cantidad debe ser un número entero"),
		},
	}
}

// Forms conjuntos de reglas por nombre de formulario.
func (l Limits) Forms() map[string]RuleSet {
	return map[string]RuleSet{
		"user":     l.UserRules(),
		"auth":     l.AuthRules(),
		"register": l.RegisterRules(),
		"contact":  l.ContactRules(),
		"product":  l.ProductRules(),
		"cartItem": CartItemRules(),
	}
}
