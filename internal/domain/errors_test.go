package domain_test

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"nil", nil, domain.KindUnknown},
		{"validación", domain.NewValidationError(map[string][]string{"email": {"x"}}), domain.KindValidation},
		{"input envuelto", fmt.Errorf("crear: %w", domain.ErrInvalidInput), domain.KindValidation},
		{"red", &domain.HTTPError{Status: 0, Err: errors.New("dial")}, domain.KindNetwork},
		{"401", &domain.HTTPError{Status: 401}, domain.KindAuth},
		{"403", &domain.HTTPError{Status: 403}, domain.KindPermission},
		{"404", &domain.HTTPError{Status: 404}, domain.KindNotFound},
		{"503", &domain.HTTPError{Status: 503}, domain.KindServer},
		{"418", &domain.HTTPError{Status: 418}, domain.KindUnknown},
		{"login", domain.ErrLoginRequired, domain.KindAuth},
		{"credenciales", domain.ErrInvalidCredentials, domain.KindAuth},
		{"prohibido", domain.ErrForbidden, domain.KindPermission},
		{"producto", fmt.Errorf("x: %w", domain.ErrProductNotFound), domain.KindNotFound},
		{"net.Error", &net.OpError{Op: "dial", Err: errors.New("refused")}, domain.KindNetwork},
		{"otro", errors.New("boom"), domain.KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.Classify(tc.err))
		})
	}
}

func TestValidationError_MensajesOrdenados(t *testing.T) {
	err := domain.NewValidationError(map[string][]string{
		"password": {"muy corta"},
		"email":    {"requerido", "formato"},
	})
	assert.Equal(t, []string{"requerido", "formato", "muy corta"}, err.Messages())
	assert.Equal(t, "validación fallida: email: requerido; formato, password: muy corta", err.Error())
}

func TestHTTPError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := fmt.Errorf("get: %w", &domain.HTTPError{Method: "GET", Endpoint: "/data/products.json", Attempts: 4, Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "4 intento(s)")
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, domain.UserMessage(domain.KindAuth), "inicia sesión")
	assert.Equal(t, domain.UserMessage(domain.KindUnknown), domain.UserMessage("otro"))
}
