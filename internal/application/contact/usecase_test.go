package contact

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/storage"
)

func TestSendYMarkRead(t *testing.T) {
	uc := NewContactUseCase(storage.NewMemory(), nil, nil, validation.DefaultLimits())
	ctx := context.Background()

	msg, err := uc.Send(ctx, dto.ContactRequest{Name: " Ana ", Email: "ana@gmail.com", Comment: "Hola"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", msg.Name)
	assert.Equal(t, StatusUnread, msg.Status)

	_, err = uc.Send(ctx, dto.ContactRequest{Name: "Bruno", Email: "bruno@duoc.cl", Comment: "Consulta"})
	require.NoError(t, err)

	msgs, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	require.NoError(t, uc.MarkRead(ctx, msg.ID))
	msgs, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusRead, msgs[0].Status)
	assert.Equal(t, StatusUnread, msgs[1].Status)

	assert.ErrorIs(t, uc.MarkRead(ctx, "nope"), domain.ErrNotFound)
}

func TestSend_Validacion(t *testing.T) {
	uc := NewContactUseCase(storage.NewMemory(), nil, nil, validation.DefaultLimits())

	_, err := uc.Send(context.Background(), dto.ContactRequest{
		Email:   "ana@hotmail.com",
		Comment: strings.Repeat("x", 501),
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "name")
	assert.Contains(t, vErr.Fields, "email")
	assert.Contains(t, vErr.Fields, "comment")
}
