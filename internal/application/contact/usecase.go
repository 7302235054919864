// Package contact formulario de contacto: valida y guarda los mensajes.
package contact

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
)

// Estados de un mensaje.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

type ContactUseCase struct {
	kv        repository.KVRepository
	notifier  ports.Notifier
	validator *validation.Validator
	rules     validation.RuleSet
	now       func() time.Time
}

func NewContactUseCase(kv repository.KVRepository, notifier ports.Notifier, v *validation.Validator, limits validation.Limits) *ContactUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if v == nil {
		v = validation.New()
	}
	return &ContactUseCase{kv: kv, notifier: notifier, validator: v, rules: limits.ContactRules(), now: time.Now}
}

// Send valida y guarda el mensaje como no leído.
func (uc *ContactUseCase) Send(ctx context.Context, in dto.ContactRequest) (entity.ContactMessage, error) {
	if res := uc.validator.ValidateForm(in.Form(), uc.rules); !res.Valid() {
		return entity.ContactMessage{}, res.Err()
	}
	msg := entity.ContactMessage{
		ID:        helpers.NewID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Comment:   strings.TrimSpace(in.Comment),
		Status:    StatusUnread,
		CreatedAt: uc.now(),
	}
	msgs, err := uc.List(ctx)
	if err != nil {
		uc.notifier.Notify("Error al enviar mensaje", ports.LevelError)
		return entity.ContactMessage{}, err
	}
	if err := repository.SaveJSON(ctx, uc.kv, repository.KeyMessages, append(msgs, msg)); err != nil {
		uc.notifier.Notify("Error al enviar mensaje", ports.LevelError)
		return entity.ContactMessage{}, err
	}
	uc.notifier.Notify("Mensaje enviado correctamente", ports.LevelSuccess)
	return msg, nil
}

// List mensajes en orden de llegada.
func (uc *ContactUseCase) List(ctx context.Context) ([]entity.ContactMessage, error) {
	var msgs []entity.ContactMessage
	if _, err := repository.LoadJSON(ctx, uc.kv, repository.KeyMessages, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead cambia el estado del mensaje a leído.
func (uc *ContactUseCase) MarkRead(ctx context.Context, id string) error {
	msgs, err := uc.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(msgs, func(m entity.ContactMessage) bool { return m.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: mensaje %s", domain.ErrNotFound, id)
	}
	msgs[i].Status = StatusRead
	return repository.SaveJSON(ctx, uc.kv, repository.KeyMessages, msgs)
}
