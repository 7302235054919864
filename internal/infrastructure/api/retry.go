package api

import (
	"context"
	"errors"
	"time"

	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

// RetryPolicy reintentos con backoff exponencial: BaseDelay × 2^intento.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Retryable  func(err error) bool
	Sleep      func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy 3 reintentos desde 1 s, sólo ante errores 5xx.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Retryable:  IsServerError,
		Sleep:      sleepContext,
	}
}

// IsServerError true si err es una respuesta HTTP con status >= 500.
func IsServerError(err error) bool {
	var hErr *domain.HTTPError
	return errors.As(err, &hErr) && hErr.Status >= 500
}

// Delay espera antes del reintento número attempt (desde 0).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

func (p RetryPolicy) shouldRetry(attempt int, err error) bool {
	return attempt < p.MaxRetries && p.Retryable != nil && p.Retryable(err)
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep == nil {
		return sleepContext(ctx, d)
	}
	return p.Sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
