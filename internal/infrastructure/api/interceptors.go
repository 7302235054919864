package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

// AuthHeader agrega Authorization y X-User-ID cuando hay un usuario en sesión.
func AuthHeader(store *state.Store, token func() string) RequestInterceptor {
	return func(_ context.Context, cfg RequestConfig) (RequestConfig, error) {
		u := store.State().User
		if u == nil {
			return cfg, nil
		}
		tok := ""
		if token != nil {
			tok = token()
		}
		if tok == "" {
			tok = "anonymous"
		}
		cfg.Header.Set("Authorization", "Bearer "+tok)
		cfg.Header.Set("X-User-ID", u.ID)
		return cfg, nil
	}
}

// RequestLogger registra cada petición saliente sin el token.
func RequestLogger(log zerolog.Logger) RequestInterceptor {
	return func(_ context.Context, cfg RequestConfig) (RequestConfig, error) {
		log.Debug().
			Uint64("request_id", cfg.RequestID).
			Str("method", cfg.Method).
			Str("url", cfg.URL).
			Int("attempt", cfg.Attempt).
			Bool("auth", cfg.Header.Get("Authorization") != "").
			Msg("request interceptor")
		return cfg, nil
	}
}

// LoadingTracker marca state.loading[recurso] mientras la petición está en curso.
type LoadingTracker struct {
	store *state.Store
}

func NewLoadingTracker(store *state.Store) LoadingTracker { return LoadingTracker{store: store} }

func (t LoadingTracker) set(url string, on bool) error {
	return t.store.Dispatch(state.SetLoading{Loading: map[string]bool{ResourceName(url): on}})
}

func (t LoadingTracker) Request(_ context.Context, cfg RequestConfig) (RequestConfig, error) {
	return cfg, t.set(cfg.URL, true)
}

func (t LoadingTracker) Response(_ context.Context, resp Response) (Response, error) {
	return resp, t.set(resp.URL, false)
}

func (t LoadingTracker) Error(_ context.Context, err error) error {
	var hErr *domain.HTTPError
	if errors.As(err, &hErr) && hErr.Endpoint != "" {
		_ = t.set(hErr.Endpoint, false)
	}
	return nil
}

// ClearUserOnUnauthorized cierra la sesión en el store ante un 401.
func ClearUserOnUnauthorized(store *state.Store, log zerolog.Logger) ErrorInterceptor {
	return func(_ context.Context, err error) error {
		var hErr *domain.HTTPError
		if !errors.As(err, &hErr) || hErr.Status != http.StatusUnauthorized {
			return nil
		}
		if store.State().User != nil {
			if derr := store.Dispatch(state.ClearUser{}); derr != nil {
				log.Warn().Err(derr).Msg("no se pudo cerrar la sesión")
			}
			log.Info().Str("url", hErr.Endpoint).Msg("sesión cerrada por respuesta 401")
		}
		return nil
	}
}

// DefaultPipeline interceptores estándar de la tienda.
func DefaultPipeline(store *state.Store, token func() string, log zerolog.Logger) Pipeline {
	loading := NewLoadingTracker(store)
	return NewPipeline().
		OnRequest(AuthHeader(store, token), RequestLogger(log), loading.Request).
		OnResponse(loading.Response).
		OnError(loading.Error, ClearUserOnUnauthorized(store, log)).
		Build()
}
