package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
)

const (
	ResourceProducts = "products"
	ResourceUsers    = "users"

	DefaultCacheTTL = 5 * time.Minute
)

type cacheEntry struct {
	data      any
	fetchedAt time.Time
}

// CacheEntry estado de una clave del caché.
type CacheEntry struct {
	Key       string        `json:"key"`
	FetchedAt time.Time     `json:"timestamp"`
	Age       time.Duration `json:"age"`
	Expired   bool          `json:"expired"`
}

// CacheStats resumen del caché en memoria.
type CacheStats struct {
	Size    int          `json:"size"`
	Keys    []string     `json:"keys"`
	Entries []CacheEntry `json:"entries"`
}

// ServiceConfig URLs de las fuentes de datos y vigencia del caché.
type ServiceConfig struct {
	ProductsURL string
	UsersURL    string
	CacheTTL    time.Duration
}

// Service acceso a productos y usuarios con caché de 5 minutos y copia local
// de respaldo en el KV.
type Service struct {
	client *Client
	cache  *ccache.Cache[cacheEntry]
	cfg    ServiceConfig
	kv     repository.KVRepository
	store  *state.Store
	log    zerolog.Logger
	now    func() time.Time
}

type resource struct {
	name  string
	url   string
	kvKey string
}

func NewService(client *Client, cfg ServiceConfig, kv repository.KVRepository, store *state.Store, log zerolog.Logger) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Service{
		client: client,
		cache:  ccache.New(ccache.Configure[cacheEntry]().MaxSize(64)),
		cfg:    cfg,
		kv:     kv,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

// Products catálogo. Ante fallos devuelve el último dato conocido (caché vencido,
// copia local o lista vacía); sólo falla si ctx fue cancelado.
func (s *Service) Products(ctx context.Context) ([]entity.Product, error) {
	list, fresh, err := load[entity.Product](ctx, s, resource{ResourceProducts, s.cfg.ProductsURL, repository.KeyProducts})
	if err != nil {
		return nil, err
	}
	if fresh && s.store != nil {
		if err := s.store.Dispatch(state.SetProducts{Products: list}); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo actualizar productos en el estado")
		}
	}
	return list, nil
}

// Users usuarios de la fuente de datos, con el mismo respaldo que Products.
func (s *Service) Users(ctx context.Context) ([]entity.User, error) {
	list, _, err := load[entity.User](ctx, s, resource{ResourceUsers, s.cfg.UsersURL, repository.KeyUsers})
	return list, err
}

func (s *Service) ProductByID(ctx context.Context, code string) (entity.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return entity.Product{}, err
	}
	p, ok := entity.FindProduct(products, code)
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, code)
	}
	return p, nil
}

func (s *Service) UserByID(ctx context.Context, id string) (entity.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return entity.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return entity.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
}

// ClearCache vacía el caché en memoria (la copia local se conserva).
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.log.Info().Msg("cache limpiado")
}

func (s *Service) CacheStats() CacheStats {
	st := CacheStats{Keys: []string{}, Entries: []CacheEntry{}}
	now := s.now()
	for _, key := range []string{ResourceProducts, ResourceUsers} {
		item := s.cache.Get(key)
		if item == nil {
			continue
		}
		e := item.Value()
		st.Keys = append(st.Keys, key)
		st.Entries = append(st.Entries, CacheEntry{
			Key:       key,
			FetchedAt: e.fetchedAt,
			Age:       now.Sub(e.fetchedAt),
			Expired:   item.Expired(),
		})
	}
	st.Size = len(st.Keys)
	return st
}

// Close detiene el worker del caché.
func (s *Service) Close() {
	s.cache.Stop()
	s.client.CloseIdleConnections()
}

// load devuelve fresh=true cuando los datos vienen de la red o de un respaldo
// (no del caché vigente).
func load[T any](ctx context.Context, s *Service, r resource) ([]T, bool, error) {
	if item := s.cache.Get(r.name); item != nil && !item.Expired() {
		if v, ok := item.Value().data.([]T); ok {
			s.log.Debug().Str("resource", r.name).Msg("obtenido del cache")
			return slices.Clone(v), false, nil
		}
	}

	list, err := fetch[T](ctx, s, r)
	if err == nil {
		s.cache.Set(r.name, cacheEntry{data: list, fetchedAt: s.now()}, s.cfg.CacheTTL)
		if err := repository.SaveJSON(ctx, s.kv, r.kvKey, list); err != nil {
			s.log.Warn().Err(err).Str("resource", r.name).Msg("no se pudo guardar copia local")
		}
		return slices.Clone(list), true, nil
	}
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}

	s.log.Warn().Err(err).Str("resource", r.name).Msg("fuente no disponible, usando respaldo")
	return fallback[T](ctx, s, r), true, nil
}

func fetch[T any](ctx context.Context, s *Service, r resource) ([]T, error) {
	resp, err := s.client.Do(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](resp.Body, r.name)
}

func fallback[T any](ctx context.Context, s *Service, r resource) []T {
	if item := s.cache.Get(r.name); item != nil {
		if v, ok := item.Value().data.([]T); ok {
			s.log.Info().Str("resource", r.name).Msg("respaldo: cache vencido")
			return slices.Clone(v)
		}
	}
	var local []T
	ok, err := repository.LoadJSON(ctx, s.kv, r.kvKey, &local)
	if err != nil {
		s.log.Warn().Err(err).Str("resource", r.name).Msg("copia local ilegible")
	}
	if ok && err == nil && local != nil {
		s.log.Info().Str("resource", r.name).Msg("respaldo: copia local")
		return local
	}
	return []T{}
}

// decodeList acepta un arreglo o un objeto {"<recurso>": [...]}.
func decodeList[T any](raw []byte, field string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decodificar %s: %w", field, err)
		}
		return out, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", field, err)
	}
	body, ok := env[field]
	if !ok || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", field, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
