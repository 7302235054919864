package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/errorhandler"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

const maxBodySize = 8 << 20

// ErrorHandler recibe los errores que agotaron los reintentos.
type ErrorHandler interface {
	Handle(ctx context.Context, err error, meta map[string]any) errorhandler.Entry
}

// Client ejecuta peticiones a través del pipeline de interceptores.
type Client struct {
	http     *http.Client
	pipeline Pipeline
	retry    RetryPolicy
	errors   ErrorHandler
	log      zerolog.Logger
	seq      atomic.Uint64
	now      func() time.Time
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithPipeline(p Pipeline) ClientOption { return func(c *Client) { c.pipeline = p } }

func WithRetryPolicy(p RetryPolicy) ClientOption { return func(c *Client) { c.retry = p } }

func WithErrorHandler(h ErrorHandler) ClientOption { return func(c *Client) { c.errors = h } }

func WithLogger(l zerolog.Logger) ClientOption { return func(c *Client) { c.log = l } }

func withClock(now func() time.Time) ClientOption { return func(c *Client) { c.now = now } }

// NewClient cliente con timeout de 10 s y la política de reintentos por defecto.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:  &http.Client{Timeout: 10 * time.Second},
		retry: DefaultRetryPolicy(),
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LastRequestID último id asignado (0 si no hubo peticiones).
func (c *Client) LastRequestID() uint64 { return c.seq.Load() }

// Do ejecuta la petición reintentando según la política. Cada intento recibe
// un id nuevo y vuelve a pasar por los interceptores de request.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) (Response, error) {
	var err error
	attempt := 0
	for ; ; attempt++ {
		var resp Response
		resp, err = c.attempt(ctx, method, url, body, attempt)
		if err == nil {
			return resp, nil
		}
		if !c.retry.shouldRetry(attempt, err) {
			break
		}
		delay := c.retry.Delay(attempt)
		c.log.Info().
			Str("url", url).
			Int("retry", attempt+1).
			Dur("delay", delay).
			Msg("reintentando petición")
		if serr := c.retry.sleep(ctx, delay); serr != nil {
			err = errors.Join(err, serr)
			break
		}
	}

	var hErr *domain.HTTPError
	if errors.As(err, &hErr) {
		hErr.Attempts = attempt + 1
	}
	err = c.pipeline.runError(ctx, err)
	if c.errors != nil {
		c.errors.Handle(ctx, err, map[string]any{
			"context":   "api_request",
			"url":       url,
			"method":    method,
			"requestId": c.seq.Load(),
		})
	}
	return Response{}, err
}

func (c *Client) attempt(ctx context.Context, method, url string, body []byte, attempt int) (Response, error) {
	id := c.seq.Add(1)
	start := c.now()
	cfg, err := c.pipeline.runRequest(ctx, RequestConfig{
		URL:       url,
		Method:    method,
		Header:    http.Header{"Content-Type": []string{"application/json"}},
		Body:      body,
		RequestID: id,
		StartedAt: start,
		Attempt:   attempt,
	})
	if err != nil {
		return Response{}, err
	}

	c.log.Debug().
		Uint64("request_id", id).
		Str("method", cfg.Method).
		Str("url", cfg.URL).
		Msg("iniciando petición")

	var reader io.Reader = http.NoBody
	if len(cfg.Body) > 0 {
		reader = bytes.NewReader(cfg.Body)
	}
	req, err := http.NewRequestWithContext(ctx, cfg.Method, cfg.URL, reader)
	if err != nil {
		return Response{}, fmt.Errorf("crear petición: %w", err)
	}
	req.Header = cfg.Header

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Uint64("request_id", id).Str("url", cfg.URL).Msg("error en petición")
		return Response{}, &domain.HTTPError{Endpoint: cfg.URL, Method: cfg.Method, RequestID: id, Attempts: attempt + 1, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return Response{}, &domain.HTTPError{Endpoint: cfg.URL, Method: cfg.Method, RequestID: id, Attempts: attempt + 1, Err: err}
	}
	duration := c.now().Sub(start)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.log.Error().
			Uint64("request_id", id).
			Int("status", res.StatusCode).
			Dur("duration", duration).
			Str("url", cfg.URL).
			Msg("error en petición")
		return Response{}, &domain.HTTPError{
			Status:     res.StatusCode,
			StatusText: http.StatusText(res.StatusCode),
			Endpoint:   cfg.URL,
			Method:     cfg.Method,
			RequestID:  id,
			Attempts:   attempt + 1,
			Body:       string(raw),
		}
	}

	resp, err := c.pipeline.runResponse(ctx, Response{
		RequestID:  id,
		Status:     res.StatusCode,
		StatusText: http.StatusText(res.StatusCode),
		Header:     res.Header,
		Duration:   duration,
		URL:        cfg.URL,
		Method:     cfg.Method,
		Body:       raw,
	})
	if err != nil {
		return Response{}, err
	}
	c.log.Debug().Uint64("request_id", id).Int("status", resp.Status).Dur("duration", duration).Msg("petición completada")
	return resp, nil
}

// GetJSON GET y decodificación del cuerpo en dst.
func (c *Client) GetJSON(ctx context.Context, url string, dst any) error {
	resp, err := c.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, dst); err != nil {
		return fmt.Errorf("decodificar %s: %w", url, err)
	}
	return nil
}

// CloseIdleConnections libera las conexiones keep-alive.
func (c *Client) CloseIdleConnections() { c.http.CloseIdleConnections() }
