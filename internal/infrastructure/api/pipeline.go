// Package api cliente HTTP hacia las fuentes de datos estáticas (productos y
// usuarios) con interceptores, reintentos con backoff exponencial y caché.
package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"
)

// RequestConfig petición antes de enviarse. Cada interceptor recibe una copia.
type RequestConfig struct {
	URL       string
	Method    string
	Header    http.Header
	Body      []byte
	RequestID uint64
	StartedAt time.Time
	Attempt   int
}

func (c RequestConfig) clone() RequestConfig {
	c.Header = c.Header.Clone()
	c.Body = bytes.Clone(c.Body)
	return c
}

// Response respuesta exitosa (2xx) con el cuerpo ya leído.
type Response struct {
	RequestID  uint64
	Status     int
	StatusText string
	Header     http.Header
	Duration   time.Duration
	URL        string
	Method     string
	Body       []byte
}

// ResourceName último segmento de la URL sin extensión: "products" para /data/products.json.
func ResourceName(rawURL string) string {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

type (
	RequestInterceptor  func(ctx context.Context, cfg RequestConfig) (RequestConfig, error)
	ResponseInterceptor func(ctx context.Context, resp Response) (Response, error)
	// ErrorInterceptor devuelve el error que continúa la cadena; nil lo deja igual.
	ErrorInterceptor func(ctx context.Context, err error) error
)

// Pipeline cadenas ordenadas de interceptores. Inmutable una vez construida.
type Pipeline struct {
	request  []RequestInterceptor
	response []ResponseInterceptor
	errs     []ErrorInterceptor
}

// PipelineBuilder arma un Pipeline en el arranque.
type PipelineBuilder struct {
	p Pipeline
}

func NewPipeline() *PipelineBuilder { return &PipelineBuilder{} }

func (b *PipelineBuilder) OnRequest(fns ...RequestInterceptor) *PipelineBuilder {
	b.p.request = append(b.p.request, fns...)
	return b
}

func (b *PipelineBuilder) OnResponse(fns ...ResponseInterceptor) *PipelineBuilder {
	b.p.response = append(b.p.response, fns...)
	return b
}

func (b *PipelineBuilder) OnError(fns ...ErrorInterceptor) *PipelineBuilder {
	b.p.errs = append(b.p.errs, fns...)
	return b
}

// Build devuelve una copia; seguir usando el builder no altera pipelines ya construidos.
func (b *PipelineBuilder) Build() Pipeline {
	return Pipeline{
		request:  slices.Clone(b.p.request),
		response: slices.Clone(b.p.response),
		errs:     slices.Clone(b.p.errs),
	}
}

// Len cantidad de interceptores por cadena.
func (p Pipeline) Len() (request, response, errs int) {
	return len(p.request), len(p.response), len(p.errs)
}

func (p Pipeline) runRequest(ctx context.Context, cfg RequestConfig) (RequestConfig, error) {
	for i, fn := range p.request {
		next, err := fn(ctx, cfg.clone())
		if err != nil {
			return cfg, fmt.Errorf("interceptor de request #%d: %w", i, err)
		}
		cfg = next
	}
	return cfg, nil
}

func (p Pipeline) runResponse(ctx context.Context, resp Response) (Response, error) {
	for i, fn := range p.response {
		next, err := fn(ctx, resp)
		if err != nil {
			return resp, fmt.Errorf("interceptor de response #%d: %w", i, err)
		}
		resp = next
	}
	return resp, nil
}

func (p Pipeline) runError(ctx context.Context, err error) error {
	for _, fn := range p.errs {
		if next := fn(ctx, err); next != nil {
			err = next
		}
	}
	return err
}
