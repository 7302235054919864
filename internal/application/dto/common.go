package dto

// DefaultPageSize productos por página en el catálogo.
const DefaultPageSize = 12

// MaxPageSize tope de productos por página.
const MaxPageSize = 100

// PageRequest paginación por número de página (desde 1).
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"pageSize"`
}

// DefaultPage aplica valores por defecto si Page/PageSize son cero o negativos
// y acota PageSize a MaxPageSize.
func (p *PageRequest) DefaultPage() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code     string              `json:"code"`
	Message  string              `json:"message"`
	Fields   map[string][]string `json:"fields,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

// MessageResponse respuesta simple con un mensaje para el usuario.
type MessageResponse struct {
	Message string `json:"message"`
}
