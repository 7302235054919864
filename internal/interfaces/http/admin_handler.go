package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/application/admin"
	"github.com/PyKydo/LevelUpGamer/internal/application/auth"
	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

// AdminHandler back-office de productos y usuarios (requiere rol Administrador).
type AdminHandler struct {
	uc   *admin.AdminUseCase
	errs *ErrorWriter
}

func NewAdminHandler(uc *admin.AdminUseCase, errs *ErrorWriter) *AdminHandler {
	return &AdminHandler{uc: uc, errs: errs}
}

// ListProducts godoc
// @Summary      Productos de la copia de trabajo
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Product
// @Router       /api/admin/products [get]
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	out, err := h.uc.Products(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// GetProduct godoc
// @Summary      Producto por código
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código"
// @Success      200  {object}  entity.Product
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{code} [get]
func (h *AdminHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.uc.Product(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201  {object}  entity.Product
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/products [post]
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateProduct(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateProduct godoc
// @Summary      Actualizar producto
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string  true  "Código"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a cambiar"
// @Success      200  {object}  entity.Product
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{code} [put]
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateProduct(c.UserContext(), c.Params("code"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Fijar stock (negativos quedan en 0)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string  true  "Código"
// @Param        body  body  object  true  "{\"stock\": 10}"
// @Success      200  {object}  entity.Product
// @Router       /api/admin/products/{code}/stock [patch]
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	var in struct {
		Stock int `json:"stock"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStock(c.UserContext(), c.Params("code"), in.Stock)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// UpdatePrice godoc
// @Summary      Fijar precio (negativos quedan en 0)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string  true  "Código"
// @Param        body  body  object  true  "{\"price\": 19990}"
// @Success      200  {object}  entity.Product
// @Router       /api/admin/products/{code}/price [patch]
func (h *AdminHandler) UpdatePrice(c *fiber.Ctx) error {
	var in struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePrice(c.UserContext(), c.Params("code"), in.Price)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// DeleteProduct godoc
// @Summary      Eliminar producto de la copia de trabajo
// @Tags         admin
// @Security     Bearer
// @Param        code  path  string  true  "Código"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{code} [delete]
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.uc.DeleteProduct(c.UserContext(), c.Params("code")); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toUserResponses(users []entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = auth.ToUserResponse(u)
	}
	return out
}

// ListUsers godoc
// @Summary      Usuarios de la copia de trabajo
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.uc.Users(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(toUserResponses(users))
}

// GetUser godoc
// @Summary      Usuario por id
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	u, err := h.uc.User(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(auth.ToUserResponse(u))
}

// CreateUser godoc
// @Summary      Crear usuario
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	u, err := h.uc.CreateUser(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(auth.ToUserResponse(u))
}

// UpdateUser godoc
// @Summary      Actualizar usuario
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	u, err := h.uc.UpdateUser(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(auth.ToUserResponse(u))
}

// DeleteUser godoc
// @Summary      Eliminar usuario
// @Tags         admin
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Exportar productos o usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      json,xml
// @Param        kind    path   string  true   "products | users"
// @Param        format  query  string  false  "json | xml"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/export/{kind} [get]
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	kind := c.Params("kind")
	format := strings.ToLower(c.Query("format", admin.FormatJSON))
	data, err := h.uc.Export(c.UserContext(), kind, format)
	if err != nil {
		return h.errs.Write(c, err)
	}
	c.Set(fiber.HeaderContentType, admin.ContentType(format))
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+kind+`.`+format+`"`)
	return c.Send(data)
}

// Import godoc
// @Summary      Importar productos o usuarios
// @Tags         admin
// @Security     Bearer
// @Accept       json,xml
// @Produce      json
// @Param        kind    path   string  true   "products | users"
// @Param        format  query  string  false  "json | xml (por defecto según Content-Type)"
// @Success      200  {object}  admin.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/import/{kind} [post]
func (h *AdminHandler) Import(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format"))
	if format == "" {
		format = admin.FormatJSON
		if strings.Contains(c.Get(fiber.HeaderContentType), "xml") {
			format = admin.FormatXML
		}
	}
	res, err := h.uc.Import(c.UserContext(), c.Params("kind"), format, c.Body())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(res)
}
