package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
	"github.com/PyKydo/LevelUpGamer/pkg/run"
)

// Tipos y formatos de exportación.
const (
	KindProducts = "products"
	KindUsers    = "users"

	FormatJSON = "json"
	FormatXML  = "xml"
)

// ImportResult conteo de registros importados.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ContentType tipo MIME del formato.
func ContentType(format string) string {
	if format == FormatXML {
		return "application/xml"
	}
	return "application/json"
}

func checkFormat(kind, format string) error {
	if kind != KindProducts && kind != KindUsers {
		return fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, kind)
	}
	if format != FormatJSON && format != FormatXML {
		return fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	return nil
}

// Export serializa la copia de trabajo. Los usuarios salen sin contraseña.
func (uc *AdminUseCase) Export(ctx context.Context, kind, format string) ([]byte, error) {
	if err := checkFormat(kind, format); err != nil {
		return nil, err
	}
	if kind == KindProducts {
		products, err := uc.Products(ctx)
		if err != nil {
			return nil, err
		}
		if format == FormatJSON {
			return json.MarshalIndent(map[string]any{"products": products}, "", "  ")
		}
		return productsXML(products)
	}

	users, err := uc.Users(ctx)
	if err != nil {
		return nil, err
	}
	public := make([]entity.User, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	if format == FormatJSON {
		return json.MarshalIndent(map[string]any{"users": public}, "", "  ")
	}
	return usersXML(public)
}

// Import valida y combina los registros con la copia de trabajo: productos
// por código, usuarios por correo. Un registro inválido aborta todo.
func (uc *AdminUseCase) Import(ctx context.Context, kind, format string, data []byte) (ImportResult, error) {
	if err := checkFormat(kind, format); err != nil {
		return ImportResult{}, err
	}
	if kind == KindProducts {
		products, err := decodeProducts(format, data)
		if err != nil {
			return ImportResult{}, err
		}
		return uc.importProducts(ctx, products)
	}
	users, err := decodeUsers(format, data)
	if err != nil {
		return ImportResult{}, err
	}
	return uc.importUsers(ctx, users)
}

func (uc *AdminUseCase) importProducts(ctx context.Context, in []entity.Product) (ImportResult, error) {
	rules := uc.cfg.Limits.ProductRules()
	for i := range in {
		p := &in[i]
		if p.Code == "" {
			p.Code = helpers.NewProductCode()
		}
		if p.Image == "" {
			p.Image = entity.DefaultProductImage
		}
		if err := uc.cfg.Validator.ValidateForm(productForm(*p), rules).Err(); err != nil {
			return ImportResult{}, fmt.Errorf("producto %d (%s): %w", i+1, p.Code, err)
		}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	products, err := uc.Products(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	var res ImportResult
	for _, p := range in {
		if i := slices.IndexFunc(products, func(e entity.Product) bool { return e.Code == p.Code }); i >= 0 {
			products[i] = p
			res.Updated++
			continue
		}
		products = append(products, p)
		res.Created++
	}
	if err := uc.saveProducts(ctx, products); err != nil {
		return ImportResult{}, err
	}
	uc.cfg.Logger.Info().Int("created", res.Created).Int("updated", res.Updated).Msg("productos importados")
	return res, nil
}

func (uc *AdminUseCase) importUsers(ctx context.Context, in []entity.User) (ImportResult, error) {
	rules := uc.cfg.Limits.UserRules()
	for i := range in {
		u := &in[i]
		if u.Role == "" {
			u.Role = entity.RoleCliente
		}
		if err := uc.cfg.Validator.ValidateForm(userForm(*u), rules).Err(); err != nil {
			return ImportResult{}, fmt.Errorf("usuario %d (%s): %w", i+1, u.Email, err)
		}
		if !entity.ValidRole(u.Role) {
			return ImportResult{}, fmt.Errorf("usuario %d (%s): %w", i+1, u.Email, errInvalidRole)
		}
		u.Run = run.Format(u.Run)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	users, err := uc.Users(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	var res ImportResult
	for _, u := range in {
		i := slices.IndexFunc(users, func(e entity.User) bool { return strings.EqualFold(e.Email, u.Email) })
		if i >= 0 {
			// se conservan id y credenciales del usuario existente
			u.ID, u.Password, u.CreatedAt = users[i].ID, users[i].Password, users[i].CreatedAt
			users[i] = u
			res.Updated++
			continue
		}
		if u.ID == "" {
			u.ID = helpers.NewID()
		}
		u.Password = ""
		if u.CreatedAt.IsZero() {
			u.CreatedAt = uc.now()
		}
		users = append(users, u)
		res.Created++
	}
	if err := uc.saveUsers(ctx, users); err != nil {
		return ImportResult{}, err
	}
	uc.cfg.Logger.Info().Int("created", res.Created).Int("updated", res.Updated).Msg("usuarios importados")
	return res, nil
}

func decodeProducts(format string, data []byte) ([]entity.Product, error) {
	if format == FormatJSON {
		var env struct {
			Products []entity.Product `json:"products"`
		}
		if err := unmarshalListOrEnvelope(data, &env.Products, &env); err != nil {
			return nil, err
		}
		return env.Products, nil
	}
	root, err := xmlRoot(data, KindProducts)
	if err != nil {
		return nil, err
	}
	var out []entity.Product
	for i, el := range root.SelectElements("product") {
		price, err := decimal.NewFromString(childText(el, "price"))
		if err != nil {
			return nil, fmt.Errorf("%w: producto %d: precio inválido", domain.ErrInvalidInput, i+1)
		}
		stock, err := strconv.Atoi(childText(el, "stock"))
		if err != nil {
			return nil, fmt.Errorf("%w: producto %d: stock inválido", domain.ErrInvalidInput, i+1)
		}
		critical := entity.DefaultCriticalStock
		if s := childText(el, "criticalStock"); s != "" {
			if critical, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("%w: producto %d: stock crítico inválido", domain.ErrInvalidInput, i+1)
			}
		}
		out = append(out, entity.Product{
			Code:          el.SelectAttrValue("code", ""),
			Name:          childText(el, "name"),
			Description:   childText(el, "description"),
			Category:      childText(el, "category"),
			Price:         price,
			Stock:         stock,
			CriticalStock: critical,
			Image:         childText(el, "image"),
			IsActive:      el.SelectAttrValue("active", "true") != "false",
		})
	}
	return out, nil
}

func decodeUsers(format string, data []byte) ([]entity.User, error) {
	if format == FormatJSON {
		var env struct {
			Users []entity.User `json:"users"`
		}
		if err := unmarshalListOrEnvelope(data, &env.Users, &env); err != nil {
			return nil, err
		}
		return env.Users, nil
	}
	root, err := xmlRoot(data, KindUsers)
	if err != nil {
		return nil, err
	}
	var out []entity.User
	for _, el := range root.SelectElements("user") {
		out = append(out, entity.User{
			ID:        el.SelectAttrValue("id", ""),
			Run:       childText(el, "run"),
			Name:      childText(el, "name"),
			LastName:  childText(el, "lastName"),
			Email:     childText(el, "email"),
			BirthDate: childText(el, "birthDate"),
			Role:      childText(el, "role"),
			Address:   childText(el, "address"),
			Region:    childText(el, "region"),
			Commune:   childText(el, "commune"),
			IsActive:  el.SelectAttrValue("active", "true") != "false",
		})
	}
	return out, nil
}

// unmarshalListOrEnvelope acepta un arreglo o el objeto {"<tipo>": [...]}.
func unmarshalListOrEnvelope(data []byte, list, env any) error {
	trimmed := strings.TrimSpace(string(data))
	var err error
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, list)
	} else {
		err = json.Unmarshal(data, env)
	}
	if err != nil {
		return fmt.Errorf("%w: json: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func xmlRoot(data []byte, tag string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: xml: %v", domain.ErrInvalidInput, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != tag {
		return nil, fmt.Errorf("%w: se esperaba la raíz <%s>", domain.ErrInvalidInput, tag)
	}
	return root, nil
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func newXMLDoc(tag string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc, doc.CreateElement(tag)
}

func addText(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func productsXML(products []entity.Product) ([]byte, error) {
	doc, root := newXMLDoc(KindProducts)
	for _, p := range products {
		el := root.CreateElement("product")
		el.CreateAttr("code", p.Code)
		el.CreateAttr("active", strconv.FormatBool(p.IsActive))
		addText(el, "name", p.Name)
		addText(el, "description", p.Description)
		addText(el, "category", p.Category)
		addText(el, "price", p.Price.String())
		addText(el, "stock", strconv.Itoa(p.Stock))
		addText(el, "criticalStock", strconv.Itoa(p.CriticalStock))
		addText(el, "image", p.Image)
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

func usersXML(users []entity.User) ([]byte, error) {
	doc, root := newXMLDoc(KindUsers)
	for _, u := range users {
		el := root.CreateElement("user")
		el.CreateAttr("id", u.ID)
		el.CreateAttr("active", strconv.FormatBool(u.IsActive))
		addText(el, "run", u.Run)
		addText(el, "name", u.Name)
		addText(el, "lastName", u.LastName)
		addText(el, "email", u.Email)
		addText(el, "birthDate", u.BirthDate)
		addText(el, "role", u.Role)
		addText(el, "address", u.Address)
		addText(el, "region", u.Region)
		addText(el, "commune", u.Commune)
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}
