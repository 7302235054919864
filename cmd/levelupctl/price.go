package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
)

type quoteOptions struct {
	productsPath string
	email        string
	items        []string
	asJSON       bool
}

func newPriceCmd(policy func() (pricing.Policy, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Precios y descuentos",
	}

	var opts quoteOptions
	quote := &cobra.Command{
		Use:   "quote",
		Short: "Cotiza un carrito contra un archivo de productos",
		Example: "  levelupctl price quote --products data/products.json --item JM001=2 --item AC001\n" +
			"  levelupctl price quote --products data/products.json --email ana@duoc.cl --item JM001=1 --json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := policy()
			if err != nil {
				return fmt.Errorf("configuración: %w", err)
			}
			return runQuote(cmd.OutOrStdout(), p, opts)
		},
	}
	quote.Flags().StringVar(&opts.productsPath, "products", "data/products.json", "archivo JSON de productos")
	quote.Flags().StringVar(&opts.email, "email", "", "correo del usuario; vacío cotiza sin sesión")
	quote.Flags().StringArrayVar(&opts.items, "item", nil, "línea CODIGO[=CANTIDAD], repetible")
	quote.Flags().BoolVar(&opts.asJSON, "json", false, "salida JSON")
	_ = quote.MarkFlagRequired("item")

	cmd.AddCommand(quote)
	return cmd
}

type quoteLine struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	Discounted string `json:"discountedPrice"`
	Subtotal   string `json:"subtotal"`
}

type quoteResult struct {
	Lines    []quoteLine `json:"lines"`
	Rate     string      `json:"rate"`
	Subtotal string      `json:"subtotal"`
	Discount string      `json:"discount"`
	Total    string      `json:"total"`
}

func runQuote(w io.Writer, policy pricing.Policy, opts quoteOptions) error {
	raw, err := os.ReadFile(opts.productsPath)
	if err != nil {
		return fmt.Errorf("leer productos: %w", err)
	}
	products, err := decodeProducts(raw)
	if err != nil {
		return err
	}
	cart, err := parseItems(opts.items)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.Code] = true
	}
	for _, l := range cart {
		if !known[l.ProductID] {
			return fmt.Errorf("producto %q no existe en %s", l.ProductID, opts.productsPath)
		}
	}

	var user *entity.User
	if opts.email != "" {
		user = &entity.User{Email: opts.email, Role: entity.RoleCliente}
	}
	s := policy.Quote(cart, products, user)

	res := quoteResult{
		Rate:     s.Rate.String(),
		Subtotal: s.Subtotal.String(),
		Discount: s.Discount.String(),
		Total:    s.Total.String(),
	}
	for _, l := range s.Lines {
		res.Lines = append(res.Lines, quoteLine{
			Code:       l.Product.Code,
			Name:       l.Product.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice.String(),
			Discounted: l.Discounted.String(),
			Subtotal:   l.Subtotal.String(),
		})
	}
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CÓDIGO\tPRODUCTO\tCANT.\tPRECIO\tCON DESCUENTO\tSUBTOTAL")
	for _, l := range s.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", l.Product.Code, l.Product.Name, l.Quantity,
			helpers.FormatPrice(l.UnitPrice), helpers.FormatPrice(l.Discounted), helpers.FormatPrice(l.Subtotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Descuento: %s%% (%s)\n", s.Rate.Shift(2).String(), helpers.FormatPrice(s.Discount))
	fmt.Fprintf(w, "Total: %s\n", helpers.FormatPrice(s.Total))
	return nil
}

// parseItems "JM001=2" o "JM001" (cantidad 1).
func parseItems(items []string) ([]entity.CartLine, error) {
	out := make([]entity.CartLine, 0, len(items))
	for _, it := range items {
		code, qtyStr, hasQty := strings.Cut(strings.TrimSpace(it), "=")
		if code == "" {
			return nil, fmt.Errorf("línea vacía %q", it)
		}
		qty := 1
		if hasQty {
			n, err := strconv.Atoi(qtyStr)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("cantidad inválida en %q", it)
			}
			qty = n
		}
		out = append(out, entity.CartLine{ProductID: code, Quantity: qty})
	}
	return out, nil
}

// decodeProducts acepta {"products":[...]} o un arreglo.
func decodeProducts(raw []byte) ([]entity.Product, error) {
	raw = bytes.TrimSpace(raw)
	var out []entity.Product
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decodificar productos: %w", err)
		}
		return out, nil
	}
	var env struct {
		Products []entity.Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decodificar productos: %w", err)
	}
	return env.Products, nil
}
