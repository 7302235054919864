package state

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Select devuelve el valor en la ruta con puntos ("cart", "user.email",
// "filters.category", "cart.0.quantity"). Ruta vacía devuelve el estado
// completo; una ruta inexistente devuelve nil.
func Select(s AppState, path string) any {
	if path == "" {
		return s
	}
	head, rest, _ := strings.Cut(path, ".")
	var v any
	switch head {
	case "user":
		if s.User == nil {
			return nil
		}
		v = *s.User
	case "cart":
		v = s.Cart
	case "products":
		v = s.Products
	case "filters":
		v = s.Filters
	case "loading":
		v = s.Loading
	case "error":
		if s.Error == nil {
			return nil
		}
		v = *s.Error
	case "ui":
		v = s.UI
	default:
		return nil
	}
	if rest == "" {
		return v
	}
	return walkJSON(v, strings.Split(rest, "."))
}

// walkJSON recorre los segmentos restantes sobre la forma JSON del valor,
// usando los mismos nombres de campo que la serialización.
func walkJSON(v any, segments []string) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var cur any
	if err := json.Unmarshal(raw, &cur); err != nil {
		return nil
	}
	for _, seg := range segments {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}
