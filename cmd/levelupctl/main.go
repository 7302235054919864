// levelupctl utilidades de línea de comandos de la tienda: validación de RUN y
// cotización de carritos sobre un archivo de productos.
//
// Uso:
//
//	levelupctl run check 12.345.678-5
//	levelupctl run format 123456785
//	levelupctl price quote --products data/products.json --email ana@duoc.cl --item JM001=2
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
