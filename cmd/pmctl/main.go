// pmctl es la CLI de operación del tablero de proyectos: siembra facturas
// de demostración, imprime totales, avanza facturas y exporta el XML de Etimad
// contra el almacén configurado en el entorno.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
