// cmd/ddlgen/main.go
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
)

// tables maps migration file names to their DDL.
var tables = map[string]string{
	"init_orders.sql": orderdom.OrdersTableDDL,
}

func main() {
	outDir := flag.String("out", filepath.Join("internal", "infra", "database", "migrations"), "migration output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("ddlgen: %v", err)
	}
	for name, ddl := range tables {
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, []byte(ddl), 0o644); err != nil {
			log.Fatalf("ddlgen: %v", err)
		}
		log.Printf("ddlgen: wrote %s", path)
	}
}
