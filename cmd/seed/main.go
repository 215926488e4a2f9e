// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	outfs "github.com/tisoftshake/softshake/internal/adapters/out/firestore"
	appcfg "github.com/tisoftshake/softshake/internal/infra/config"
	firestoreinfra "github.com/tisoftshake/softshake/internal/infra/firestore"
	"github.com/tisoftshake/softshake/internal/infra/seed"
)

func main() {
	file := flag.String("file", "configs/catalog.seed.yaml", "catalog seed YAML")
	flag.Parse()

	_ = godotenv.Load()
	cfg := appcfg.Load()

	f, err := seed.LoadFile(*file)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := firestoreinfra.NewClient(ctx, cfg.GetFirestoreProjectID(), firestoreinfra.ClientOptions(cfg)...)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	defer client.Close()

	n, err := seed.Apply(ctx, outfs.NewCatalogRepositoryFS(client), f)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("catalog seeded from %s: categories=%d products=%d options=%d",
		*file, n.Categories, n.Products, n.Options)
}
