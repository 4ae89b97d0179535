package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"freshfleet/internal/config"
	"freshfleet/internal/db"
	"freshfleet/internal/importer"
	"freshfleet/internal/repository/product"
)

func main() {
	var (
		filePath string
		vendorID string
	)
	flag.StringVar(&filePath, "file", "", "Path to grocery fixtures JSON (ingredients format)")
	flag.StringVar(&vendorID, "vendor", "", "Vendor id to own the imported products (generated when empty)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if vendorID == "" {
		vendorID = uuid.NewString()
		log.Printf("no vendor given, importing under new vendor %s", vendorID)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewJSONImporter(f, product.NewPostgres(pool, nil), vendorID)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products for vendor %s in %s\n", count, vendorID, time.Since(start).Truncate(time.Millisecond))
}
