package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"masterplan/internal/catalog"
	"masterplan/pkg/utils"
)

func main() {
	out := flag.String("out", "data/plots.csv", "output CSV path for plots")
	flag.Parse()

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, closeBackend, err := catalog.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Store, err)
	}
	defer closeBackend()

	cat, err := catalog.NewService(backend, nil).Load(ctx)
	if err != nil {
		log.Fatalf("load plots failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	if err := catalog.WriteCSV(f, cat.Plots); err != nil {
		_ = f.Close()
		log.Fatalf("export plots failed: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close %s: %v", *out, err)
	}

	log.Printf("exported %d plots to %s", len(cat.Plots), *out)
}
