package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"masterplan/internal/catalog"
	"masterplan/pkg/utils"
)

func main() {
	var (
		in       = flag.String("in", "data/plots.csv", "input CSV path for plots")
		revision = flag.String("if-revision", "", "only apply when the stored catalog is at this revision")
	)
	flag.Parse()

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	edits, err := catalog.ReadCSVEdits(f)
	_ = f.Close()
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}

	backend, closeBackend, err := catalog.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Store, err)
	}
	defer closeBackend()

	cat, err := catalog.NewService(backend, nil).ApplyBulkEdit(ctx, edits, *revision)
	if err != nil {
		log.Fatalf("import plots failed: %v", err)
	}

	log.Printf("imported %s into the %s store (%d rows, revision %s)", *in, cfg.Store, len(edits), catalog.Revision(cat))
}
