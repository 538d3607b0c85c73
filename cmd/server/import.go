package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/tagsmith/pkg/importer"
)

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	source := fs.String("source", "", "adapter ID to import (e.g. taginfo-popular)")
	all := fs.Bool("all", false, "import all available sources")
	check := fs.Bool("check", false, "check source URL availability instead of importing")
	outputDir := fs.String("output-dir", "dicts", "output directory for dictionaries")
	fs.Parse(args)

	// Open source DB and seed defaults.
	sourcesDBPath := filepath.Join(*outputDir, "sources.db")
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}
	sdb, err := importer.OpenSourceDB(sourcesDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open sources.db: %v\n", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if err := sdb.Seed(importer.All()); err != nil {
		fmt.Fprintf(os.Stderr, "seed sources: %v\n", err)
		os.Exit(1)
	}

	if *check {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		checker := importer.NewChecker(sdb, logger, time.Hour)
		for _, res := range checker.CheckAll(context.Background()) {
			mark := "ok"
			if !res.OK() {
				mark = "FAIL"
			}
			fmt.Printf("  %-22s  [%d %s]  %s\n", res.AdapterID, res.Status, mark, res.URL)
		}
		return
	}

	if !*all && *source == "" {
		fmt.Println("Available sources:")
		fmt.Println()
		sources, _ := sdb.ListSources()
		for _, src := range sources {
			extra := ""
			if src.LastStatus != nil {
				extra = fmt.Sprintf("  [%d]", *src.LastStatus)
			}
			if src.EntryCount != nil {
				extra += fmt.Sprintf("  (%d entries)", *src.EntryCount)
			}
			fmt.Printf("  %-22s  %s  (-> %s)%s\n", src.AdapterID, src.Description, src.DictID, extra)
		}
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  tagsmith import --source <id> [--output-dir <dir>]")
		fmt.Println("  tagsmith import --all [--output-dir <dir>]")
		fmt.Println("  tagsmith import --check")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if *all {
		for _, a := range importer.All() {
			url, err := sdb.GetURL(a.ID())
			if err != nil {
				fmt.Fprintf(os.Stderr, "[%s] URL error: %v\n", a.ID(), err)
				continue
			}
			fmt.Printf("[%s] importing...\n", a.ID())
			n, err := a.Import(ctx, url, *outputDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[%s] FAILED: %v\n", a.ID(), err)
				continue
			}
			if err := sdb.RecordImport(a.ID(), n); err != nil {
				fmt.Fprintf(os.Stderr, "[%s] record import: %v\n", a.ID(), err)
			}
			fmt.Printf("[%s] OK (%d entries)\n", a.ID(), n)
		}
		return
	}

	a, err := importer.Get(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Println("\nAvailable sources:")
		for _, a := range importer.All() {
			fmt.Printf("  %s\n", a.ID())
		}
		os.Exit(1)
	}

	url, err := sdb.GetURL(a.ID())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] URL error: %v\n", a.ID(), err)
		os.Exit(1)
	}

	fmt.Printf("[%s] importing...\n", a.ID())
	n, err := a.Import(ctx, url, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] FAILED: %v\n", a.ID(), err)
		os.Exit(1)
	}
	if err := sdb.RecordImport(a.ID(), n); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] record import: %v\n", a.ID(), err)
	}
	fmt.Printf("[%s] OK (%d entries) -> %s/%s/\n", a.ID(), n, *outputDir, a.DictID())
}
