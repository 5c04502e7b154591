package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/dgallion1/booksum/internal/config"
	"github.com/dgallion1/booksum/internal/extractor"
	"github.com/dgallion1/booksum/internal/summarize"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: booksum <directory-with-books>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Error("not a directory", "path", dir)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	books, err := findBooks(dir)
	if err != nil {
		log.Error("scan directory", "error", err)
		os.Exit(1)
	}
	log.Info("found documents", "count", len(books))
	if len(books) == 0 {
		fmt.Fprintln(os.Stderr, "no EPUB or PDF files in directory")
		return
	}

	client := summarize.NewClient(cfg.OllamaURL, cfg.Model)
	defer client.Close()
	summarizer := summarize.New(client, cfg.Summarizer(), log)

	// Books are processed one at a time; a single local model serves all
	// requests, so there is nothing to gain from concurrency here.
	failed := 0
	for _, path := range books {
		if ctx.Err() != nil {
			break
		}
		if err := processBook(ctx, path, cfg, summarizer, log); err != nil {
			log.Error("processing failed", "path", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// findBooks lists the directory's EPUB and PDF files in name order.
func findBooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var books []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".epub", ".pdf":
			books = append(books, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(books)
	return books, nil
}

// processBook extracts one document's sections and writes its summary report
// next to it as <name>-RESUMEN.md.
func processBook(ctx context.Context, path string, cfg config.Config, s *summarize.Summarizer, log *slog.Logger) error {
	log.Info("processing", "path", filepath.Base(path))

	ext, err := extractor.New(path, cfg.Extractor(), log)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer ext.Close()

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	return s.Run(ctx, ext, stem+"-RESUMEN.md")
}
