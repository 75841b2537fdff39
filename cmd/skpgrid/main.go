// Command skpgrid edits an SKP performance-goals document in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid"
	"github.com/mumtazka/skpgrid/config"
	"github.com/mumtazka/skpgrid/document"
	"github.com/mumtazka/skpgrid/export"
	"github.com/mumtazka/skpgrid/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("skpgrid", flag.ContinueOnError)
	cfgPath := fs.String("config", "skpgrid.toml", "configuration file")
	dbPath := fs.String("db", "", "database file (overrides db_path)")
	docID := fs.String("doc", "", "document id; default is the most recently edited")
	exportPath := fs.String("export", "", "write the document as XLSX to this path and exit")
	readOnly := fs.Bool("readonly", false, "open without editing")
	version := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *version {
		fmt.Println(skpgrid.Version())
		return nil
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *readOnly {
		cfg.ReadOnly = true
	}

	log, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DBPath, store.WithLogger(log))
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := loadDocument(ctx, st, *docID)
	if err != nil {
		return err
	}
	log.Info("document opened", "id", doc.ID, "sections", len(doc.Sections), "agent", skpgrid.UserAgent())

	if *exportPath != "" {
		if err := export.SaveXLSX(doc, *exportPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *exportPath)
		return nil
	}

	m, err := newModel(doc, st, cfg, systemClipboard{}, log)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// openLog writes records to the configured file. The terminal belongs to
// the UI, so without a file records are discarded.
func openLog(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	h := slog.NewTextHandler(io.Writer(f), &slog.HandlerOptions{Level: cfg.SlogLevel()})
	return slog.New(h), func() { f.Close() }, nil
}

// loadDocument opens id, or the most recent document, or seeds a new one.
func loadDocument(ctx context.Context, st *store.Store, id string) (*document.Document, error) {
	if id != "" {
		return st.Load(ctx, id)
	}
	list, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		doc, err := st.Load(ctx, list[0].ID)
		if err == nil || !errors.Is(err, store.ErrNotFound) {
			return doc, err
		}
	}
	doc := seedDocument()
	if err := st.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
