// Package threads loads embroidery thread catalogs.
//
// A catalog is a CSV file with a header row, one thread per line:
//
//	Floss,DMC Name,R,G,B,Hex
//	1,White,255,255,255,#FFFFFF
//
// Only the identifier, name and hex columns are used. They are found by
// header name when present, otherwise by position (0, 1 and 5).
package threads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/floss-pattern-mcp/internal/palette"
)

// Thread is a single reference color from a catalog.
type Thread struct {
	Floss string `json:"floss"` // Catalog identifier, e.g. "310"
	Name  string `json:"name"`  // Display name, e.g. "Black"
	Hex   string `json:"hex"`   // "#RRGGBB" or "#RRGGBBAA"
}

// HexColor returns the thread's hex color string.
func (t Thread) HexColor() string { return t.Hex }

// Catalog is an ordered list of threads together with the palette built from
// them. Palette index i corresponds to Threads[i].
type Catalog struct {
	Threads []Thread
	Palette *palette.Palette
}

// Thread returns the thread backing palette index i.
func (c *Catalog) Thread(i int) (Thread, bool) {
	if c == nil || i < 0 || i >= len(c.Threads) {
		return Thread{}, false
	}
	return c.Threads[i], true
}

// NewCatalog builds the palette for threads. Any malformed hex color fails the
// whole catalog.
func NewCatalog(threads []Thread) (*Catalog, error) {
	p, err := palette.FromThreads(threads)
	if err != nil {
		return nil, err
	}
	return &Catalog{Threads: threads, Palette: p}, nil
}

// Load reads a thread CSV file and builds its catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open thread catalog: %w", err)
	}
	defer f.Close()

	list, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	catalog, err := NewCatalog(list)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded thread catalog", "path", path, "threads", len(list))
	return catalog, nil
}

type columns struct {
	floss, name, hex int
}

func (c columns) width() int {
	return max(c.floss, c.name, c.hex) + 1
}

var defaultColumns = columns{floss: 0, name: 1, hex: 5}

// Read parses thread records from CSV. The first row is a header and is
// never returned as a thread.
func Read(r io.Reader) ([]Thread, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := headerColumns(header)

	var list []Thread
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read thread record: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < cols.width() {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields, want at least %d", line, len(record), cols.width())
		}
		list = append(list, Thread{
			Floss: strings.TrimSpace(record[cols.floss]),
			Name:  strings.TrimSpace(record[cols.name]),
			Hex:   strings.TrimSpace(record[cols.hex]),
		})
	}
	return list, nil
}

func headerColumns(header []string) columns {
	cols := columns{floss: -1, name: -1, hex: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "floss", "id", "number":
			cols.floss = i
		case "dmc name", "name":
			cols.name = i
		case "hex":
			cols.hex = i
		}
	}
	if cols.floss < 0 || cols.name < 0 || cols.hex < 0 {
		return defaultColumns
	}
	return cols
}
