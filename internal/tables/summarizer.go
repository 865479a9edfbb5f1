// Package tables turns extracted CSV tables into compact preview documents.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"reportqa/internal/domain"
)

// PreviewRows is the number of rows taken from each end of a table.
const PreviewRows = 2

// ErrEmptyTable is reported for files with a header but no usable data.
var ErrEmptyTable = errors.New("table has no data")

// Warning describes a table file that was skipped.
type Warning struct {
	File string
	Err  error
}

func (w Warning) String() string { return w.File + ": " + w.Err.Error() }

// Table is a parsed CSV file.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Summarizer builds one table document per CSV file in a directory.
type Summarizer struct {
	dedup  bool
	logger *slog.Logger
}

// NewSummarizer creates a summarizer. With dedup enabled, a table whose
// rows are identical to an earlier one is skipped.
func NewSummarizer(dedup bool, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{dedup: dedup, logger: logger}
}

// LoadDir reads every *.csv file in dir, in file name order.
func (s *Summarizer) LoadDir(dir string) ([]domain.Document, []Warning, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("table dir: %w", err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)

	var (
		docs     []domain.Document
		warnings []Warning
		seen     = make(map[string]string)
	)
	for _, p := range paths {
		name := filepath.Base(p)
		t, err := ReadFile(p)
		if err != nil {
			warnings = append(warnings, s.warn(name, err))
			continue
		}
		if s.dedup {
			sig := t.Signature()
			if first, ok := seen[sig]; ok {
				warnings = append(warnings, s.warn(name, fmt.Errorf("duplicate of %s", first)))
				continue
			}
			seen[sig] = name
		}
		docs = append(docs, domain.Document{
			Type:    domain.DocumentTable,
			Content: t.Preview(),
			Source:  name,
		})
	}
	return docs, warnings, nil
}

func (s *Summarizer) warn(file string, err error) Warning {
	s.logger.Warn("skipping table", "file", file, "err", err)
	return Warning{File: file, Err: err}
}

// ReadFile parses a CSV file whose first record is the header.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(filepath.Base(path), f)
}

// Parse reads a CSV table. Short rows are padded to the header width.
func Parse(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{Name: name, Columns: records[0]}
	for _, rec := range records[1:] {
		if len(rec) > len(t.Columns) {
			return nil, fmt.Errorf("parse csv: row has %d fields, header has %d", len(rec), len(t.Columns))
		}
		if blank(rec) {
			continue
		}
		row := make([]string, len(t.Columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// PreviewIndices returns the head and tail row indices without repeats.
func PreviewIndices(n int) []int {
	if n <= 2*PreviewRows {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, 2*PreviewRows)
	for i := 0; i < PreviewRows; i++ {
		out = append(out, i)
	}
	for i := n - PreviewRows; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// Preview renders the file name, the columns and the head/tail rows.
func (t *Table) Preview() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table %s\n", t.Name)
	fmt.Fprintf(&b, "Columns: [%s]\n", strings.Join(t.Columns, ", "))
	b.WriteString("Rows:")
	for _, i := range PreviewIndices(len(t.Rows)) {
		b.WriteString("\n- {")
		for j, col := range t.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", col, t.Rows[i][j])
		}
		b.WriteString("}")
	}
	return b.String()
}

// Signature identifies a table by its full contents.
func (t *Table) Signature() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, "|"))
	for _, r := range t.Rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(r, "|"))
	}
	return b.String()
}
