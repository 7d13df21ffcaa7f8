package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/uyouii/ahis-analysis/common"
)

// Table is a CSV file read with its header row. Rows may be ragged;
// a missing trailing field reads as "".
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string

	columns map[string]int
}

func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV has no header row: %s: %w", path, common.ErrorEmptyTable)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	table := &Table{
		Path:    path,
		Headers: headers,
		Rows:    [][]string{},
		columns: make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		if _, ok := table.columns[h]; !ok {
			table.columns[h] = i
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

func (t *Table) Has(col string) bool {
	_, ok := t.columns[col]
	return ok
}

// Require fails with the sorted list of missing columns.
func (t *Table) Require(cols ...string) error {
	missing := []string{}
	for _, col := range cols {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required columns in %s: %v: %w", t.Path, missing, common.ErrorMissingColumn)
}

func (t *Table) RequireRows() error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("no data rows in %s: %w", t.Path, common.ErrorEmptyTable)
	}
	return nil
}

// Value returns the trimmed field, or "" if the column or field is absent.
func (t *Table) Value(rowIdx int, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(t.Rows[rowIdx]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[rowIdx][i])
}

// Float parses a finite number. Error messages use the 1-based file row,
// counting the header.
func (t *Table) Float(rowIdx int, col string) (float64, error) {
	raw := t.Value(rowIdx, col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-numeric value in %s at row %d col '%s': %q: %w",
			t.Path, FileRow(rowIdx), col, raw, common.ErrorNonNumeric)
	}
	return v, nil
}

func (t *Table) Int(rowIdx int, col string) (int, error) {
	raw := t.Value(rowIdx, col)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("non-integer value in %s at row %d col '%s': %q: %w",
			t.Path, FileRow(rowIdx), col, raw, common.ErrorNonNumeric)
	}
	return v, nil
}

// PositiveFloat is Float with an extra > 0 check.
func (t *Table) PositiveFloat(rowIdx int, col string) (float64, error) {
	v, err := t.Float(rowIdx, col)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0 in %s row %d: %w", col, t.Path, FileRow(rowIdx), common.ErrorInvalidValue)
	}
	return v, nil
}

func FileRow(rowIdx int) int {
	return rowIdx + 2
}
