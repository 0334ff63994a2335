package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"heartrisk/internal/features"
)

const targetColumn = "target"

// Header is the column layout written by WriteCSV.
func Header() []string {
	return append(features.Names(), targetColumn)
}

// ReadCSV loads a heart dataset. Columns are matched by header name so extra
// columns and any column order are accepted.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	names := Header()
	cols := make([]int, len(names))
	for i, name := range names {
		cols[i] = -1
		for j, h := range rows[0] {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}

	out := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		vec := make([]float64, features.Size)
		for i := 0; i < features.Size; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[cols[i]]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", n+2, names[i], err)
			}
			vec[i] = v
		}
		target, err := strconv.Atoi(strings.TrimSpace(row[cols[features.Size]]))
		if err != nil || target < 0 || target > 1 {
			return nil, fmt.Errorf("row %d: target must be 0 or 1", n+2)
		}
		p, _ := features.FromVector(vec)
		out = append(out, Record{Patient: p, Target: target})
	}
	return out, nil
}

// WriteCSV writes records with Header as the first row.
func WriteCSV(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header()); err != nil {
		return err
	}
	for _, r := range records {
		vec, _ := features.Vectorize(r.Patient)
		rec := make([]string, 0, len(vec)+1)
		for _, v := range vec {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rec = append(rec, strconv.Itoa(r.Target))
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
