package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"masterplan/pkg/models"
)

// CSVColumns is the header written by WriteCSV and understood by ReadCSVEdits.
var CSVColumns = []string{
	"id", "label", "name", "type", "status", "x", "y",
	"blueprintSrc", "areaSqft", "bedrooms", "bathrooms", "description", "mapsUrl",
}

func WriteCSV(w io.Writer, plots []models.Plot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	for _, p := range plots {
		if err := cw.Write([]string{
			p.ID,
			p.Label,
			detailCell(p, models.KeyName),
			detailCell(p, models.KeyType),
			string(p.Status),
			strconv.FormatFloat(p.X, 'f', -1, 64),
			strconv.FormatFloat(p.Y, 'f', -1, 64),
			detailCell(p, models.KeyBlueprintSrc),
			detailCell(p, models.KeyAreaSqft),
			detailCell(p, models.KeyBedrooms),
			detailCell(p, models.KeyBathrooms),
			detailCell(p, models.KeyDescription),
			detailCell(p, models.KeyMapsURL),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSVEdits turns CSV rows into bulk edit entries. Columns may appear in
// any order and unknown columns are ignored. Empty cells are left out of the
// entry so they keep the stored value.
func ReadCSVEdits(r io.Reader) ([]json.RawMessage, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if _, ok := header["id"]; !ok {
		return nil, fmt.Errorf("%w: csv has no id column", ErrInvalidArgument)
	}

	var edits []json.RawMessage
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		edit := make(map[string]any, len(CSVColumns))
		for _, col := range CSVColumns {
			raw := valueAt(header, row, col)
			if raw == "" {
				continue
			}
			v, err := csvValue(col, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %v", ErrInvalidArgument, line, col, err)
			}
			edit[col] = v
		}
		if edit["id"] == nil {
			continue
		}

		b, err := json.Marshal(edit)
		if err != nil {
			return nil, err
		}
		edits = append(edits, b)
	}
	return edits, nil
}

func csvValue(col, raw string) (any, error) {
	switch col {
	case "x", "y", models.KeyAreaSqft, models.KeyBedrooms, models.KeyBathrooms:
		return strconv.ParseFloat(raw, 64)
	case "status":
		s := models.PlotStatus(strings.ToLower(raw))
		if !s.Valid() {
			return nil, fmt.Errorf("unknown status %q", raw)
		}
		return s, nil
	}
	return raw, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(name)] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// detailCell writes a descriptive value as its string, or as its JSON text
// for any other shape. Missing and null values are empty cells.
func detailCell(p models.Plot, key string) string {
	raw, ok := p.Details[key]
	if !ok || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
