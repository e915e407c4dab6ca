package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadTilesCSV reads tiles from a CSV file with a header row naming the
// columns number, name, image and unlocked (any order, case-insensitive).
// unlocked accepts true/1/yes/x; anything else is locked.
func LoadTilesCSV(path string) ([]TileFile, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"number", "name", "image"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv %s: missing column %q", path, required)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []TileFile{}
	for i, row := range rows[1:] {
		n, err := strconv.Atoi(get(row, "number"))
		if err != nil {
			// +2: header row and 1-based line numbers
			return nil, fmt.Errorf("csv %s line %d: bad tile number: %w", path, i+2, err)
		}
		out = append(out, TileFile{
			Number:   n,
			Name:     get(row, "name"),
			Image:    get(row, "image"),
			Unlocked: parseBool(get(row, "unlocked")),
		})
	}
	return out, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "x":
		return true
	}
	return false
}
