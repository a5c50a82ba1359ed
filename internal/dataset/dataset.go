// Package dataset loads PAO associations from CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/paomem/internal/model"
)

// Load reads associations from a CSV file with Number, Person, Action and
// Object columns. Numbers are zero-padded to two digits; duplicate numbers
// overwrite earlier rows.
func Load(path string) (map[string]model.Association, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	data := map[string]model.Association{}
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row %d: %w", line+1, err)
		}
		line++
		assoc, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		data[assoc.Key] = assoc
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return data, nil
}

// SortedKeys returns the dataset keys in ascending order.
func SortedKeys(data map[string]model.Association) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type columns struct {
	number int
	person int
	action int
	object int
}

func columnIndexes(header []string) (columns, error) {
	cols := columns{number: -1, person: -1, action: -1, object: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "number":
			cols.number = i
		case "person":
			cols.person = i
		case "action":
			cols.action = i
		case "object":
			cols.object = i
		}
	}
	if cols.number < 0 || cols.person < 0 || cols.action < 0 || cols.object < 0 {
		return cols, fmt.Errorf("header must contain Number, Person, Action and Object columns")
	}
	return cols, nil
}

func parseRow(row []string, cols columns) (model.Association, error) {
	maxIdx := cols.number
	for _, idx := range []int{cols.person, cols.action, cols.object} {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	if len(row) <= maxIdx {
		return model.Association{}, fmt.Errorf("expected at least %d columns, got %d", maxIdx+1, len(row))
	}
	number, err := strconv.Atoi(strings.TrimSpace(row[cols.number]))
	if err != nil {
		return model.Association{}, fmt.Errorf("invalid number %q: %w", row[cols.number], err)
	}
	if number < 0 || number > 99 {
		return model.Association{}, fmt.Errorf("number %d out of range 0-99", number)
	}
	return model.Association{
		Key:    fmt.Sprintf("%02d", number),
		Person: strings.TrimSpace(row[cols.person]),
		Action: strings.TrimSpace(row[cols.action]),
		Object: strings.TrimSpace(row[cols.object]),
	}, nil
}
