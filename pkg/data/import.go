package data

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/animchart/pkg/errors"
)

// ReadJSON decodes a dataset from r.
//
// The input is either an array of objects or an object with a "data" array:
//
//	[{"label": "a", "value": 10}, {"label": "b", "value": 30}]
//	{"data": [{"label": "a", "value": 10}]}
//
// Elements that are not objects are rejected; missing fields are not, since
// those records are filtered per render by [Partition].
func ReadJSON(r io.Reader) (Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Data Dataset `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode json")
		}
		return wrapped.Data, nil
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode json")
	}
	return ds, nil
}

// ReadYAML decodes a YAML sequence of mappings.
func ReadYAML(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := yaml.NewDecoder(r).Decode(&ds); err != nil {
		if err == io.EOF {
			return Dataset{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode yaml")
	}
	return ds, nil
}

// ReadCSV decodes a CSV table with a header row. Cells that parse as
// numbers become float64; empty cells are left out of the record so the
// field counts as missing.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode csv")
	}
	if len(rows) == 0 {
		return Dataset{}, nil
	}

	header := rows[0]
	ds := make(Dataset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				rec[name] = f
			} else {
				rec[name] = cell
			}
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

// ImportFile reads a dataset from path, choosing the decoder by extension
// (.json, .csv, .yaml or .yml).
func ImportFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ReadJSON(f)
	case ".csv":
		return ReadCSV(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported dataset extension %q", ext)
	}
}
