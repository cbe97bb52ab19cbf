package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"reconciler/core/dataset"
)

// loadJSON reads an array of record objects. Nested objects and arrays are
// rejected; reconciliation works on flat tabular data.
func loadJSON(r io.Reader) (*dataset.Dataset, error) {
	var records []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("file holds no records")
	}
	for i, rec := range records {
		for name, val := range rec {
			switch val.(type) {
			case map[string]any, []any:
				return nil, fmt.Errorf("record %d field %q is nested; only flat records are supported", i, name)
			}
		}
	}
	return dataset.FromRecords(records)
}
