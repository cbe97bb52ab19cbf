package dataset

import (
	"fmt"
	"sort"
)

// Column is an ordered sequence of cells under one name.
type Column struct {
	Name   string
	Values []Value
}

// Kind returns the column's storage kind, derived from its non-null cells.
// An all-null column reports KindNull; a column mixing kinds reports KindText
// since it can only be treated as free-form data.
func (c *Column) Kind() Kind {
	kind := KindNull
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		if kind == KindNull {
			kind = v.Kind()
			continue
		}
		if v.Kind() != kind {
			return KindText
		}
	}
	return kind
}

// IntegerValued reports whether every non-null cell is an integral number.
// False for all-null columns.
func (c *Column) IntegerValued() bool {
	seen := false
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		if !v.IsIntegral() {
			return false
		}
		seen = true
	}
	return seen
}

// NonNull returns the column's non-null cells in order.
func (c *Column) NonNull() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsNull() {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is an ordered collection of equal-length named columns.
type Dataset struct {
	columns []Column
	byName  map[string]int
}

// New builds a dataset from columns. Columns must have unique names and
// identical lengths.
func New(columns []Column) (*Dataset, error) {
	d := &Dataset{
		columns: columns,
		byName:  make(map[string]int, len(columns)),
	}
	rows := -1
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, exists := d.byName[col.Name]; exists {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if rows == -1 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
		d.byName[col.Name] = i
	}
	return d, nil
}

// FromRecords builds a dataset from a list of records (row maps). Column
// order follows the record that first introduces each column; names new to a
// record are appended sorted, since Go map iteration is unordered. Missing
// fields become nulls.
func FromRecords(records []map[string]any) (*Dataset, error) {
	var order []string
	seen := make(map[string]bool)
	for _, rec := range records {
		var fresh []string
		for name := range rec {
			if !seen[name] {
				seen[name] = true
				fresh = append(fresh, name)
			}
		}
		sort.Strings(fresh)
		order = append(order, fresh...)
	}

	columns := make([]Column, len(order))
	for i, name := range order {
		values := make([]Value, len(records))
		for r, rec := range records {
			if raw, ok := rec[name]; ok {
				values[r] = ValueOf(raw)
			} else {
				values[r] = Null()
			}
		}
		columns[i] = Column{Name: name, Values: values}
	}
	return New(columns)
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int { return len(d.columns) }

// ColumnNames returns column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column, or false if absent.
func (d *Dataset) Column(name string) (*Column, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return &d.columns[idx], true
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// Cell returns the value at (column, row). Callers must pass a valid column
// name and row index.
func (d *Dataset) Cell(name string, row int) Value {
	return d.columns[d.byName[name]].Values[row]
}

// Row returns the values of one row in column order.
func (d *Dataset) Row(row int) []Value {
	out := make([]Value, len(d.columns))
	for i, col := range d.columns {
		out[i] = col.Values[row]
	}
	return out
}

// Record returns one row as a name→value map of plain Go values.
func (d *Dataset) Record(row int) map[string]any {
	rec := make(map[string]any, len(d.columns))
	for _, col := range d.columns {
		rec[col.Name] = col.Values[row].Interface()
	}
	return rec
}

// Records returns all rows as record maps, in row order.
func (d *Dataset) Records() []map[string]any {
	out := make([]map[string]any, d.RowCount())
	for i := range out {
		out[i] = d.Record(i)
	}
	return out
}

// Clone returns a deep copy, used for normalization working copies so the
// caller's dataset stays untouched.
func (d *Dataset) Clone() *Dataset {
	columns := make([]Column, len(d.columns))
	for i, col := range d.columns {
		values := make([]Value, len(col.Values))
		copy(values, col.Values)
		columns[i] = Column{Name: col.Name, Values: values}
	}
	out, _ := New(columns)
	return out
}

// Select returns a new dataset containing only the given rows, in the order
// provided, with original cell values preserved.
func (d *Dataset) Select(rows []int) *Dataset {
	columns := make([]Column, len(d.columns))
	for i, col := range d.columns {
		values := make([]Value, len(rows))
		for j, r := range rows {
			values[j] = col.Values[r]
		}
		columns[i] = Column{Name: col.Name, Values: values}
	}
	out, _ := New(columns)
	return out
}
