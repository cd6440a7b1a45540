package dataset

import (
	"fmt"
	"slices"
	"strconv"

	"polysynth/domain/core"
)

// ColumnKind is the value type held by a column
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindCategorical
	KindBoolean
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a named, typed vector. Exactly one of the value slices is populated, per Kind.
type Column struct {
	Name        string
	Kind        ColumnKind
	Numeric     []float64
	Categorical []string
	Boolean     []bool
}

// NumericColumn builds a numeric column
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumeric, Numeric: values}
}

// CategoricalColumn builds a string-labelled column
func CategoricalColumn(name string, values []string) Column {
	return Column{Name: name, Kind: KindCategorical, Categorical: values}
}

// BooleanColumn builds a boolean column
func BooleanColumn(name string, values []bool) Column {
	return Column{Name: name, Kind: KindBoolean, Boolean: values}
}

// Len returns the number of rows in the column
func (c Column) Len() int {
	switch c.Kind {
	case KindCategorical:
		return len(c.Categorical)
	case KindBoolean:
		return len(c.Boolean)
	default:
		return len(c.Numeric)
	}
}

// Cell renders one row the way the CSV artifact stores it.
func (c Column) Cell(row int) string {
	switch c.Kind {
	case KindCategorical:
		return c.Categorical[row]
	case KindBoolean:
		if c.Boolean[row] {
			return "True"
		}
		return "False"
	default:
		return strconv.FormatFloat(c.Numeric[row], 'g', -1, 64)
	}
}

// Distinct counts the distinct values in the column
func (c Column) Distinct() int {
	switch c.Kind {
	case KindCategorical:
		seen := make(map[string]struct{}, len(c.Categorical))
		for _, v := range c.Categorical {
			seen[v] = struct{}{}
		}
		return len(seen)
	case KindBoolean:
		seen := make(map[bool]struct{}, 2)
		for _, v := range c.Boolean {
			seen[v] = struct{}{}
		}
		return len(seen)
	default:
		seen := make(map[float64]struct{}, len(c.Numeric))
		for _, v := range c.Numeric {
			seen[v] = struct{}{}
		}
		return len(seen)
	}
}

func (c Column) clone() Column {
	return Column{
		Name:        c.Name,
		Kind:        c.Kind,
		Numeric:     slices.Clone(c.Numeric),
		Categorical: slices.Clone(c.Categorical),
		Boolean:     slices.Clone(c.Boolean),
	}
}

// Table is an ordered set of equally long columns.
// Transformations work on a Clone; a Table handed to several variants is never mutated.
type Table struct {
	rows    int
	columns []Column
}

// NewTable creates an empty table with a fixed row count
func NewTable(rows int) *Table {
	return &Table{rows: rows}
}

// Rows returns the row count
func (t *Table) Rows() int {
	return t.rows
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// Columns returns the columns in order. The slice is a copy; the vectors are shared.
func (t *Table) Columns() []Column {
	return slices.Clone(t.columns)
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// NamesOfKind returns, in order, the names of columns of the given kind
func (t *Table) NamesOfKind(kind ColumnKind) []string {
	var names []string
	for _, c := range t.columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, error) {
	i := t.indexOf(name)
	if i < 0 {
		return Column{}, core.NewColumnNotFoundError(name)
	}
	return t.columns[i], nil
}

// NumericValues returns the values of a numeric column
func (t *Table) NumericValues(name string) ([]float64, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s is %s, want numeric", core.ErrColumnKind, name, col.Kind)
	}
	return col.Numeric, nil
}

// Append adds a column at the end
func (t *Table) Append(col Column) error {
	if t.indexOf(col.Name) >= 0 {
		return fmt.Errorf("column %s already exists", col.Name)
	}
	if err := t.checkLen(col); err != nil {
		return err
	}
	t.columns = append(t.columns, col)
	return nil
}

// Replace swaps the column with the same name, keeping its position
func (t *Table) Replace(col Column) error {
	i := t.indexOf(col.Name)
	if i < 0 {
		return core.NewColumnNotFoundError(col.Name)
	}
	if err := t.checkLen(col); err != nil {
		return err
	}
	t.columns[i] = col
	return nil
}

// Drop removes a column
func (t *Table) Drop(name string) error {
	i := t.indexOf(name)
	if i < 0 {
		return core.NewColumnNotFoundError(name)
	}
	t.columns = slices.Delete(t.columns, i, i+1)
	return nil
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{rows: t.rows, columns: make([]Column, len(t.columns))}
	for i, c := range t.columns {
		out.columns[i] = c.clone()
	}
	return out
}

// Record renders one row as strings, in column order
func (t *Table) Record(row int) []string {
	record := make([]string, len(t.columns))
	for i, c := range t.columns {
		record[i] = c.Cell(row)
	}
	return record
}

func (t *Table) indexOf(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) checkLen(col Column) error {
	if col.Len() != t.rows {
		return fmt.Errorf("%w: column %s has %d rows, table has %d", core.ErrRowCountMismatch, col.Name, col.Len(), t.rows)
	}
	return nil
}
