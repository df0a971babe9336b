package ml

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Frame is a plain table of numeric rows, used for prediction input and
// dataset previews.
type Frame struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// Dataset is an immutable in-memory table of named numeric columns.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]float64
}

// DatasetSource produces the dataset the model is trained on.
type DatasetSource interface {
	Load() (*Dataset, error)
}

// CSVSource loads a dataset from a comma-separated file.
type CSVSource string

func (s CSVSource) Load() (*Dataset, error) {
	return LoadDataset(string(s))
}

func (s CSVSource) String() string {
	return "csv:" + string(s)
}

// NewDataset builds a dataset, copying columns and rows.
func NewDataset(columns []string, rows [][]float64) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrDataUnavailable)
	}
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrDataUnavailable, i+1)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrDataUnavailable, name)
		}
		index[name] = i
	}

	copied := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrDataUnavailable, i+1, len(row), len(columns))
		}
		copied[i] = append([]float64(nil), row...)
	}

	return &Dataset{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// LoadDataset reads a CSV file with a header row and numeric cells.
func LoadDataset(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer file.Close()

	ds, err := ReadDataset(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadDataset parses CSV from r. A UTF-8 byte order mark is ignored.
func ReadDataset(r io.Reader) (*Dataset, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrDataUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var rows [][]float64
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		}
		line, _ := reader.FieldPos(0)
		row := make([]float64, len(record))
		for i, cell := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %q is not numeric", ErrDataUnavailable, line, columns[i], cell)
			}
			row[i] = value
		}
		rows = append(rows, row)
	}

	return NewDataset(columns, rows)
}

func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

// Index returns the position of column name, or -1.
func (d *Dataset) Index(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

func (d *Dataset) Row(i int) []float64 {
	return append([]float64(nil), d.rows[i]...)
}

func (d *Dataset) Column(name string) ([]float64, bool) {
	idx := d.Index(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]float64, len(d.rows))
	for i, row := range d.rows {
		values[i] = row[idx]
	}
	return values, true
}

// Head returns the first n rows as a frame.
func (d *Dataset) Head(n int) *Frame {
	if n < 0 || n > len(d.rows) {
		n = len(d.rows)
	}
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = d.Row(i)
	}
	return &Frame{Columns: d.Columns(), Rows: rows}
}

// Select returns the given columns, in that order, as a frame.
func (d *Dataset) Select(columns ...string) (*Frame, error) {
	idx := make([]int, len(columns))
	for i, name := range columns {
		idx[i] = d.Index(name)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: dataset has no column %q", ErrSchemaMismatch, name)
		}
	}
	rows := make([][]float64, len(d.rows))
	for i, row := range d.rows {
		selected := make([]float64, len(idx))
		for j, k := range idx {
			selected[j] = row[k]
		}
		rows[i] = selected
	}
	return &Frame{Columns: append([]string(nil), columns...), Rows: rows}, nil
}
