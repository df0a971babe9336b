package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"healthrisk/config"
	"healthrisk/ml"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TableSource loads the training dataset from a SQLite table.
type TableSource struct {
	Path  string
	Table string
}

func (s TableSource) Load() (*ml.Dataset, error) {
	return QueryDataset(s.Path, s.Table)
}

func (s TableSource) String() string {
	return fmt.Sprintf("sqlite:%s#%s", s.Path, s.Table)
}

// NewSource returns the dataset source selected by cfg.
func NewSource(cfg config.DatasetConfig) (ml.DatasetSource, error) {
	switch strings.ToLower(cfg.Format) {
	case "", config.FormatCSV:
		return ml.CSVSource(cfg.Path), nil
	case config.FormatSQLite:
		return TableSource{Path: cfg.Path, Table: cfg.Table}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", cfg.Format)
	}
}

// QueryDataset reads every row of table. Each column must hold numbers.
func QueryDataset(path, table string) (*ml.Dataset, error) {
	if err := checkIdentifier(table); err != nil {
		return nil, fmt.Errorf("%w: %w", ml.ErrDataUnavailable, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ml.ErrDataUnavailable, err)
	}

	database, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ml.ErrDataUnavailable, err)
	}
	defer database.Close()

	rows, err := database.Query(fmt.Sprintf(`SELECT * FROM %q ORDER BY rowid`, table))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ml.ErrDataUnavailable, path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ml.ErrDataUnavailable, err)
	}

	var records [][]float64
	cells := make([]sql.NullFloat64, len(columns))
	targets := make([]interface{}, len(columns))
	for i := range cells {
		targets[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ml.ErrDataUnavailable, len(records)+1, err)
		}
		record := make([]float64, len(columns))
		for i, cell := range cells {
			if !cell.Valid {
				return nil, fmt.Errorf("%w: row %d column %s is NULL", ml.ErrDataUnavailable, len(records)+1, columns[i])
			}
			record[i] = cell.Float64
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ml.ErrDataUnavailable, err)
	}

	return ml.NewDataset(columns, records)
}

// ImportDataset replaces table with the contents of ds.
func ImportDataset(path, table string, ds *ml.Dataset) error {
	if ds == nil {
		return errors.New("dataset is nil")
	}
	if err := checkIdentifier(table); err != nil {
		return err
	}
	columns := ds.Columns()
	definitions := make([]string, len(columns))
	for i, name := range columns {
		if err := checkIdentifier(name); err != nil {
			return err
		}
		definitions[i] = fmt.Sprintf("%q REAL NOT NULL", name)
	}

	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer database.Close()

	tx, err := database.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %q (%s)`, table, strings.Join(definitions, ", "))); err != nil {
		tx.Rollback()
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %q VALUES (%s)`, table, placeholders))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(columns))
	for i := 0; i < ds.Len(); i++ {
		for j, value := range ds.Row(i) {
			args[j] = value
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func checkIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid sqlite identifier %q", name)
	}
	return nil
}
