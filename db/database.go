package db

import (
	"context"
	"database/sql"
	"time"
)

// TimeLayout is how timestamps are stored in TEXT columns. RFC3339 in UTC
// keeps lexicographic and chronological order identical, so date comparisons
// can run inside SQL.
const TimeLayout = time.RFC3339

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Row is a single result row keyed by column name. Absent and NULL columns
// read as zero values; the caller applies its own defaults.
type Row map[string]interface{}

// Text returns the named column as a string, or "" when NULL or missing.
func (r Row) Text(column string) string {
	if value, ok := r[column].(string); ok {
		return value
	}
	return ""
}

// Float returns the named column as a float64, or 0 when NULL or missing.
// sqlite hands integers back as int64, so both numeric shapes are accepted.
func (r Row) Float(column string) float64 {
	switch value := r[column].(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	}
	return 0
}

// Time parses the named column as a stored timestamp. The second return is
// false when the column is NULL, missing or unparseable.
func (r Row) Time(column string) (time.Time, bool) {
	text := r.Text(column)
	if text == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(TimeLayout, text)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Database is the persistence contract consumed by the services: parameterized
// single-row reads, multi-row reads and writes, nothing else.
type Database struct {
	conn *sql.DB
}

func NewDatabase(conn *sql.DB) *Database {
	return &Database{conn: conn}
}

// FetchOne runs a parameterized query and returns the first row, or nil when
// the result set is empty.
func (d *Database) FetchOne(ctx context.Context, query string, args ...interface{}) (Row, error) {
	rows, err := d.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchAll runs a parameterized query and returns every row as a column map.
func (d *Database) FetchAll(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// ExecuteWrite runs a parameterized insert/update/delete and returns the
// affected row count.
func (d *Database) ExecuteWrite(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
