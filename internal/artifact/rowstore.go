// Package artifact stores generated synthetic datasets in a DuckDB file
// so the UI can page and search row previews without holding the whole
// CSV in memory or re-parsing it per request.
package artifact

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcboeker/go-duckdb"
)

// RowStore holds one ingested CSV artifact.
type RowStore struct {
	db       *sql.DB
	dbPath   string
	columns  []string
	rowCount int
}

// NewRowStore ingests a CSV payload into a fresh DuckDB file under
// tempDir, keyed by the owning session and task. The first CSV record is
// taken as the header.
func NewRowStore(tempDir, key, csvData string) (*RowStore, error) {
	reader := csv.NewReader(strings.NewReader(csvData))
	// Generated CSV is not guaranteed to be rectangular; short rows are
	// padded and long rows truncated at insert time.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV payload")
	}

	header := records[0]
	rows := records[1:]

	dbPath := filepath.Join(tempDir, fmt.Sprintf("artifact_%s.duckdb", key))
	os.Remove(dbPath)

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	cols := make([]string, len(header))
	colDefs := make([]string, len(header)+1)
	colDefs[0] = "row_num INTEGER PRIMARY KEY"
	// DuckDB matches identifiers case-insensitively, so names must be
	// unique after lowercasing and must not collide with the row_num key.
	seen := map[string]bool{"row_num": true}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 2; seen[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[strings.ToLower(name)] = true
		cols[i] = name
		colDefs[i+1] = quoteIdent(name) + " VARCHAR"
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE rows (%s)", strings.Join(colDefs, ", "))); err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("creating table: %w", err)
	}

	store := &RowStore{db: db, dbPath: dbPath, columns: cols}
	if err := store.insertRows(rows); err != nil {
		store.Close()
		return nil, err
	}
	store.rowCount = len(rows)

	return store, nil
}

func (s *RowStore) insertRows(rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}

	placeholders := make([]string, len(s.columns)+1)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO rows VALUES (%s)", strings.Join(placeholders, ", ")))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		args := make([]interface{}, len(s.columns)+1)
		args[0] = i + 1
		for j := range s.columns {
			if j < len(row) {
				args[j+1] = row[j]
			} else {
				// Ragged row, pad with empty cells.
				args[j+1] = ""
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inserts: %w", err)
	}

	return nil
}

// Columns returns the CSV header names in order.
func (s *RowStore) Columns() []string {
	return s.columns
}

// Len returns the number of data rows.
func (s *RowStore) Len() int {
	return s.rowCount
}

// Rows returns one page of rows, optionally filtered by a case-insensitive
// substring match across all columns. It returns the page, the total
// number of matching rows, and any error.
func (s *RowStore) Rows(ctx context.Context, search string, page, pageSize int) ([]map[string]string, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var where string
	var args []interface{}
	if search != "" {
		conds := make([]string, len(s.columns))
		pattern := "%" + search + "%"
		for i, col := range s.columns {
			conds[i] = quoteIdent(col) + " ILIKE ?"
			args = append(args, pattern)
		}
		where = " WHERE " + strings.Join(conds, " OR ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rows"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting rows: %w", err)
	}

	colList := make([]string, len(s.columns))
	for i, col := range s.columns {
		colList[i] = quoteIdent(col)
	}

	query := fmt.Sprintf("SELECT %s FROM rows%s ORDER BY row_num LIMIT ? OFFSET ?",
		strings.Join(colList, ", "), where)
	queryArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var out []map[string]string
	for rows.Next() {
		vals := make([]sql.NullString, len(s.columns))
		ptrs := make([]interface{}, len(s.columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, 0, fmt.Errorf("scanning row: %w", err)
		}

		rec := make(map[string]string, len(s.columns))
		for i, col := range s.columns {
			rec[col] = vals[i].String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}

	if out == nil {
		out = []map[string]string{}
	}

	return out, total, nil
}

// Close releases the database and removes the backing file.
func (s *RowStore) Close() {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	if s.dbPath != "" {
		os.Remove(s.dbPath)
	}
}

// quoteIdent quotes a SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
