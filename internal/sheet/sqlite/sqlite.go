// Package sqlite implements the day Table on a local SQLite database,
// for running without network access to the spreadsheet. Row indexes
// follow the sheet convention: row 1 is the header, data rows are the
// records in ascending date order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"jiaban/internal/sheet"

	_ "modernc.org/sqlite"
)

// columns maps 1-based sheet columns to table columns.
var columns = []string{
	"date",
	"weekday",
	"workday",
	"standard_off",
	"actual_off",
	"daily_overtime",
	"monthly_overtime",
}

type Store struct {
	db *sql.DB
}

var _ sheet.Table = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Find(ctx context.Context, key string, col int) (int, bool, error) {
	if err := checkCol(col); err != nil {
		return 0, false, err
	}
	if key == sheet.DayHeader[col-1] {
		return 1, true, nil
	}
	var date string
	q := fmt.Sprintf("SELECT date FROM day_records WHERE %s = ? ORDER BY date LIMIT 1", columns[col-1])
	err := s.db.QueryRowContext(ctx, q, key).Scan(&date)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find %q in %s: %w", key, columns[col-1], err)
	}
	row, err := s.rowIndex(ctx, date)
	if err != nil {
		return 0, false, err
	}
	return row, true, nil
}

func (s *Store) ColumnValues(ctx context.Context, col int) ([]string, error) {
	if err := checkCol(col); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM day_records ORDER BY date", columns[col-1])
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("read column %s: %w", columns[col-1], err)
	}
	defer rows.Close()

	out := []string{sheet.DayHeader[col-1]}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan column %s: %w", columns[col-1], err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read column %s: %w", columns[col-1], err)
	}
	return out, nil
}

func (s *Store) Range(ctx context.Context, r1, c1, r2, c2 int) ([][]string, error) {
	if r1 < 1 || c1 < 1 || r2 < r1 || c2 < c1 {
		return nil, fmt.Errorf("invalid range %d,%d:%d,%d", r1, c1, r2, c2)
	}
	all, err := s.allRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, r2-r1+1)
	for row := r1; row <= r2; row++ {
		line := make([]string, 0, c2-c1+1)
		for col := c1; col <= c2; col++ {
			var v string
			switch {
			case col > len(columns):
				// beyond the schema, blank
			case row == 1:
				v = sheet.DayHeader[col-1]
			case row-2 < len(all):
				v = all[row-2][col-1]
			}
			line = append(line, v)
		}
		out = append(out, line)
	}
	return out, nil
}

func (s *Store) UpdateCell(ctx context.Context, row, col int, value string) error {
	return s.update(ctx, s.db, row, col, value)
}

func (s *Store) BatchUpdate(ctx context.Context, updates []sheet.CellUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch update: %w", err)
	}
	defer tx.Rollback()
	for _, u := range updates {
		if err := s.update(ctx, tx, u.Row, u.Col, u.Value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch update: %w", err)
	}
	return nil
}

// InsertRow stores the row; the requested index is ignored because
// ordering is derived from the date key, which always yields the
// position an ordered sheet insert would have chosen.
func (s *Store) InsertRow(ctx context.Context, values []string, _ int) error {
	return s.insert(ctx, s.db, values)
}

func (s *Store) AppendRows(ctx context.Context, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()
	for _, r := range rows {
		if err := s.insert(ctx, tx, r); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, db execer, values []string) error {
	row := make([]any, len(columns))
	for i := range columns {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	if row[0] == "" {
		return fmt.Errorf("insert row: empty date key")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO day_records (date, weekday, workday, standard_off, actual_off, daily_overtime, monthly_overtime)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`, row...)
	if err != nil {
		return fmt.Errorf("insert day %v: %w", row[0], err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, db execer, row, col int, value string) error {
	if err := checkCol(col); err != nil {
		return err
	}
	if row < 2 {
		return fmt.Errorf("cannot update row %d", row)
	}
	date, err := s.dateAt(ctx, row)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("UPDATE day_records SET %s = ? WHERE date = ?", columns[col-1])
	if _, err := db.ExecContext(ctx, q, value, date); err != nil {
		return fmt.Errorf("update %s for %s: %w", columns[col-1], date, err)
	}
	return nil
}

// dateAt resolves a sheet row index to its date key.
func (s *Store) dateAt(ctx context.Context, row int) (string, error) {
	var date string
	err := s.db.QueryRowContext(ctx,
		"SELECT date FROM day_records ORDER BY date LIMIT 1 OFFSET ?", row-2).Scan(&date)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("row %d out of range", row)
	}
	if err != nil {
		return "", fmt.Errorf("resolve row %d: %w", row, err)
	}
	return date, nil
}

// rowIndex is the inverse of dateAt.
func (s *Store) rowIndex(ctx context.Context, date string) (int, error) {
	var before int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM day_records WHERE date < ?", date).Scan(&before)
	if err != nil {
		return 0, fmt.Errorf("index of %s: %w", date, err)
	}
	return before + 2, nil
}

func (s *Store) allRows(ctx context.Context) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, weekday, workday, standard_off, actual_off, daily_overtime, monthly_overtime
		 FROM day_records ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("read day records: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		r := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range r {
			dest[i] = &r[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan day record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read day records: %w", err)
	}
	return out, nil
}

func checkCol(col int) error {
	if col < 1 || col > len(columns) {
		return fmt.Errorf("column %d out of range", col)
	}
	return nil
}
