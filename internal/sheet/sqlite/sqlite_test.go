package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"jiaban/internal/sheet"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.AppendRows(context.Background(), [][]string{
		{"2024-06-03", "星期一", "是", "18:00:00", "19:30:00", "1.50", "1.50"},
		{"2024-06-01", "星期六", "否", "18:00:00"},
		{"2024-06-05", "星期三", "是", "18:00:00"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestRowsFollowDateOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	// Insertion order does not matter, the table reads back sorted.
	col, err := s.ColumnValues(ctx, 1)
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	want := []string{sheet.DayHeader[0], "2024-06-01", "2024-06-03", "2024-06-05"}
	if len(col) != len(want) {
		t.Fatalf("column %v", col)
	}
	for i := range want {
		if col[i] != want[i] {
			t.Fatalf("column[%d] = %q, want %q", i, col[i], want[i])
		}
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	row, found, err := s.Find(ctx, "2024-06-03", 1)
	if err != nil || !found {
		t.Fatalf("find: row=%d found=%v err=%v", row, found, err)
	}
	if row != 3 { // header, 06-01, then 06-03
		t.Fatalf("row = %d, want 3", row)
	}

	_, found, err = s.Find(ctx, "2024-06-04", 1)
	if err != nil || found {
		t.Fatalf("absent date: found=%v err=%v", found, err)
	}

	// Header cells are addressable like on the sheet.
	row, found, err = s.Find(ctx, sheet.DayHeader[0], 1)
	if err != nil || !found || row != 1 {
		t.Fatalf("header find: row=%d found=%v err=%v", row, found, err)
	}

	if _, _, err := s.Find(ctx, "x", 8); err == nil {
		t.Fatal("expected error for column out of range")
	}
}

func TestRangeIncludesHeaderAndPads(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	got, err := s.Range(ctx, 1, 1, 2, 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if got[0][0] != sheet.DayHeader[0] || got[0][6] != sheet.DayHeader[6] {
		t.Fatalf("header row: %v", got[0])
	}
	if got[1][0] != "2024-06-01" || got[1][2] != "否" {
		t.Fatalf("first data row: %v", got[1])
	}
	// Short seeded row comes back padded to the full width.
	if got[1][4] != "" || got[1][6] != "" {
		t.Fatalf("expected blank overtime cells: %v", got[1])
	}
}

func TestUpdateCell(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	if err := s.UpdateCell(ctx, 2, 3, "是"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Range(ctx, 2, 3, 2, 3)
	if err != nil || got[0][0] != "是" {
		t.Fatalf("after update: %v err=%v", got, err)
	}

	if err := s.UpdateCell(ctx, 1, 3, "x"); err == nil {
		t.Fatal("header row must not be writable")
	}
	if err := s.UpdateCell(ctx, 99, 3, "x"); err == nil {
		t.Fatal("expected error for row out of range")
	}
}

func TestBatchUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	err := s.BatchUpdate(ctx, []sheet.CellUpdate{
		{Row: 4, Col: 5, Value: "19:00:00"},
		{Row: 4, Col: 6, Value: "1.00"},
		{Row: 4, Col: 7, Value: "2.50"},
	})
	if err != nil {
		t.Fatalf("batch update: %v", err)
	}

	got, err := s.Range(ctx, 4, 5, 4, 7)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if got[0][0] != "19:00:00" || got[0][1] != "1.00" || got[0][2] != "2.50" {
		t.Fatalf("after batch: %v", got[0])
	}
}

func TestBatchUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	err := s.BatchUpdate(ctx, []sheet.CellUpdate{
		{Row: 2, Col: 5, Value: "19:00:00"},
		{Row: 99, Col: 5, Value: "nope"},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	got, _ := s.Range(ctx, 2, 5, 2, 5)
	if got[0][0] != "" {
		t.Fatalf("partial batch leaked: %v", got[0])
	}
}

func TestInsertRowIgnoresIndex(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	// Whatever index the caller computed, the date decides the position.
	if err := s.InsertRow(ctx, []string{"2024-06-02", "星期日", "否", "18:00:00"}, 99); err != nil {
		t.Fatalf("insert: %v", err)
	}
	row, found, err := s.Find(ctx, "2024-06-02", 1)
	if err != nil || !found || row != 3 {
		t.Fatalf("inserted row at %d (found=%v err=%v), want 3", row, found, err)
	}
}

func TestInsertRejectsEmptyDate(t *testing.T) {
	s := newStore(t)
	if err := s.InsertRow(context.Background(), []string{"", "星期日"}, 2); err == nil {
		t.Fatal("expected error for empty date key")
	}
}

func TestDuplicateDateRejected(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s)

	err := s.AppendRows(ctx, [][]string{{"2024-06-01", "星期六", "否", "18:00:00"}})
	if err == nil {
		t.Fatal("expected primary key violation")
	}
}
