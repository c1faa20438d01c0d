// Package sheet defines the port to the remote day table and its backends.
package sheet

import "context"

// Rows and columns are 1-based; row 1 is the header row, as in the
// spreadsheet itself.

// DayHeader is the header row of the day table, as it appears in the
// spreadsheet. Backends that own their storage (memory, sqlite) emit it
// as row 1.
var DayHeader = []string{"日期", "星期", "是否工作日", "标准下班时间", "实际下班时间", "当日加班(小时)", "本月累计加班(小时)"}

// CellUpdate is one cell write inside a batch.
type CellUpdate struct {
	Row, Col int
	Value    string
}

// Table is the minimal row-addressable store the schedule needs. The
// Google sheet is the canonical implementation; memory and sqlite
// backends implement the same contract.
type Table interface {
	// Find returns the row whose cell in column col equals key exactly.
	Find(ctx context.Context, key string, col int) (row int, found bool, err error)

	// ColumnValues returns the column top to bottom, index 0 being the
	// header cell. Trailing blank rows are not included.
	ColumnValues(ctx context.Context, col int) ([]string, error)

	// Range returns the rectangle [r1,c1]..[r2,c2] as formatted strings.
	// Cells beyond the sheet's data come back empty.
	Range(ctx context.Context, r1, c1, r2, c2 int) ([][]string, error)

	// UpdateCell writes a single cell.
	UpdateCell(ctx context.Context, row, col int, value string) error

	// BatchUpdate applies all cell writes in one store round trip.
	BatchUpdate(ctx context.Context, updates []CellUpdate) error

	// InsertRow inserts values as a new row at index at, shifting
	// existing rows down.
	InsertRow(ctx context.Context, values []string, at int) error

	// AppendRows appends rows after the last data row in one call.
	AppendRows(ctx context.Context, rows [][]string) error
}
