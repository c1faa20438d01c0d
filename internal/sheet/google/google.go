// Package google implements the day Table on a Google spreadsheet.
package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"jiaban/internal/sheet"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config carries the spreadsheet identity and credentials source
// explicitly; nothing here reads the environment.
type Config struct {
	SpreadsheetID string
	// SheetName selects the worksheet; empty means the first sheet.
	SheetName string

	// Exactly one credentials source is required. Base64 is the legacy
	// deployment envelope; JSON and file match standard service-account
	// delivery.
	CredentialsBase64 string
	CredentialsJSON   string
	CredentialsFile   string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetTitle    string
	sheetID       int64 // numeric id, needed for row insertion
}

var _ sheet.Table = (*Client)(nil)

// NewClient builds a Sheets client and resolves the worksheet metadata.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	creds, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	meta, err := svc.Spreadsheets.Get(cfg.SpreadsheetID).
		Fields("sheets(properties(sheetId,title))").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", cfg.SpreadsheetID, err)
	}
	if len(meta.Sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", cfg.SpreadsheetID)
	}

	props := meta.Sheets[0].Properties
	if want := strings.TrimSpace(cfg.SheetName); want != "" {
		found := false
		for _, sh := range meta.Sheets {
			if sh.Properties.Title == want {
				props = sh.Properties
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("worksheet %q not found in spreadsheet %s", want, cfg.SpreadsheetID)
		}
	}

	slog.InfoContext(ctx, "Google Sheets client ready",
		"spreadsheet_id", cfg.SpreadsheetID,
		"sheet", props.Title)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetTitle:    props.Title,
		sheetID:       props.SheetId,
	}, nil
}

// credentialsJSON resolves the service-account JSON from whichever
// source the config provides.
func credentialsJSON(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsBase64) != "":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.CredentialsBase64))
		if err != nil {
			return nil, fmt.Errorf("decode base64 credentials: %w", err)
		}
		return raw, nil
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return raw, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_BASE64, GOOGLE_CREDENTIALS_JSON, or GOOGLE_CREDENTIALS_FILE)")
	}
}

func (c *Client) Find(ctx context.Context, key string, col int) (int, bool, error) {
	// The values API has no server-side find; scan the column like
	// gspread does under the hood.
	values, err := c.ColumnValues(ctx, col)
	if err != nil {
		return 0, false, err
	}
	for i, v := range values {
		if v == key {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (c *Client) ColumnValues(ctx context.Context, col int) ([]string, error) {
	letter := colLetter(col)
	rng := fmt.Sprintf("%s!%s:%s", c.sheetTitle, letter, letter)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			out[i] = strings.TrimSpace(fmt.Sprint(row[0]))
		}
	}
	return out, nil
}

func (c *Client) Range(ctx context.Context, r1, c1, r2, c2 int) ([][]string, error) {
	rng := fmt.Sprintf("%s!%s%d:%s%d", c.sheetTitle, colLetter(c1), r1, colLetter(c2), r2)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	// The API trims trailing empty rows and cells; pad back to the
	// requested rectangle so callers can index positionally.
	rows := r2 - r1 + 1
	cols := c2 - c1 + 1
	out := make([][]string, rows)
	for i := range out {
		out[i] = make([]string, cols)
		if i >= len(resp.Values) {
			continue
		}
		for j, v := range resp.Values[i] {
			if j < cols {
				out[i][j] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
	}
	return out, nil
}

func (c *Client) UpdateCell(ctx context.Context, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", c.sheetTitle, colLetter(col), row)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) BatchUpdate(ctx context.Context, updates []sheet.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*gsheet.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", c.sheetTitle, colLetter(u.Col), u.Row),
			Values: [][]any{{u.Value}},
		})
	}
	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch update %d cells: %w", len(updates), err)
	}
	return nil
}

func (c *Client) InsertRow(ctx context.Context, values []string, at int) error {
	// Open a gap first, then fill it; two calls because the values API
	// cannot shift rows.
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			InsertDimension: &gsheet.InsertDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    c.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(at - 1),
					EndIndex:   int64(at),
				},
				InheritFromBefore: at > 1,
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert row at %d: %w", at, err)
	}

	rng := fmt.Sprintf("%s!A%d", c.sheetTitle, at)
	vr := &gsheet.ValueRange{Values: [][]any{toAnyRow(values)}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("fill inserted row %d: %w", at, err)
	}
	return nil
}

func (c *Client) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, toAnyRow(r))
	}
	rng := fmt.Sprintf("%s!A1", c.sheetTitle)
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %d rows: %w", len(rows), err)
	}
	return nil
}

func toAnyRow(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// colLetter converts a 1-based column index to its A1 letter(s).
func colLetter(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}
