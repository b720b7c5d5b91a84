package sheets

import (
	"context"
	"strings"
)

// Spreadsheet is the remote store as seen by the orchestrator.
type Spreadsheet interface {
	ListWorksheets(ctx context.Context, spreadsheetID string) ([]Worksheet, error)
	GetHeaders(ctx context.Context, spreadsheetID, worksheet string) ([]string, error)
	AppendRow(ctx context.Context, spreadsheetID, worksheet string, row []string) (*AppendResult, error)
	CreateWorksheet(ctx context.Context, spreadsheetID, title string) (*Worksheet, error)
}

// Worksheet describes one tab of a spreadsheet.
type Worksheet struct {
	Title string `json:"title"`
	ID    int64  `json:"id"`
	Index int64  `json:"index"`
}

// AppendResult is the update metadata reported by the append call.
type AppendResult struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	TableRange     string `json:"tableRange,omitempty"`
	UpdatedRange   string `json:"updatedRange"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
	UpdatedCells   int64  `json:"updatedCells"`
}

const unknownTitle = "Unknown"

// ColumnName returns the A1 column letters for a 1-based column number.
func ColumnName(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// quoteSheetName quotes a worksheet title for use in A1 notation.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func headerRange(worksheet string) string {
	return quoteSheetName(worksheet) + "!1:1"
}

// appendRange spans exactly as many columns as the row being written.
func appendRange(worksheet string, width int) string {
	return quoteSheetName(worksheet) + "!A:" + ColumnName(width)
}
