package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetform/pkg/api"
	"sheetform/pkg/credentials"
	"sheetform/pkg/record"
	"sheetform/pkg/sheets"
)

type memResolver struct{}

func (memResolver) Resolve() (credentials.Bundle, error) {
	return credentials.Bundle{ClientEmail: "robot@proj.iam.gserviceaccount.com"}, nil
}

// memSheet is a single in-memory spreadsheet.
type memSheet struct {
	id      string
	tabs    []sheets.Worksheet
	headers map[string][]string
	rows    map[string][][]string
}

func (m *memSheet) check(id string) error {
	if id != m.id {
		return errors.Mark(errors.New("spreadsheet not found"), sheets.ErrNotFound)
	}
	return nil
}

func (m *memSheet) ListWorksheets(_ context.Context, id string) ([]sheets.Worksheet, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	return m.tabs, nil
}

func (m *memSheet) GetHeaders(_ context.Context, id, ws string) ([]string, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	h, ok := m.headers[ws]
	if !ok {
		return nil, errors.Mark(errors.New("worksheet not found"), sheets.ErrNotFound)
	}
	return h, nil
}

func (m *memSheet) AppendRow(_ context.Context, id, ws string, row []string) (*sheets.AppendResult, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	m.rows[ws] = append(m.rows[ws], row)
	return &sheets.AppendResult{SpreadsheetID: id, UpdatedRange: ws + "!A2:B2", UpdatedRows: 1}, nil
}

func (m *memSheet) CreateWorksheet(_ context.Context, id, title string) (*sheets.Worksheet, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	ws := sheets.Worksheet{Title: title, ID: int64(100 + len(m.tabs)), Index: int64(len(m.tabs))}
	m.tabs = append(m.tabs, ws)
	return &ws, nil
}

func newMemSheet() *memSheet {
	return &memSheet{
		id:      "1Bxi_abc",
		tabs:    []sheets.Worksheet{{Title: "Sales", ID: 0, Index: 0}},
		headers: map[string][]string{"Sales": {"name", "email"}},
		rows:    map[string][][]string{},
	}
}

func run(t *testing.T, sheet *memSheet, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GOOGLE_SHEET_ID", "")
	t.Setenv("SHEETFORM_SPREADSHEET_ID", "")
	var out bytes.Buffer
	c := &cli{
		out: &out,
		svc: api.NewService(memResolver{}, func(context.Context, credentials.Bundle) (sheets.Spreadsheet, error) {
			return sheet, nil
		}),
	}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWorksheetsList(t *testing.T) {
	out, err := run(t, newMemSheet(), "worksheets", "list", "-s", "1Bxi_abc")
	require.NoError(t, err)
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, "Sales")
}

func TestWorksheetsCreate(t *testing.T) {
	sheet := newMemSheet()
	out, err := run(t, sheet, "worksheets", "create", "Leads", "-s", "1Bxi_abc")
	require.NoError(t, err)
	assert.Contains(t, out, `Created worksheet "Leads" (id 101)`)
	assert.Len(t, sheet.tabs, 2)
}

func TestSpreadsheetURLAccepted(t *testing.T) {
	out, err := run(t, newMemSheet(), "worksheets", "list",
		"--spreadsheet", "https://docs.google.com/spreadsheets/d/1Bxi_abc/edit#gid=0")
	require.NoError(t, err)
	assert.Contains(t, out, "Sales")
}

func TestSpreadsheetRequired(t *testing.T) {
	_, err := run(t, newMemSheet(), "worksheets", "list")
	require.Error(t, err)
	assert.Contains(t, errors.GetAllHints(err), "pass --spreadsheet or set GOOGLE_SHEET_ID")
}

func TestHeaders(t *testing.T) {
	out, err := run(t, newMemSheet(), "headers", "-w", "Sales", "-s", "1Bxi_abc")
	require.NoError(t, err)
	assert.Contains(t, out, "email")
	assert.Contains(t, out, `"name": "value of name"`)
}

func TestAppend(t *testing.T) {
	sheet := newMemSheet()
	out, err := run(t, sheet, "append", "-w", "Sales", "-s", "1Bxi_abc",
		"--field", "name=Ali", "--field", "phone=123", "--json", `{"email":"ali@example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Ali", "ali@example.com"}}, sheet.rows["Sales"])
	assert.Contains(t, out, "Added row at Sales!A2:B2")
	assert.Contains(t, out, "[phone]")
}

func TestAppendKeepsFieldValuesVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{name: "quotes", field: `name="Ali"`, want: `"Ali"`},
		{name: "commas and equals", field: "name=a=1,b=2", want: "a=1,b=2"},
		{name: "spaces", field: "name= Ali Hassan ", want: " Ali Hassan "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := newMemSheet()
			out, err := run(t, sheet, "append", "-w", "Sales", "-s", "1Bxi_abc", "--dry-run",
				"--field", "email=ali@example.com", "--field", tt.field)
			require.NoError(t, err)

			var p api.Preview
			require.NoError(t, json.Unmarshal([]byte(out), &p))
			key := tt.field[:strings.Index(tt.field, "=")]
			assert.Equal(t, tt.want, p.Record[key])
			assert.Empty(t, p.Dropped)
		})
	}
}

func TestAppendFieldWithoutEquals(t *testing.T) {
	sheet := newMemSheet()
	_, err := run(t, sheet, "append", "-w", "Sales", "-s", "1Bxi_abc", "--field", "name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, record.ErrInputParse))
	assert.Empty(t, sheet.rows)
}

func TestAppendDryRun(t *testing.T) {
	sheet := newMemSheet()
	out, err := run(t, sheet, "append", "-w", "Sales", "-s", "1Bxi_abc", "--field", "name=Ali", "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, sheet.rows)

	var p api.Preview
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, []string{"Ali", ""}, p.Row)
}

func TestAppendUnknownWorksheet(t *testing.T) {
	_, err := run(t, newMemSheet(), "append", "-w", "Nope", "-s", "1Bxi_abc", "--field", "name=Ali")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sheets.ErrNotFound))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.WithHint(errors.New("boom"), "try again"))
	assert.Equal(t, "Error: boom\n  - try again\n", buf.String())
}
