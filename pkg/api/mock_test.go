package api

import (
	"context"

	"sheetform/pkg/credentials"
	"sheetform/pkg/sheets"
)

type mockResolver struct {
	ResolveFunc func() (credentials.Bundle, error)
	Calls       int
}

func (m *mockResolver) Resolve() (credentials.Bundle, error) {
	m.Calls++
	if m.ResolveFunc == nil {
		return credentials.Bundle{ClientEmail: "robot@proj.iam.gserviceaccount.com"}, nil
	}
	return m.ResolveFunc()
}

type mockSheet struct {
	ListWorksheetsFunc  func(spreadsheetID string) ([]sheets.Worksheet, error)
	GetHeadersFunc      func(spreadsheetID, worksheet string) ([]string, error)
	AppendRowFunc       func(spreadsheetID, worksheet string, row []string) (*sheets.AppendResult, error)
	CreateWorksheetFunc func(spreadsheetID, title string) (*sheets.Worksheet, error)

	ListWorksheetsCalls  int
	GetHeadersCalls      int
	AppendRowCalls       [][]string
	CreateWorksheetCalls []string
}

func (m *mockSheet) ListWorksheets(_ context.Context, spreadsheetID string) ([]sheets.Worksheet, error) {
	m.ListWorksheetsCalls++
	return m.ListWorksheetsFunc(spreadsheetID)
}

func (m *mockSheet) GetHeaders(_ context.Context, spreadsheetID, worksheet string) ([]string, error) {
	m.GetHeadersCalls++
	return m.GetHeadersFunc(spreadsheetID, worksheet)
}

func (m *mockSheet) AppendRow(_ context.Context, spreadsheetID, worksheet string, row []string) (*sheets.AppendResult, error) {
	m.AppendRowCalls = append(m.AppendRowCalls, row)
	if m.AppendRowFunc == nil {
		return &sheets.AppendResult{SpreadsheetID: spreadsheetID, UpdatedRange: worksheet + "!A2", UpdatedRows: 1, UpdatedCells: int64(len(row))}, nil
	}
	return m.AppendRowFunc(spreadsheetID, worksheet, row)
}

func (m *mockSheet) CreateWorksheet(_ context.Context, spreadsheetID, title string) (*sheets.Worksheet, error) {
	m.CreateWorksheetCalls = append(m.CreateWorksheetCalls, title)
	return m.CreateWorksheetFunc(spreadsheetID, title)
}

func headersOf(h ...string) func(string, string) ([]string, error) {
	return func(string, string) ([]string, error) { return h, nil }
}

func newTestService(resolver *mockResolver, sheet *mockSheet) *Service {
	return NewService(resolver, func(context.Context, credentials.Bundle) (sheets.Spreadsheet, error) {
		return sheet, nil
	})
}
