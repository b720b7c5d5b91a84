package api

import "sheetform/pkg/sheets"

type rowRequest struct {
	Fields map[string]string `json:"fields"`
	JSON   string            `json:"json"`
}

type createWorksheetRequest struct {
	Title string `json:"title"`
}

type worksheetsResponse struct {
	SpreadsheetID string             `json:"spreadsheetId"`
	Worksheets    []sheets.Worksheet `json:"worksheets"`
	Created       *sheets.Worksheet  `json:"created,omitempty"`
}

type indexResponse struct {
	Name                 string `json:"name"`
	DefaultSpreadsheetID string `json:"defaultSpreadsheetId,omitempty"`
}

// errorResponse carries the stale worksheet list when one is known.
type errorResponse struct {
	Error      string             `json:"error"`
	Hints      []string           `json:"hints,omitempty"`
	Worksheets []sheets.Worksheet `json:"worksheets,omitempty"`
}
