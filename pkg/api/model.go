package api

import (
	"context"

	"sheetform/pkg/credentials"
	"sheetform/pkg/record"
	"sheetform/pkg/sheets"
)

type CredentialResolver interface {
	Resolve() (credentials.Bundle, error)
}

// ClientFactory turns a credential bundle into an authenticated spreadsheet handle.
type ClientFactory func(ctx context.Context, bundle credentials.Bundle) (sheets.Spreadsheet, error)

// Ref names a single worksheet of a spreadsheet.
type Ref struct {
	SpreadsheetID string
	Worksheet     string
}

// Inventory is the worksheet list of one spreadsheet as last fetched. The
// zero value is the unknown state.
type Inventory struct {
	Known      bool
	Worksheets []sheets.Worksheet
}

func (inv Inventory) Titles() []string {
	titles := make([]string, 0, len(inv.Worksheets))
	for _, ws := range inv.Worksheets {
		titles = append(titles, ws.Title)
	}
	return titles
}

// Has reports whether a worksheet titled title is in the inventory.
func (inv Inventory) Has(title string) bool {
	for _, ws := range inv.Worksheets {
		if ws.Title == title {
			return true
		}
	}
	return false
}

type Field struct {
	Name string           `json:"name"`
	Kind record.FieldKind `json:"kind"`
}

type HeaderInfo struct {
	Worksheet string   `json:"worksheet"`
	Headers   []string `json:"headers"`
	Fields    []Field  `json:"fields"`
	Example   string   `json:"example"`
}

// Preview shows what a submission would write without writing it.
type Preview struct {
	Headers []string      `json:"headers"`
	Row     []string      `json:"row"`
	Record  record.Record `json:"record"`
	Dropped []string      `json:"dropped"`
}

type Submission struct {
	Preview
	Result *sheets.AppendResult `json:"result"`
}
