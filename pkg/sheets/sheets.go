package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"sheetform/pkg/credentials"
)

// DefaultScopes grants read/write access to spreadsheets only.
var DefaultScopes = []string{sheets.SpreadsheetsScope}

// DriveScopes additionally grants Drive access.
var DriveScopes = []string{sheets.SpreadsheetsScope, sheets.DriveScope}

type SheetClient struct {
	service *sheets.Service
}

// NewSheetClient wraps an already constructed Sheets service.
func NewSheetClient(service *sheets.Service) *SheetClient {
	return &SheetClient{service: service}
}

// NewSheetClientFromBundle authenticates as the service account in bundle.
// Extra options are applied after the authenticated HTTP client.
func NewSheetClientFromBundle(ctx context.Context, bundle credentials.Bundle, scopes []string, opts ...option.ClientOption) (*SheetClient, error) {
	if err := bundle.Validate(); err != nil {
		return nil, constructionFailed(err)
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	raw, err := bundle.JSON()
	if err != nil {
		return nil, constructionFailed(err)
	}
	cfg, err := google.JWTConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, constructionFailed(err)
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(cfg.Client(ctx))}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		log.Errorf("Unable to create Sheets client: %v", err)
		return nil, constructionFailed(err)
	}
	log.Debugf("sheets client created for %s", bundle.ClientEmail)
	return NewSheetClient(srv), nil
}

func constructionFailed(err error) error {
	return errors.Mark(errors.Wrap(err, "service construction failed"), ErrServiceConstruction)
}

// ListWorksheets returns every worksheet in the spreadsheet. Missing
// properties default to "Unknown"/0/0.
func (s *SheetClient) ListWorksheets(ctx context.Context, spreadsheetID string) ([]Worksheet, error) {
	log.Debugf("listing worksheets of %s", spreadsheetID)
	ss, err := s.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties(title,sheetId,index)").
		Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "listing worksheets")
	}
	worksheets := make([]Worksheet, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		worksheets = append(worksheets, worksheetFromProperties(sh.Properties))
	}
	return worksheets, nil
}

func worksheetFromProperties(p *sheets.SheetProperties) Worksheet {
	if p == nil {
		return Worksheet{Title: unknownTitle}
	}
	ws := Worksheet{Title: p.Title, ID: p.SheetId, Index: p.Index}
	if ws.Title == "" {
		ws.Title = unknownTitle
	}
	return ws
}

// GetHeaders reads row 1 of the worksheet. A blank row yields an empty slice.
func (s *SheetClient) GetHeaders(ctx context.Context, spreadsheetID, worksheet string) ([]string, error) {
	rng := headerRange(worksheet)
	log.Debugf("reading headers %s from %s", rng, spreadsheetID)
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "reading headers")
	}
	headers := []string{}
	if len(resp.Values) == 0 {
		return headers, nil
	}
	for _, cell := range resp.Values[0] {
		headers = append(headers, fmt.Sprint(cell))
	}
	return headers, nil
}

// AppendRow writes row after the last populated row of the worksheet. Values
// are stored as entered; the remote side does no formula or type coercion.
func (s *SheetClient) AppendRow(ctx context.Context, spreadsheetID, worksheet string, row []string) (*AppendResult, error) {
	if len(row) == 0 {
		return nil, errors.New("refusing to append an empty row")
	}
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	rng := appendRange(worksheet, len(row))
	log.Debugf("appending %d cells to %s in %s", len(row), rng, spreadsheetID)
	resp, err := s.service.Spreadsheets.Values.Append(
		spreadsheetID,
		rng,
		&sheets.ValueRange{Values: [][]interface{}{cells}},
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "appending row")
	}
	result := &AppendResult{SpreadsheetID: resp.SpreadsheetId, TableRange: resp.TableRange}
	if u := resp.Updates; u != nil {
		result.UpdatedRange = u.UpdatedRange
		result.UpdatedRows = u.UpdatedRows
		result.UpdatedColumns = u.UpdatedColumns
		result.UpdatedCells = u.UpdatedCells
	}
	return result, nil
}

// CreateWorksheet adds an empty worksheet titled title.
func (s *SheetClient) CreateWorksheet(ctx context.Context, spreadsheetID, title string) (*Worksheet, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("worksheet title is empty")
	}
	addSheetReq := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: title,
			},
		},
	}
	log.Debugf("adding worksheet %q to %s", title, spreadsheetID)
	resp, err := s.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{addSheetReq},
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "creating worksheet")
	}
	ws := Worksheet{Title: title}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		ws = worksheetFromProperties(resp.Replies[0].AddSheet.Properties)
	}
	return &ws, nil
}
