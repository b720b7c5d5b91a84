package api

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"

	"sheetform/pkg/record"
	"sheetform/pkg/sheets"
)

var (
	ErrNoHeaders  = errors.New("no headers found")
	ErrEmptyInput = errors.New("no data entered")
)

// Advisory checklist attached to failed submissions.
var submitHints = []string{
	"check that the spreadsheet id is correct",
	"check that the secrets contain every service account field",
	"check that the spreadsheet is shared with the service account email",
	"check that the worksheet name matches exactly, including case",
}

// Service runs every user action as one synchronous call chain: resolve
// credentials, build a client, then talk to the spreadsheet. Headers are
// fetched fresh on every call.
type Service struct {
	resolver CredentialResolver
	connect  ClientFactory
}

func NewService(resolver CredentialResolver, connect ClientFactory) *Service {
	return &Service{resolver: resolver, connect: connect}
}

func (s *Service) client(ctx context.Context) (sheets.Spreadsheet, error) {
	bundle, err := s.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	return s.connect(ctx, bundle)
}

// Connect fetches the worksheet list and returns it as the new inventory. On
// failure the previous inventory is returned untouched.
func (s *Service) Connect(ctx context.Context, spreadsheetID string, inv Inventory) (Inventory, error) {
	client, err := s.client(ctx)
	if err != nil {
		return inv, err
	}
	return s.refresh(ctx, client, spreadsheetID, inv)
}

func (s *Service) refresh(ctx context.Context, client sheets.Spreadsheet, spreadsheetID string, inv Inventory) (Inventory, error) {
	worksheets, err := client.ListWorksheets(ctx, spreadsheetID)
	if err != nil {
		return inv, err
	}
	log.Debugf("spreadsheet %s has %d worksheets", spreadsheetID, len(worksheets))
	return Inventory{Known: true, Worksheets: worksheets}, nil
}

// CreateWorksheet adds a worksheet and then re-fetches the inventory.
func (s *Service) CreateWorksheet(ctx context.Context, spreadsheetID, title string, inv Inventory) (Inventory, *sheets.Worksheet, error) {
	if strings.TrimSpace(title) == "" {
		return inv, nil, errors.WithHint(errors.Wrap(ErrEmptyInput, "worksheet title"), "enter a name for the new worksheet")
	}
	client, err := s.client(ctx)
	if err != nil {
		return inv, nil, err
	}
	ws, err := client.CreateWorksheet(ctx, spreadsheetID, title)
	if err != nil {
		return inv, nil, err
	}
	log.Infof("Created worksheet %q in %s", ws.Title, spreadsheetID)
	refreshed, err := s.refresh(ctx, client, spreadsheetID, inv)
	if err != nil {
		return inv, ws, errors.Wrap(err, "worksheet created but the list could not be refreshed")
	}
	return refreshed, ws, nil
}

// Headers returns the live header row along with input hints for each column.
func (s *Service) Headers(ctx context.Context, ref Ref) (*HeaderInfo, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := client.GetHeaders(ctx, ref.SpreadsheetID, ref.Worksheet)
	if err != nil {
		return nil, err
	}
	info := &HeaderInfo{
		Worksheet: ref.Worksheet,
		Headers:   headers,
		Fields:    make([]Field, 0, len(headers)),
		Example:   record.Example(headers),
	}
	for _, h := range headers {
		info.Fields = append(info.Fields, Field{Name: h, Kind: record.KindOf(h)})
	}
	return info, nil
}

// Preview builds the row a submission would append.
func (s *Service) Preview(ctx context.Context, ref Ref, form record.Record, jsonText string) (*Preview, error) {
	rec, err := record.Build(form, jsonText)
	if err != nil {
		return nil, err
	}
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	return s.preview(ctx, client, ref, rec)
}

func (s *Service) preview(ctx context.Context, client sheets.Spreadsheet, ref Ref, rec record.Record) (*Preview, error) {
	headers, err := client.GetHeaders(ctx, ref.SpreadsheetID, ref.Worksheet)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNoHeaders, "worksheet %q", ref.Worksheet),
			"add column headers to the first row of the worksheet",
		)
	}
	if err := record.CheckHeaders(headers); err != nil {
		return nil, errors.WithHint(err, "rename one of the columns so every header is unique")
	}
	return &Preview{
		Headers: headers,
		Row:     record.Project(headers, rec),
		Record:  rec,
		Dropped: record.Dropped(headers, rec),
	}, nil
}

// Submit merges the form fields with the JSON text, aligns the result to the
// worksheet's current headers and appends it as a new row.
func (s *Service) Submit(ctx context.Context, ref Ref, form record.Record, jsonText string) (*Submission, error) {
	rec, err := record.Build(form, jsonText)
	if err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, errors.WithHint(ErrEmptyInput, "fill in at least one field")
	}
	client, err := s.client(ctx)
	if err != nil {
		return nil, withSubmitHints(err)
	}
	p, err := s.preview(ctx, client, ref, rec)
	if err != nil {
		return nil, withSubmitHints(err)
	}
	if len(p.Dropped) > 0 {
		log.Warnf("fields not in %q headers were dropped: %v", ref.Worksheet, p.Dropped)
	}
	if record.IsBlank(p.Row) {
		return nil, errors.WithHint(
			errors.Wrapf(ErrEmptyInput, "none of the entered fields match the headers of %q", ref.Worksheet),
			"fill in at least one field",
		)
	}
	result, err := client.AppendRow(ctx, ref.SpreadsheetID, ref.Worksheet, p.Row)
	if err != nil {
		return nil, withSubmitHints(err)
	}
	log.Infof("Added row to %q in %s (%s)", ref.Worksheet, ref.SpreadsheetID, result.UpdatedRange)
	return &Submission{Preview: *p, Result: result}, nil
}

func withSubmitHints(err error) error {
	if errors.IsAny(err, ErrNoHeaders, record.ErrDuplicateHeader) {
		return err
	}
	for _, h := range submitHints {
		err = errors.WithHint(err, h)
	}
	return err
}
