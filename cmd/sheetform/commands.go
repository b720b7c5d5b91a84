package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"sheetform/pkg/api"
	"sheetform/pkg/record"
	"sheetform/pkg/sheets"
)

func newWorksheetsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worksheets",
		Short: "List or create worksheets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the worksheets of the spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.spreadsheetID()
			if err != nil {
				return err
			}
			inv, err := c.svc.Connect(cmd.Context(), id, api.Inventory{})
			if err != nil {
				return err
			}
			return printWorksheets(c.out, inv.Worksheets)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <title>",
		Short: "Add a worksheet and show the refreshed list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.spreadsheetID()
			if err != nil {
				return err
			}
			inv, ws, err := c.svc.CreateWorksheet(cmd.Context(), id, args[0], api.Inventory{})
			if ws != nil {
				fmt.Fprintf(c.out, "Created worksheet %q (id %d)\n", ws.Title, ws.ID)
			}
			if err != nil {
				return err
			}
			return printWorksheets(c.out, inv.Worksheets)
		},
	})
	return cmd
}

func newHeadersCmd(c *cli) *cobra.Command {
	var worksheet string
	cmd := &cobra.Command{
		Use:   "headers",
		Short: "Show the header row of a worksheet with an example JSON record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.spreadsheetID()
			if err != nil {
				return err
			}
			info, err := c.svc.Headers(cmd.Context(), api.Ref{SpreadsheetID: id, Worksheet: worksheet})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tHEADER\tKIND")
			for i, f := range info.Fields {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", sheets.ColumnName(i+1), f.Name, f.Kind)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if len(info.Headers) > 0 {
				fmt.Fprintf(c.out, "\nExample:\n%s\n", info.Example)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&worksheet, "worksheet", "w", "", "Worksheet name")
	_ = cmd.MarkFlagRequired("worksheet")
	return cmd
}

func newAppendCmd(c *cli) *cobra.Command {
	var (
		worksheet string
		fields    []string
		jsonText  string
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append one row aligned to the worksheet headers",
		Long: `Append one row to a worksheet. Values come from --field pairs and an optional
--json object; JSON keys win over --field pairs with the same name.

Examples:
  sheetform append -w Sales --field name=Ali --field email=ali@example.com
  sheetform append -w Sales --json '{"name":"Sara","amount":12.5}'
  sheetform append -w Sales --field name=Ali --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.spreadsheetID()
			if err != nil {
				return err
			}
			form, err := parseFields(fields)
			if err != nil {
				return err
			}
			ref := api.Ref{SpreadsheetID: id, Worksheet: worksheet}
			if dryRun {
				p, err := c.svc.Preview(cmd.Context(), ref, form, jsonText)
				if err != nil {
					return err
				}
				return printJSON(c.out, p)
			}
			sub, err := c.svc.Submit(cmd.Context(), ref, form, jsonText)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added row at %s\n", sub.Result.UpdatedRange)
			if len(sub.Dropped) > 0 {
				fmt.Fprintf(c.out, "Dropped fields without a matching header: %v\n", sub.Dropped)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&worksheet, "worksheet", "w", "", "Worksheet name")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Field value as name=value (repeatable)")
	cmd.Flags().StringVar(&jsonText, "json", "", "JSON object of field values")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the row without appending it")
	_ = cmd.MarkFlagRequired("worksheet")
	return cmd
}

// parseFields splits each name=value pair at the first '='. Values are kept
// verbatim, later pairs win.
func parseFields(pairs []string) (record.Record, error) {
	form := record.Record{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.WithHint(
				errors.Mark(errors.Newf("field %q is missing '='", pair), record.ErrInputParse),
				"pass fields as --field name=value",
			)
		}
		form[name] = value
	}
	return form, nil
}

func printWorksheets(w io.Writer, worksheets []sheets.Worksheet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tID\tTITLE")
	for _, ws := range worksheets {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", ws.Index, ws.ID, ws.Title)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
