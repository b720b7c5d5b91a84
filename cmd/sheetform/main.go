package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sheetform/pkg/api"
	"sheetform/pkg/config"
	"sheetform/pkg/record"
)

// cli carries the state shared by every subcommand. svc is built lazily from
// the loaded config unless already set.
type cli struct {
	out io.Writer

	configFile  string
	verbose     bool
	spreadsheet string

	cfg *config.Config
	svc *api.Service
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "sheetform",
		Short: "Append header-aligned rows to Google Sheets worksheets",
		Long: `sheetform appends rows to a Google Sheets worksheet, lining every value up
with the worksheet's header row. Fields that do not match a header are dropped
and headers without a value are left blank.

Credentials are read from the secrets store (secrets.toml or the system keyring)
and then from GOOGLE_* environment variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "Path to a sheetform.toml config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Verbose logging")
	root.PersistentFlags().StringVarP(&c.spreadsheet, "spreadsheet", "s", "", "Spreadsheet id or URL (default from config)")

	root.AddCommand(newWorksheetsCmd(c))
	root.AddCommand(newHeadersCmd(c))
	root.AddCommand(newAppendCmd(c))
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.New(c.configFile))
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.verbose || cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if c.svc == nil {
		svc, err := api.NewServiceFromConfig(cfg)
		if err != nil {
			return err
		}
		c.svc = svc
	}
	return nil
}

// spreadsheetID prefers the flag over the configured default.
func (c *cli) spreadsheetID() (string, error) {
	id := record.SpreadsheetID(c.spreadsheet)
	if id == "" && c.cfg != nil {
		id = record.SpreadsheetID(c.cfg.SpreadsheetID)
	}
	if id == "" {
		return "", errors.WithHint(
			errors.New("no spreadsheet selected"),
			"pass --spreadsheet or set GOOGLE_SHEET_ID",
		)
	}
	return id, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  - %s\n", h)
	}
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stderr)

	c := &cli{out: os.Stdout}
	if err := newRootCmd(c).Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
