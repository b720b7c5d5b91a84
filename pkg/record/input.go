package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrInputParse = errors.New("invalid input")

// ParseJSON reads a flat JSON object of scalar values. Numbers keep their
// literal text, booleans become "true"/"false" and null becomes "".
func ParseJSON(text string) (Record, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing JSON input"), ErrInputParse)
	}
	if dec.More() {
		return nil, errors.Wrap(ErrInputParse, "parsing JSON input: unexpected data after object")
	}
	if raw == nil {
		return nil, errors.Wrap(ErrInputParse, "parsing JSON input: expected an object")
	}
	r := make(Record, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			r[k] = ""
		case string:
			r[k] = v
		case json.Number:
			r[k] = v.String()
		case bool:
			r[k] = fmt.Sprint(v)
		default:
			return nil, errors.Wrapf(ErrInputParse, "parsing JSON input: field %q is not a scalar", k)
		}
	}
	return r, nil
}

// Build merges form fields with the optional JSON text and drops blank values.
// Whitespace-only JSON text is treated as absent.
func Build(form Record, jsonText string) (Record, error) {
	merged := form
	if strings.TrimSpace(jsonText) != "" {
		overrides, err := ParseJSON(jsonText)
		if err != nil {
			return nil, err
		}
		merged = Merge(form, overrides)
	}
	return NonBlank(merged), nil
}

// Example renders a sample JSON object for the first few headers, used as
// placeholder text by form front ends.
func Example(headers []string) string {
	n := len(headers)
	if n > 3 {
		n = 3
	}
	sample := make(map[string]string, n)
	for _, h := range headers[:n] {
		sample[h] = "value of " + h
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(sample)
	return strings.TrimSpace(buf.String())
}

var spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// SpreadsheetID accepts either a bare id or a spreadsheet URL and returns the id.
func SpreadsheetID(s string) string {
	s = strings.TrimSpace(s)
	if m := spreadsheetURL.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
