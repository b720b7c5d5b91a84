// Package record turns loosely structured input into rows aligned with a
// worksheet's header row. Nothing in here does I/O.
package record

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrDuplicateHeader = errors.New("duplicate header")

// Record maps a field name to its entered value.
type Record map[string]string

// Project aligns r with headers. Position i holds r[headers[i]], or "" when
// the field is absent. Fields not named by any header are dropped.
func Project(headers []string, r Record) []string {
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = r[h]
	}
	return row
}

// Dropped lists, sorted, the keys of r that Project would discard.
func Dropped(headers []string, r Record) []string {
	known := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		known[h] = struct{}{}
	}
	dropped := []string{}
	for k := range r {
		if _, ok := known[k]; !ok {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return dropped
}

// Merge returns form updated by overrides: override keys win, untouched form
// keys survive. Neither argument is modified.
func Merge(form, overrides Record) Record {
	merged := make(Record, len(form)+len(overrides))
	for k, v := range form {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// NonBlank returns a copy of r without entries whose value is empty.
func NonBlank(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// IsBlank reports whether every cell of row is empty.
func IsBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// CheckHeaders rejects header rows in which a non-empty name repeats, since
// both columns would receive the same value.
func CheckHeaders(headers []string) error {
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if j, ok := seen[h]; ok {
			return errors.Wrapf(ErrDuplicateHeader, "%q appears in columns %d and %d", h, j+1, i+1)
		}
		seen[h] = i
	}
	return nil
}

// FieldKind is a rendering hint for a header's input widget.
type FieldKind string

const (
	KindText  FieldKind = "text"
	KindDate  FieldKind = "date"
	KindNotes FieldKind = "notes"
	KindEmail FieldKind = "email"
	KindPhone FieldKind = "phone"
)

var fieldKinds = map[string]FieldKind{
	"date":              KindDate,
	"تاريخ":             KindDate,
	"التاريخ":           KindDate,
	"notes":             KindNotes,
	"ملاحظات":           KindNotes,
	"تعليقات":           KindNotes,
	"email":             KindEmail,
	"البريد الإلكتروني": KindEmail,
	"phone":             KindPhone,
	"رقم الهاتف":        KindPhone,
	"الهاتف":            KindPhone,
}

// KindOf guesses the widget for a header by exact, case-insensitive name.
func KindOf(header string) FieldKind {
	if k, ok := fieldKinds[strings.ToLower(strings.TrimSpace(header))]; ok {
		return k
	}
	return KindText
}
