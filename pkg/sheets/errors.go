package sheets

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	ErrServiceConstruction = errors.New("service construction failed")
	ErrTransport           = errors.New("remote call failed")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotFound            = errors.New("not found")
)

func mark(err error, kinds ...error) error {
	for _, k := range kinds {
		err = errors.Mark(err, k)
	}
	return err
}

// classify wraps an error returned by the Sheets API with op and marks it with
// the matching kind so callers can branch with errors.Is.
func classify(err error, op string) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch {
		case gErr.Code == http.StatusTooManyRequests || isRateLimitReason(gErr):
			return mark(errors.Wrapf(err, "%s: quota exceeded", op), ErrTransport, ErrQuotaExceeded)
		case gErr.Code == http.StatusUnauthorized || gErr.Code == http.StatusForbidden:
			return mark(errors.Wrapf(err, "%s: permission denied", op), ErrTransport, ErrPermissionDenied)
		case gErr.Code == http.StatusNotFound:
			return mark(errors.Wrapf(err, "%s: spreadsheet not found", op), ErrNotFound)
		case gErr.Code == http.StatusBadRequest && strings.Contains(gErr.Message, "Unable to parse range"):
			return mark(errors.Wrapf(err, "%s: worksheet not found", op), ErrNotFound)
		}
	}
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		return mark(errors.Wrapf(err, "%s: token exchange failed", op), ErrTransport, ErrPermissionDenied)
	}
	return mark(errors.Wrap(err, op), ErrTransport)
}

func isRateLimitReason(gErr *googleapi.Error) bool {
	for _, item := range gErr.Errors {
		if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
			return true
		}
	}
	return false
}
