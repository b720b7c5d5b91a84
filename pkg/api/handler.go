package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"sheetform/pkg/record"
	"sheetform/pkg/sheets"
)

const maxBodyBytes = 1 << 20

// Handler serves the form backend. It keeps one worksheet inventory per
// spreadsheet; each entry is replaced wholesale, last write wins.
type Handler struct {
	svc                  *Service
	defaultSpreadsheetID string

	mu          sync.Mutex
	inventories map[string]Inventory
}

func NewHandler(svc *Service, defaultSpreadsheetID string) *Handler {
	return &Handler{
		svc:                  svc,
		defaultSpreadsheetID: defaultSpreadsheetID,
		inventories:          map[string]Inventory{},
	}
}

func (h *Handler) inventory(spreadsheetID string) Inventory {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inventories[spreadsheetID]
}

func (h *Handler) storeInventory(spreadsheetID string, inv Inventory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inventories[spreadsheetID] = inv
}

func (h *Handler) getIndex(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, indexResponse{Name: "sheetform", DefaultSpreadsheetID: h.defaultSpreadsheetID})
}

func (h *Handler) listWorksheets(w http.ResponseWriter, r *http.Request) {
	id := spreadsheetParam(r)
	inv, err := h.svc.Connect(r.Context(), id, h.inventory(id))
	if err != nil {
		sendInventoryError(w, err, inv)
		return
	}
	h.storeInventory(id, inv)
	sendJSON(w, http.StatusOK, worksheetsResponse{SpreadsheetID: id, Worksheets: inv.Worksheets})
}

func (h *Handler) createWorksheet(w http.ResponseWriter, r *http.Request) {
	id := spreadsheetParam(r)
	var req createWorksheetRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err)
		return
	}
	inv, ws, err := h.svc.CreateWorksheet(r.Context(), id, req.Title, h.inventory(id))
	if err != nil {
		sendInventoryError(w, err, inv)
		return
	}
	h.storeInventory(id, inv)
	sendJSON(w, http.StatusCreated, worksheetsResponse{SpreadsheetID: id, Worksheets: inv.Worksheets, Created: ws})
}

func (h *Handler) getHeaders(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Headers(r.Context(), refParams(r))
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, info)
}

func (h *Handler) previewRow(w http.ResponseWriter, r *http.Request) {
	var req rowRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err)
		return
	}
	p, err := h.svc.Preview(r.Context(), refParams(r), req.Fields, req.JSON)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, p)
}

func (h *Handler) submitRow(w http.ResponseWriter, r *http.Request) {
	var req rowRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err)
		return
	}
	sub, err := h.svc.Submit(r.Context(), refParams(r), req.Fields, req.JSON)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, sub)
}

func spreadsheetParam(r *http.Request) string {
	return record.SpreadsheetID(urlParam(r, "spreadsheetID"))
}

func refParams(r *http.Request) Ref {
	return Ref{SpreadsheetID: spreadsheetParam(r), Worksheet: urlParam(r, "worksheet")}
}

// urlParam returns the decoded path parameter. chi matches against RawPath
// when it is set, so only then is the value still escaped.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Mark(errors.Wrap(err, "decoding request body"), record.ErrInputParse)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, record.ErrInputParse):
		return http.StatusBadRequest
	case errors.IsAny(err, ErrEmptyInput, ErrNoHeaders, record.ErrDuplicateHeader):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sheets.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sheets.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, sheets.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, sheets.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func sendError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	log.Warnf("request failed (%d): %v", status, err)
	sendJSON(w, status, errorResponse{Error: err.Error(), Hints: errors.GetAllHints(err)})
}

// sendInventoryError reports err along with the last known worksheet list.
func sendInventoryError(w http.ResponseWriter, err error, inv Inventory) {
	if !inv.Known {
		sendError(w, err)
		return
	}
	status := statusFor(err)
	log.Warnf("request failed (%d), serving %d cached worksheets: %v", status, len(inv.Worksheets), err)
	sendJSON(w, status, errorResponse{Error: err.Error(), Hints: errors.GetAllHints(err), Worksheets: inv.Worksheets})
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("encoding response: %v", err)
		sendResponse(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
		return
	}
	sendResponse(w, status, body)
}

func sendResponse(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
