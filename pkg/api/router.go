package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetRouter initialises a new http router and applies all routes
func GetRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	return applyRoutes(r, h)
}

func applyRoutes(r chi.Router, h *Handler) chi.Router {
	r.Route("/", func(r chi.Router) {
		r.Get("/", h.getIndex)
	})

	r.Route("/api/spreadsheets/{spreadsheetID}/worksheets", func(r chi.Router) {
		r.Get("/", h.listWorksheets)
		r.Post("/", h.createWorksheet)
		r.Get("/{worksheet}/headers", h.getHeaders)
		r.Post("/{worksheet}/preview", h.previewRow)
		r.Post("/{worksheet}/rows", h.submitRow)
	})

	return r
}
