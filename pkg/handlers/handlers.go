package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eknkc/pug"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"apod-gallery/pkg/feed"
	"apod-gallery/pkg/models"
	"apod-gallery/pkg/services"
	"apod-gallery/pkg/window"
)

const (
	msgLoadFailed  = "Failed to load data. Please try again."
	msgNoData      = "No data available."
	msgInvalidDate = "Please pick a valid date (YYYY-MM-DD). Showing the latest entries instead."
)

// Template and static asset locations, relative to the working directory
var (
	ViewsDir  = "./views"
	PublicDir = "./public"
)

// Handler serves the gallery pages and API for a service
type Handler struct {
	svc *services.Service
}

// NewRouter creates the HTTP routes for svc
func NewRouter(svc *services.Service) *http.ServeMux {
	h := &Handler{svc: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/gallery", http.StatusFound)
	})
	mux.HandleFunc("GET /gallery", h.GalleryHandler)
	mux.HandleFunc("GET /entry/{date}", h.EntryHandler)
	mux.HandleFunc("GET /api/window", h.WindowHandler)
	mux.HandleFunc("GET /api/entries/{date}", h.EntryJSONHandler)
	mux.HandleFunc("GET /api/fact", h.FactHandler)
	mux.HandleFunc("POST /api/reload", h.ReloadHandler)
	mux.Handle("GET /static/", http.FileServer(http.Dir(PublicDir)))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// GalleryHandler renders the gallery page for the start query parameter
func (h *Handler) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	log.WithField("start", start).Info("Generating Gallery")

	page := models.Page{Fact: h.svc.Fact()}

	win, err := h.svc.Window(start)
	if errors.Is(err, window.ErrInvalidDate) {
		page.Notice = msgInvalidDate
		win, err = h.svc.Window("")
	}
	switch {
	case err == nil:
		page.Window = win
	case errors.Is(err, window.ErrEmptyFeed):
		page.Notice = msgNoData
	default:
		log.Errorf("Error resolving window: %v", err)
		page.Notice = msgLoadFailed
	}

	render(w, "index.pug", page)
}

// EntryHandler renders the detail page of a single entry
func (h *Handler) EntryHandler(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	entry, err := h.svc.Entry(date)
	if err != nil {
		log.WithField("date", date).Info("Entry not found")
		http.NotFound(w, r)
		return
	}
	log.WithField("date", date).Info("Generating Entry Page")

	render(w, "entry.pug", models.Detail{Entry: entry, Fact: h.svc.Fact()})
}

// WindowHandler returns the window for the start query parameter as JSON
func (h *Handler) WindowHandler(w http.ResponseWriter, r *http.Request) {
	win, err := h.svc.Window(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, win)
}

// EntryJSONHandler returns a single entry as JSON
func (h *Handler) EntryJSONHandler(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Entry(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// FactHandler returns a random fact as JSON
func (h *Handler) FactHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"fact": h.svc.Fact()})
}

// ReloadHandler fetches the feed again
func (h *Handler) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Reloading feed")

	if err := h.svc.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Feed reloaded successfully",
		"entries": len(h.svc.Dates()),
	})
}

func render(w http.ResponseWriter, name string, data interface{}) {
	template, err := pug.CompileFile(ViewsDir+"/"+name, pug.Options{})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		log.Errorf("Template error: %v", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := template.Execute(w, data); err != nil {
		log.Errorf("Template execution error: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, window.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, window.ErrEmptyFeed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, feed.ErrFetchFailure):
		status = http.StatusBadGateway
	case errors.Is(err, feed.ErrSuperseded):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
