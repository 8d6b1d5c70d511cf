package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-headless/pkg/headless"
)

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// internalErrorMessage replaces collaborator failures in error envelopes
const internalErrorMessage = "An internal error occurred"

// Error codes not backed by a request error kind
const (
	codeInternal    = "Internal"
	codeRateLimited = "RateLimited"
)

// Envelope is the body of every API response. Error envelopes name the
// error kind in Code.
type Envelope struct {
	Status  string      `json:"status"`
	Content interface{} `json:"content"`
	Code    string      `json:"code,omitempty"`
}

// Handler serves the headless routes on top of a headless.Service
type Handler struct {
	service headless.Service
}

// NewHandler creates a new handler
func NewHandler(service headless.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for the headless API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/page", h.GetPage)
	r.Get("/post", h.GetPost)
	r.Get("/archive", h.GetArchive)
	r.Get("/options", h.GetOptions)

	return r
}

// GetPage resolves ?path= to a page
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	req, err := headless.ParsePageRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, "page", err)
		return
	}

	page, err := h.service.GetPage(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "page", err)
		return
	}

	slog.Info("Page retrieved", "path", req.Path, "lang", req.Lang)
	h.writeSuccess(w, r, page)
}

// GetPost resolves ?slug=&post_type= to an item
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	req, err := headless.ParsePostRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, "post", err)
		return
	}

	post, err := h.service.GetPost(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "post", err)
		return
	}

	slog.Info("Post retrieved", "slug", req.Slug, "post_type", req.PostType, "lang", req.Lang)
	h.writeSuccess(w, r, post)
}

// GetArchive lists items of one or more post types
func (h *Handler) GetArchive(w http.ResponseWriter, r *http.Request) {
	req, err := headless.ParseArchiveRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, "archive", err)
		return
	}

	archive, err := h.service.GetArchive(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "archive", err)
		return
	}

	slog.Info("Archive retrieved", "post_type", req.PostTypes, "paged", req.Paged, "found_posts", archive.FoundPosts)
	h.writeSuccess(w, r, archive)
}

// GetOptions returns the fields of all options pages
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	req := headless.ParseOptionsRequest(r.URL.Query())

	options, err := h.service.GetOptions(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "options", err)
		return
	}

	h.writeSuccess(w, r, options)
}

func (h *Handler) writeSuccess(w http.ResponseWriter, r *http.Request, content interface{}) {
	render.JSON(w, r, Envelope{Status: StatusSuccess, Content: content})
}

// writeError answers with an error envelope. Request errors carry their own
// message; anything else is logged and replaced by a generic one.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, route string, err error) {
	message := err.Error()
	kind := headless.Kind(err)
	if headless.IsRequestError(err) {
		slog.Warn("Request rejected", "route", route, "kind", kind, "error", err)
	} else {
		slog.Error("Request failed", "route", route, "error", err)
		message = internalErrorMessage
	}
	render.JSON(w, r, Envelope{Status: StatusError, Content: message, Code: kind})
}
