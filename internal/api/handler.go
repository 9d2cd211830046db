package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/eugenenazirov/text-to-qr/internal/encoder"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

type errorKind string

const (
	kindValidation errorKind = "validation"
	kindServer     errorKind = "server"
)

// Handler wires the encoder and page renderer into HTTP handlers.
// It holds no mutable state and is safe for concurrent use.
type Handler struct {
	encoder encoder.Encoder
	pages   *Pages
	logger  *zap.Logger

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(enc encoder.Encoder, pages *Pages, logger *zap.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		encoder: enc,
		pages:   pages,
		logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "index.html", pageData{Title: "Home", Active: "home", MaxLength: MaxInputLength})
}

func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "about.html", pageData{Title: "About", Active: "about"})
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "contact.html", pageData{Title: "Contact", Active: "contact"})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid form submission.")
		return
	}

	text, err := validateInput(r.PostForm.Get(formFieldData))
	switch {
	case errors.Is(err, ErrEmptyInput):
		writeError(w, http.StatusBadRequest, kindValidation, msgEmptyInput)
		return
	case errors.Is(err, ErrInputTooLong):
		h.renderError(w, r, http.StatusBadRequest, msgInputTooLong)
		return
	}

	img, err := h.encoder.Encode(text)
	if err != nil {
		h.logger.Error("qr encoding failed",
			zap.Error(err),
			zap.Int("length", utf8.RuneCountInString(text)),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, kindServer, "Unable to generate QR code.")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": downloadFilename}))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.FormatInt(img.Size(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, img); err != nil {
		h.logger.Warn("qr image write failed",
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if err := h.pages.Render(w, http.StatusOK, name, data); err != nil {
		h.logger.Error("page render failed",
			zap.String("template", name),
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, kindServer, "Unable to render page.")
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := pageData{Title: http.StatusText(status), Status: status, Message: message}
	if err := h.pages.Render(w, status, "error.html", data); err != nil {
		h.logger.Warn("error page render failed",
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		http.Error(w, message, status)
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Kind  errorKind `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind errorKind, message string) {
	writeJSON(w, status, errorResponse{
		Error: message,
		Kind:  kind,
	})
}
