// Package web serves billbook's HTML pages: registration, login, groups and
// bills.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gomponents "maragu.dev/gomponents"

	"github.com/mmynk/billbook/internal/metrics"
	"github.com/mmynk/billbook/internal/middleware"
	"github.com/mmynk/billbook/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Accounts      *service.AccountService
	Groups        *service.GroupService
	Bills         *service.BillService
	Health        Pinger
	Metrics       metrics.Recorder
	Logger        *slog.Logger
	SecureCookies bool

	now func() time.Time
}

func NewHandler(
	accounts *service.AccountService,
	groups *service.GroupService,
	bills *service.BillService,
	health Pinger,
	recorder metrics.Recorder,
	logger *slog.Logger,
	secureCookies bool,
) *Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Handler{
		Accounts:      accounts,
		Groups:        groups,
		Bills:         bills,
		Health:        health,
		Metrics:       recorder,
		Logger:        logger,
		SecureCookies: secureCookies,
		now:           time.Now,
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

// serverError logs err against the request and renders the 500 page.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.Error("Request failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	renderHTML(w, http.StatusInternalServerError, errorPage(
		isLoggedIn(r),
		"Something went wrong",
		"The request could not be completed. Please try again.",
	))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	renderHTML(w, http.StatusNotFound, errorPage(isLoggedIn(r), "Not found", message))
}

// NotFound renders the 404 page for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "There is nothing at "+r.URL.Path+".")
}

// RateLimited renders the 429 page for throttled form submissions.
func (h *Handler) RateLimited(w http.ResponseWriter, r *http.Request) {
	h.Metrics.IncRateLimited(r.URL.Path)
	renderHTML(w, http.StatusTooManyRequests, errorPage(
		isLoggedIn(r),
		"Too many attempts",
		"Please wait a moment before trying again.",
	))
}

// RequestTooLarge renders the 413 page for oversized request bodies.
func (h *Handler) RequestTooLarge(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusRequestEntityTooLarge, errorPage(
		isLoggedIn(r),
		"Request too large",
		"The submitted form is larger than the server accepts.",
	))
}

// Healthz answers 200 when the store responds to a ping.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.Health.Ping(ctx); err != nil {
		h.Logger.Warn("Health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}

func isLoggedIn(r *http.Request) bool {
	return middleware.GetUserID(r.Context()) != ""
}

// bodyTooLarge reports whether err came from the request body size limit.
func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostForm.Get(key))
}
