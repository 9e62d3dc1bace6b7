// Package controllers holds the HTTP handlers of the blog. Every handler answers
// with HTML, or with JSON when the client asks for it.
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"inkwell/app/middleware"
	"inkwell/app/repositories"
	"inkwell/app/views"
)

type base struct {
	views  *views.Renderer
	logger *zap.Logger
}

// wantsJSON reports whether the response should be JSON rather than HTML: the
// path is under /api/ or the Accept header lists application/json.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	for _, accept := range r.Header.Values("Accept") {
		for _, mediaType := range strings.Split(accept, ",") {
			mediaType, _, _ = strings.Cut(mediaType, ";")
			if strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
				return true
			}
		}
	}
	return false
}

// render writes page as HTML, or data as JSON for API clients.
func (b *base) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	if wantsJSON(r) {
		b.sendJSON(w, data)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := b.views.Render(w, page, data); err != nil {
		b.serverError(w, r, err)
	}
}

func (b *base) sendJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Warn("encode response", zap.Error(err))
	}
}

func (b *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	} else {
		http.Error(w, message, status)
	}
}

// fail answers a failed lookup with 404 and anything else with a logged 500.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.sendError(w, r, "Not found", http.StatusNotFound)
		return
	}
	b.serverError(w, r, err)
}

func (b *base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger.Error("request failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.RequestIDFrom(r.Context())),
	)
	b.sendError(w, r, "Internal server error", http.StatusInternalServerError)
}

// decodeForm binds a submitted form, read from a JSON body when the request
// carries one and from the url-encoded body otherwise. Either way the fields
// come back trimmed.
func decodeForm[T any, PT interface {
	*T
	Clean()
}](r *http.Request, bind func(url.Values) PT) (PT, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		form := PT(new(T))
		if err := json.NewDecoder(r.Body).Decode(form); err != nil {
			return nil, err
		}
		form.Clean()
		return form, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return bind(r.PostForm), nil
}
