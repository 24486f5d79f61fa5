package handler

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/suhelali14/SafarWay-sub004/config"
	"github.com/suhelali14/SafarWay-sub004/internal/analytics"
	"github.com/suhelali14/SafarWay-sub004/internal/auth"
	"github.com/suhelali14/SafarWay-sub004/internal/catalog"
	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/geocode"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/newsletter"
	"github.com/suhelali14/SafarWay-sub004/internal/reports"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
	"github.com/suhelali14/SafarWay-sub004/web"
)

// Handler holds the dependencies shared by every page.
type Handler struct {
	Config     *config.Config
	Store      *store.Store
	Catalog    *catalog.Catalog
	Session    *auth.Session
	Newsletter *newsletter.Service
	Geocoder   *geocode.Client
	Reports    *reports.Generator
	Analytics  *analytics.Service
	Tmpl       *template.Template
}

var pricePrinter = message.NewPrinter(language.MustParse("en-IN"))

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// formatPrice renders a whole-unit amount with grouping, e.g. ₹14,999.
func formatPrice(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "INR"
	}
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return symbol + pricePrinter.Sprintf("%d", int64(math.Round(amount)))
}

func formatNumber(n int) string {
	return pricePrinter.Sprintf("%d", n)
}

// stars renders a rating as filled and empty stars out of five.
func stars(rating float64) string {
	full := int(math.Round(rating))
	if full > 5 {
		full = 5
	}
	if full < 0 {
		full = 0
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatPrice":  formatPrice,
		"formatNumber": formatNumber,
		"stars":        stars,
		"join":         strings.Join,
		"lower":        strings.ToLower,
		"add":          func(a, b int) int { return a + b },
		"list":         func(items ...string) []string { return items },
		"date": func(t interface{ Format(string) string }) string {
			return t.Format("02 Jan 2006")
		},
	}
}

// ParseTemplates loads the embedded layout and page templates.
func ParseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(web.Templates(), "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	log.Debug().Int("count", len(tmpl.Templates())).Msg("templates loaded")
	return tmpl, nil
}

// setEncoding sets the HTML content type.
func (h *Handler) setEncoding(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

// page builds the common template payload: session user, flash messages and
// the menu toggle.
func (h *Handler) page(r *http.Request, title, current string) models.PageData {
	q := r.URL.Query()
	data := models.PageData{
		Title:       title,
		CurrentPage: current,
		MenuOpen:    q.Get("menu") == "open",
		Error:       q.Get("error"),
		Success:     q.Get("success"),
	}
	if h.Config != nil {
		data.MapsAPIKey = h.Config.Maps.APIKey
		data.Environment = h.Config.Server.Env
	}
	if u, ok := auth.UserFromContext(r.Context()); ok {
		data.User = &u
	}
	return data
}

// render executes base.html, which picks the page body by CurrentPage.
func (h *Handler) render(w http.ResponseWriter, status int, data any) {
	h.setEncoding(w)
	w.WriteHeader(status)
	if err := h.Tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Error().Err(err).Msg("execute template")
	}
}

func (h *Handler) renderOK(w http.ResponseWriter, data any) {
	h.render(w, http.StatusOK, data)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, h.page(r, "Page not found", "not_found"))
}

func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusForbidden, h.page(r, "Access denied", "forbidden"))
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	data := h.page(r, "Something went wrong", "error")
	data.Error = genericError
	h.render(w, http.StatusInternalServerError, data)
}

// handleError maps an error to a response: login redirect, 403, 404 or 500.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		redirectToLogin(w, r)
	case errors.Is(err, auth.ErrForbidden):
		h.forbidden(w, r)
	case errors.Is(err, store.ErrNotFound):
		h.NotFound(w, r)
	default:
		h.serverError(w, r, err)
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if r.Method == http.MethodGet && r.URL.Path != "/login" {
		target += "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// redirectWith sends the browser to path with a flash message.
func redirectWith(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	if msg != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + url.Values{key: {msg}}.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// currentUser returns the session identity or ErrUnauthorized.
func currentUser(r *http.Request) (domain.User, error) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		return domain.User{}, auth.ErrUnauthorized
	}
	return u, nil
}

// safeNext only follows local redirect targets. Browsers read a backslash as
// a slash, so "/\host" is as external as "//host" and is refused too.
func safeNext(next, fallback string) string {
	if next == "" || next[0] != '/' {
		return fallback
	}
	if strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n\t") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return fallback
	}
	return next
}
