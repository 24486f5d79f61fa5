package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/auth"
	"github.com/suhelali14/SafarWay-sub004/internal/newsletter"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

const genericError = "Something went wrong. Please try again."

// fetchData runs a read for a page. ok is false when the response has
// already been written: a login redirect on ErrUnauthorized, otherwise an
// error page.
func fetchData[T any](h *Handler, w http.ResponseWriter, r *http.Request, fn func(ctx context.Context) (T, error)) (T, bool) {
	data, err := fn(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return data, false
	}
	return data, true
}

type mutateOptions struct {
	// Redirect is where the browser goes after a successful write.
	Redirect string
	// Success is the flash message shown after the redirect.
	Success string
	// Error replaces messages that are not safe to show.
	Error string
}

// mutate runs a write from a form post. done reports that the response was
// written: the success redirect, or a login redirect on ErrUnauthorized.
// Otherwise msg carries the error for the form, and the caller re-renders it
// with the submitted values.
func mutate[T any](w http.ResponseWriter, r *http.Request, fn func(ctx context.Context) (T, error), opts mutateOptions) (result T, msg string, done bool) {
	result, err := fn(r.Context())
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			redirectToLogin(w, r)
			return result, "", true
		}
		return result, userMessage(err, opts.Error), false
	}
	if opts.Redirect != "" {
		redirectWith(w, r, opts.Redirect, "success", opts.Success)
		return result, "", true
	}
	return result, "", false
}

// userMessage returns text that can be shown to the user. Unknown errors are
// logged and replaced with fallback.
func userMessage(err error, fallback string) string {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, store.ErrAlreadyExists):
		return "A record with these details already exists."
	case errors.Is(err, store.ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, store.ErrInviteAccepted):
		return "This invite has already been accepted."
	case errors.Is(err, store.ErrNotConfigured):
		return "Storage is not available right now."
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrForbidden),
		errors.Is(err, newsletter.ErrInvalidEmail):
		return err.Error()
	}
	log.Error().Err(err).Msg("request failed")
	if fallback == "" {
		return genericError
	}
	return fallback
}
