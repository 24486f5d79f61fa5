package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/auth"
	"github.com/suhelali14/SafarWay-sub004/internal/domain"
)

// withSession restores the signed-in user, if any, onto the request context.
// Invalid tokens are treated as signed out.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Session != nil {
			u, err := h.Session.Restore(r)
			switch {
			case err == nil:
				r = r.WithContext(auth.WithUser(r.Context(), u))
			case !errors.Is(err, auth.ErrUnauthorized):
				log.Warn().Err(err).Msg("restore session")
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAgency guards the dashboard: no session redirects to /login, a
// non-agency role gets 403.
func (h *Handler) requireAgency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := currentUser(r)
		if err != nil {
			redirectToLogin(w, r)
			return
		}
		if !u.Role.IsAgency() || u.AgencyID == 0 {
			log.Warn().Int("user_id", u.ID).Str("role", u.Role.String()).Msg("dashboard access denied")
			h.forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireManager checks write access to staff, invites and settings. It
// writes the 403 page itself and returns false when access is denied.
func (h *Handler) requireManager(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return domain.User{}, false
	}
	if !u.Role.CanManage() {
		log.Warn().Int("user_id", u.ID).Str("role", u.Role.String()).Msg("manager action denied")
		h.forbidden(w, r)
		return domain.User{}, false
	}
	return u, true
}

// requireAgencyAPI is requireAgency for JSON endpoints.
func (h *Handler) requireAgencyAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := currentUser(r)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !u.Role.IsAgency() || u.AgencyID == 0 {
			writeJSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
