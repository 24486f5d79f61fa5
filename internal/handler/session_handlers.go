package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/auth"
	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/observability"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

type loginPage struct {
	models.PageData
	Email string
	Next  string
}

// homeFor is where a fresh session lands. Customers have no dashboard and
// the site has no customer account page yet, so they go back to the home page.
func homeFor(u domain.User) string {
	if u.Role.IsAgency() {
		return "/dashboard"
	}
	return "/"
}

// LoginHandler - sign-in form
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if u, err := currentUser(r); err == nil && r.Method == http.MethodGet {
		http.Redirect(w, r, homeFor(u), http.StatusSeeOther)
		return
	}

	data := loginPage{
		PageData: h.page(r, "Sign in", "login"),
		Next:     r.URL.Query().Get("next"),
	}

	if r.Method == http.MethodPost {
		data.Email = r.FormValue("email")
		data.Next = r.FormValue("next")

		u, msg, done := mutate(w, r, func(ctx context.Context) (domain.User, error) {
			return h.Session.Login(ctx, w, data.Email, r.FormValue("password"))
		}, mutateOptions{Error: "Login failed. Please try again."})
		if done {
			return
		}
		observability.RecordAuth("login", msg == "")
		if msg == "" {
			http.Redirect(w, r, safeNext(data.Next, homeFor(u)), http.StatusSeeOther)
			return
		}
		log.Info().Str("email", domain.NormalizeEmail(data.Email)).Msg("login rejected")
		data.Error = msg
		data.Success = ""
		h.render(w, http.StatusUnauthorized, data)
		return
	}

	h.renderOK(w, data)
}

type registerPage struct {
	models.PageData
	Name  string
	Email string
	Role  string
}

// RegisterHandler - sign-up form for customers and new agencies
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	data := registerPage{
		PageData: h.page(r, "Create your account", "register"),
		Role:     string(domain.RoleCustomer),
	}
	if role, ok := domain.ParseRole(r.URL.Query().Get("role")); ok {
		data.Role = string(role)
	}

	if r.Method == http.MethodPost {
		data.Name = r.FormValue("name")
		data.Email = r.FormValue("email")
		data.Role = r.FormValue("role")

		in := auth.RegisterInput{
			Name:     data.Name,
			Email:    data.Email,
			Password: r.FormValue("password"),
		}
		if data.Role != "" {
			role, ok := domain.ParseRole(data.Role)
			if !ok {
				role = domain.Role(data.Role)
			}
			in.Role = role
		}
		if r.FormValue("password") != r.FormValue("confirm_password") {
			data.Error = "Passwords do not match."
			h.render(w, http.StatusBadRequest, data)
			return
		}

		u, msg, done := mutate(w, r, func(ctx context.Context) (domain.User, error) {
			return h.Session.Register(ctx, w, in)
		}, mutateOptions{Error: "Registration failed. Please try again."})
		if done {
			return
		}
		observability.RecordAuth("register", msg == "")
		if msg == "" {
			redirectWith(w, r, homeFor(u), "success", "Welcome to SafarWay, "+u.Name+"!")
			return
		}
		data.Error = msg
		h.render(w, http.StatusBadRequest, data)
		return
	}

	h.renderOK(w, data)
}

// LogoutHandler - clears the session cookies
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(w)
	if u, err := currentUser(r); err == nil {
		log.Info().Int("user_id", u.ID).Msg("user logged out")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type onboardPage struct {
	models.PageData
	Token  string
	Invite models.Invite
	Name   string
}

// OnboardHandler - an invited employee sets a password and joins the agency
func (h *Handler) OnboardHandler(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if token == "" {
		h.NotFound(w, r)
		return
	}

	inv, ok := fetchData(h, w, r, func(ctx context.Context) (models.Invite, error) {
		return h.Store.GetInviteByToken(ctx, token)
	})
	if !ok {
		return
	}

	data := onboardPage{
		PageData: h.page(r, "Join "+inv.Email, "onboard"),
		Token:    token,
		Invite:   inv,
		Name:     inv.Name,
	}
	if inv.Status == models.InviteAccepted {
		data.Error = "This invite has already been accepted. Please sign in."
		h.render(w, http.StatusConflict, data)
		return
	}

	if r.Method == http.MethodPost {
		data.Name = r.FormValue("name")
		password := r.FormValue("password")

		u, msg, done := mutate(w, r, func(ctx context.Context) (models.User, error) {
			if len(password) < auth.MinPasswordLength {
				return models.User{}, &store.ValidationError{Message: fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength)}
			}
			if password != r.FormValue("confirm_password") {
				return models.User{}, &store.ValidationError{Message: "passwords do not match"}
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return models.User{}, err
			}
			return h.Store.AcceptInvite(ctx, token, data.Name, hash)
		}, mutateOptions{})
		if done {
			return
		}
		if msg != "" {
			data.Error = msg
			h.render(w, http.StatusBadRequest, data)
			return
		}
		if err := h.Session.Start(w, u.Identity()); err != nil {
			h.serverError(w, r, err)
			return
		}
		log.Info().Int("user_id", u.ID).Int("agency_id", u.AgencyID).Msg("invite accepted")
		redirectWith(w, r, "/dashboard", "success", "Welcome aboard, "+u.Name+"!")
		return
	}

	h.renderOK(w, data)
}
