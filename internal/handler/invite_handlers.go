package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

type invitesPage struct {
	models.PageData
	Invites   []inviteRow
	Roles     []domain.Role
	CanManage bool
	Form      models.Invite
}

type inviteRow struct {
	models.Invite
	Link string
}

// onboardLink is the URL an invitee opens to join.
func (h *Handler) onboardLink(inv models.Invite) string {
	base := ""
	if h.Config != nil {
		base = h.Config.Server.BaseURL
	}
	return base + "/invites/onboard?" + url.Values{"token": {inv.Token}}.Encode()
}

// InvitesHandler - pending and accepted invites
func (h *Handler) InvitesHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	h.renderInvites(w, r, u, http.StatusOK, h.page(r, "Invites", "invites"), models.Invite{Role: domain.RoleAgencyUser})
}

func (h *Handler) renderInvites(w http.ResponseWriter, r *http.Request, u domain.User, status int, page models.PageData, form models.Invite) {
	invites, ok := fetchData(h, w, r, func(ctx context.Context) ([]models.Invite, error) {
		return h.Store.ListInvites(ctx, u.AgencyID)
	})
	if !ok {
		return
	}
	data := invitesPage{
		PageData:  page,
		Roles:     staffRoles,
		CanManage: u.Role.CanManage(),
		Form:      form,
	}
	for _, inv := range invites {
		row := inviteRow{Invite: inv}
		// links are only shown to managers, who hand them to the invitee
		if data.CanManage && inv.Status == models.InvitePending {
			row.Link = h.onboardLink(inv)
		}
		data.Invites = append(data.Invites, row)
	}
	h.render(w, status, data)
}

// CreateInviteHandler - POST /invites
func (h *Handler) CreateInviteHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireManager(w, r)
	if !ok {
		return
	}
	role, _ := domain.ParseRole(r.FormValue("role"))
	form := models.Invite{
		AgencyID: u.AgencyID,
		Email:    r.FormValue("email"),
		Name:     r.FormValue("name"),
		Role:     role,
	}

	inv, msg, done := mutate(w, r, func(ctx context.Context) (models.Invite, error) {
		return h.Store.CreateInvite(ctx, form)
	}, mutateOptions{Redirect: "/dashboard/invites", Success: "Invite sent to " + domain.NormalizeEmail(form.Email) + "."})
	if done {
		log.Info().Int("agency_id", u.AgencyID).Int("invite_id", inv.ID).Msg("invite created")
		return
	}
	page := h.page(r, "Invites", "invites")
	page.Error = msg
	page.Success = ""
	h.renderInvites(w, r, u, http.StatusBadRequest, page, form)
}

// ResendInviteHandler - POST /invites/{id}/resend
func (h *Handler) ResendInviteHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireManager(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	inv, msg, done := mutate(w, r, func(ctx context.Context) (models.Invite, error) {
		return h.Store.ResendInvite(ctx, u.AgencyID, id)
	}, mutateOptions{Redirect: "/dashboard/invites", Success: "Invite resent."})
	if done {
		log.Info().Int("invite_id", id).Int("resend_count", inv.ResendCount).Msg("invite resent")
		return
	}
	redirectWith(w, r, "/dashboard/invites", "error", msg)
}
