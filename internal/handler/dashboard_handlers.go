package handler

import (
	"context"
	"net/http"

	"github.com/suhelali14/SafarWay-sub004/internal/analytics"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

type dashboardPage struct {
	models.PageData
	Summary analytics.Summary
}

// DashboardHandler - analytics overview; served at /dashboard and
// /dashboard/analytics
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	summary, ok := fetchData(h, w, r, func(ctx context.Context) (analytics.Summary, error) {
		return h.Analytics.Summary(ctx, u.AgencyID)
	})
	if !ok {
		return
	}
	h.renderOK(w, dashboardPage{
		PageData: h.page(r, "Dashboard", "dashboard"),
		Summary:  summary,
	})
}

type settingsPage struct {
	models.PageData
	Settings  models.AgencySettings
	CanManage bool
}

// SettingsHandler - agency profile and notification preferences
func (h *Handler) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	data := settingsPage{
		PageData:  h.page(r, "Agency settings", "settings"),
		CanManage: u.Role.CanManage(),
	}

	if r.Method == http.MethodPost {
		if _, ok := h.requireManager(w, r); !ok {
			return
		}
		submitted := models.AgencySettings{
			AgencyID:         u.AgencyID,
			Name:             r.FormValue("name"),
			Email:            r.FormValue("email"),
			Phone:            r.FormValue("phone"),
			Address:          r.FormValue("address"),
			Website:          r.FormValue("website"),
			Description:      r.FormValue("description"),
			Currency:         r.FormValue("currency"),
			Timezone:         r.FormValue("timezone"),
			NotifyBookings:   r.FormValue("notify_bookings") == "on",
			NotifyReviews:    r.FormValue("notify_reviews") == "on",
			NotifyNewsletter: r.FormValue("notify_newsletter") == "on",
		}
		_, msg, done := mutate(w, r, func(ctx context.Context) (models.AgencySettings, error) {
			return h.Store.SaveSettings(ctx, submitted)
		}, mutateOptions{Redirect: "/dashboard/settings", Success: "Settings saved."})
		if done {
			return
		}
		data.Settings = submitted
		data.Error = msg
		data.Success = ""
		h.render(w, http.StatusBadRequest, data)
		return
	}

	settings, ok := fetchData(h, w, r, func(ctx context.Context) (models.AgencySettings, error) {
		return h.Store.GetSettings(ctx, u.AgencyID)
	})
	if !ok {
		return
	}
	data.Settings = settings
	h.renderOK(w, data)
}
