package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

type agencyPackagesPage struct {
	models.PageData
	Packages []models.AgencyPackage
}

// AgencyPackagesHandler - the agency's own packages
func (h *Handler) AgencyPackagesHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	packages, ok := fetchData(h, w, r, func(ctx context.Context) ([]models.AgencyPackage, error) {
		return h.Store.ListPackages(ctx, u.AgencyID)
	})
	if !ok {
		return
	}
	h.renderOK(w, agencyPackagesPage{
		PageData: h.page(r, "Packages", "agency_packages"),
		Packages: packages,
	})
}

type packageForm struct {
	models.PageData
	Package    models.AgencyPackage
	IsNew      bool
	Images     string
	Inclusions string
	Exclusions string
	Categories []string
}

// splitLines turns a textarea into a list, one entry per non-empty line.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (h *Handler) packageFormFor(r *http.Request, title string, p models.AgencyPackage) packageForm {
	return packageForm{
		PageData:   h.page(r, title, "package_form"),
		Package:    p,
		Images:     strings.Join(p.Images, "\n"),
		Inclusions: strings.Join(p.Inclusions, "\n"),
		Exclusions: strings.Join(p.Exclusions, "\n"),
		Categories: h.Catalog.Categories(),
	}
}

// packageFromForm reads the form; a malformed number becomes a validation
// error from the store rather than a silent zero.
func packageFromForm(r *http.Request, agencyID int) models.AgencyPackage {
	p := models.AgencyPackage{
		AgencyID:    agencyID,
		Title:       r.FormValue("title"),
		Destination: r.FormValue("destination"),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Currency:    strings.ToUpper(strings.TrimSpace(r.FormValue("currency"))),
		Description: strings.TrimSpace(r.FormValue("description")),
		Images:      splitLines(r.FormValue("images")),
		Inclusions:  splitLines(r.FormValue("inclusions")),
		Exclusions:  splitLines(r.FormValue("exclusions")),
		Status:      strings.ToLower(r.FormValue("status")),
	}
	if v, err := strconv.Atoi(strings.TrimSpace(r.FormValue("duration_days"))); err == nil {
		p.DurationDays = v
	}
	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v = -1
		}
		p.Price = v
	}
	return p
}

// NewPackageHandler - create a draft or published package
func (h *Handler) NewPackageHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	data := h.packageFormFor(r, "New package", models.AgencyPackage{Currency: "INR", Status: models.PackageDraft, DurationDays: 1})
	data.IsNew = true

	if r.Method == http.MethodPost {
		p := packageFromForm(r, u.AgencyID)
		created, msg, done := mutate(w, r, func(ctx context.Context) (models.AgencyPackage, error) {
			return h.Store.CreatePackage(ctx, p)
		}, mutateOptions{Redirect: "/dashboard/packages", Success: "Package created."})
		if done {
			log.Info().Int("agency_id", u.AgencyID).Int("package_id", created.ID).Msg("package created")
			return
		}
		data = h.packageFormFor(r, "New package", p)
		data.IsNew = true
		data.Error = msg
		h.render(w, http.StatusBadRequest, data)
		return
	}

	h.renderOK(w, data)
}

// EditPackageHandler - update a package
func (h *Handler) EditPackageHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	existing, ok := fetchData(h, w, r, func(ctx context.Context) (models.AgencyPackage, error) {
		return h.Store.GetPackage(ctx, u.AgencyID, id)
	})
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		p := packageFromForm(r, u.AgencyID)
		p.ID = id
		_, msg, done := mutate(w, r, func(ctx context.Context) (models.AgencyPackage, error) {
			return h.Store.UpdatePackage(ctx, p)
		}, mutateOptions{Redirect: "/dashboard/packages", Success: "Package updated."})
		if done {
			return
		}
		data := h.packageFormFor(r, "Edit package: "+existing.Title, p)
		data.Error = msg
		h.render(w, http.StatusBadRequest, data)
		return
	}

	h.renderOK(w, h.packageFormFor(r, "Edit package: "+existing.Title, existing))
}

// PublishPackageHandler - POST toggles between draft and published
func (h *Handler) PublishPackageHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	status := models.PackagePublished
	success := "Package published."
	if r.FormValue("status") == models.PackageDraft {
		status = models.PackageDraft
		success = "Package moved back to draft."
	}
	_, msg, done := mutate(w, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.Store.SetPackageStatus(ctx, u.AgencyID, id, status)
	}, mutateOptions{Redirect: "/dashboard/packages", Success: success})
	if done {
		return
	}
	redirectWith(w, r, "/dashboard/packages", "error", msg)
}

// DeletePackageHandler - GET confirms, POST deletes
func (h *Handler) DeletePackageHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	p, ok := fetchData(h, w, r, func(ctx context.Context) (models.AgencyPackage, error) {
		return h.Store.GetPackage(ctx, u.AgencyID, id)
	})
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		_, msg, done := mutate(w, r, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, h.Store.DeletePackage(ctx, u.AgencyID, id)
		}, mutateOptions{Redirect: "/dashboard/packages", Success: "Package deleted."})
		if done {
			return
		}
		redirectWith(w, r, "/dashboard/packages", "error", msg)
		return
	}

	h.renderOK(w, confirmDeletePage{
		PageData: h.page(r, "Delete package", "confirm_delete"),
		Name:     p.Title,
		Action:   "/dashboard/packages/" + strconv.Itoa(id) + "/delete",
		Cancel:   "/dashboard/packages",
	})
}
