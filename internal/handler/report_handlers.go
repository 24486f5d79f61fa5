package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/reports"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

type reportsPage struct {
	models.PageData
	Reports []models.Report
	Kinds   []string
}

// ReportsHandler - generated reports
func (h *Handler) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	list, ok := fetchData(h, w, r, func(ctx context.Context) ([]models.Report, error) {
		return h.Store.ListReports(ctx, u.AgencyID)
	})
	if !ok {
		return
	}
	h.renderOK(w, reportsPage{
		PageData: h.page(r, "Reports", "reports"),
		Reports:  list,
		Kinds:    reports.Kinds,
	})
}

// GenerateReportHandler - POST builds and stores a CSV report
func (h *Handler) GenerateReportHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	_, msg, done := mutate(w, r, func(ctx context.Context) (models.Report, error) {
		report, err := h.Reports.Generate(ctx, u.AgencyID, r.FormValue("kind"))
		if errors.Is(err, reports.ErrUnknownKind) {
			return report, &store.ValidationError{Message: "Please choose a report type."}
		}
		return report, err
	}, mutateOptions{Redirect: "/dashboard/reports", Success: "Report generated."})
	if done {
		return
	}
	redirectWith(w, r, "/dashboard/reports", "error", msg)
}

// DownloadReportHandler - serves the stored CSV as an attachment
func (h *Handler) DownloadReportHandler(w http.ResponseWriter, r *http.Request) {
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
	report, ok := fetchData(h, w, r, func(ctx context.Context) (models.Report, error) {
		return h.Store.GetReport(ctx, u.AgencyID, id)
	})
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+reports.Filename(report)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	_, _ = w.Write([]byte(report.Content))
}
