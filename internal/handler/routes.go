package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/suhelali14/SafarWay-sub004/internal/observability"
	"github.com/suhelali14/SafarWay-sub004/web"
)

// Routes wires every page and API endpoint.
func (h *Handler) Routes(logger zerolog.Logger) *mux.Router {
	observability.RegisterMetrics()

	r := mux.NewRouter()
	r.Use(observability.RequestLogger(logger), observability.RequestMetrics, h.withSession)
	r.NotFoundHandler = h.withSession(http.HandlerFunc(h.NotFound))

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/", h.HomeHandler).Methods(http.MethodGet)
	r.HandleFunc("/destinations", h.DestinationsHandler).Methods(http.MethodGet)
	r.HandleFunc("/packages", h.PackagesHandler).Methods(http.MethodGet)
	r.HandleFunc("/packages/{slug}", h.PackageDetailHandler).Methods(http.MethodGet)
	r.HandleFunc("/newsletter", h.NewsletterHandler).Methods(http.MethodPost)

	r.HandleFunc("/login", h.LoginHandler).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/register", h.RegisterHandler).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", h.LogoutHandler).Methods(http.MethodPost)

	r.HandleFunc("/invites/onboard", h.OnboardHandler).Methods(http.MethodGet, http.MethodPost)
	invites := r.PathPrefix("/invites").Subrouter()
	invites.Use(h.requireAgency)
	invites.HandleFunc("", h.CreateInviteHandler).Methods(http.MethodPost)
	invites.HandleFunc("/{id:[0-9]+}/resend", h.ResendInviteHandler).Methods(http.MethodPost)

	dash := r.PathPrefix("/dashboard").Subrouter()
	dash.Use(h.requireAgency)
	dash.HandleFunc("", h.DashboardHandler).Methods(http.MethodGet)
	dash.HandleFunc("/analytics", h.DashboardHandler).Methods(http.MethodGet)
	dash.HandleFunc("/settings", h.SettingsHandler).Methods(http.MethodGet, http.MethodPost)

	dash.HandleFunc("/employees", h.EmployeesHandler).Methods(http.MethodGet)
	dash.HandleFunc("/employees/new", h.NewEmployeeHandler).Methods(http.MethodGet, http.MethodPost)
	dash.HandleFunc("/employees/{id:[0-9]+}/edit", h.EditEmployeeHandler).Methods(http.MethodGet, http.MethodPost)
	dash.HandleFunc("/employees/{id:[0-9]+}/delete", h.DeleteEmployeeHandler).Methods(http.MethodGet, http.MethodPost)

	dash.HandleFunc("/invites", h.InvitesHandler).Methods(http.MethodGet)

	dash.HandleFunc("/packages", h.AgencyPackagesHandler).Methods(http.MethodGet)
	dash.HandleFunc("/packages/new", h.NewPackageHandler).Methods(http.MethodGet, http.MethodPost)
	dash.HandleFunc("/packages/{id:[0-9]+}/edit", h.EditPackageHandler).Methods(http.MethodGet, http.MethodPost)
	dash.HandleFunc("/packages/{id:[0-9]+}/publish", h.PublishPackageHandler).Methods(http.MethodPost)
	dash.HandleFunc("/packages/{id:[0-9]+}/delete", h.DeletePackageHandler).Methods(http.MethodGet, http.MethodPost)

	dash.HandleFunc("/reports", h.ReportsHandler).Methods(http.MethodGet)
	dash.HandleFunc("/reports/generate", h.GenerateReportHandler).Methods(http.MethodPost)
	dash.HandleFunc("/reports/{id:[0-9]+}/download", h.DownloadReportHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	// geocoding spends the server's Maps quota, so only agency staff may call it
	api.Handle("/geocode", h.requireAgencyAPI(http.HandlerFunc(h.GeocodeAPIHandler))).Methods(http.MethodGet)
	agencyAPI := api.PathPrefix("/dashboard").Subrouter()
	agencyAPI.Use(h.requireAgencyAPI)
	agencyAPI.HandleFunc("/analytics", h.AnalyticsAPIHandler).Methods(http.MethodGet)

	return r
}
