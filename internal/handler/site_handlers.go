package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/catalog"
	"github.com/suhelali14/SafarWay-sub004/internal/geocode"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/newsletter"
	"github.com/suhelali14/SafarWay-sub004/internal/observability"
	"github.com/suhelali14/SafarWay-sub004/internal/widget"
)

type homePage struct {
	models.PageData
	Offers       []models.Offer
	Destinations []models.Destination
	Featured     []models.Package
	Testimonials []models.Testimonial
	Steps        []models.Step
	Newsletter   newsletter.Form
}

// HomeHandler - landing page
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	data := homePage{
		PageData:     h.page(r, "Discover India with SafarWay", "home"),
		Offers:       h.Catalog.Offers(),
		Destinations: h.Catalog.Destinations(),
		Featured:     h.Catalog.Featured(3),
		Testimonials: h.Catalog.Testimonials(),
		Steps:        h.Catalog.Steps(),
		Newsletter:   newsletterFormFromQuery(r),
	}
	h.renderOK(w, data)
}

type destinationsPage struct {
	models.PageData
	Categories   []string
	Active       string
	Destinations []models.Destination
}

// DestinationsHandler - destination grid with the category filter
func (h *Handler) DestinationsHandler(w http.ResponseWriter, r *http.Request) {
	active := strings.TrimSpace(r.URL.Query().Get("category"))
	if active == "" {
		active = catalog.AllCategories
	}
	data := destinationsPage{
		PageData:     h.page(r, "Destinations", "destinations"),
		Categories:   h.Catalog.Categories(),
		Active:       active,
		Destinations: h.Catalog.FilterDestinations(active),
	}
	h.renderOK(w, data)
}

type packagesPage struct {
	models.PageData
	Query      catalog.PackageQuery
	Categories []string
	Packages   []models.Package
}

// PackagesHandler - package search
func (h *Handler) PackagesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.PackageQuery{
		Text:        strings.TrimSpace(q.Get("q")),
		Destination: strings.TrimSpace(q.Get("destination")),
		Category:    strings.TrimSpace(q.Get("category")),
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil && v > 0 {
		query.MaxPrice = v
	}
	if v, err := strconv.Atoi(q.Get("max_days")); err == nil && v > 0 {
		query.MaxDays = v
	}

	data := packagesPage{
		PageData:   h.page(r, "Tour Packages", "packages"),
		Query:      query,
		Categories: h.Catalog.Categories(),
		Packages:   h.Catalog.SearchPackages(query),
	}
	h.renderOK(w, data)
}

// detailState is the widget state carried in the package page URL.
type detailState struct {
	slug string
	img  int
	open string
	tab  string
}

func (s detailState) url(anchor string) string {
	v := url.Values{}
	v.Set("img", strconv.Itoa(s.img))
	if s.open != "" {
		v.Set("open", s.open)
	}
	if s.tab != "" {
		v.Set("tab", s.tab)
	}
	u := "/packages/" + url.PathEscape(s.slug) + "?" + v.Encode()
	if anchor != "" {
		u += "#" + anchor
	}
	return u
}

type thumbLink struct {
	widget.Thumb
	URL string
}

type dayLink struct {
	widget.DayView
	URL string
}

type tabLink struct {
	widget.Tab
	Active bool
	URL    string
}

type packageDetailPage struct {
	models.PageData
	Package models.Package

	Gallery widget.Gallery
	NextURL string
	PrevURL string
	Thumbs  []thumbLink

	Itinerary    widget.Itinerary
	Days         []dayLink
	AllExpanded  bool
	ToggleAllURL string

	Tabs     widget.Tabs
	TabLinks []tabLink

	Location geocode.Location
}

// PackageDetailHandler - package page with gallery, itinerary, tabs and map
func (h *Handler) PackageDetailHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	pkg, ok := h.Catalog.Package(slug)
	if !ok {
		h.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	img, _ := strconv.Atoi(q.Get("img"))
	gallery := widget.NewGallery(pkg.Images, img)
	itinerary := widget.ItineraryFromQuery(pkg.Itinerary, q.Get("open"), q.Get("all"))
	tabs := widget.PackageTabs(pkg.Inclusions, pkg.Exclusions, pkg.Policies, q.Get("tab"))

	state := detailState{slug: pkg.Slug, img: gallery.Index, open: itinerary.Encode(), tab: tabs.Active}

	data := packageDetailPage{
		PageData:    h.page(r, pkg.Title, "package_detail"),
		Package:     pkg,
		Gallery:     gallery,
		Itinerary:   itinerary,
		AllExpanded: itinerary.AllExpanded(),
		Tabs:        tabs,
		Location:    h.locate(r.Context(), pkg),
	}

	next, prev := state, state
	next.img, prev.img = gallery.NextIndex(), gallery.PrevIndex()
	data.NextURL, data.PrevURL = next.url("gallery"), prev.url("gallery")
	for _, t := range gallery.Thumbs() {
		s := state
		s.img = t.Index
		data.Thumbs = append(data.Thumbs, thumbLink{Thumb: t, URL: s.url("gallery")})
	}

	all := state
	all.open = itinerary.ToggleAll().Encode()
	data.ToggleAllURL = all.url("itinerary")
	for _, d := range itinerary.Views() {
		s := state
		s.open = d.ToggleOpen
		data.Days = append(data.Days, dayLink{DayView: d, URL: s.url("itinerary")})
	}

	for _, t := range tabs.Tabs {
		s := state
		s.tab = t.Key
		data.TabLinks = append(data.TabLinks, tabLink{Tab: t, Active: t.Key == tabs.Active, URL: s.url("details")})
	}

	h.renderOK(w, data)
}

func (h *Handler) locate(ctx context.Context, pkg models.Package) geocode.Location {
	if h.Geocoder == nil {
		return geocode.Location{Address: pkg.Address, Lat: pkg.Lat, Lng: pkg.Lng}
	}
	return h.Geocoder.Resolve(ctx, pkg.Address, pkg.Lat, pkg.Lng)
}

func newsletterFormFromQuery(r *http.Request) newsletter.Form {
	q := r.URL.Query()
	return newsletter.Form{
		Email:   q.Get("newsletter_email"),
		Error:   q.Get("newsletter_error"),
		Success: q.Get("newsletter") == "subscribed",
	}
}

// NewsletterHandler - signup form post; the result is shown back on the
// page the form was posted from.
func (h *Handler) NewsletterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	back := safeNext(r.FormValue("next"), "/")
	if i := strings.IndexAny(back, "?#"); i >= 0 {
		back = back[:i]
	}

	form := h.Newsletter.Submit(r.Context(), r.FormValue("email"))

	v := url.Values{}
	switch {
	case form.Success:
		observability.RecordNewsletter("ok")
		log.Info().Msg("newsletter signup")
		v.Set("newsletter", "subscribed")
	case form.Error == newsletter.ErrInvalidEmail.Error():
		observability.RecordNewsletter("invalid")
		v.Set("newsletter_error", form.Error)
		v.Set("newsletter_email", form.Email)
	default:
		observability.RecordNewsletter("error")
		v.Set("newsletter_error", form.Error)
		v.Set("newsletter_email", form.Email)
	}
	http.Redirect(w, r, back+"?"+v.Encode()+"#newsletter", http.StatusSeeOther)
}
