package models

import (
	"time"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
)

type User struct {
	ID           int         `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"-"` // never leaves the server
	Role         domain.Role `json:"role"`
	AgencyID     int         `json:"agency_id"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Identity strips the stored record down to the session view.
func (u User) Identity() domain.User {
	return domain.User{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, AgencyID: u.AgencyID}
}

type Destination struct {
	ID          string  `toml:"id" json:"id"`
	Name        string  `toml:"name" json:"name"`
	Country     string  `toml:"country" json:"country"`
	Category    string  `toml:"category" json:"category"`
	Image       string  `toml:"image" json:"image"`
	Description string  `toml:"description" json:"description"`
	Rating      float64 `toml:"rating" json:"rating"`
	PriceFrom   float64 `toml:"price_from" json:"price_from"`
}

type Offer struct {
	ID       string `toml:"id" json:"id"`
	Title    string `toml:"title" json:"title"`
	Subtitle string `toml:"subtitle" json:"subtitle"`
	Discount int    `toml:"discount" json:"discount"`
	Image    string `toml:"image" json:"image"`
	Link     string `toml:"link" json:"link"`
}

type Testimonial struct {
	ID       string `toml:"id" json:"id"`
	Name     string `toml:"name" json:"name"`
	Location string `toml:"location" json:"location"`
	Quote    string `toml:"quote" json:"quote"`
	Rating   int    `toml:"rating" json:"rating"`
	Avatar   string `toml:"avatar" json:"avatar"`
}

// Step is one card of the "how it works" section.
type Step struct {
	Title       string `toml:"title" json:"title"`
	Description string `toml:"description" json:"description"`
	Icon        string `toml:"icon" json:"icon"`
}

type ItineraryDay struct {
	Day         int      `toml:"day" json:"day"`
	Title       string   `toml:"title" json:"title"`
	Description string   `toml:"description" json:"description"`
	Meals       []string `toml:"meals" json:"meals"`
}

// Package is a bookable itinerary shown in listings and detail pages.
type Package struct {
	ID           string         `toml:"id" json:"id"`
	Slug         string         `toml:"slug" json:"slug"`
	Title        string         `toml:"title" json:"title"`
	Agency       string         `toml:"agency" json:"agency"`
	Destination  string         `toml:"destination" json:"destination"`
	Category     string         `toml:"category" json:"category"`
	DurationDays int            `toml:"duration_days" json:"duration_days"`
	Price        float64        `toml:"price" json:"price"`
	Currency     string         `toml:"currency" json:"currency"`
	Rating       float64        `toml:"rating" json:"rating"`
	Summary      string         `toml:"summary" json:"summary"`
	Images       []string       `toml:"images" json:"images"`
	Itinerary    []ItineraryDay `toml:"itinerary" json:"itinerary"`
	Inclusions   []string       `toml:"inclusions" json:"inclusions"`
	Exclusions   []string       `toml:"exclusions" json:"exclusions"`
	Policies     []string       `toml:"policies" json:"policies"`
	Address      string         `toml:"address" json:"address"`
	Lat          float64        `toml:"lat" json:"lat"`
	Lng          float64        `toml:"lng" json:"lng"`
}

// MonthlyPoint is one bar of an analytics chart.
type MonthlyPoint struct {
	Month    string  `toml:"month" json:"month"`
	Bookings int     `toml:"bookings" json:"bookings"`
	Revenue  float64 `toml:"revenue" json:"revenue"`
}

const (
	PackageDraft     = "draft"
	PackagePublished = "published"
)

// AgencyPackage is a package managed from the agency dashboard.
type AgencyPackage struct {
	ID           int       `json:"id"`
	AgencyID     int       `json:"agency_id"`
	Title        string    `json:"title"`
	Destination  string    `json:"destination"`
	Category     string    `json:"category"`
	DurationDays int       `json:"duration_days"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	Inclusions   []string  `json:"inclusions"`
	Exclusions   []string  `json:"exclusions"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

type Employee struct {
	ID        int         `json:"id"`
	AgencyID  int         `json:"agency_id"`
	UserID    *int        `json:"user_id,omitempty"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
)

type Invite struct {
	ID          int         `json:"id"`
	AgencyID    int         `json:"agency_id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	Token       string      `json:"-"`
	Status      string      `json:"status"`
	SentAt      time.Time   `json:"sent_at"`
	ResendCount int         `json:"resend_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

type AgencySettings struct {
	AgencyID         int       `json:"agency_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	Website          string    `json:"website"`
	Description      string    `json:"description"`
	Currency         string    `json:"currency"`
	Timezone         string    `json:"timezone"`
	NotifyBookings   bool      `json:"notify_bookings"`
	NotifyReviews    bool      `json:"notify_reviews"`
	NotifyNewsletter bool      `json:"notify_newsletter"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultAgencySettings seeds the settings form before anything was saved.
func DefaultAgencySettings(agencyID int) AgencySettings {
	return AgencySettings{
		AgencyID:       agencyID,
		Name:           "SafarWay Travels",
		Email:          "contact@safarway.com",
		Phone:          "+91 98765 43210",
		Address:        "Connaught Place, New Delhi, India",
		Website:        "https://safarway.com",
		Description:    "Curated journeys across India and beyond.",
		Currency:       "INR",
		Timezone:       "Asia/Kolkata",
		NotifyBookings: true,
		NotifyReviews:  true,
	}
}

const (
	ReportPackages    = "packages"
	ReportEmployees   = "employees"
	ReportSubscribers = "subscribers"

	ReportReady  = "ready"
	ReportFailed = "failed"
)

type Report struct {
	ID        int       `json:"id"`
	AgencyID  int       `json:"agency_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Format    string    `json:"format"`
	Status    string    `json:"status"`
	Rows      int       `json:"rows"`
	Content   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Subscriber struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// PageData is the common payload handed to every template.
type PageData struct {
	Title       string
	CurrentPage string
	User        *domain.User
	MenuOpen    bool
	MapsAPIKey  string
	Environment string
	Error       string
	Success     string
}

// IsAgency is used by the layout to show the dashboard link.
func (p PageData) IsAgency() bool {
	return p.User != nil && p.User.Role.IsAgency()
}
