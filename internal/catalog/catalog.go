// Package catalog serves the static marketing data (destinations, offers,
// testimonials, packages) from an embedded TOML file. Records are read-only
// after Load.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

//go:embed catalog.toml
var defaultCatalog []byte

// AllCategories is the filter value that disables category filtering.
const AllCategories = "all"

type Catalog struct {
	destinations []models.Destination
	offers       []models.Offer
	testimonials []models.Testimonial
	steps        []models.Step
	packages     []models.Package
	analytics    []models.MonthlyPoint
	bySlug       map[string]int
}

type file struct {
	Destinations []models.Destination  `toml:"destinations"`
	Offers       []models.Offer        `toml:"offers"`
	Testimonials []models.Testimonial  `toml:"testimonials"`
	Steps        []models.Step         `toml:"steps"`
	Packages     []models.Package      `toml:"packages"`
	Analytics    []models.MonthlyPoint `toml:"analytics"`
}

// Default parses the embedded catalogue.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile parses a catalogue from disk, for deployments that ship their own data.
func LoadFile(path string) (*Catalog, error) {
	var raw file
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return build(raw)
}

// Parse decodes TOML catalogue content.
func Parse(content []byte) (*Catalog, error) {
	var raw file
	if _, err := toml.Decode(string(content), &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return build(raw)
}

func build(raw file) (*Catalog, error) {
	c := &Catalog{
		destinations: raw.Destinations,
		offers:       raw.Offers,
		testimonials: raw.Testimonials,
		steps:        raw.Steps,
		packages:     raw.Packages,
		analytics:    raw.Analytics,
		bySlug:       make(map[string]int, len(raw.Packages)),
	}
	for i, p := range c.packages {
		slug := strings.TrimSpace(p.Slug)
		if slug == "" {
			return nil, fmt.Errorf("parse catalog: package %q has no slug", p.Title)
		}
		if _, dup := c.bySlug[slug]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate package slug %q", slug)
		}
		c.bySlug[slug] = i
		if c.packages[i].Currency == "" {
			c.packages[i].Currency = "INR"
		}
		// itinerary days are numbered from 1 in the data and shown in order
		sort.SliceStable(c.packages[i].Itinerary, func(a, b int) bool {
			return c.packages[i].Itinerary[a].Day < c.packages[i].Itinerary[b].Day
		})
	}
	return c, nil
}

func (c *Catalog) Destinations() []models.Destination { return clone(c.destinations) }
func (c *Catalog) Offers() []models.Offer             { return clone(c.offers) }
func (c *Catalog) Testimonials() []models.Testimonial { return clone(c.testimonials) }
func (c *Catalog) Steps() []models.Step               { return clone(c.steps) }
func (c *Catalog) Packages() []models.Package         { return clone(c.packages) }
func (c *Catalog) Analytics() []models.MonthlyPoint   { return clone(c.analytics) }

// FilterDestinations returns the destinations whose category matches,
// ignoring case. An empty category or "all" returns everything.
func (c *Catalog) FilterDestinations(category string) []models.Destination {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategories) {
		return c.Destinations()
	}
	var out []models.Destination
	for _, d := range c.destinations {
		if strings.EqualFold(d.Category, category) {
			out = append(out, d)
		}
	}
	return out
}

// Categories lists distinct destination categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range c.destinations {
		key := strings.ToLower(d.Category)
		if d.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d.Category)
	}
	return out
}

// Package looks a package up by slug.
func (c *Catalog) Package(slug string) (models.Package, bool) {
	i, ok := c.bySlug[strings.TrimSpace(slug)]
	if !ok {
		return models.Package{}, false
	}
	return c.packages[i], true
}

// Featured returns the n highest-rated packages.
func (c *Catalog) Featured(n int) []models.Package {
	out := c.Packages()
	sort.SliceStable(out, func(a, b int) bool { return out[a].Rating > out[b].Rating })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PackageQuery narrows a package search. Zero values do not filter.
type PackageQuery struct {
	Text        string
	Destination string
	Category    string
	MaxPrice    float64
	MaxDays     int
}

// SearchPackages returns the packages matching every set field of q.
func (c *Catalog) SearchPackages(q PackageQuery) []models.Package {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	var out []models.Package
	for _, p := range c.packages {
		if q.Destination != "" && !strings.EqualFold(p.Destination, q.Destination) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(q.Category, AllCategories) && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		if q.MaxDays > 0 && p.DurationDays > q.MaxDays {
			continue
		}
		if text != "" && !matchesText(p, text) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesText(p models.Package, text string) bool {
	for _, field := range []string{p.Title, p.Destination, p.Agency, p.Summary} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
