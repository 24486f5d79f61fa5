// Package reports renders agency data as CSV and records the result.
package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

// ErrUnknownKind is returned for a report type that has no generator.
var ErrUnknownKind = errors.New("unknown report type")

// Kinds lists the report types offered in the dashboard.
var Kinds = []string{models.ReportPackages, models.ReportEmployees, models.ReportSubscribers}

// Source is the data the generators read.
type Source interface {
	ListPackages(ctx context.Context, agencyID int) ([]models.AgencyPackage, error)
	ListEmployees(ctx context.Context, agencyID int) ([]models.Employee, error)
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// Sink stores generated reports.
type Sink interface {
	CreateReport(ctx context.Context, r models.Report) (models.Report, error)
}

type Generator struct {
	source Source
	sink   Sink
	now    func() time.Time
}

func NewGenerator(source Source, sink Sink) *Generator {
	return &Generator{source: source, sink: sink, now: time.Now}
}

// Generate builds the CSV for kind and stores it as a ready report.
func (g *Generator) Generate(ctx context.Context, agencyID int, kind string) (models.Report, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	content, rows, err := g.render(ctx, agencyID, kind)
	if err != nil {
		return models.Report{}, err
	}

	report, err := g.sink.CreateReport(ctx, models.Report{
		AgencyID: agencyID,
		Name:     fmt.Sprintf("%s-%s", kind, g.now().UTC().Format("20060102-150405")),
		Kind:     kind,
		Format:   "csv",
		Status:   models.ReportReady,
		Rows:     rows,
		Content:  content,
	})
	if err != nil {
		return models.Report{}, fmt.Errorf("save report: %w", err)
	}
	log.Info().Int("agency_id", agencyID).Str("kind", kind).Int("rows", rows).Msg("report generated")
	return report, nil
}

func (g *Generator) render(ctx context.Context, agencyID int, kind string) (string, int, error) {
	var (
		header  []string
		records [][]string
	)
	switch kind {
	case models.ReportPackages:
		pkgs, err := g.source.ListPackages(ctx, agencyID)
		if err != nil {
			return "", 0, fmt.Errorf("list packages: %w", err)
		}
		header = []string{"id", "title", "destination", "category", "duration_days", "price", "currency", "status", "updated_at"}
		for _, p := range pkgs {
			records = append(records, []string{
				strconv.Itoa(p.ID), p.Title, p.Destination, p.Category,
				strconv.Itoa(p.DurationDays),
				strconv.FormatFloat(p.Price, 'f', 2, 64),
				p.Currency, p.Status, p.UpdatedAt.Format(time.RFC3339),
			})
		}
	case models.ReportEmployees:
		emps, err := g.source.ListEmployees(ctx, agencyID)
		if err != nil {
			return "", 0, fmt.Errorf("list employees: %w", err)
		}
		header = []string{"id", "name", "email", "phone", "role", "status", "created_at"}
		for _, e := range emps {
			records = append(records, []string{
				strconv.Itoa(e.ID), e.Name, e.Email, e.Phone, e.Role.String(), e.Status,
				e.CreatedAt.Format(time.RFC3339),
			})
		}
	case models.ReportSubscribers:
		subs, err := g.source.ListSubscribers(ctx)
		if err != nil {
			return "", 0, fmt.Errorf("list subscribers: %w", err)
		}
		header = []string{"id", "email", "created_at"}
		for _, s := range subs {
			records = append(records, []string{strconv.Itoa(s.ID), s.Email, s.CreatedAt.Format(time.RFC3339)})
		}
	default:
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	content, err := writeCSV(header, records)
	if err != nil {
		return "", 0, err
	}
	return content, len(records), nil
}

func writeCSV(header []string, records [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return buf.String(), nil
}

// Filename is the download name for a stored report.
func Filename(r models.Report) string {
	format := r.Format
	if format == "" {
		format = "csv"
	}
	return r.Name + "." + format
}
