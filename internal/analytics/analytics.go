// Package analytics builds the dashboard summary cards and chart series.
package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

// Counter is the set of store counts the summary needs.
type Counter interface {
	CountPackages(ctx context.Context, agencyID int, status string) (int, error)
	CountEmployees(ctx context.Context, agencyID int) (int, error)
	CountSubscribers(ctx context.Context) (int, error)
	CountReports(ctx context.Context, agencyID int) (int, error)
}

// Series supplies the monthly chart data.
type Series interface {
	Analytics() []models.MonthlyPoint
}

type Summary struct {
	Packages     int                   `json:"packages"`
	Published    int                   `json:"published"`
	Employees    int                   `json:"employees"`
	Subscribers  int                   `json:"subscribers"`
	Reports      int                   `json:"reports"`
	Monthly      []models.MonthlyPoint `json:"monthly"`
	TotalRevenue float64               `json:"total_revenue"`
	TotalBooking int                   `json:"total_bookings"`
	// MaxRevenue scales the bar chart.
	MaxRevenue float64 `json:"max_revenue"`
}

// BarPercent is the height of a revenue bar relative to the largest month.
func (s Summary) BarPercent(p models.MonthlyPoint) int {
	if s.MaxRevenue <= 0 {
		return 0
	}
	return int(p.Revenue / s.MaxRevenue * 100)
}

type Service struct {
	counts Counter
	series Series
}

func NewService(counts Counter, series Series) *Service {
	return &Service{counts: counts, series: series}
}

// Summary runs the counts concurrently; the first failure cancels the rest.
func (s *Service) Summary(ctx context.Context, agencyID int) (Summary, error) {
	var sum Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sum.Packages, err = s.counts.CountPackages(ctx, agencyID, "")
		return err
	})
	g.Go(func() (err error) {
		sum.Published, err = s.counts.CountPackages(ctx, agencyID, models.PackagePublished)
		return err
	})
	g.Go(func() (err error) {
		sum.Employees, err = s.counts.CountEmployees(ctx, agencyID)
		return err
	})
	g.Go(func() (err error) {
		sum.Subscribers, err = s.counts.CountSubscribers(ctx)
		return err
	})
	g.Go(func() (err error) {
		sum.Reports, err = s.counts.CountReports(ctx, agencyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("dashboard summary: %w", err)
	}

	sum.Monthly = s.series.Analytics()
	for _, p := range sum.Monthly {
		sum.TotalRevenue += p.Revenue
		sum.TotalBooking += p.Bookings
		if p.Revenue > sum.MaxRevenue {
			sum.MaxRevenue = p.Revenue
		}
	}
	return sum, nil
}
