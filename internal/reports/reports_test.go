package reports

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

type fakeSource struct {
	packages  []models.AgencyPackage
	employees []models.Employee
	err       error
}

func (f *fakeSource) ListPackages(context.Context, int) ([]models.AgencyPackage, error) {
	return f.packages, f.err
}

func (f *fakeSource) ListEmployees(context.Context, int) ([]models.Employee, error) {
	return f.employees, f.err
}

func (f *fakeSource) ListSubscribers(context.Context) ([]models.Subscriber, error) {
	return []models.Subscriber{{ID: 1, Email: "a@b.co"}}, f.err
}

type fakeSink struct {
	saved []models.Report
}

func (f *fakeSink) CreateReport(_ context.Context, r models.Report) (models.Report, error) {
	r.ID = len(f.saved) + 1
	f.saved = append(f.saved, r)
	return r, nil
}

func newTestGenerator(src *fakeSource, sink *fakeSink) *Generator {
	g := NewGenerator(src, sink)
	g.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return g
}

func TestGeneratePackagesCSV(t *testing.T) {
	src := &fakeSource{packages: []models.AgencyPackage{
		{ID: 4, Title: "Goa, Beaches & More", Destination: "Goa", Category: "Beach", DurationDays: 4, Price: 14999, Currency: "INR", Status: models.PackagePublished},
	}}
	sink := &fakeSink{}

	report, err := newTestGenerator(src, sink).Generate(context.Background(), 9, " Packages ")
	require.NoError(t, err)
	assert.Equal(t, "packages-20260301-093000", report.Name)
	assert.Equal(t, "packages-20260301-093000.csv", Filename(report))
	assert.Equal(t, 1, report.Rows)
	assert.Equal(t, models.ReportReady, report.Status)
	assert.Equal(t, 9, report.AgencyID)

	rows, err := csv.NewReader(strings.NewReader(report.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "title", rows[0][1])
	assert.Equal(t, "Goa, Beaches & More", rows[1][1])
	assert.Equal(t, "14999.00", rows[1][5])
}

func TestGenerateEmployeesAndSubscribers(t *testing.T) {
	src := &fakeSource{employees: []models.Employee{{ID: 1, Name: "Meera", Email: "m@x.in", Role: domain.RoleAgencyUser, Status: models.EmployeeActive}}}
	g := newTestGenerator(src, &fakeSink{})

	report, err := g.Generate(context.Background(), 1, models.ReportEmployees)
	require.NoError(t, err)
	assert.Contains(t, report.Content, "AGENCY_USER")

	report, err = g.Generate(context.Background(), 1, models.ReportSubscribers)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Rows)
}

func TestGenerateErrors(t *testing.T) {
	sink := &fakeSink{}
	_, err := newTestGenerator(&fakeSource{}, sink).Generate(context.Background(), 1, "bookings")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = newTestGenerator(&fakeSource{err: errors.New("boom")}, sink).Generate(context.Background(), 1, models.ReportPackages)
	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, sink.saved)
}

func TestGenerateEmptyListStillHasHeader(t *testing.T) {
	report, err := newTestGenerator(&fakeSource{}, &fakeSink{}).Generate(context.Background(), 1, models.ReportPackages)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Rows)
	assert.True(t, strings.HasPrefix(report.Content, "id,title"))
}
