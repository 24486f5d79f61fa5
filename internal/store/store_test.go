package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/pkg/database"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(db)
	fixed := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	var s *Store
	_, err := s.GetUser(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateUserAndLookup(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{Email: " Asha@Example.com ", Name: "Asha", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.Zero(t, u.AgencyID)

	got, err := s.GetUserByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = s.CreateUser(ctx, models.User{Email: "asha@example.com", Name: "Again", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAgencyAdminOwnsAgency(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{Email: "owner@agency.com", Name: "Owner", PasswordHash: "h", Role: domain.RoleAgencyAdmin})
	require.NoError(t, err)
	assert.Equal(t, u.ID, u.AgencyID)

	stored, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.AgencyID)
}

func TestUpdateUserPassword(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{Email: "kiran@example.com", Name: "Kiran", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateUserPassword(ctx, u.ID, "new"))
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)

	assert.ErrorIs(t, s.UpdateUserPassword(ctx, u.ID+100, "x"), ErrNotFound)
}

func TestPackageCRUD(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	p, err := s.CreatePackage(ctx, models.AgencyPackage{
		AgencyID:     7,
		Title:        "Kerala Backwaters",
		Destination:  "Kerala",
		DurationDays: 5,
		Price:        24999,
		Images:       []string{"/static/img/kerala-1.jpg"},
		Inclusions:   []string{"Houseboat stay", "Breakfast"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PackageDraft, p.Status)
	assert.Equal(t, "INR", p.Currency)

	p.Price = 21999
	p.Status = models.PackagePublished
	updated, err := s.UpdatePackage(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 21999.0, updated.Price)
	assert.Equal(t, []string{"Houseboat stay", "Breakfast"}, updated.Inclusions)

	// another agency cannot see it
	_, err = s.GetPackage(ctx, 8, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetPackageStatus(ctx, 7, p.ID, models.PackageDraft))
	published, err := s.CountPackages(ctx, 7, models.PackagePublished)
	require.NoError(t, err)
	assert.Zero(t, published)

	list, err := s.ListPackages(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeletePackage(ctx, 7, p.ID))
	assert.ErrorIs(t, s.DeletePackage(ctx, 7, p.ID), ErrNotFound)
}

func TestPackageValidation(t *testing.T) {
	s := openTempStore(t)
	_, err := s.CreatePackage(context.Background(), models.AgencyPackage{AgencyID: 1, Destination: "Goa", DurationDays: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "title is required", err.Error())
}

func TestEmployeeCRUD(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	e, err := s.CreateEmployee(ctx, models.Employee{AgencyID: 3, Name: "Ravi", Email: "ravi@agency.com", Role: domain.RoleAgencyUser})
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeActive, e.Status)

	_, err = s.CreateEmployee(ctx, models.Employee{AgencyID: 3, Name: "Ravi 2", Email: "RAVI@agency.com", Role: domain.RoleAgencyUser})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// same email in another agency is fine
	_, err = s.CreateEmployee(ctx, models.Employee{AgencyID: 4, Name: "Ravi", Email: "ravi@agency.com", Role: domain.RoleAgencyUser})
	require.NoError(t, err)

	e.Status = models.EmployeeInactive
	e.Role = domain.RoleAgencyAdmin
	updated, err := s.UpdateEmployee(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgencyAdmin, updated.Role)
	assert.Equal(t, models.EmployeeInactive, updated.Status)

	_, err = s.CreateEmployee(ctx, models.Employee{AgencyID: 3, Name: "X", Email: "x@agency.com", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrInvalid)

	n, err := s.CountEmployees(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.DeleteEmployee(ctx, 3, e.ID))
	_, err = s.GetEmployee(ctx, 3, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInviteLifecycle(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvite(ctx, models.Invite{AgencyID: 5, Email: "new@agency.com", Name: "Meera", Role: domain.RoleAgencyUser})
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Token)
	assert.Equal(t, models.InvitePending, inv.Status)

	resent, err := s.ResendInvite(ctx, 5, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resent.ResendCount)

	user, err := s.AcceptInvite(ctx, inv.Token, "", "hash")
	require.NoError(t, err)
	assert.Equal(t, "Meera", user.Name)
	assert.Equal(t, 5, user.AgencyID)
	assert.Equal(t, domain.RoleAgencyUser, user.Role)

	employees, err := s.ListEmployees(ctx, 5)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.NotNil(t, employees[0].UserID)
	assert.Equal(t, user.ID, *employees[0].UserID)

	_, err = s.ResendInvite(ctx, 5, inv.ID)
	assert.True(t, errors.Is(err, ErrInviteAccepted))
	_, err = s.AcceptInvite(ctx, inv.Token, "Meera", "hash")
	assert.ErrorIs(t, err, ErrInviteAccepted)

	_, err = s.AcceptInvite(ctx, "missing-token", "A", "hash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmployeeChangesReachLinkedAccount(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	inv, err := s.CreateInvite(ctx, models.Invite{AgencyID: 6, Email: "dev@agency.com", Name: "Dev", Role: domain.RoleAgencyUser})
	require.NoError(t, err)
	user, err := s.AcceptInvite(ctx, inv.Token, "", "hash")
	require.NoError(t, err)

	employees, err := s.ListEmployees(ctx, 6)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	e := employees[0]

	e.Role = domain.RoleAgencyAdmin
	_, err = s.UpdateEmployee(ctx, e)
	require.NoError(t, err)
	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgencyAdmin, got.Role)
	assert.Equal(t, 6, got.AgencyID)

	e.Status = models.EmployeeInactive
	_, err = s.UpdateEmployee(ctx, e)
	require.NoError(t, err)
	got, err = s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, got.Role)
	assert.Zero(t, got.AgencyID)

	e.Status = models.EmployeeActive
	_, err = s.UpdateEmployee(ctx, e)
	require.NoError(t, err)
	got, err = s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgencyAdmin, got.Role)

	require.NoError(t, s.DeleteEmployee(ctx, 6, e.ID))
	got, err = s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, got.Role)
	assert.Zero(t, got.AgencyID)
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	st, err := s.GetSettings(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAgencySettings(9), st)

	st.Name = "Himalayan Trails"
	st.NotifyReviews = false
	_, err = s.SaveSettings(ctx, st)
	require.NoError(t, err)

	st.Phone = "+91 11 2345 6789"
	_, err = s.SaveSettings(ctx, st)
	require.NoError(t, err)

	got, err := s.GetSettings(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Himalayan Trails", got.Name)
	assert.Equal(t, "+91 11 2345 6789", got.Phone)
	assert.False(t, got.NotifyReviews)
	assert.True(t, got.NotifyBookings)

	st.Name = ""
	_, err = s.SaveSettings(ctx, st)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestReportsAndSubscribers(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSubscriber(ctx, "a@b.com"))
	require.NoError(t, s.AddSubscriber(ctx, "A@B.com"))
	n, err := s.CountSubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r, err := s.CreateReport(ctx, models.Report{AgencyID: 2, Name: "Subscribers", Kind: models.ReportSubscribers, Status: models.ReportReady, Rows: 1, Content: "email\na@b.com\n"})
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Format)

	got, err := s.GetReport(ctx, 2, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Content, got.Content)

	list, err := s.ListReports(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.GetReport(ctx, 3, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
