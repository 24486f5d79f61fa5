package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

type memUsers struct {
	byEmail map[string]models.User
	nextID  int
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]models.User{}}
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := m.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) CreateUser(_ context.Context, u models.User) (models.User, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return models.User{}, store.ErrAlreadyExists
	}
	m.nextID++
	u.ID = m.nextID
	if u.Role == domain.RoleAgencyAdmin {
		u.AgencyID = u.ID
	}
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memUsers) GetUser(_ context.Context, id int) (models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	u := domain.User{ID: 7, Email: "a@b.co", Name: "Asha", Role: domain.RoleAgencyAdmin, AgencyID: 7}

	token, err := tm.GenerateToken(u)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u, claims.User())
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	tm := NewTokenManager("one", time.Minute)
	token, err := tm.GenerateToken(domain.User{ID: 1, Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetTokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", GetTokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", GetTokenFromRequest(r))
}

// carry copies Set-Cookie headers from a response onto a new request.
func carry(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			continue
		}
		r.AddCookie(c)
	}
	return r
}

func TestStoreLoginRestoreLogout(t *testing.T) {
	users := newMemUsers()
	session := NewSession(NewStoreAuthenticator(users), NewTokenManager("s", time.Hour), false)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	created, err := session.Register(ctx, rec, RegisterInput{Name: "Ravi", Email: "Ravi@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, created.Role)
	assert.Equal(t, "ravi@example.com", created.Email)

	rec = httptest.NewRecorder()
	_, err = session.Login(ctx, rec, "ravi@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	u, err := session.Login(ctx, rec, "ravi@example.com", "secret1")
	require.NoError(t, err)

	restored, err := session.Restore(carry(t, rec))
	require.NoError(t, err)
	assert.Equal(t, u, restored)

	out := httptest.NewRecorder()
	session.Logout(out)
	cookies := out.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Empty(t, c.Value, c.Name)
		assert.Negative(t, c.MaxAge, c.Name)
	}

	_, err = session.Restore(carry(t, out))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterDuplicateAndValidation(t *testing.T) {
	session := NewSession(NewStoreAuthenticator(newMemUsers()), NewTokenManager("s", time.Hour), false)
	ctx := context.Background()

	_, err := session.Register(ctx, httptest.NewRecorder(), RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1", Role: domain.RoleAgencyAdmin})
	require.NoError(t, err)

	_, err = session.Register(ctx, httptest.NewRecorder(), RegisterInput{Name: "B", Email: "A@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = session.Register(ctx, httptest.NewRecorder(), RegisterInput{Name: "C", Email: "c@b.co", Password: "123"})
	assert.ErrorContains(t, err, "at least")

	_, err = session.Register(ctx, httptest.NewRecorder(), RegisterInput{Name: "D", Email: "d@b.co", Password: "secret1", Role: domain.RoleAdmin})
	assert.Error(t, err)
}

func TestRestoreIgnoresTamperedUserCookie(t *testing.T) {
	tm := NewTokenManager("s", time.Hour)
	session := NewSession(NewDemoAuthenticator(0), tm, false)

	rec := httptest.NewRecorder()
	_, err := session.Login(context.Background(), rec, "guest@example.com", "x")
	require.NoError(t, err)

	forged, err := EncodeUser(domain.User{ID: 1, Email: "guest@example.com", Name: "Root", Role: domain.RoleAdmin, AgencyID: 99})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == TokenCookie {
			r.AddCookie(c)
		}
	}
	r.AddCookie(&http.Cookie{Name: UserCookie, Value: forged})

	u, err := session.Restore(r)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.Equal(t, 0, u.AgencyID)
	assert.Equal(t, "Demo User", u.Name)
}

func TestDemoAuthenticator(t *testing.T) {
	demo := NewDemoAuthenticator(time.Hour)

	_, err := demo.Authenticate(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = demo.Authenticate(ctx, "a@b.co", "pw")
	assert.ErrorIs(t, err, context.Canceled)

	u, err := NewDemoAuthenticator(0).Authenticate(context.Background(), "A@B.co", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", u.Email)
	assert.Equal(t, domain.RoleCustomer, u.Role)
}

func TestDemoRegisterAgencyGetsAgencyID(t *testing.T) {
	demo := NewDemoAuthenticator(0)

	u, err := demo.Register(context.Background(), RegisterInput{Name: "Coastal", Email: "hi@coastal.in", Password: "secret1", Role: domain.RoleAgencyAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgencyAdmin, u.Role)
	assert.Equal(t, 1, u.AgencyID)

	c, err := demo.Register(context.Background(), RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Zero(t, c.AgencyID)
}

func TestRestoreReloadsStoredRole(t *testing.T) {
	users := newMemUsers()
	session := NewSession(NewStoreAuthenticator(users), NewTokenManager("s", time.Hour), false).RefreshFrom(users)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	staff, err := session.Register(ctx, rec, RegisterInput{Name: "Owner", Email: "owner@agency.com", Password: "secret1", Role: domain.RoleAgencyAdmin})
	require.NoError(t, err)
	r := carry(t, rec)

	restored, err := session.Restore(r)
	require.NoError(t, err)
	assert.Equal(t, staff, restored)

	demoted := users.byEmail["owner@agency.com"]
	demoted.Role, demoted.AgencyID = domain.RoleCustomer, 0
	users.byEmail["owner@agency.com"] = demoted

	restored, err = session.Restore(r)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, restored.Role)
	assert.Zero(t, restored.AgencyID)

	delete(users.byEmail, "owner@agency.com")
	_, err = session.Restore(r)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), domain.User{ID: 3})
	u, ok := UserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, 3, u.ID)
}
