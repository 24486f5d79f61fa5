package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

// Cookie names shared with the browser.
const (
	TokenCookie = "token"
	UserCookie  = "user"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Authenticator checks credentials and creates accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, in RegisterInput) (domain.User, error)
}

// UserStore is the part of the store the store-backed authenticator needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}

// StoreAuthenticator verifies bcrypt hashes in the users table.
type StoreAuthenticator struct {
	users UserStore
}

func NewStoreAuthenticator(users UserStore) *StoreAuthenticator {
	return &StoreAuthenticator{users: users}
}

func (a *StoreAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.User{}, ErrMissingCredentials
	}
	u, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPassword(password, u.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return u.Identity(), nil
}

func (a *StoreAuthenticator) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := in.validate(); err != nil {
		return domain.User{}, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := a.users.CreateUser(ctx, models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrEmailTaken
	}
	if err != nil {
		return domain.User{}, err
	}
	return u.Identity(), nil
}

func (in *RegisterInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return &store.ValidationError{Message: "name, email and password are required"}
	}
	if !strings.Contains(in.Email, "@") {
		return &store.ValidationError{Message: "please enter a valid email address"}
	}
	if len(in.Password) < MinPasswordLength {
		return &store.ValidationError{Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	// self sign-up may create customers or new agencies, never platform admins
	switch in.Role {
	case "":
		in.Role = domain.RoleCustomer
	case domain.RoleCustomer, domain.RoleAgencyAdmin:
	default:
		return &store.ValidationError{Message: "this role cannot be chosen at sign-up"}
	}
	return nil
}

// DemoAuthenticator accepts any non-empty credentials after a short delay
// and returns a fixed customer identity. Demo sign-ups keep the chosen role.
type DemoAuthenticator struct {
	delay time.Duration
}

func NewDemoAuthenticator(delay time.Duration) *DemoAuthenticator {
	return &DemoAuthenticator{delay: delay}
}

func (a *DemoAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.User{}, ErrMissingCredentials
	}
	if err := a.wait(ctx); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: 1, Email: domain.NormalizeEmail(email), Name: "Demo User", Role: domain.RoleCustomer}, nil
}

func (a *DemoAuthenticator) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := in.validate(); err != nil {
		return domain.User{}, err
	}
	if err := a.wait(ctx); err != nil {
		return domain.User{}, err
	}
	u := domain.User{ID: 1, Email: in.Email, Name: in.Name, Role: in.Role}
	if u.Role.IsAgency() {
		// every demo agency shares one id so the dashboard opens
		u.AgencyID = 1
	}
	return u, nil
}

func (a *DemoAuthenticator) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// UserLookup reloads an account by id.
type UserLookup interface {
	GetUser(ctx context.Context, id int) (models.User, error)
}

// Session issues and reads the token and user cookies.
type Session struct {
	auth   Authenticator
	tokens *TokenManager
	secure bool
	users  UserLookup
}

func NewSession(auth Authenticator, tokens *TokenManager, secure bool) *Session {
	return &Session{auth: auth, tokens: tokens, secure: secure}
}

// RefreshFrom makes Restore reload the role and agency from users on every
// request, so demotions and removals apply to tokens already issued.
func (s *Session) RefreshFrom(users UserLookup) *Session {
	s.users = users
	return s
}

// Login verifies the credentials and writes both cookies.
func (s *Session) Login(ctx context.Context, w http.ResponseWriter, email, password string) (domain.User, error) {
	u, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.issue(w, u); err != nil {
		return domain.User{}, err
	}
	log.Info().Int("user_id", u.ID).Str("role", u.Role.String()).Msg("user logged in")
	return u, nil
}

// Register creates the account and signs it in.
func (s *Session) Register(ctx context.Context, w http.ResponseWriter, in RegisterInput) (domain.User, error) {
	u, err := s.auth.Register(ctx, in)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.issue(w, u); err != nil {
		return domain.User{}, err
	}
	log.Info().Int("user_id", u.ID).Str("role", u.Role.String()).Msg("user registered")
	return u, nil
}

// Start signs in an identity that was authenticated elsewhere, such as an
// accepted invite.
func (s *Session) Start(w http.ResponseWriter, u domain.User) error {
	return s.issue(w, u)
}

func (s *Session) issue(w http.ResponseWriter, u domain.User) error {
	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	encoded, err := EncodeUser(u)
	if err != nil {
		return err
	}
	maxAge := int(s.tokens.TTL().Seconds())
	http.SetCookie(w, s.cookie(TokenCookie, token, maxAge, true))
	// the user cookie is readable by scripts and only caches display data
	http.SetCookie(w, s.cookie(UserCookie, encoded, maxAge, false))
	return nil
}

// Logout expires both cookies.
func (s *Session) Logout(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(TokenCookie, "", -1, true))
	http.SetCookie(w, s.cookie(UserCookie, "", -1, false))
}

// Restore rebuilds the identity from the token. With a UserLookup the stored
// account wins; otherwise the user cookie is used only when it agrees with
// the verified claims.
func (s *Session) Restore(r *http.Request) (domain.User, error) {
	raw := GetTokenFromRequest(r)
	if raw == "" {
		return domain.User{}, ErrUnauthorized
	}
	claims, err := s.tokens.ValidateToken(raw)
	if err != nil {
		return domain.User{}, err
	}
	u := claims.User()

	if s.users != nil {
		stored, err := s.users.GetUser(r.Context(), u.ID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthorized
		}
		if err != nil {
			return domain.User{}, fmt.Errorf("reload session user: %w", err)
		}
		return stored.Identity(), nil
	}

	if c, err := r.Cookie(UserCookie); err == nil {
		cached, err := DecodeUser(c.Value)
		if err == nil && cached.ID == u.ID && cached.Role == u.Role && cached.Email == u.Email {
			u.Name = cached.Name
		}
	}
	return u, nil
}

func (s *Session) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// EncodeUser serialises the identity for the user cookie.
func EncodeUser(u domain.User) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func DecodeUser(value string) (domain.User, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

type ctxKey struct{}

// WithUser stores the restored identity on the request context.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the identity set by WithUser.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(domain.User)
	return u, ok
}
