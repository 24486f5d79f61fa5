package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	// ErrUnauthorized means there is no valid session; handlers redirect to /login.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// MinPasswordLength applies to registration and onboarding.
const MinPasswordLength = 6

// Claims is the JWT payload. Identity is taken from here, never from the
// user cookie.
type Claims struct {
	UserID   int         `json:"user_id"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
	AgencyID int         `json:"agency_id,omitempty"`
	jwt.RegisteredClaims
}

// User converts the claims back to a session identity.
func (c *Claims) User() domain.User {
	return domain.User{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role, AgencyID: c.AgencyID}
}

// HashPassword - bcrypt with the default cost
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword - constant-time comparison against a bcrypt hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long issued tokens stay valid.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// GenerateToken issues an HS256 token for the user.
func (m *TokenManager) GenerateToken(u domain.User) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		AgencyID: u.AgencyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken checks signature, algorithm and expiry.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, ErrUnauthorized
	}
	if _, ok := domain.ParseRole(string(claims.Role)); !ok {
		return nil, fmt.Errorf("%w: unknown role", ErrUnauthorized)
	}
	return claims, nil
}

// GetTokenFromRequest reads the token cookie, then the Authorization header.
func GetTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}
