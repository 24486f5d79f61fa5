package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

const userColumns = "id, email, name, password_hash, role, agency_id, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u         models.User
		role      string
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.AgencyID, &createdAt); err != nil {
		return models.User{}, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// CreateUser inserts a user. Agency admins become the owner of a new agency
// whose id is their own user id.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if err := s.ready(ctx); err != nil {
		return models.User{}, err
	}
	u.Email = domain.NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.Email == "" {
		return models.User{}, invalid("email is required")
	}
	if u.PasswordHash == "" {
		return models.User{}, invalid("password is required")
	}
	if u.Role == "" {
		u.Role = domain.RoleCustomer
	}
	u.CreatedAt = s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin create user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO users (email, name, password_hash, role, agency_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		u.Email, u.Name, u.PasswordHash, string(u.Role), u.AgencyID, toMillis(u.CreatedAt),
	).Scan(&u.ID)
	if err != nil {
		return models.User{}, wrap("create user", err)
	}

	if u.AgencyID == 0 && (u.Role == domain.RoleAgencyAdmin || u.Role == domain.RoleAdmin) {
		u.AgencyID = u.ID
		if _, err := tx.ExecContext(ctx, s.q("UPDATE users SET agency_id = ? WHERE id = ?"), u.AgencyID, u.ID); err != nil {
			return models.User{}, fmt.Errorf("assign agency: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("commit create user: %w", err)
	}
	return u, nil
}

// GetUserByEmail looks a user up by normalised email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	if err := s.ready(ctx); err != nil {
		return models.User{}, err
	}
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+userColumns+" FROM users WHERE email = ?"), domain.NormalizeEmail(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	if err := s.ready(ctx); err != nil {
		return models.User{}, err
	}
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateUserPassword replaces the stored hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int, hash string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q("UPDATE users SET password_hash = ? WHERE id = ?"), hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
