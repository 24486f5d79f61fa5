package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

// ErrInviteAccepted is returned when an accepted invite is resent or reused.
var ErrInviteAccepted = errors.New("invite already accepted")

const inviteColumns = "id, agency_id, email, name, role, token, status, sent_at, resend_count, created_at"

func scanInvite(row rowScanner) (models.Invite, error) {
	var (
		inv               models.Invite
		role              string
		sentAt, createdAt int64
	)
	err := row.Scan(&inv.ID, &inv.AgencyID, &inv.Email, &inv.Name, &role, &inv.Token, &inv.Status,
		&sentAt, &inv.ResendCount, &createdAt)
	if err != nil {
		return models.Invite{}, err
	}
	inv.Role = domain.Role(role)
	inv.SentAt = fromMillis(sentAt)
	inv.CreatedAt = fromMillis(createdAt)
	return inv, nil
}

// CreateInvite records a pending invite with a fresh random token.
func (s *Store) CreateInvite(ctx context.Context, inv models.Invite) (models.Invite, error) {
	if err := s.ready(ctx); err != nil {
		return models.Invite{}, err
	}
	inv.Email = domain.NormalizeEmail(inv.Email)
	inv.Name = strings.TrimSpace(inv.Name)
	if inv.Email == "" {
		return models.Invite{}, invalid("email is required")
	}
	if inv.Role != domain.RoleAgencyAdmin && inv.Role != domain.RoleAgencyUser {
		return models.Invite{}, invalid("role must be AGENCY_ADMIN or AGENCY_USER")
	}
	inv.Token = uuid.NewString()
	inv.Status = models.InvitePending
	inv.CreatedAt = s.now()
	inv.SentAt = inv.CreatedAt
	inv.ResendCount = 0

	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO invites (agency_id, email, name, role, token, status, sent_at, resend_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		inv.AgencyID, inv.Email, inv.Name, string(inv.Role), inv.Token, inv.Status,
		toMillis(inv.SentAt), inv.ResendCount, toMillis(inv.CreatedAt),
	).Scan(&inv.ID)
	if err != nil {
		return models.Invite{}, wrap("create invite", err)
	}
	return inv, nil
}

func (s *Store) GetInvite(ctx context.Context, agencyID, id int) (models.Invite, error) {
	if err := s.ready(ctx); err != nil {
		return models.Invite{}, err
	}
	row := s.db.QueryRowContext(ctx,
		s.q("SELECT "+inviteColumns+" FROM invites WHERE id = ? AND agency_id = ?"), id, agencyID)
	inv, err := scanInvite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invite{}, ErrNotFound
	}
	if err != nil {
		return models.Invite{}, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

func (s *Store) GetInviteByToken(ctx context.Context, token string) (models.Invite, error) {
	if err := s.ready(ctx); err != nil {
		return models.Invite{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Invite{}, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+inviteColumns+" FROM invites WHERE token = ?"), token)
	inv, err := scanInvite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invite{}, ErrNotFound
	}
	if err != nil {
		return models.Invite{}, fmt.Errorf("get invite by token: %w", err)
	}
	return inv, nil
}

// ListInvites returns an agency's invites, newest first.
func (s *Store) ListInvites(ctx context.Context, agencyID int) ([]models.Invite, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+inviteColumns+" FROM invites WHERE agency_id = ? ORDER BY id DESC"), agencyID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var invites []models.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// ResendInvite bumps sent_at and the resend counter of a pending invite.
func (s *Store) ResendInvite(ctx context.Context, agencyID, id int) (models.Invite, error) {
	inv, err := s.GetInvite(ctx, agencyID, id)
	if err != nil {
		return models.Invite{}, err
	}
	if inv.Status == models.InviteAccepted {
		return models.Invite{}, ErrInviteAccepted
	}
	inv.SentAt = s.now()
	inv.ResendCount++
	_, err = s.db.ExecContext(ctx,
		s.q("UPDATE invites SET sent_at = ?, resend_count = ? WHERE id = ? AND agency_id = ?"),
		toMillis(inv.SentAt), inv.ResendCount, id, agencyID,
	)
	if err != nil {
		return models.Invite{}, fmt.Errorf("resend invite: %w", err)
	}
	return inv, nil
}

// AcceptInvite onboards the invitee: it creates the user account and the
// employee row and marks the invite accepted, all in one transaction.
func (s *Store) AcceptInvite(ctx context.Context, token, name, passwordHash string) (models.User, error) {
	inv, err := s.GetInviteByToken(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if inv.Status == models.InviteAccepted {
		return models.User{}, ErrInviteAccepted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = inv.Name
	}
	if name == "" {
		return models.User{}, invalid("name is required")
	}
	if passwordHash == "" {
		return models.User{}, invalid("password is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin accept invite: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	user := models.User{
		Email:        inv.Email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         inv.Role,
		AgencyID:     inv.AgencyID,
		CreatedAt:    now,
	}
	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO users (email, name, password_hash, role, agency_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		user.Email, user.Name, user.PasswordHash, string(user.Role), user.AgencyID, toMillis(now),
	).Scan(&user.ID)
	if err != nil {
		return models.User{}, wrap("create invited user", err)
	}

	res, err := tx.ExecContext(ctx,
		s.q("UPDATE employees SET user_id = ?, name = ?, role = ? WHERE agency_id = ? AND email = ?"),
		user.ID, user.Name, string(user.Role), inv.AgencyID, inv.Email,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("link employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO employees (agency_id, user_id, name, email, phone, role, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			inv.AgencyID, user.ID, user.Name, user.Email, "", string(user.Role), models.EmployeeActive, toMillis(now),
		)
		if err != nil {
			return models.User{}, wrap("create employee", err)
		}
	}

	if _, err := tx.ExecContext(ctx, s.q("UPDATE invites SET status = ? WHERE id = ?"), models.InviteAccepted, inv.ID); err != nil {
		return models.User{}, fmt.Errorf("mark invite accepted: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("commit accept invite: %w", err)
	}
	return user, nil
}
