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

// GetSettings returns the saved settings, or the defaults when the agency
// has never saved any.
func (s *Store) GetSettings(ctx context.Context, agencyID int) (models.AgencySettings, error) {
	if err := s.ready(ctx); err != nil {
		return models.AgencySettings{}, err
	}
	var (
		st        models.AgencySettings
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT agency_id, name, email, phone, address, website, description, currency, timezone,
		       notify_bookings, notify_reviews, notify_newsletter, updated_at
		FROM agency_settings WHERE agency_id = ?`), agencyID,
	).Scan(&st.AgencyID, &st.Name, &st.Email, &st.Phone, &st.Address, &st.Website, &st.Description,
		&st.Currency, &st.Timezone, &st.NotifyBookings, &st.NotifyReviews, &st.NotifyNewsletter, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultAgencySettings(agencyID), nil
	}
	if err != nil {
		return models.AgencySettings{}, fmt.Errorf("get settings: %w", err)
	}
	st.UpdatedAt = fromMillis(updatedAt)
	return st, nil
}

// SaveSettings upserts the agency's settings row.
func (s *Store) SaveSettings(ctx context.Context, st models.AgencySettings) (models.AgencySettings, error) {
	if err := s.ready(ctx); err != nil {
		return models.AgencySettings{}, err
	}
	st.Name = strings.TrimSpace(st.Name)
	st.Email = domain.NormalizeEmail(st.Email)
	if st.Name == "" {
		return models.AgencySettings{}, invalid("agency name is required")
	}
	if st.Email == "" {
		return models.AgencySettings{}, invalid("agency email is required")
	}
	if st.Currency == "" {
		st.Currency = "INR"
	}
	if st.Timezone == "" {
		st.Timezone = "UTC"
	}
	st.UpdatedAt = s.now()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO agency_settings (agency_id, name, email, phone, address, website, description, currency,
		                             timezone, notify_bookings, notify_reviews, notify_newsletter, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (agency_id) DO UPDATE SET
		    name = excluded.name, email = excluded.email, phone = excluded.phone,
		    address = excluded.address, website = excluded.website, description = excluded.description,
		    currency = excluded.currency, timezone = excluded.timezone,
		    notify_bookings = excluded.notify_bookings, notify_reviews = excluded.notify_reviews,
		    notify_newsletter = excluded.notify_newsletter, updated_at = excluded.updated_at`),
		st.AgencyID, st.Name, st.Email, st.Phone, st.Address, st.Website, st.Description, st.Currency,
		st.Timezone, st.NotifyBookings, st.NotifyReviews, st.NotifyNewsletter, toMillis(st.UpdatedAt),
	)
	if err != nil {
		return models.AgencySettings{}, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}
