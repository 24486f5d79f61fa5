package store

import (
	"context"
	"fmt"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

// AddSubscriber stores a newsletter signup. Re-subscribing is a no-op.
func (s *Store) AddSubscriber(ctx context.Context, email string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	email = domain.NormalizeEmail(email)
	if email == "" {
		return invalid("email is required")
	}
	_, err := s.db.ExecContext(ctx,
		s.q("INSERT INTO subscribers (email, created_at) VALUES (?, ?) ON CONFLICT (email) DO NOTHING"),
		email, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}
	return nil
}

// ListSubscribers returns every signup, oldest first.
func (s *Store) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, email, created_at FROM subscribers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []models.Subscriber
	for rows.Next() {
		var (
			sub       models.Subscriber
			createdAt int64
		)
		if err := rows.Scan(&sub.ID, &sub.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		sub.CreatedAt = fromMillis(createdAt)
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}

func (s *Store) CountSubscribers(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM subscribers").Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}
