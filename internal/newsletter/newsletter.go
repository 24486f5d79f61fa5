// Package newsletter validates and records newsletter signups.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrInvalidEmail is returned before anything is stored.
var ErrInvalidEmail = errors.New("please enter a valid email address")

// Subscriber persists a validated address.
type Subscriber interface {
	AddSubscriber(ctx context.Context, email string) error
}

type Service struct {
	subscribers Subscriber
}

func NewService(subscribers Subscriber) *Service {
	return &Service{subscribers: subscribers}
}

// ValidateEmail accepts a bare address with a dotted domain.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}

// Subscribe validates the email and stores it. Invalid input never reaches
// the subscriber store.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	normalized, err := ValidateEmail(email)
	if err != nil {
		return err
	}
	if err := s.subscribers.AddSubscriber(ctx, normalized); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

// Form is the view state of the signup form.
type Form struct {
	Email   string
	Error   string
	Success bool
}

// Submit runs the signup and returns the next form state: on success the
// input is cleared, on failure it is kept with a message.
func (s *Service) Submit(ctx context.Context, email string) Form {
	err := s.Subscribe(ctx, email)
	switch {
	case err == nil:
		return Form{Success: true}
	case errors.Is(err, ErrInvalidEmail):
		return Form{Email: email, Error: ErrInvalidEmail.Error()}
	default:
		return Form{Email: email, Error: "Something went wrong. Please try again."}
	}
}
