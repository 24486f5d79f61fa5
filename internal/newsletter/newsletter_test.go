package newsletter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	calls []string
	err   error
}

func (r *recordingSubscriber) AddSubscriber(_ context.Context, email string) error {
	r.calls = append(r.calls, email)
	return r.err
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "Traveller.One@Example.com", " spaced@example.in "}
	for _, email := range valid {
		_, err := ValidateEmail(email)
		assert.NoError(t, err, email)
	}

	invalid := []string{"", "plain", "a@b", "a@.com", "a@b.", "Name <a@b.com>", "a b@c.com", "@example.com"}
	for _, email := range invalid {
		_, err := ValidateEmail(email)
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}
}

func TestSubmitInvalidEmailDoesNotCallStore(t *testing.T) {
	sub := &recordingSubscriber{}
	svc := NewService(sub)

	form := svc.Submit(context.Background(), "not-an-email")

	assert.False(t, form.Success)
	assert.Equal(t, ErrInvalidEmail.Error(), form.Error)
	assert.Equal(t, "not-an-email", form.Email)
	assert.Empty(t, sub.calls)
}

func TestSubmitValidEmailResetsInput(t *testing.T) {
	sub := &recordingSubscriber{}
	svc := NewService(sub)

	form := svc.Submit(context.Background(), "Explorer@Example.com")

	assert.True(t, form.Success)
	assert.Empty(t, form.Email)
	assert.Empty(t, form.Error)
	require.Len(t, sub.calls, 1)
	assert.Equal(t, "explorer@example.com", sub.calls[0])
}

func TestSubmitStoreFailureKeepsInput(t *testing.T) {
	sub := &recordingSubscriber{err: errors.New("db down")}
	svc := NewService(sub)

	form := svc.Submit(context.Background(), "a@b.com")
	assert.False(t, form.Success)
	assert.Equal(t, "a@b.com", form.Email)
	assert.NotEmpty(t, form.Error)

	err := svc.Subscribe(context.Background(), "a@b.com")
	assert.ErrorContains(t, err, "db down")
}
