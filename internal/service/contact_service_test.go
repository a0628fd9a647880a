package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/repository/memory"
)

func TestSubmitContactRequiresConsent(t *testing.T) {
	store := memory.NewStore()
	svc := NewContactService(store.Contacts, zerolog.Nop())
	ctx := context.Background()

	valid := ContactInput{
		Name:    "Prospect",
		Email:   "prospect@example.com",
		Service: "branding",
		Message: "We need a site.",
		Consent: true,
	}

	submission, err := svc.Submit(ctx, valid)
	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.False(t, submission.CreatedAt.IsZero())

	noConsent := valid
	noConsent.Consent = false
	_, err = svc.Submit(ctx, noConsent)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	badEmail := valid
	badEmail.Email = "nope"
	_, err = svc.Submit(ctx, badEmail)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	noMessage := valid
	noMessage.Message = "   "
	_, err = svc.Submit(ctx, noMessage)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListContactsNewestFirst(t *testing.T) {
	store := memory.NewStore()
	svc := NewContactService(store.Contacts, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Submit(ctx, ContactInput{
		Name: "First", Email: "a@b.c", Service: "web", Message: "hi", Consent: true,
	})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, ContactInput{
		Name: "Second", Email: "d@e.f", Service: "web", Message: "hi", Consent: true,
	})
	require.NoError(t, err)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}
