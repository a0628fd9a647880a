package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/ids"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository"
)

// ContactService records contact form submissions and exposes them to admins.
type ContactService struct {
	contacts repository.ContactStore
	log      zerolog.Logger
}

func NewContactService(contacts repository.ContactStore, log zerolog.Logger) *ContactService {
	return &ContactService{contacts: contacts, log: log}
}

type ContactInput struct {
	Name    string
	Email   string
	Company *string
	Service string
	Message string
	Consent bool
}

func (s *ContactService) Submit(ctx context.Context, input ContactInput) (models.ContactSubmission, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.ContactSubmission{}, apperr.Validation("name is required")
	}
	if !strings.Contains(input.Email, "@") {
		return models.ContactSubmission{}, apperr.Validation("invalid email address")
	}
	if strings.TrimSpace(input.Service) == "" {
		return models.ContactSubmission{}, apperr.Validation("service is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return models.ContactSubmission{}, apperr.Validation("message is required")
	}
	if !input.Consent {
		return models.ContactSubmission{}, apperr.Validation("consent is required")
	}

	submission := models.ContactSubmission{
		ID:        ids.New(),
		Name:      input.Name,
		Email:     input.Email,
		Company:   input.Company,
		Service:   input.Service,
		Message:   input.Message,
		Consent:   input.Consent,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.contacts.Create(ctx, submission); err != nil {
		return models.ContactSubmission{}, err
	}

	s.log.Info().Str("submission_id", submission.ID).Str("service", submission.Service).Msg("contact submission received")
	return submission, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactSubmission, error) {
	return s.contacts.List(ctx)
}
