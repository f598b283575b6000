package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
)

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

const (
	surveyCodeLength   = 6
	surveyCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	maxCodeAttempts    = 5
)

// Texts a new survey shows after submission until an admin changes them.
const (
	DefaultThankYouTitle   = "Obrigado pela sua participação!"
	DefaultThankYouMessage = "Suas respostas foram registradas com sucesso. Elas são anônimas e confidenciais, e contribuirão para melhorar o ambiente de trabalho."
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

type CreateSurveyParams struct {
	CompanyName string
	AdminCode   string
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrSurveyCodeConflict is returned when every generated public code collided
// with an existing survey.
var ErrSurveyCodeConflict = errors.New("store: could not allocate a unique survey code")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// GenerateSurveyCode returns a random six-character [a-z0-9] public code.
func GenerateSurveyCode() (string, error) {
	var sb strings.Builder
	limit := big.NewInt(int64(len(surveyCodeAlphabet)))
	for i := 0; i < surveyCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("store: generate survey code: %w", err)
		}
		sb.WriteByte(surveyCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// CreateSurvey inserts a new active survey under a freshly generated public
// code. A code collision is retried with a new code; after maxCodeAttempts
// collisions ErrSurveyCodeConflict is returned.
func (s *Store) CreateSurvey(ctx context.Context, p CreateSurveyParams) (db.Survey, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return db.Survey{}, err
		}

		survey, err := s.q.CreateSurvey(ctx, db.CreateSurveyParams{
			ID:              uuid.New(),
			Code:            code,
			CompanyName:     p.CompanyName,
			AdminCode:       p.AdminCode,
			ThankYouTitle:   DefaultThankYouTitle,
			ThankYouMessage: DefaultThankYouMessage,
			IsActive:        true,
			CreatedAt:       s.now(),
		})
		if err == nil {
			return survey, nil
		}
		if !db.IsUniqueViolation(err) {
			return db.Survey{}, fmt.Errorf("CreateSurvey: %w", err)
		}
	}
	return db.Survey{}, ErrSurveyCodeConflict
}

// SeedRecoveryEmail registers an address allowed to receive the global admin
// code. Addresses are trimmed and lower-cased; registering one twice is a
// no-op. An empty address is ignored.
func (s *Store) SeedRecoveryEmail(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return nil
	}
	if err := s.q.CreateRecoveryEmail(ctx, db.CreateRecoveryEmailParams{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("SeedRecoveryEmail: %w", err)
	}
	return nil
}

// NormalizeEmail is the canonical form recovery addresses are stored and
// looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
